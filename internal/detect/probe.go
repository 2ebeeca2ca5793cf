package detect

import (
	"errors"
	"fmt"
	"go/parser"
	"go/token"
	"slices"
	"sort"
	"strings"

	"golang.org/x/tools/go/analysis"

	"typeprobe/internal/common"
)

// Probe is one named compile-time query about a candidate type.
type Probe struct {
	// Name identifies the probe in batteries, directives and caches.
	Name string
	// Doc is a one-line description.
	Doc string
	// Body is type-checked against v, src *T.
	Body Body
	// Analyzers must report nothing on the rendered body for the probe
	// to hold. They widen "well-formed" to "well-formed and vet-clean".
	Analyzers []*analysis.Analyzer
}

// String returns the probe name.
func (p Probe) String() string {
	return p.Name
}

// Key identifies the probe definition. Probes that share a name but differ
// in body or analyzers have different keys.
func (p Probe) Key() string {
	vet := make([]string, len(p.Analyzers))
	for i, a := range p.Analyzers {
		vet[i] = fmt.Sprintf("%s@%p", a.Name, a)
	}

	return p.Name + "\x00" + strings.Join(p.Body, "\n") + "\x00" + strings.Join(vet, ",")
}

// Validate reports definition errors: a missing name or a body that does not
// parse. A body that parses but never type-checks is valid; it holds for no type.
func (p Probe) Validate() error {
	if p.Name == "" {
		return errors.New("probe has no name")
	}

	src, err := render(p.Body, "struct{}", nil)
	if err != nil {
		return fmt.Errorf("probe %s: %w", p.Name, err)
	}

	if _, err := parser.ParseFile(token.NewFileSet(), snippetFile, src, parser.SkipObjectResolution); err != nil {
		return fmt.Errorf("probe %s: body does not parse: %w", p.Name, err)
	}

	return nil
}

// All combines probes into one that holds iff every part holds. Each part
// keeps its own scope; analyzers are merged.
func All(name string, probes ...Probe) Probe {
	combined := Probe{Name: name}

	var docs []string
	for _, p := range probes {
		combined.Body = append(combined.Body, p.Body.block())
		for _, a := range p.Analyzers {
			if !slices.Contains(combined.Analyzers, a) {
				combined.Analyzers = append(combined.Analyzers, a)
			}
		}
		docs = append(docs, p.Name)
	}
	combined.Doc = "all of: " + strings.Join(docs, ", ")

	return combined
}

// Candidate is a type expression to run probes against. Packages in Imports
// are referenced from Expr by their package name, so "typeprobe/container"
// is spelled "container.Vector[int]".
type Candidate struct {
	Expr    string
	Imports []string
}

// Type returns a Candidate for expr.
func Type(expr string, imports ...string) Candidate {
	return Candidate{Expr: expr, Imports: imports}
}

// String returns the type expression.
func (c Candidate) String() string {
	return c.Expr
}

// Key identifies the candidate for memoization. Import order does not matter.
func (c Candidate) Key() string {
	imports := slices.Clone(c.Imports)
	sort.Strings(imports)

	return strings.Join(imports, ",") + "|" + strings.TrimSpace(c.Expr)
}

// aliases returns the import specs for the candidate. nameOf resolves a path
// to its package name; when it returns "" the last path element is used.
func (c Candidate) aliases(nameOf func(path string) string) ([]importSpec, error) {
	seen := make(map[string]string, len(c.Imports))
	specs := make([]importSpec, 0, len(c.Imports))

	for _, path := range c.Imports {
		alias := ""
		if nameOf != nil {
			alias = nameOf(path)
		}
		if alias == "" {
			alias = common.PkgAlias(path)
		}
		if prev, ok := seen[alias]; ok {
			if prev == path {
				continue
			}
			return nil, fmt.Errorf("imports %q and %q both resolve to %s", prev, path, alias)
		}

		seen[alias] = path
		specs = append(specs, importSpec{Alias: alias, Path: path})
	}

	sort.Slice(specs, func(i, j int) bool { return specs[i].Path < specs[j].Path })

	return specs, nil
}
