package battery

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"slices"
	"sort"

	"typeprobe/internal/common"
	"typeprobe/internal/detect"
	"typeprobe/internal/probe"
)

// File represents the root of a YAML battery file.
type File struct {
	// Version of the battery schema (for future compatibility).
	Version string `yaml:"version,omitempty"`

	// Imports are package paths any case may reference by package name.
	Imports StringOrArray `yaml:"imports,omitempty"`

	// Probes defines custom probes in addition to the standard ones.
	Probes []ProbeDef `yaml:"probes,omitempty"`

	// Cases are the candidate types and their expected probe results.
	Cases []Case `yaml:"cases"`
}

// ProbeDef describes a custom probe. Exactly one of Field, Method or Body is set.
type ProbeDef struct {
	Name   string        `yaml:"name"`
	Doc    string        `yaml:"doc,omitempty"`
	Field  string        `yaml:"field,omitempty"`
	Method string        `yaml:"method,omitempty"`
	Args   []string      `yaml:"args,omitempty"`
	Body   StringOrArray `yaml:"body,omitempty"`
	Vet    StringOrArray `yaml:"vet,omitempty"`
}

// Build turns the definition into a probe, resolving vet analyzers in reg.
func (p ProbeDef) Build(reg *probe.Registry) (detect.Probe, error) {
	if p.Name == "" {
		return detect.Probe{}, errors.New("probe definition has no name")
	}

	set := 0
	for _, ok := range []bool{p.Field != "", p.Method != "", len(p.Body) > 0} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return detect.Probe{}, fmt.Errorf("probe %s: exactly one of field, method or body must be set", p.Name)
	}

	var built detect.Probe
	switch {
	case p.Field != "":
		built = probe.Field(p.Name, p.Field)
	case p.Method != "":
		built = probe.Method(p.Name, p.Method, p.Args...)
	default:
		built = probe.Stmts(p.Name, p.Doc, p.Body...)
	}

	if p.Doc != "" {
		built.Doc = p.Doc
	}

	for _, name := range p.Vet {
		a, err := reg.Analyzer(name)
		if err != nil {
			return detect.Probe{}, fmt.Errorf("probe %s: %w", p.Name, err)
		}
		built.Analyzers = append(built.Analyzers, a)
	}

	return built, built.Validate()
}

// Case is one candidate type with its expectations.
type Case struct {
	// Name overrides the identifier derived from Type in generated code.
	Name string `yaml:"name,omitempty"`

	// Type is a Go type expression, e.g. "container.Vector[int]" or "[10]int".
	Type string `yaml:"type"`

	// Imports are package paths this case needs in addition to the file imports.
	Imports StringOrArray `yaml:"imports,omitempty"`

	// Expect maps probe names to the expected result, in file order.
	Expect Expectations `yaml:"expect"`
}

// Expectation is one probe result a case asserts. A nil Want means the
// result is evaluated and reported but not asserted.
type Expectation struct {
	Probe string
	Want  *bool
}

// Expectations is an ordered probe -> result mapping.
type Expectations []Expectation

// Candidate builds the detection candidate for c. Case imports are always
// included; file imports only when Type references their package name.
func (f *File) Candidate(c Case) detect.Candidate {
	imports := slices.Clone([]string(c.Imports))

	used := referencedPackages(c.Type)
	for _, path := range f.Imports {
		if used[common.PkgAlias(path)] && !slices.Contains(imports, path) {
			imports = append(imports, path)
		}
	}

	return detect.Type(c.Type, imports...)
}

// ImportPaths returns every package path the battery can reference, sorted.
func (f *File) ImportPaths() []string {
	seen := make(map[string]bool)
	for _, p := range f.Imports {
		seen[p] = true
	}
	for _, c := range f.Cases {
		for _, p := range c.Imports {
			seen[p] = true
		}
	}

	paths := make([]string, 0, len(seen))
	for p := range seen {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	return paths
}

// referencedPackages returns the package names a type expression qualifies
// identifiers with. An expression that does not parse references nothing.
func referencedPackages(expr string) map[string]bool {
	used := make(map[string]bool)

	node, err := parser.ParseExpr(expr)
	if err != nil {
		return used
	}

	ast.Inspect(node, func(n ast.Node) bool {
		if sel, ok := n.(*ast.SelectorExpr); ok {
			if id, ok := sel.X.(*ast.Ident); ok {
				used[id.Name] = true
			}
		}
		return true
	})

	return used
}
