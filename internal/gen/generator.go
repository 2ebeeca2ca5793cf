package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"go/token"
	"strings"
	"text/template"

	"typeprobe/internal/battery"
	"typeprobe/internal/match"
)

// GeneratorConfig holds configuration for code generation.
type GeneratorConfig struct {
	// PackageName is the name of the generated package.
	PackageName string
	// OutputDir is the directory where generated files are written.
	OutputDir string
	// Filename is the name of the generated file.
	Filename string
	// GenerateComments adds a comment with the type and probe above each constant.
	GenerateComments bool
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		PackageName:      "capabilities",
		OutputDir:        "./generated",
		Filename:         "capabilities_gen.go",
		GenerateComments: true,
	}
}

// Generator generates Go constants from battery results.
type Generator struct {
	config GeneratorConfig
}

// NewGenerator creates a new Generator with the given configuration.
func NewGenerator(config GeneratorConfig) *Generator {
	return &Generator{config: config}
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Filename is the name of the file (e.g., "capabilities_gen.go").
	Filename string
	// Content is the formatted Go source code.
	Content []byte
}

// Fact is one detected capability.
type Fact struct {
	Name  string // Go identifier of the constant
	Type  string
	Probe string
	Holds bool
}

// Facts derives one fact per evaluated expectation of report. Outcomes that
// failed to evaluate carry no answer and are skipped.
func Facts(f *battery.File, report *battery.Report) []Fact {
	var facts []Fact

	for _, o := range report.Outcomes {
		if o.Status == battery.StatusFailed {
			continue
		}

		base := o.Type
		if o.Case < len(f.Cases) && f.Cases[o.Case].Name != "" {
			base = f.Cases[o.Case].Name
		}

		facts = append(facts, Fact{
			Name:  match.ExportedIdent(base) + "Has" + match.ExportedIdent(o.Probe),
			Type:  o.Type,
			Probe: o.Probe,
			Holds: o.Got,
		})
	}

	return facts
}

type templateData struct {
	PackageName string
	Comments    bool
	Facts       []Fact
}

// Generate renders facts into a single file.
func (g *Generator) Generate(facts []Fact) (*GeneratedFile, error) {
	if !token.IsIdentifier(g.config.PackageName) {
		return nil, fmt.Errorf("invalid package name %q", g.config.PackageName)
	}

	filename := g.config.Filename
	if filename == "" {
		filename = DefaultGeneratorConfig().Filename
	}

	seen := make(map[string]Fact, len(facts))
	for _, fact := range facts {
		if !token.IsIdentifier(fact.Name) || !token.IsExported(fact.Name) {
			return nil, fmt.Errorf("%s %s: cannot derive an exported identifier (got %q)",
				fact.Type, fact.Probe, fact.Name)
		}

		if prev, ok := seen[fact.Name]; ok {
			return nil, fmt.Errorf("constant %s is produced by both %q and %q; give one case a name",
				fact.Name, prev.Type, fact.Type)
		}

		seen[fact.Name] = fact
	}

	data := &templateData{
		PackageName: g.config.PackageName,
		Comments:    g.config.GenerateComments,
		Facts:       facts,
	}

	var buf bytes.Buffer
	if err := factsTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		if g.config.OutputDir != "" {
			_ = writeDebugUnformatted(g.config.OutputDir, filename, buf.Bytes())
		}

		return &GeneratedFile{
			Filename: filename,
			Content:  buf.Bytes(),
		}, fmt.Errorf("formatting code: %w", err)
	}

	return &GeneratedFile{
		Filename: filename,
		Content:  formatted,
	}, nil
}

var factsTemplate = template.Must(template.New("facts").Funcs(template.FuncMap{
	"comment": func(s string) string { return strings.ReplaceAll(s, "\n", " ") },
}).Parse(`// Code generated by typeprobe. DO NOT EDIT.

package {{.PackageName}}
{{if .Facts}}
const (
{{- range .Facts}}
{{if $.Comments}}	// {{.Name}} reports whether {{comment .Type}} satisfies {{.Probe}}.
{{end}}	{{.Name}} = {{.Holds}}
{{- end}}
)
{{end}}`))
