package detect

import (
	"bytes"
	"fmt"
	"text/template"
)

const (
	// snippetPath is the import path of every synthetic probe package.
	snippetPath = "typeprobe/detect/snippet"
	// snippetFile is the file name positions in reasons refer to.
	snippetFile = "probe.go"
)

type importSpec struct {
	Alias string
	Path  string
}

var snippetTmpl = template.Must(template.New("snippet").Parse(`package snippet

import (
{{- range .Imports}}
	{{.Alias}} {{printf "%q" .Path}}
{{- end}}
)

type T = {{.Expr}}

type marker = struct{}

func probe(v, src *T) marker {
{{- range .Body}}
	{{.}}
{{- end}}
	return marker{}
}
`))

// render produces the source of the synthetic package for body against expr.
func render(body Body, expr string, imports []importSpec) (string, error) {
	var buf bytes.Buffer

	err := snippetTmpl.Execute(&buf, struct {
		Imports []importSpec
		Expr    string
		Body    Body
	}{
		Imports: imports,
		Expr:    expr,
		Body:    body,
	})
	if err != nil {
		return "", fmt.Errorf("rendering probe snippet: %w", err)
	}

	return buf.String(), nil
}
