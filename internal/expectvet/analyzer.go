// Package expectvet implements a go/analysis analyzer that checks
// //typeprobe:expect directives on type declarations.
//
// A directive lists probe names; a leading "!" expects the probe not to hold:
//
//	//typeprobe:expect reserve copy-assignable !data-field
//	type Buffer struct { ... }
//
// Generic types need concrete type arguments, given with "with=":
//
//	//typeprobe:expect value-type with=int
//	type Vector[T any] []T
//
// Each probe is evaluated against the analyzed package itself, so the answer
// is the one the compiler would give to a client importing it.
package expectvet

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"slices"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"

	"typeprobe/internal/analyze"
	"typeprobe/internal/battery"
	"typeprobe/internal/common"
	"typeprobe/internal/detect"
	"typeprobe/internal/probe"
)

// Directive is the comment prefix the analyzer reads.
const Directive = "//typeprobe:expect"

// Diagnostic categories.
const (
	CategoryMismatch  = "mismatch"
	CategoryDirective = "directive"
	CategoryFailed    = "failed"
)

// Flag binding variables, read once per run by newRunConfig.
var (
	probesPath string
	goVersion  string
)

// Analyzer checks //typeprobe:expect directives. Use it with singlechecker
// or via go vet -vettool.
var Analyzer = &analysis.Analyzer{
	Name:     "typeprobe",
	Doc:      "reports types whose //typeprobe:expect directives do not match detected capabilities",
	Run:      run,
	Requires: []*analysis.Analyzer{inspect.Analyzer},
}

func init() {
	Analyzer.Flags.StringVar(&probesPath, "probes", "",
		"battery file whose custom probes are registered before checking")
	Analyzer.Flags.StringVar(&goVersion, "go", detect.DefaultGoVersion,
		"language version probes are checked against")
}

type runConfig struct {
	probesPath string
	goVersion  string
}

func newRunConfig() runConfig {
	return runConfig{probesPath: probesPath, goVersion: goVersion}
}

// expectation is one parsed directive entry.
type expectation struct {
	probe string
	want  bool
}

// directive is a parsed //typeprobe:expect comment.
type directive struct {
	pos     token.Pos
	expects []expectation
	with    string
}

func run(pass *analysis.Pass) (any, error) {
	rc := newRunConfig()

	reg, err := registry(rc.probesPath)
	if err != nil {
		return nil, err
	}

	insp := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	var d *detect.Detector // built lazily, most packages carry no directives

	insp.Preorder([]ast.Node{(*ast.GenDecl)(nil)}, func(n ast.Node) {
		decl := n.(*ast.GenDecl)
		if decl.Tok != token.TYPE {
			return
		}

		for _, spec := range decl.Specs {
			ts := spec.(*ast.TypeSpec)

			docs := []*ast.CommentGroup{ts.Doc}
			if len(decl.Specs) == 1 {
				docs = append(docs, decl.Doc)
			}

			dirs := parseDirectives(pass, docs)
			if len(dirs) == 0 {
				continue
			}

			if d == nil {
				a := analyze.NewAnalyzer()
				a.AddPackage(pass.Pkg)
				d = detect.New(a.Graph().Universe, detect.WithGoVersion(rc.goVersion))
			}

			for _, dir := range dirs {
				checkType(pass, d, reg, ts, dir)
			}
		}
	})

	return nil, nil
}

func registry(path string) (*probe.Registry, error) {
	reg := probe.Default()
	if path == "" {
		return reg, nil
	}

	f, err := battery.LoadFile(path)
	if err != nil {
		return nil, err
	}

	if diags := battery.RegisterProbes(f, reg); diags.HasErrors() {
		return nil, fmt.Errorf("registering probes from %s: %w", path, diags.Error())
	}

	return reg, nil
}

// parseDirectives extracts every //typeprobe:expect comment from docs.
// Malformed directives are reported and skipped.
func parseDirectives(pass *analysis.Pass, docs []*ast.CommentGroup) []directive {
	var dirs []directive

	for _, cg := range docs {
		if cg == nil {
			continue
		}

		for _, c := range cg.List {
			rest, ok := strings.CutPrefix(c.Text, Directive)
			if !ok || (rest != "" && rest[0] != ' ' && rest[0] != '\t') {
				continue
			}

			dir := directive{pos: c.Pos()}
			for field := range strings.FieldsSeq(rest) {
				if w, ok := strings.CutPrefix(field, "with="); ok {
					dir.with = w
					continue
				}

				exp := expectation{probe: field, want: true}
				if name, ok := strings.CutPrefix(field, "!"); ok {
					exp = expectation{probe: name, want: false}
				}

				dir.expects = append(dir.expects, exp)
			}

			if len(dir.expects) == 0 {
				pass.Report(analysis.Diagnostic{
					Pos:      c.Pos(),
					Category: CategoryDirective,
					Message:  "typeprobe:expect directive lists no probes",
				})
				continue
			}

			dirs = append(dirs, dir)
		}
	}

	return dirs
}

func checkType(pass *analysis.Pass, d *detect.Detector, reg *probe.Registry, ts *ast.TypeSpec, dir directive) {
	obj, ok := pass.TypesInfo.Defs[ts.Name].(*types.TypeName)
	if !ok {
		return
	}

	name := pass.Pkg.Name() + "." + obj.Name()

	expr, err := candidateExpr(pass.Pkg.Name(), obj, dir.with)
	if err != nil {
		reportDirective(pass, ts, name, err)
		return
	}

	imports, err := withImports(pass.Pkg, dir.with)
	if err != nil {
		reportDirective(pass, ts, name, err)
		return
	}

	checkExpectations(pass, d, reg, ts, dir, detect.Type(expr, append(imports, pass.Pkg.Path())...))
}

func reportDirective(pass *analysis.Pass, ts *ast.TypeSpec, name string, err error) {
	pass.Report(analysis.Diagnostic{
		Pos:      ts.Name.Pos(),
		Category: CategoryDirective,
		Message:  fmt.Sprintf("%s: %v", name, err),
	})
}

func checkExpectations(pass *analysis.Pass, d *detect.Detector, reg *probe.Registry, ts *ast.TypeSpec, dir directive, c detect.Candidate) {
	name := pass.Pkg.Name() + "." + ts.Name.Name
	expr := c.Expr
	ctx := context.Background()

	for _, exp := range dir.expects {
		p, err := reg.Resolve(exp.probe)
		if err != nil {
			reportDirective(pass, ts, name, err)
			continue
		}

		res, err := d.Has(ctx, p, c)
		if err != nil {
			pass.Report(analysis.Diagnostic{
				Pos:      ts.Name.Pos(),
				Category: CategoryFailed,
				Message:  fmt.Sprintf("%s: cannot evaluate %s: %v", expr, p.Name, err),
			})
			// A bad candidate fails every probe the same way.
			return
		}

		if res.Holds == exp.want {
			continue
		}

		msg := fmt.Sprintf("%s: expected %s to hold", expr, p.Name)
		if !exp.want {
			msg = fmt.Sprintf("%s: expected %s not to hold", expr, p.Name)
		}

		if reason, ok := common.First(res.Reasons); ok {
			msg += ": " + reason
		}

		pass.Report(analysis.Diagnostic{
			Pos:      ts.Name.Pos(),
			Category: CategoryMismatch,
			Message:  msg,
		})
	}
}

// withImports returns the import paths of the packages the type arguments in
// with refer to. Only packages the analyzed package imports can be named.
func withImports(pkg *types.Package, with string) ([]string, error) {
	if with == "" {
		return nil, nil
	}

	node, err := parser.ParseExpr("_[" + with + "]")
	if err != nil {
		return nil, fmt.Errorf("with=%s is not a list of type arguments", with)
	}

	byName := make(map[string]string, len(pkg.Imports()))
	for _, imp := range pkg.Imports() {
		byName[imp.Name()] = imp.Path()
	}

	var (
		paths []string
		errs  []error
	)

	ast.Inspect(node, func(n ast.Node) bool {
		sel, ok := n.(*ast.SelectorExpr)
		if !ok {
			return true
		}

		id, ok := sel.X.(*ast.Ident)
		if !ok || id.Name == pkg.Name() {
			return true
		}

		path, ok := byName[id.Name]
		if !ok {
			errs = append(errs, fmt.Errorf("with=%s refers to package %q, which %s does not import",
				with, id.Name, pkg.Name()))
			return false
		}

		if !slices.Contains(paths, path) {
			paths = append(paths, path)
		}
		return false
	})

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return paths, nil
}

// candidateExpr renders the type expression probes are checked against.
func candidateExpr(pkgName string, obj *types.TypeName, with string) (string, error) {
	if !obj.Exported() {
		return "", errors.New("type is unexported and cannot be probed from another package")
	}

	expr := pkgName + "." + obj.Name()

	var params int
	if named, ok := obj.Type().(*types.Named); ok {
		params = named.TypeParams().Len()
	}

	switch {
	case params > 0 && with == "":
		return "", fmt.Errorf("generic type needs type arguments (add with=%s)",
			strings.TrimSuffix(strings.Repeat("int,", params), ","))
	case params == 0 && with != "":
		return "", fmt.Errorf("with=%s given for a non-generic type", with)
	case params > 0:
		return expr + "[" + with + "]", nil
	}

	return expr, nil
}
