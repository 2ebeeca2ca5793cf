package detect

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"os"
	"runtime"

	"golang.org/x/tools/go/analysis"
)

// vetRun executes analyzers over one synthetic package. Prerequisites run
// once and feed ResultOf; only diagnostics from the requested analyzers count.
type vetRun struct {
	fset    *token.FileSet
	files   []*ast.File
	src     []byte
	pkg     *types.Package
	info    *types.Info
	results map[*analysis.Analyzer]any
	wanted  map[*analysis.Analyzer]bool
	reasons []string
}

func runAnalyzers(fset *token.FileSet, file *ast.File, src []byte, pkg *types.Package, info *types.Info,
	analyzers []*analysis.Analyzer,
) ([]string, error) {
	r := &vetRun{
		fset:    fset,
		files:   []*ast.File{file},
		src:     src,
		pkg:     pkg,
		info:    info,
		results: make(map[*analysis.Analyzer]any),
		wanted:  make(map[*analysis.Analyzer]bool, len(analyzers)),
	}

	for _, a := range analyzers {
		r.wanted[a] = true
	}

	for _, a := range analyzers {
		if _, err := r.exec(a); err != nil {
			return nil, err
		}
	}

	return r.reasons, nil
}

func (r *vetRun) exec(a *analysis.Analyzer) (any, error) {
	if res, ok := r.results[a]; ok {
		return res, nil
	}

	resultOf := make(map[*analysis.Analyzer]any, len(a.Requires))
	for _, req := range a.Requires {
		res, err := r.exec(req)
		if err != nil {
			return nil, err
		}
		resultOf[req] = res
	}

	pass := &analysis.Pass{
		Analyzer:   a,
		Fset:       r.fset,
		Files:      r.files,
		Pkg:        r.pkg,
		TypesInfo:  r.info,
		TypesSizes: types.SizesFor("gc", runtime.GOARCH),
		ResultOf:   resultOf,
		Report: func(d analysis.Diagnostic) {
			if r.wanted[a] {
				r.reasons = append(r.reasons, fmt.Sprintf("%s: %s", a.Name, d.Message))
			}
		},
		ReadFile: func(filename string) ([]byte, error) {
			if filename == snippetFile {
				return r.src, nil
			}
			return nil, fmt.Errorf("%s: %w", filename, os.ErrNotExist)
		},
		// Synthetic packages have no dependents, so facts go nowhere.
		ImportObjectFact:  func(types.Object, analysis.Fact) bool { return false },
		ExportObjectFact:  func(types.Object, analysis.Fact) {},
		ImportPackageFact: func(*types.Package, analysis.Fact) bool { return false },
		ExportPackageFact: func(analysis.Fact) {},
		AllObjectFacts:    func() []analysis.ObjectFact { return nil },
		AllPackageFacts:   func() []analysis.PackageFact { return nil },
	}

	res, err := a.Run(pass)
	if err != nil {
		return nil, fmt.Errorf("analyzer %s: %w", a.Name, err)
	}

	r.results[a] = res
	return res, nil
}
