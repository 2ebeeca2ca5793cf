package detect

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"
)

// DefaultGoVersion is the language version probes are checked under.
const DefaultGoVersion = "go1.24"

// Result is the outcome of one (probe, candidate) evaluation.
type Result struct {
	Probe     string
	Candidate string
	// Holds is true iff the probe body is well-formed for the candidate.
	Holds bool
	// Reasons lists the checker and analyzer messages that made Holds false.
	Reasons []string
}

// CandidateError reports a candidate that does not denote a type. It is
// the only detection failure that is not turned into a false result.
type CandidateError struct {
	Candidate string
	Reasons   []string
}

// Error implements error.
func (e *CandidateError) Error() string {
	return fmt.Sprintf("candidate %q is not a valid type: %s", e.Candidate, strings.Join(e.Reasons, "; "))
}

// Importer resolves import paths to type-checked packages.
// *analyze.Universe satisfies it.
type Importer interface {
	types.Importer
	Has(path string) bool
}

// Option configures a Detector.
type Option func(*Detector)

// WithLogger sets the logger used for debug tracing.
func WithLogger(logger *log.Logger) Option {
	return func(d *Detector) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithGoVersion sets the language version snippets are checked under.
func WithGoVersion(version string) Option {
	return func(d *Detector) {
		if version != "" {
			d.goVersion = version
		}
	}
}

// Detector evaluates probes against candidates. Results are memoized, so
// asking the same question twice, in any order or from several goroutines,
// returns the same answer. A Detector is safe for concurrent use.
type Detector struct {
	importer  Importer
	goVersion string
	logger    *log.Logger

	mu         sync.Mutex
	results    map[string]Result
	candidates map[string]error
	flight     singleflight.Group
}

// New creates a Detector that resolves candidate imports through importer.
func New(importer Importer, opts ...Option) *Detector {
	d := &Detector{
		importer:   importer,
		goVersion:  DefaultGoVersion,
		logger:     log.New(io.Discard),
		results:    make(map[string]Result),
		candidates: make(map[string]error),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Has reports whether p holds for c. It returns an error only when c is not a
// valid type, p is not a valid probe definition, or ctx is done.
func (d *Detector) Has(ctx context.Context, p Probe, c Candidate) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("detect %s on %s: %w", p.Name, c, err)
	}

	if err := d.Check(ctx, c); err != nil {
		return Result{}, err
	}

	key := p.Key() + "\x00" + c.Key()

	d.mu.Lock()
	res, ok := d.results[key]
	d.mu.Unlock()
	if ok {
		return res, nil
	}

	v, err, _ := d.flight.Do(key, func() (any, error) {
		res, err := d.evaluate(p, c)
		if err != nil {
			return Result{}, err
		}

		d.mu.Lock()
		d.results[key] = res
		d.mu.Unlock()

		d.logger.Debug("probe evaluated", "probe", p.Name, "type", c.Expr, "holds", res.Holds)
		return res, nil
	})
	if err != nil {
		return Result{}, err
	}

	return v.(Result), nil
}

// Holds is Has without the reasons.
func (d *Detector) Holds(ctx context.Context, p Probe, c Candidate) (bool, error) {
	res, err := d.Has(ctx, p, c)
	return res.Holds, err
}

// Check verifies that c denotes a type. The answer is memoized per candidate.
func (d *Detector) Check(ctx context.Context, c Candidate) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("check %s: %w", c, err)
	}

	key := c.Key()

	d.mu.Lock()
	err, ok := d.candidates[key]
	d.mu.Unlock()
	if ok {
		return err
	}

	err = d.checkCandidate(c)

	d.mu.Lock()
	d.candidates[key] = err
	d.mu.Unlock()

	return err
}

func (d *Detector) checkCandidate(c Candidate) error {
	if strings.TrimSpace(c.Expr) == "" {
		return &CandidateError{Candidate: c.Expr, Reasons: []string{"empty type expression"}}
	}

	var missing []string
	for _, path := range c.Imports {
		if !d.importer.Has(path) {
			missing = append(missing, fmt.Sprintf("package %q was not loaded", path))
		}
	}
	if len(missing) > 0 {
		return &CandidateError{Candidate: c.Expr, Reasons: missing}
	}

	// An empty body isolates the type expression itself.
	reasons, err := d.typeCheck(Probe{Name: "candidate"}, c)
	if err != nil {
		var cerr *CandidateError
		if errors.As(err, &cerr) {
			return err
		}
		return &CandidateError{Candidate: c.Expr, Reasons: []string{err.Error()}}
	}
	if len(reasons) > 0 {
		return &CandidateError{Candidate: c.Expr, Reasons: reasons}
	}

	return nil
}

// evaluate runs one uncached probe.
func (d *Detector) evaluate(p Probe, c Candidate) (Result, error) {
	reasons, err := d.typeCheck(p, c)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Probe:     p.Name,
		Candidate: c.Expr,
		Holds:     len(reasons) == 0,
		Reasons:   reasons,
	}, nil
}

// typeCheck renders p against c and returns every reason the result is not
// well-formed. A returned error means the snippet could not even be built.
// Panics from the checker or analyzers are confined to this pair.
func (d *Detector) typeCheck(p Probe, c Candidate) (reasons []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			reasons, err = nil, fmt.Errorf("detect %s on %s: internal failure: %v", p.Name, c, r)
		}
	}()

	specs, err := c.aliases(d.packageName)
	if err != nil {
		return nil, &CandidateError{Candidate: c.Expr, Reasons: []string{err.Error()}}
	}

	src, err := render(p.Body, c.Expr, specs)
	if err != nil {
		return nil, err
	}

	fset := token.NewFileSet()

	file, err := parser.ParseFile(fset, snippetFile, src, parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("probe %s on %s does not parse: %w", p.Name, c, err)
	}

	conf := types.Config{
		Importer:  d.importer,
		GoVersion: d.goVersion,
		Error: func(err error) {
			if terr, ok := err.(types.Error); ok {
				reasons = append(reasons, terr.Msg)
				return
			}
			reasons = append(reasons, err.Error())
		},
	}

	info := &types.Info{
		Types:        make(map[ast.Expr]types.TypeAndValue),
		Instances:    make(map[*ast.Ident]types.Instance),
		Defs:         make(map[*ast.Ident]types.Object),
		Uses:         make(map[*ast.Ident]types.Object),
		Implicits:    make(map[ast.Node]types.Object),
		Selections:   make(map[*ast.SelectorExpr]*types.Selection),
		Scopes:       make(map[ast.Node]*types.Scope),
		FileVersions: make(map[*ast.File]string),
	}

	// The first error is also delivered through conf.Error.
	pkg, _ := conf.Check(snippetPath, fset, []*ast.File{file}, info)

	if len(reasons) > 0 || len(p.Analyzers) == 0 {
		return reasons, nil
	}

	return runAnalyzers(fset, file, []byte(src), pkg, info, p.Analyzers)
}

// packageName returns the declared name of the package at path, or "".
func (d *Detector) packageName(path string) string {
	pkg, err := d.importer.Import(path)
	if err != nil || pkg == nil {
		return ""
	}

	return pkg.Name()
}
