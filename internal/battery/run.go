package battery

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"typeprobe/internal/detect"
	"typeprobe/internal/diagnostic"
	"typeprobe/internal/probe"
)

// RunOptions controls battery execution.
type RunOptions struct {
	// Parallelism bounds concurrent evaluations; <= 0 means GOMAXPROCS.
	Parallelism int
}

// Outcome is the evaluated result of one expectation.
type Outcome struct {
	Case    int    // index into File.Cases
	Type    string // candidate type expression
	Probe   string
	Want    *bool
	Got     bool
	Status  Status
	Reasons []string // why the probe did not hold, or why evaluation failed

	invalidType bool
}

// Report collects the outcomes of a battery run in file order.
type Report struct {
	Outcomes    []Outcome
	Diagnostics diagnostic.Diagnostics
}

// Passed returns true if no expectation was contradicted and nothing failed.
func (r *Report) Passed() bool {
	return r.Diagnostics.IsValid()
}

// Count returns how many outcomes have status s.
func (r *Report) Count(s Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}

	return n
}

// Run evaluates every expectation of f. Mismatches and invalid cases become
// diagnostics in the report; the returned error is reserved for a cancelled
// context or a battery that does not validate.
//
// Evaluations run concurrently, but the report lists outcomes in file order.
func Run(ctx context.Context, d *detect.Detector, reg *probe.Registry, f *File, opts RunOptions) (*Report, error) {
	if diags := Validate(f, reg); diags.HasErrors() {
		return nil, fmt.Errorf("invalid battery: %w", diags.Error())
	}

	type job struct {
		caseIdx int
		exp     Expectation
		probe   detect.Probe
	}

	var jobs []job
	for i, c := range f.Cases {
		for _, exp := range c.Expect {
			p, _ := reg.Lookup(exp.Probe)
			jobs = append(jobs, job{caseIdx: i, exp: exp, probe: p})
		}
	}

	limit := opts.Parallelism
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	outcomes := make([]Outcome, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, j := range jobs {
		g.Go(func() error {
			c := f.Cases[j.caseIdx]
			out := Outcome{Case: j.caseIdx, Type: c.Type, Probe: j.exp.Probe, Want: j.exp.Want}

			res, err := d.Has(gctx, j.probe, f.Candidate(c))
			switch {
			case err != nil && gctx.Err() != nil:
				return err
			case err != nil:
				var cerr *detect.CandidateError
				out.Status = StatusFailed
				out.Reasons = []string{err.Error()}
				out.invalidType = errors.As(err, &cerr)
			default:
				out.Got = res.Holds
				out.Reasons = res.Reasons
				out.Status = judge(j.exp.Want, res.Holds)
			}

			outcomes[i] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("running battery: %w", err)
	}

	report := &Report{Outcomes: outcomes}
	for _, o := range outcomes {
		report.record(o)
	}

	return report, nil
}

func judge(want *bool, got bool) Status {
	switch {
	case want == nil:
		return StatusUnverified
	case *want == got:
		return StatusPass
	default:
		return StatusMismatch
	}
}

func (r *Report) record(o Outcome) {
	switch o.Status {
	case StatusMismatch:
		msg := fmt.Sprintf("expected %t, got %t", *o.Want, o.Got)
		if len(o.Reasons) > 0 {
			msg += ": " + strings.Join(o.Reasons, "; ")
		}
		r.Diagnostics.AddError(diagnostic.CodeMismatch, msg, o.Type, o.Probe)

	case StatusUnverified:
		r.Diagnostics.AddInfo(diagnostic.CodeUnverified, fmt.Sprintf("evaluated to %t, no expectation", o.Got), o.Type, o.Probe)

	case StatusFailed:
		code := diagnostic.CodeDetectionFailed
		if o.invalidType {
			code = diagnostic.CodeInvalidType
		}
		r.Diagnostics.AddError(code, strings.Join(o.Reasons, "; "), o.Type, o.Probe)

	case StatusPass:
	}
}

// ErrMismatch is wrapped by Check when a battery has failing expectations.
var ErrMismatch = errors.New("battery expectations not met")

// Check runs f and returns an error wrapping ErrMismatch unless every
// expectation holds.
func Check(ctx context.Context, d *detect.Detector, reg *probe.Registry, f *File, opts RunOptions) (*Report, error) {
	report, err := Run(ctx, d, reg, f, opts)
	if err != nil {
		return nil, err
	}

	if !report.Passed() {
		return report, fmt.Errorf("%w: %w", ErrMismatch, report.Diagnostics.Error())
	}

	return report, nil
}
