package detect_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/analysis"

	"typeprobe/internal/analyze"
	"typeprobe/internal/detect"
	"typeprobe/internal/probe"
)

const containerPkg = "typeprobe/container"

func newDetector(t *testing.T) *detect.Detector {
	t.Helper()

	graph, err := analyze.NewAnalyzer().LoadPackages(containerPkg, "sync")
	require.NoError(t, err)

	return detect.New(graph.Universe)
}

func vector() detect.Candidate {
	return detect.Type("container.Vector[int]", containerPkg)
}

func TestVoid(t *testing.T) {
	assert.Empty(t, detect.Void())
	assert.Equal(t, detect.Body{"a", "b"}, detect.Void(" a ", "", "b"))
}

func TestDetector_EmptyBodyAlwaysHolds(t *testing.T) {
	d := newDetector(t)
	empty := detect.Probe{Name: "empty", Body: detect.Void()}

	for _, c := range []detect.Candidate{detect.Type("int"), vector(), detect.Type("[10]int")} {
		res, err := d.Has(context.Background(), empty, c)
		require.NoError(t, err)
		assert.True(t, res.Holds, c.String())
		assert.Empty(t, res.Reasons)
	}
}

func TestDetector_ProbeMalformedForEveryType(t *testing.T) {
	d := newDetector(t)
	bogus := probe.Stmts("bogus", "references a symbol that does not exist", "_ = undefinedThing")

	for _, c := range []detect.Candidate{detect.Type("int"), vector()} {
		res, err := d.Has(context.Background(), bogus, c)
		require.NoError(t, err, "a probe failing for every type must yield false, not an error")
		assert.False(t, res.Holds)
		assert.Contains(t, strings.Join(res.Reasons, "\n"), "undefined: undefinedThing", spew.Sdump(res))
	}
}

func TestDetector_CandidateErrors(t *testing.T) {
	d := newDetector(t)

	tests := []struct {
		name      string
		candidate detect.Candidate
		reason    string
	}{
		{"missing type", detect.Type("container.Missing", containerPkg), "Missing"},
		{"package not loaded", detect.Type("nope.T", "example.com/nope"), "was not loaded"},
		{"generic without instantiation", detect.Type("container.Vector", containerPkg), "instantiation"},
		{"unused import", detect.Type("int", containerPkg), "not used"},
		{"empty expression", detect.Type(""), "empty type expression"},
		{"not a type", detect.Type("len"), "not a type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.Has(context.Background(), probe.ValueType, tt.candidate)
			require.Error(t, err)

			var cerr *detect.CandidateError
			require.ErrorAs(t, err, &cerr)
			assert.Contains(t, cerr.Error(), tt.reason)
		})
	}
}

func TestDetector_ProbeThatDoesNotParse(t *testing.T) {
	broken := detect.Probe{Name: "broken", Body: detect.Body{"for {"}}
	require.Error(t, broken.Validate())

	d := newDetector(t)
	_, err := d.Has(context.Background(), broken, detect.Type("int"))
	require.Error(t, err)

	var cerr *detect.CandidateError
	assert.NotErrorAs(t, err, &cerr)
}

func TestDetector_ContextCancelled(t *testing.T) {
	d := newDetector(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.Has(ctx, probe.ValueType, vector())
	require.ErrorIs(t, err, context.Canceled)
}

func TestDetector_Deterministic(t *testing.T) {
	d := newDetector(t)
	ctx := context.Background()

	pair := detect.Type("container.Pair[int, int]", containerPkg)
	candidates := []detect.Candidate{vector(), pair, detect.Type("int")}
	probes := probe.Standard()

	first := make(map[string]bool)
	for _, p := range probes {
		for _, c := range candidates {
			ok, err := d.Holds(ctx, p, c)
			require.NoError(t, err)
			first[p.Name+"|"+c.Key()] = ok
		}
	}

	// A fresh detector asked in the reverse order agrees.
	fresh := newDetector(t)
	for i := len(probes) - 1; i >= 0; i-- {
		for j := len(candidates) - 1; j >= 0; j-- {
			ok, err := fresh.Holds(ctx, probes[i], candidates[j])
			require.NoError(t, err)
			assert.Equal(t, first[probes[i].Name+"|"+candidates[j].Key()], ok)
		}
	}
}

func TestDetector_Concurrent(t *testing.T) {
	d := newDetector(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make([]bool, 16)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := d.Holds(ctx, probe.Reserve, vector())
			assert.NoError(t, err)
			results[i] = ok
		}()
	}
	wg.Wait()

	for _, ok := range results {
		assert.True(t, ok)
	}
}

func TestDetector_SameNameDifferentBody(t *testing.T) {
	d := newDetector(t)
	ctx := context.Background()

	always := detect.Probe{Name: "cap", Body: detect.Void()}
	never := probe.Stmts("cap", "", "_ = undefinedThing")

	ok, err := d.Holds(ctx, always, detect.Type("int"))
	require.NoError(t, err)
	assert.True(t, ok)

	// The earlier answer for "cap" must not leak into a different definition.
	ok, err = d.Holds(ctx, never, detect.Type("int"))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = d.Holds(ctx, always, detect.Type("int"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestProbe_Key(t *testing.T) {
	base := probe.Stmts("p", "", "_ = v")

	assert.Equal(t, base.Key(), probe.Stmts("p", "other doc", "_ = v").Key(), "doc does not affect the answer")
	assert.NotEqual(t, base.Key(), probe.Stmts("p", "", "_ = src").Key())
	assert.NotEqual(t, base.Key(), probe.Stmts("q", "", "_ = v").Key())

	vetted := base
	vetted.Analyzers = probe.CopyAssignable.Analyzers
	assert.NotEqual(t, base.Key(), vetted.Key())
}

func TestDetector_PanickingAnalyzer(t *testing.T) {
	d := newDetector(t)
	ctx := context.Background()

	explode := &analysis.Analyzer{
		Name: "explode",
		Doc:  "panics on every package",
		Run:  func(*analysis.Pass) (any, error) { panic("boom") },
	}
	p := detect.Probe{Name: "explosive", Body: detect.Void("_ = v"), Analyzers: []*analysis.Analyzer{explode}}

	_, err := d.Has(ctx, p, detect.Type("int"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "internal failure: boom")

	// The failure stays with that pair.
	ok, err := d.Holds(ctx, probe.ValueType, detect.Type("[]int"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCandidate_Key(t *testing.T) {
	a := detect.Type("m.T", "x/a", "x/b")
	b := detect.Type(" m.T ", "x/b", "x/a")
	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), detect.Type("m.T").Key())
}

func TestCandidate_ConflictingAliases(t *testing.T) {
	d := newDetector(t)

	_, err := d.Has(context.Background(), probe.ValueType, detect.Type("int", "example.com/a/sync", "sync"))
	require.Error(t, err)
}

func TestAll(t *testing.T) {
	d := newDetector(t)
	ctx := context.Background()

	growable := detect.All("growable", probe.ValueType, probe.Reserve)
	assert.Equal(t, "all of: value-type, reserve", growable.Doc)
	require.NoError(t, growable.Validate())

	ok, err := d.Holds(ctx, growable, vector())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = d.Holds(ctx, growable, detect.Type("[]int"))
	require.NoError(t, err)
	assert.False(t, ok)

	// Analyzers carry over from the parts.
	guarded := detect.All("guarded", probe.ValueType, probe.CopyAssignable)
	assert.Len(t, guarded.Analyzers, 1)
}

func TestSelect(t *testing.T) {
	d := newDetector(t)
	ctx := context.Background()

	alts := []detect.Alternative[string]{
		{Name: "reserve-then-fill", Requires: []detect.Probe{probe.Reserve}, Value: "fast"},
		{Name: "range-copy", Requires: []detect.Probe{probe.ValueType}, Value: "generic"},
		{Name: "fallback", Value: "slow"},
	}

	alt, err := detect.Select(ctx, d, vector(), alts...)
	require.NoError(t, err)
	assert.Equal(t, "fast", alt.Value)

	alt, err = detect.Select(ctx, d, detect.Type("[]int"), alts...)
	require.NoError(t, err)
	assert.Equal(t, "generic", alt.Value)

	alt, err = detect.Select(ctx, d, detect.Type("int"), alts...)
	require.NoError(t, err)
	assert.Equal(t, "fallback", alt.Name)

	_, err = detect.Select(ctx, d, detect.Type("int"), alts[:2]...)
	require.ErrorIs(t, err, detect.ErrNoAlternative)

	_, err = detect.Select(ctx, d, detect.Type("container.Missing", containerPkg), alts...)
	require.Error(t, err)
}
