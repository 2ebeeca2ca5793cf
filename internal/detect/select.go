package detect

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoAlternative is returned by Select when no alternative applies.
var ErrNoAlternative = errors.New("no alternative applies")

// Alternative is one implementation choice guarded by the probes it requires.
// An alternative with no requirements always applies and acts as a fallback.
type Alternative[V any] struct {
	Name     string
	Requires []Probe
	Value    V
}

// Select returns the first alternative, in the order given, whose required
// probes all hold for c. The order is the priority: put the most specific
// alternative first and the fallback last.
func Select[V any](ctx context.Context, d *Detector, c Candidate, alts ...Alternative[V]) (Alternative[V], error) {
	for _, alt := range alts {
		ok, err := requiresHold(ctx, d, c, alt.Requires)
		if err != nil {
			return Alternative[V]{}, fmt.Errorf("alternative %s: %w", alt.Name, err)
		}
		if ok {
			return alt, nil
		}
	}

	return Alternative[V]{}, fmt.Errorf("%s: %w", c, ErrNoAlternative)
}

func requiresHold(ctx context.Context, d *Detector, c Candidate, probes []Probe) (bool, error) {
	for _, p := range probes {
		ok, err := d.Holds(ctx, p, c)
		if err != nil || !ok {
			return false, err
		}
	}

	return true, nil
}
