package match

import "sort"

// SuggestThreshold is the minimum Similarity for a name to be suggested.
const SuggestThreshold = 0.5

// Suggest returns up to limit names from known that look like name, best first.
// Ties keep alphabetical order.
func Suggest(name string, known []string, limit int) []string {
	type scored struct {
		name  string
		score float64
	}

	var hits []scored
	for _, k := range known {
		if s := Similarity(name, k); s >= SuggestThreshold {
			hits = append(hits, scored{name: k, score: s})
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].name < hits[j].name
	})

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}

	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.name
	}

	return out
}
