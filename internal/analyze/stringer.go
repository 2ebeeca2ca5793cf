package analyze

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// TypeString returns the type as it is spelled from another package.
// Generic types show their parameter list:
//   - "container.Pair[A, B]"
//   - "container.TypeWithPublicData"
func TypeString(t *TypeInfo) string {
	if t == nil {
		return "<nil>"
	}

	name := t.ID.Qualified()
	if t.IsGeneric() {
		name += "[" + strings.Join(t.TypeParams, ", ") + "]"
	}

	return name
}

// Match returns the IDs of all types whose "pkgpath.Name" matches the
// doublestar pattern, sorted. An empty pattern matches everything.
//
// Examples:
//   - "typeprobe/container.*"
//   - "**/container.Type*"
func (g *TypeGraph) Match(pattern string) ([]TypeID, error) {
	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid type pattern %q", pattern)
	}

	var ids []TypeID
	for id := range g.Types {
		if pattern == "" {
			ids = append(ids, id)
			continue
		}

		ok, err := doublestar.Match(pattern, id.String())
		if err != nil {
			return nil, fmt.Errorf("matching %q: %w", pattern, err)
		}
		if ok {
			ids = append(ids, id)
		}
	}

	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})

	return ids, nil
}
