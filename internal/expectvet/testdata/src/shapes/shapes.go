package shapes

import (
	"slices"
	"sync"
)

// Buffer satisfies every expectation.
//
//typeprobe:expect value-type reserve copy-assignable !data-field
type Buffer []byte

func (b Buffer) Len() int { return len(b) }

func (b *Buffer) Reserve(n int) { *b = slices.Grow(*b, n) }

//typeprobe:expect data-field copy-assignable !value-type
type Record struct {
	Data string
}

//typeprobe:expect copy-assignable
type Guarded struct { // want `shapes\.Guarded: expected copy-assignable to hold`
	mu sync.Mutex
	n  int
}

//typeprobe:expect !reserve
type Sized struct { // want `shapes\.Sized: expected reserve not to hold`
	n int
}

func (s Sized) Len() int { return s.n }

func (s *Sized) Reserve(n int) { s.n = n }

type (
	//typeprobe:expect !value-type
	Point struct{ X, Y int }

	//typeprobe:expect value-type
	Count int // want `shapes\.Count: expected value-type to hold`
)

// Undirected carries no directive and is never probed.
type Undirected struct {
	Data []int
}
