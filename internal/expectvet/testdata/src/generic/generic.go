package generic

import (
	"slices"
	"sync"
)

//typeprobe:expect value-type reserve with=int
type Vec[T any] []T

func (v Vec[T]) Len() int { return len(v) }

func (v *Vec[T]) Reserve(n int) { *v = slices.Grow(*v, n) }

//typeprobe:expect copy-assignable !value-type with=string,int
type Pair[A, B any] struct {
	First  A
	Second B
}

//typeprobe:expect data-field with=int
type Holder[T any] struct { // want `generic\.Holder\[int\]: expected data-field to hold`
	data T
}

// Cell copies whatever it holds, locks included.
//
//typeprobe:expect copy-assignable with=int
//typeprobe:expect !copy-assignable with=sync.Mutex
type Cell[T any] struct {
	value T
}

var _ sync.Locker = (*sync.Mutex)(nil)
