// Package container holds the candidate types the default battery probes.
//
// Each type mirrors a well-known container shape: a growable vector, a plain
// pair, a uniquely owning pointer, and two structs that differ only in whether
// their data field can be reached from another package.
package container

// Vector is a growable sequence. Like a slice it ranges over its elements,
// but it also declares its size unit through Len and accepts it in Reserve.
type Vector[T any] []T

// Len returns the number of elements. Its result type is the vector's size unit.
func (v Vector[T]) Len() int {
	return len(v)
}

// Reserve grows the capacity so that at least n elements fit without reallocation.
func (v *Vector[T]) Reserve(n int) {
	if n <= cap(*v) {
		return
	}

	grown := make(Vector[T], len(*v), n)
	copy(grown, *v)
	*v = grown
}

// Push appends x.
func (v *Vector[T]) Push(x T) {
	*v = append(*v, x)
}

// Data returns the backing storage. It is a method, not a field.
func (v Vector[T]) Data() []T {
	return v
}

// Pair holds two values and nothing else.
type Pair[A, B any] struct {
	First  A
	Second B
}

// MakePair returns a Pair of a and b.
func MakePair[A, B any](a A, b B) Pair[A, B] {
	return Pair[A, B]{First: a, Second: b}
}

// UniquePtr owns the value it points to. Copying a UniquePtr would leave two
// owners, so it embeds a noCopy guard that go vet's copylocks check rejects.
type UniquePtr[T any] struct {
	noCopy noCopy
	ptr    *T
}

// NewUniquePtr takes ownership of x.
func NewUniquePtr[T any](x T) *UniquePtr[T] {
	return &UniquePtr[T]{ptr: &x}
}

// Get returns the owned pointer, or nil after Release.
func (p *UniquePtr[T]) Get() *T {
	return p.ptr
}

// Release gives up ownership and returns the pointer.
func (p *UniquePtr[T]) Release() *T {
	ptr := p.ptr
	p.ptr = nil

	return ptr
}

// noCopy may be embedded into structs which must not be copied after first use.
// See https://golang.org/issues/8005#issuecomment-190753527.
type noCopy struct{}

// Lock is a no-op used by the copylocks checker.
func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// TypeWithPublicData exposes its data field.
type TypeWithPublicData struct {
	Data int
}

// TypeWithPrivateData has a data field that only this package can reach.
type TypeWithPrivateData struct {
	data int
}

// Value returns the hidden data.
func (t TypeWithPrivateData) Value() int {
	return t.data
}
