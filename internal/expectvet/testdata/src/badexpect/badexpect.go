package badexpect

//typeprobe:expect reserv
type A []int // want `badexpect\.A: unknown probe "reserv" \(did you mean reserve\?\)`

//typeprobe:expect value-type
type hidden []int // want `badexpect\.hidden: type is unexported`

//typeprobe:expect value-type
type Box[T any] []T // want `badexpect\.Box: generic type needs type arguments \(add with=int\)`

//typeprobe:expect value-type with=int
type Plain []int // want `badexpect\.Plain: with=int given for a non-generic type`

//typeprobe:expect value-type with=bytes.Buffer
type List[T any] []T // want `badexpect\.List: with=bytes\.Buffer refers to package "bytes", which badexpect does not import`

// typeprobe:expect with a space is prose, not a directive.
type Prose []int

//typeprobe:expected is a different word.
type Word []int

var _ = hidden(nil)
