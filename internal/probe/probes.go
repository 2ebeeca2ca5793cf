package probe

import (
	"fmt"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/copylock"

	"typeprobe/internal/detect"
)

// Standard probe names.
const (
	ValueTypeName      = "value-type"
	DataFieldName      = "data-field"
	ReserveName        = "reserve"
	CopyAssignableName = "copy-assignable"
)

// ValueType holds when T ranges with two iteration values, i.e. it has an
// element type: slices, arrays, maps, strings and two-value iterators.
var ValueType = detect.Probe{
	Name: ValueTypeName,
	Doc:  "T has an element type (ranges as key, value)",
	Body: detect.Void("for _, e := range *v { _ = e }"),
}

// DataField holds when T has a field named Data that code outside T's
// package can address. A method named Data does not count.
var DataField = Field(DataFieldName, "Data")

// Reserve holds when T declares its size unit as the result of Len and
// accepts a value of that unit in Reserve.
var Reserve = detect.Probe{
	Name: ReserveName,
	Doc:  "T reserves capacity in its own size unit (Len result)",
	Body: detect.Void(
		"n := v.Len()",
		"v.Reserve(n)",
	),
}

// CopyAssignable holds when a T can be assigned from another T without
// copying a lock. Types guarded by a noCopy field or holding a sync.Mutex
// by value fail the copylocks check and are not copy-assignable.
var CopyAssignable = detect.Probe{
	Name:      CopyAssignableName,
	Doc:       "T can be assigned from a same-typed value without copying a lock",
	Body:      detect.Void("*v = *src"),
	Analyzers: []*analysis.Analyzer{copylock.Analyzer},
}

// Standard returns the four standard probes in a fixed order.
func Standard() []detect.Probe {
	return []detect.Probe{ValueType, DataField, Reserve, CopyAssignable}
}

// Field returns a probe named name that holds when T has an addressable
// field called field, reachable from another package.
func Field(name, field string) detect.Probe {
	return detect.Probe{
		Name: name,
		Doc:  fmt.Sprintf("T has an accessible field %s", field),
		Body: detect.Void("_ = &v." + field),
	}
}

// Method returns a probe named name that holds when v.method(args...) is a
// valid call. Arguments are Go expressions and may use v and src.
func Method(name, method string, args ...string) detect.Probe {
	call := fmt.Sprintf("v.%s(%s)", method, strings.Join(args, ", "))

	return detect.Probe{
		Name: name,
		Doc:  "T accepts " + call,
		Body: detect.Void(call),
	}
}

// Stmts returns a probe built from raw statements.
func Stmts(name, doc string, stmts ...string) detect.Probe {
	return detect.Probe{
		Name: name,
		Doc:  doc,
		Body: detect.Void(stmts...),
	}
}
