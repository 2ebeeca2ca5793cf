// Package gen writes probe results as Go source.
//
// Every evaluated (case, probe) pair of a battery becomes an untyped boolean
// constant, so downstream code can pick an implementation at compile time:
//
//	const ContainerVectorIntHasReserve = true
//
// Generation uses text/template + go/format and is deterministic: constants
// are emitted in battery order and names are derived from the case name, or
// the type expression when the case has none.
package gen
