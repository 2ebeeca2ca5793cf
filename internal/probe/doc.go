// Package probe defines the standard capability probes and a registry to
// look them up by name.
//
// Probe bodies are written against v, src *T. The standard set:
//
//	value-type       for _, e := range *v { _ = e }     T has an element type
//	data-field       _ = &v.Data                        T has an accessible Data field
//	reserve          n := v.Len(); v.Reserve(n)         T reserves capacity in its own size unit
//	copy-assignable  *v = *src (+ copylocks)            T can be assigned from a same-typed value
//
// Field, Method and Stmts build further probes.
package probe
