// Package detect answers "is this expression well-formed for T" without
// letting the answer fail the build.
//
// A Probe is a body of Go statements written against two parameters,
// v and src, both of type *T. A Candidate is a type expression plus the
// import paths it mentions. Detector.Has renders
//
//	type T = <candidate>
//	func probe(v, src *T) marker { <body>; return marker{} }
//
// into a synthetic package, type-checks it against packages that are
// already loaded, and reports true iff the checker (and any vet analyzers
// the probe carries) found nothing. Errors are collected through
// types.Config.Error and never escape the synthetic package: a missing
// member is the false branch of the predicate, not a failure.
//
// Only a malformed candidate (unknown import, type expression that does
// not denote a type) is reported as an error, because then there is no T
// to ask about.
package detect
