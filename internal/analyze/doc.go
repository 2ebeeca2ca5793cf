// Package analyze provides package loading and type graph extraction.
//
// It uses golang.org/x/tools/go/packages with AST and go/types
// to build a canonical in-memory model of the named types a probe can be
// asked about, plus a Universe of every type-checked package the load
// produced so later type checks can import them without reloading.
//
// Key types:
//   - TypeID: package import path + type name
//   - TypeInfo: describes kind, type parameters, fields and methods
//   - Universe: import path -> *types.Package, usable as a types.Importer
package analyze
