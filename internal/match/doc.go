// Package match provides identifier normalization and Levenshtein distance
// for "did you mean" suggestions, plus the tokenizer used to derive Go
// identifiers from probe names and type expressions.
//
// Key functions:
//   - Levenshtein: computes edit distance between strings
//   - NormalizeIdent: folds case and separators for fuzzy comparison
//   - Suggest: ranks known names by similarity to an unknown one
//   - ExportedIdent: turns "copy-assignable" into "CopyAssignable"
package match
