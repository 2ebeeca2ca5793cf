// Package diagnostic provides structured errors, warnings and notes
// collected while validating and running probe batteries.
//
// Key capabilities:
//   - Expectation mismatches with the checker's reasons
//   - Unknown probe reports with "did you mean" suggestions
//   - Unverified cases (no expectation given) as notes
package diagnostic
