package battery

//go:generate go tool stringer -type=Status -trimprefix=Status -output=status_string.go

// Status is the outcome of one expectation.
type Status int

const (
	// StatusPass means the probe result matched the expectation.
	StatusPass Status = iota
	// StatusMismatch means the probe result contradicted the expectation.
	StatusMismatch
	// StatusUnverified means the probe was evaluated but nothing was expected.
	StatusUnverified
	// StatusFailed means the case could not be evaluated (invalid type or probe).
	StatusFailed
)
