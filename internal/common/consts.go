package common

// UnknownStr is the String() result for enum values outside their known range.
const UnknownStr = "unknown"
