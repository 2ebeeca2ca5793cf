package detect

import "strings"

// Marker is the value every rendered probe body returns. It is the same
// type no matter how many statements the body holds.
type Marker = struct{}

// Body is a list of Go statements evaluated against v, src *T.
type Body []string

// Void joins statements into one body. The body is well-formed iff every
// statement is; an empty body is always well-formed.
func Void(stmts ...string) Body {
	body := make(Body, 0, len(stmts))
	for _, s := range stmts {
		if s = strings.TrimSpace(s); s != "" {
			body = append(body, s)
		}
	}

	return body
}

// block wraps the body in its own scope so bodies from several probes can
// declare the same local names.
func (b Body) block() string {
	if len(b) == 0 {
		return "{}"
	}

	return "{\n\t\t" + strings.Join(b, "\n\t\t") + "\n\t}"
}
