package match

import (
	"strings"
	"unicode"
)

// Tokenize splits s into words at every non-alphanumeric rune and at
// CamelCase boundaries:
//   - "copy-assignable" -> ["copy", "assignable"]
//   - "XMLParser" -> ["XML", "Parser"]
//   - "Vector[int]" -> ["Vector", "int"]
func Tokenize(s string) []string {
	var (
		tokens  []string
		current []rune
	)

	flush := func() {
		if len(current) > 0 {
			tokens = append(tokens, string(current))
			current = current[:0]
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}

		if len(current) > 0 && startsWord(runes, i) {
			flush()
		}

		current = append(current, r)
	}
	flush()

	return tokens
}

// startsWord reports whether runes[i] begins a new CamelCase word.
func startsWord(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]

	// "orderID" splits before 'I'.
	if unicode.IsUpper(r) && !unicode.IsUpper(prev) {
		return true
	}

	// "XMLParser" splits before 'P'.
	return unicode.IsUpper(r) && unicode.IsUpper(prev) &&
		i+1 < len(runes) && unicode.IsLower(runes[i+1])
}

// NormalizeIdent lowercases s and drops separators, so "copy_assignable",
// "copy-assignable" and "CopyAssignable" compare equal.
func NormalizeIdent(s string) string {
	return strings.ToLower(strings.Join(Tokenize(s), ""))
}

// ExportedIdent joins the words of s into an exported Go identifier.
// A leading digit gets a "T" prefix. Empty input yields "".
func ExportedIdent(s string) string {
	var b strings.Builder
	for _, tok := range Tokenize(s) {
		runes := []rune(tok)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}

	ident := b.String()
	if ident != "" && unicode.IsDigit([]rune(ident)[0]) {
		ident = "T" + ident
	}

	return ident
}
