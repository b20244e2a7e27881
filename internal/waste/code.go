package waste

import (
	"regexp"
	"strings"
)

// Explicit codes are three 2-digit groups anchored at the end of the label,
// separated by spaces, hyphens, or nothing, preceded by a clear boundary.
// The first digit is restricted to 1 or 2, which covers every chapter used
// by the domain and rejects product dimension codes such as "50x50x5 600".
var codeRe = regexp.MustCompile(`(?:^|[ \-_])([12][0-9])[ -]?([0-9]{2})[ -]?([0-9]{2})[ ]*\*?[ ]*$`)

// ParseCode parses a waste code in display form ("17 05 03", "170503*",
// "17-05-03 *") into a bare six-digit code and its hazard flag. The same
// digits with and without a trailing asterisk are the same code.
func ParseCode(s string) (code string, hazardous bool, ok bool) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "*") {
		hazardous = true
		s = strings.TrimSpace(strings.TrimSuffix(s, "*"))
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '.':
		default:
			return "", false, false
		}
	}

	code = b.String()
	if len(code) != 6 {
		return "", false, false
	}
	return code, hazardous, true
}

// ExtractCode extracts an explicit waste code terminating the label, with
// an optional hazard asterisk. Returns the bare code and whether the label
// carried the asterisk; ok is false when no code terminates the label.
func ExtractCode(label string) (code string, hazardous bool, ok bool) {
	m := codeRe.FindStringSubmatch(strings.TrimSpace(label))
	if m == nil {
		return "", false, false
	}
	return m[1] + m[2] + m[3], strings.Contains(label, "*"), true
}

// FormatCode renders a bare six-digit code in display form with the hazard
// asterisk convention ("170503", true -> "17 05 03*").
func FormatCode(code string, hazardous bool) string {
	if len(code) != 6 {
		return code
	}
	out := code[0:2] + " " + code[2:4] + " " + code[4:6]
	if hazardous {
		out += "*"
	}
	return out
}
