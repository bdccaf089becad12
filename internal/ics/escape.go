package ics

import "strings"

var escaper = strings.NewReplacer(
	`\`, `\\`,
	",", `\,`,
	";", `\;`,
	"\n", `\n`,
)

// EscapeText escapes backslash, comma, semicolon and newline for use in a
// TEXT property value
func EscapeText(s string) string {
	// NewReplacer matches at each position in one pass, so an escaped
	// backslash is never escaped again
	return escaper.Replace(s)
}

// UnescapeText reverses EscapeText. Unknown escape sequences are kept as is.
func UnescapeText(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case '\\', ',', ';':
			b.WriteByte(s[i])
		case 'n', 'N':
			b.WriteByte('\n')
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
