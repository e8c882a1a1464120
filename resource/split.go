package resource

import "strings"

// Split splits a SQL script into statements on semicolons that are not
// inside quotes, comments or the BEGIN ... END body of a CREATE TRIGGER.
// Comments are dropped and statements are trimmed; empty statements are
// skipped.
func Split(script string) []string {
	var (
		out []string
		cur strings.Builder

		// first word of the statement, whether it creates a trigger, and
		// the BEGIN/CASE ... END nesting inside the trigger body
		first   string
		trigger bool
		depth   int
	)
	flush := func() {
		if stmt := strings.TrimSpace(cur.String()); stmt != "" {
			out = append(out, stmt)
		}
		cur.Reset()
		first, trigger, depth = "", false, 0
	}
	keyword := func(w string) {
		switch w = strings.ToUpper(w); {
		case first == "":
			first = w
		case w == "TRIGGER" && first == "CREATE" && depth == 0:
			trigger = true
		case w == "BEGIN" && trigger:
			depth++
		case w == "CASE" && depth > 0:
			depth++
		case w == "END" && depth > 0:
			depth--
		}
	}

	for i := 0; i < len(script); i++ {
		c := script[i]
		switch {
		case c == '\'' || c == '"' || c == '`':
			end := closingQuote(script, i+1, c)
			cur.WriteString(script[i:end])
			i = end - 1
		case c == '-' && i+1 < len(script) && script[i+1] == '-':
			nl := strings.IndexByte(script[i:], '\n')
			if nl < 0 {
				i = len(script)
			} else {
				i += nl - 1
			}
		case c == '/' && i+1 < len(script) && script[i+1] == '*':
			end := strings.Index(script[i+2:], "*/")
			if end < 0 {
				i = len(script)
			} else {
				i += end + 3
			}
			cur.WriteByte(' ')
		case c == ';' && depth > 0:
			cur.WriteByte(c)
		case c == ';':
			flush()
		case isWordByte(c) && (i == 0 || !isWordByte(script[i-1])):
			j := i + 1
			for j < len(script) && isWordByte(script[j]) {
				j++
			}
			cur.WriteString(script[i:j])
			keyword(script[i:j])
			i = j - 1
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return out
}

// closingQuote returns the index just past the quote that closes the one
// opened before start. Doubled quotes are escapes. An unterminated quote
// runs to the end of s.
func closingQuote(s string, start int, q byte) int {
	for i := start; i < len(s); i++ {
		if s[i] != q {
			continue
		}
		if i+1 < len(s) && s[i+1] == q {
			i++
			continue
		}
		return i + 1
	}
	return len(s)
}

func isWordByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
