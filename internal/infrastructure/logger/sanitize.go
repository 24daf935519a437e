package logger

import (
	"fmt"
	"strings"
)

// SanitizeForLog escapes control characters so untrusted input (step tokens,
// URLs, tool output) cannot forge log lines or drive the terminal.
// Unicode text is preserved.
func SanitizeForLog(s string) string {
	var result strings.Builder
	result.Grow(len(s))

	for _, r := range s {
		switch r {
		case '\n':
			result.WriteString("\\n")
		case '\r':
			result.WriteString("\\r")
		case '\t':
			result.WriteString("\\t")
		default:
			if r < 32 || r == 127 {
				result.WriteString(fmt.Sprintf("\\x%02x", r))
			} else {
				result.WriteRune(r)
			}
		}
	}
	return result.String()
}

// Tail keeps the last max bytes of s, cut at a line boundary when one is
// available. Tool diagnostics put the useful part at the end.
func Tail(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	cut := s[len(s)-max:]
	if i := strings.IndexByte(cut, '\n'); i >= 0 && i < len(cut)-1 {
		cut = cut[i+1:]
	}
	return "...\n" + strings.ToValidUTF8(cut, "")
}
