package logger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeForLog(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain token unchanged", input: "speed1.10", expected: "speed1.10"},
		{name: "url unchanged", input: "https://cdn.example.com/a b.mp4", expected: "https://cdn.example.com/a b.mp4"},
		{name: "empty", input: "", expected: ""},
		{name: "newline", input: "line1\nline2", expected: "line1\\nline2"},
		{name: "crlf", input: "line1\r\nline2", expected: "line1\\r\\nline2"},
		{name: "tab", input: "a\tb", expected: "a\\tb"},
		{name: "null byte", input: "a\x00b", expected: "a\\x00b"},
		{name: "ansi escape", input: "\x1b[31mred\x1b[0m", expected: "\\x1b[31mred\\x1b[0m"},
		{name: "del", input: "x\x7f", expected: "x\\x7f"},
		{name: "unicode preserved", input: "café 日本語 👋", expected: "café 日本語 👋"},
		{name: "fake log entry", input: "hflip\nERROR: fake", expected: "hflip\\nERROR: fake"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeForLog(tt.input))
		})
	}
}

func TestSanitizeForLog_AllControlChars(t *testing.T) {
	for i := 0; i < 32; i++ {
		out := SanitizeForLog(string(rune(i)))
		assert.True(t, strings.HasPrefix(out, "\\"), "control char %d not escaped: %q", i, out)
	}
}

func TestTail(t *testing.T) {
	assert.Equal(t, "short", Tail("short", 100))
	assert.Equal(t, "no limit", Tail("no limit", 0))

	in := "line one\nline two\nline three\n"
	out := Tail(in, 15)
	assert.Equal(t, "...\nline three\n", out)

	long := strings.Repeat("x", 50)
	out = Tail(long, 10)
	assert.Equal(t, "...\n"+strings.Repeat("x", 10), out)
}
