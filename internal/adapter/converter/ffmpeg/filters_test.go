package ffmpeg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAtempoChain(t *testing.T) {
	tests := []struct {
		factor float64
		want   string
	}{
		{1.1, "atempo=1.1"},
		{0.5, "atempo=0.5"},
		{2, "atempo=2"},
		{3, "atempo=2,atempo=1.5"},
		{8, "atempo=2,atempo=2,atempo=2"},
		{0.25, "atempo=0.5,atempo=0.5"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, atempoChain(tt.factor))
	}
}

func TestEven(t *testing.T) {
	assert.Equal(t, 1296, even(1296))
	assert.Equal(t, 864, even(864.4))
	assert.Equal(t, 2, even(0.3))
	assert.Equal(t, 100, even(101))
}

func TestEscapeFilterValue(t *testing.T) {
	assert.Equal(t, "/tmp/job-1/step-01.txt", escapeFilterValue("/tmp/job-1/step-01.txt"))
	assert.Equal(t, `C\\:/fonts/a.ttf`, escapeFilterValue("C:/fonts/a.ttf"))
	assert.Equal(t, `it\\\'s`, escapeFilterValue("it's"))
	assert.Equal(t, `a\,b\;c\[d\]`, escapeFilterValue("a,b;c[d]"))
}
