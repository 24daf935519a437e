package ffmpeg

import (
	"math"
	"strconv"
	"strings"
)

func ff(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// even rounds to the nearest even integer, at least 2. Encoders using 4:2:0
// chroma reject odd frame sizes.
func even(v float64) int {
	n := int(math.Round(v))
	if n%2 != 0 {
		n--
	}
	if n < 2 {
		n = 2
	}
	return n
}

// atempoChain splits a tempo factor into atempo filters that each stay within
// the filter's supported [0.5, 2] range.
func atempoChain(factor float64) string {
	var parts []string
	for factor > 2 {
		parts = append(parts, "atempo=2")
		factor /= 2
	}
	for factor < 0.5 {
		parts = append(parts, "atempo=0.5")
		factor /= 0.5
	}
	parts = append(parts, "atempo="+ff(factor))
	return strings.Join(parts, ",")
}

var (
	optionEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`, `:`, `\:`)
	graphEscaper  = strings.NewReplacer(`\`, `\\`, `'`, `\'`, `[`, `\[`, `]`, `\]`, `,`, `\,`, `;`, `\;`)
)

// escapeFilterValue escapes a value for both the filter option level and the
// filtergraph level so it survives two rounds of unescaping.
func escapeFilterValue(s string) string {
	return graphEscaper.Replace(optionEscaper.Replace(s))
}

// fitCanvas scales a stream to fit w x h and pads the rest with black.
func fitCanvas(w, h, fps int) string {
	s := "scale=" + strconv.Itoa(w) + ":" + strconv.Itoa(h) + ":force_original_aspect_ratio=decrease," +
		"pad=" + strconv.Itoa(w) + ":" + strconv.Itoa(h) + ":(ow-iw)/2:(oh-ih)/2:color=black,setsar=1"
	if fps > 0 {
		s += ",fps=" + strconv.Itoa(fps)
	}
	return s
}

const audioNormalize = "aformat=sample_rates=48000:channel_layouts=stereo"
