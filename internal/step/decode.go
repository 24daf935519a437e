package step

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

type Reason string

const (
	UnknownOperation  Reason = "unknown operation"
	InvalidParameters Reason = "invalid parameters"
)

type DecodeError struct {
	Token  string
	Reason Reason
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode %q: %s: %v", e.Token, e.Reason, e.Err)
	}
	return fmt.Sprintf("decode %q: %s", e.Token, e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.Err }

type parseFunc func(params string) (Operation, error)

type prefixEntry struct {
	prefix string
	kind   Kind
	parse  parseFunc
}

var prefixes = sortByLength([]prefixEntry{
	{"hflip", KindFlip, parseFlip},
	{"speed", KindSpeed, parseSpeed},
	{"noise", KindNoise, parseNoise},
	{"format", KindFormat, parseFormat},
	{"bitrate", KindBitrate, parseBitrate},
	{"border", KindBorder, parseBorder(BorderBlack)},
	{"wborder", KindBorder, parseBorder(BorderWhite)},
	{"vignette", KindVignette, parseVignette},
	{"saturation", KindSaturation, parseSaturation},
	{"brightness", KindBrightness, parseBrightness},
	{"zoom", KindZoom, parseZoom},
	{"rotate", KindRotate, parseRotate},
	{"watermark", KindWatermark, parseWatermark},
	{"replace_audio:", KindReplaceAudio, parseReplaceAudio},
	{"backgroundmusic::", KindBackgroundMusic, parseBackgroundMusic},
	{"ratio", KindRatio, parseRatio},
	{"iratio", KindInjectRatio, parseInjectRatio},
	{"sticker::", KindSticker, parseSticker},
	{"geotags::", KindGeotags, parseGeotags},
	{"thumbnail", KindThumbnail, parseThumbnail},
	{"injectthumbnail:", KindInjectThumbnail, parseInjectThumbnail},
	{"preroll:", KindPreroll, parsePreroll},
	{"postroll:", KindPostroll, parsePostroll},
	{"text::", KindText, parseText},
	{"textwithbg::", KindTextWithBg, parseTextWithBg},
})

func sortByLength(entries []prefixEntry) []prefixEntry {
	sort.SliceStable(entries, func(i, j int) bool {
		return len(entries[i].prefix) > len(entries[j].prefix)
	})
	return entries
}

// Decode parses one step token. The longest registered prefix selects the
// kind, so overlapping prefixes such as "border"/"wborder" never shadow each
// other. Decode performs no I/O.
func Decode(token string) (Operation, error) {
	for _, e := range prefixes {
		if !strings.HasPrefix(token, e.prefix) {
			continue
		}
		op, err := e.parse(token[len(e.prefix):])
		if err != nil {
			return nil, &DecodeError{Token: token, Reason: InvalidParameters, Err: err}
		}
		return op, nil
	}
	return nil, &DecodeError{Token: token, Reason: UnknownOperation}
}

// DecodeAll decodes every token and stops at the first failure, returning its index.
func DecodeAll(tokens []string) ([]Operation, int, error) {
	ops := make([]Operation, 0, len(tokens))
	for i, tok := range tokens {
		op, err := Decode(tok)
		if err != nil {
			return nil, i, err
		}
		ops = append(ops, op)
	}
	return ops, -1, nil
}

// Prefixes lists the registered token prefixes, longest first.
func Prefixes() []string {
	out := make([]string, len(prefixes))
	for i, e := range prefixes {
		out[i] = e.prefix
	}
	return out
}

func parseFlip(params string) (Operation, error) {
	if params != "" {
		return nil, errors.New("hflip takes no parameters")
	}
	return Flip{}, nil
}

func parseSpeed(params string) (Operation, error) {
	f, err := parseFloat("factor", params)
	if err != nil {
		return nil, err
	}
	if f <= 0 {
		return nil, errors.New("factor must be positive")
	}
	return Speed{Factor: f}, nil
}

func parseNoise(params string) (Operation, error) {
	n, err := parseIntIn("strength", params, 0, 100)
	if err != nil {
		return nil, err
	}
	return Noise{Strength: n}, nil
}

var containers = map[string]bool{"mp4": true, "mov": true, "mkv": true, "webm": true}

func parseFormat(params string) (Operation, error) {
	c := strings.ToLower(strings.TrimPrefix(params, ":"))
	if !containers[c] {
		return nil, fmt.Errorf("unsupported container %q", c)
	}
	return Format{Container: c}, nil
}

func parseBitrate(params string) (Operation, error) {
	f, err := parseFloat("multiplier", params)
	if err != nil {
		return nil, err
	}
	if f <= 0 {
		return nil, errors.New("multiplier must be positive")
	}
	return Bitrate{Multiplier: f}, nil
}

func parseBorder(color string) parseFunc {
	return func(params string) (Operation, error) {
		w, err := parseIntIn("width", params, 1, math.MaxInt16)
		if err != nil {
			return nil, err
		}
		return Border{Width: w, Color: color}, nil
	}
}

func parseVignette(params string) (Operation, error) {
	f, err := parseFloat("angle", params)
	if err != nil {
		return nil, err
	}
	if f <= 0 || f > math.Pi/2 {
		return nil, errors.New("angle must be in (0, pi/2]")
	}
	return Vignette{Angle: f}, nil
}

func parseSaturation(params string) (Operation, error) {
	f, err := parseFloatIn("saturation", params, 0, 3)
	if err != nil {
		return nil, err
	}
	return Saturation{Value: f}, nil
}

func parseBrightness(params string) (Operation, error) {
	f, err := parseFloatIn("brightness", params, -1, 1)
	if err != nil {
		return nil, err
	}
	return Brightness{Value: f}, nil
}

func parseZoom(params string) (Operation, error) {
	f, err := parseFloat("factor", params)
	if err != nil {
		return nil, err
	}
	if f <= 0 {
		return nil, errors.New("factor must be positive")
	}
	return Zoom{Factor: f}, nil
}

func parseRotate(params string) (Operation, error) {
	d, err := parseInt("degrees", params)
	if err != nil {
		return nil, err
	}
	return Rotate{Degrees: d}, nil
}

func parseWatermark(params string) (Operation, error) {
	v, err := parseInt("variant", params)
	if err != nil {
		return nil, err
	}
	if _, ok := LookupWatermark(v); !ok {
		return nil, fmt.Errorf("unknown watermark variant %d", v)
	}
	return Watermark{Variant: v}, nil
}

func parseReplaceAudio(params string) (Operation, error) {
	a, err := parseAsset(params)
	if err != nil {
		return nil, err
	}
	return ReplaceAudio{Asset: a}, nil
}

func parseBackgroundMusic(params string) (Operation, error) {
	f, err := splitFields(params, 2)
	if err != nil {
		return nil, err
	}
	vol, err := parseIntIn("volume", f[0], 0, 100)
	if err != nil {
		return nil, err
	}
	a, err := parseAsset(f[1])
	if err != nil {
		return nil, err
	}
	return BackgroundMusic{Volume: vol, Asset: a}, nil
}

func parseAspect(params string) (int, int, error) {
	w, h, ok := strings.Cut(params, ":")
	if !ok {
		return 0, 0, fmt.Errorf("aspect %q must be W:H", params)
	}
	wi, err := parseIntIn("aspect width", w, 1, math.MaxInt16)
	if err != nil {
		return 0, 0, err
	}
	hi, err := parseIntIn("aspect height", h, 1, math.MaxInt16)
	if err != nil {
		return 0, 0, err
	}
	return wi, hi, nil
}

func parseRatio(params string) (Operation, error) {
	w, h, err := parseAspect(params)
	if err != nil {
		return nil, err
	}
	return Ratio{W: w, H: h}, nil
}

func parseInjectRatio(params string) (Operation, error) {
	w, h, err := parseAspect(params)
	if err != nil {
		return nil, err
	}
	return InjectRatio{W: w, H: h}, nil
}

func parseSticker(params string) (Operation, error) {
	f, err := splitFields(params, 5)
	if err != nil {
		return nil, err
	}
	x, err := parseFloat("x", f[0])
	if err != nil {
		return nil, err
	}
	y, err := parseFloat("y", f[1])
	if err != nil {
		return nil, err
	}
	w, err := parseIntIn("width", f[2], 1, math.MaxInt16)
	if err != nil {
		return nil, err
	}
	rot, err := parseFloat("rotation", f[3])
	if err != nil {
		return nil, err
	}
	u, err := parseAsset(f[4])
	if err != nil {
		return nil, err
	}
	return Sticker{X: x, Y: y, Width: w, Rotation: rot, URL: u}, nil
}

func parseGeotags(params string) (Operation, error) {
	f, err := splitFields(params, 2)
	if err != nil {
		return nil, err
	}
	lat, err := parseFloatIn("latitude", f[0], -90, 90)
	if err != nil {
		return nil, err
	}
	lon, err := parseFloatIn("longitude", f[1], -180, 180)
	if err != nil {
		return nil, err
	}
	return Geotags{Latitude: lat, Longitude: lon}, nil
}

func parseThumbnail(params string) (Operation, error) {
	p, err := parseFloatIn("percent", params, 0, 100)
	if err != nil {
		return nil, err
	}
	return Thumbnail{Percent: p}, nil
}

func parseInjectThumbnail(params string) (Operation, error) {
	a, err := parseAsset(params)
	if err != nil {
		return nil, err
	}
	return InjectThumbnail{Asset: a}, nil
}

func parsePreroll(params string) (Operation, error) {
	a, err := parseAsset(params)
	if err != nil {
		return nil, err
	}
	return Preroll{Asset: a}, nil
}

func parsePostroll(params string) (Operation, error) {
	a, err := parseAsset(params)
	if err != nil {
		return nil, err
	}
	return Postroll{Asset: a}, nil
}

func parseText(params string) (Operation, error) {
	f, err := splitFields(params, 5)
	if err != nil {
		return nil, err
	}
	t, err := parseTextFields(f[0], f[1], f[2], f[3], f[4])
	if err != nil {
		return nil, err
	}
	return t, nil
}

func parseTextWithBg(params string) (Operation, error) {
	f, err := splitFields(params, 7)
	if err != nil {
		return nil, err
	}
	t, err := parseTextFields(f[0], f[1], f[2], f[3], f[6])
	if err != nil {
		return nil, err
	}
	if !colorPattern.MatchString(f[4]) {
		return nil, fmt.Errorf("invalid box color %q", f[4])
	}
	size, err := parseIntIn("box size", f[5], 0, math.MaxInt16)
	if err != nil {
		return nil, err
	}
	return TextWithBg{Text: t, BoxColor: f[4], BoxSize: size}, nil
}

// colorPattern accepts ffmpeg color names, hex values and an optional @alpha.
var colorPattern = regexp.MustCompile(`^(#|0x)?[A-Za-z0-9]+(@[0-9.]+)?$`)

func parseTextFields(padding, fontSize, position, color, text string) (Text, error) {
	pad, err := parseIntIn("padding", padding, 0, 100)
	if err != nil {
		return Text{}, err
	}
	size, err := parseIntIn("font size", fontSize, 1, 1000)
	if err != nil {
		return Text{}, err
	}
	pos, err := parsePosition(position)
	if err != nil {
		return Text{}, err
	}
	if !colorPattern.MatchString(color) {
		return Text{}, fmt.Errorf("invalid color %q", color)
	}
	if strings.TrimSpace(text) == "" {
		return Text{}, errors.New("text is empty")
	}
	return Text{Padding: pad, FontSize: size, Position: pos, Color: color, Text: text}, nil
}

func parsePosition(s string) (Position, error) {
	switch Anchor(s) {
	case AnchorTop, AnchorBottom, AnchorCenter:
		return Position{Anchor: Anchor(s)}, nil
	}
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return Position{}, fmt.Errorf("position %q must be top, bottom, center or x,y", s)
	}
	x, err := parseFloatIn("position x", xs, 0, 100)
	if err != nil {
		return Position{}, err
	}
	y, err := parseFloatIn("position y", ys, 0, 100)
	if err != nil {
		return Position{}, err
	}
	return Position{Anchor: AnchorPoint, X: x, Y: y}, nil
}

// splitFields splits on "::" into exactly n fields; the last one keeps any
// remaining separators.
func splitFields(params string, n int) ([]string, error) {
	f := strings.SplitN(params, "::", n)
	if len(f) != n {
		return nil, fmt.Errorf("expected %d fields separated by \"::\", got %d", n, len(f))
	}
	return f, nil
}

func parseAsset(s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return "", errors.New("asset is empty")
	}
	if strings.ContainsAny(s, "\x00\n\r") {
		return "", errors.New("asset contains control characters")
	}
	return s, nil
}

func parseFloat(name, s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s %q is not a number", name, s)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%s must be finite", name)
	}
	return f, nil
}

func parseFloatIn(name, s string, lo, hi float64) (float64, error) {
	f, err := parseFloat(name, s)
	if err != nil {
		return 0, err
	}
	if f < lo || f > hi {
		return 0, fmt.Errorf("%s %v out of range [%v, %v]", name, f, lo, hi)
	}
	return f, nil
}

func parseInt(name, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s %q is not an integer", name, s)
	}
	return n, nil
}

func parseIntIn(name, s string, lo, hi int) (int, error) {
	n, err := parseInt(name, s)
	if err != nil {
		return 0, err
	}
	if n < lo || n > hi {
		return 0, fmt.Errorf("%s %d out of range [%d, %d]", name, n, lo, hi)
	}
	return n, nil
}
