// Package step decodes pipeline step tokens into typed operations.
//
// Every operation renders its canonical token, and decoding that token yields
// an equal operation.
package step

import (
	"fmt"
	"path"
	"strconv"
	"strings"
)

type Kind string

const (
	KindFlip            Kind = "flip"
	KindSpeed           Kind = "speed"
	KindNoise           Kind = "noise"
	KindFormat          Kind = "format"
	KindBitrate         Kind = "bitrate"
	KindBorder          Kind = "border"
	KindVignette        Kind = "vignette"
	KindSaturation      Kind = "saturation"
	KindBrightness      Kind = "brightness"
	KindZoom            Kind = "zoom"
	KindRotate          Kind = "rotate"
	KindWatermark       Kind = "watermark"
	KindReplaceAudio    Kind = "replace_audio"
	KindBackgroundMusic Kind = "backgroundmusic"
	KindRatio           Kind = "ratio"
	KindInjectRatio     Kind = "iratio"
	KindSticker         Kind = "sticker"
	KindGeotags         Kind = "geotags"
	KindThumbnail       Kind = "thumbnail"
	KindInjectThumbnail Kind = "injectthumbnail"
	KindPreroll         Kind = "preroll"
	KindPostroll        Kind = "postroll"
	KindText            Kind = "text"
	KindTextWithBg      Kind = "textwithbg"
)

// AddsAudio reports whether the kind's output always carries an audio
// track, even when its input had none.
func (k Kind) AddsAudio() bool {
	return k == KindReplaceAudio || k == KindBackgroundMusic
}

// Operation is a decoded step.
type Operation interface {
	Kind() Kind
	Token() string
}

type Flip struct{}

func (Flip) Kind() Kind    { return KindFlip }
func (Flip) Token() string { return "hflip" }

type Speed struct {
	Factor float64
}

func (Speed) Kind() Kind      { return KindSpeed }
func (o Speed) Token() string { return "speed" + formatFloat(o.Factor) }

type Noise struct {
	Strength int
}

func (Noise) Kind() Kind      { return KindNoise }
func (o Noise) Token() string { return "noise" + strconv.Itoa(o.Strength) }

type Format struct {
	Container string
}

func (Format) Kind() Kind      { return KindFormat }
func (o Format) Token() string { return "format:" + o.Container }

// Extension is the file extension the container implies, with the dot.
func (o Format) Extension() string { return "." + o.Container }

type Bitrate struct {
	Multiplier float64
}

func (Bitrate) Kind() Kind      { return KindBitrate }
func (o Bitrate) Token() string { return "bitrate" + formatFloat(o.Multiplier) }

const (
	BorderBlack = "black"
	BorderWhite = "white"
)

type Border struct {
	Width int
	Color string
}

func (Border) Kind() Kind { return KindBorder }

func (o Border) Token() string {
	if o.Color == BorderWhite {
		return "wborder" + strconv.Itoa(o.Width)
	}
	return "border" + strconv.Itoa(o.Width)
}

// Vignette holds the lens angle in radians.
type Vignette struct {
	Angle float64
}

func (Vignette) Kind() Kind      { return KindVignette }
func (o Vignette) Token() string { return "vignette" + formatFloat(o.Angle) }

type Saturation struct {
	Value float64
}

func (Saturation) Kind() Kind      { return KindSaturation }
func (o Saturation) Token() string { return "saturation" + formatFloat(o.Value) }

type Brightness struct {
	Value float64
}

func (Brightness) Kind() Kind      { return KindBrightness }
func (o Brightness) Token() string { return "brightness" + formatFloat(o.Value) }

type Zoom struct {
	Factor float64
}

func (Zoom) Kind() Kind      { return KindZoom }
func (o Zoom) Token() string { return "zoom" + formatFloat(o.Factor) }

type Rotate struct {
	Degrees int
}

func (Rotate) Kind() Kind      { return KindRotate }
func (o Rotate) Token() string { return "rotate" + strconv.Itoa(o.Degrees) }

type Watermark struct {
	Variant int
}

func (Watermark) Kind() Kind      { return KindWatermark }
func (o Watermark) Token() string { return "watermark" + strconv.Itoa(o.Variant) }

type ReplaceAudio struct {
	Asset string
}

func (ReplaceAudio) Kind() Kind      { return KindReplaceAudio }
func (o ReplaceAudio) Token() string { return "replace_audio:" + o.Asset }

// BackgroundMusic mixes a looped track under the original audio.
// Volume is a percentage of the track's level.
type BackgroundMusic struct {
	Volume int
	Asset  string
}

func (BackgroundMusic) Kind() Kind { return KindBackgroundMusic }

func (o BackgroundMusic) Token() string {
	return fmt.Sprintf("backgroundmusic::%d::%s", o.Volume, o.Asset)
}

// Ratio stretches the height to W:H, distorting the frame. InjectRatio pads
// to W:H instead.
type Ratio struct {
	W, H int
}

func (Ratio) Kind() Kind      { return KindRatio }
func (o Ratio) Token() string { return fmt.Sprintf("ratio%d:%d", o.W, o.H) }

type InjectRatio struct {
	W, H int
}

func (InjectRatio) Kind() Kind      { return KindInjectRatio }
func (o InjectRatio) Token() string { return fmt.Sprintf("iratio%d:%d", o.W, o.H) }

// Sticker places an image or animation centred on (X%, Y%) of the frame.
type Sticker struct {
	X, Y     float64
	Width    int
	Rotation float64
	URL      string
}

func (Sticker) Kind() Kind { return KindSticker }

func (o Sticker) Token() string {
	return strings.Join([]string{
		"sticker",
		formatFloat(o.X),
		formatFloat(o.Y),
		strconv.Itoa(o.Width),
		formatFloat(o.Rotation),
		o.URL,
	}, "::")
}

// Animated reports whether the sticker should loop for the clip's length.
func (o Sticker) Animated() bool {
	u := o.URL
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	switch strings.ToLower(path.Ext(u)) {
	case ".webm", ".mp4", ".gif", ".mov":
		return true
	}
	return false
}

type Geotags struct {
	Latitude  float64
	Longitude float64
}

func (Geotags) Kind() Kind { return KindGeotags }

func (o Geotags) Token() string {
	return "geotags::" + formatFloat(o.Latitude) + "::" + formatFloat(o.Longitude)
}

// ISO6709 renders the location the way container metadata expects it.
func (o Geotags) ISO6709() string {
	return fmt.Sprintf("%+.4f%+.4f/", o.Latitude, o.Longitude)
}

// Thumbnail prepends a single frame taken at Percent of the clip.
type Thumbnail struct {
	Percent float64
}

func (Thumbnail) Kind() Kind      { return KindThumbnail }
func (o Thumbnail) Token() string { return "thumbnail" + formatFloat(o.Percent) }

type InjectThumbnail struct {
	Asset string
}

func (InjectThumbnail) Kind() Kind      { return KindInjectThumbnail }
func (o InjectThumbnail) Token() string { return "injectthumbnail:" + o.Asset }

type Preroll struct {
	Asset string
}

func (Preroll) Kind() Kind      { return KindPreroll }
func (o Preroll) Token() string { return "preroll:" + o.Asset }

type Postroll struct {
	Asset string
}

func (Postroll) Kind() Kind      { return KindPostroll }
func (o Postroll) Token() string { return "postroll:" + o.Asset }

type Anchor string

const (
	AnchorTop    Anchor = "top"
	AnchorBottom Anchor = "bottom"
	AnchorCenter Anchor = "center"
	// AnchorPoint centres the text on X%, Y% of the frame.
	AnchorPoint Anchor = "point"
)

type Position struct {
	Anchor Anchor
	X, Y   float64
}

func (p Position) String() string {
	if p.Anchor == AnchorPoint {
		return formatFloat(p.X) + "," + formatFloat(p.Y)
	}
	return string(p.Anchor)
}

// Text draws a caption. Padding is a percentage of the frame height used by
// the top and bottom anchors.
type Text struct {
	Padding  int
	FontSize int
	Position Position
	Color    string
	Text     string
}

func (Text) Kind() Kind { return KindText }

func (o Text) Token() string {
	return strings.Join([]string{
		"text",
		strconv.Itoa(o.Padding),
		strconv.Itoa(o.FontSize),
		o.Position.String(),
		o.Color,
		o.Text,
	}, "::")
}

type TextWithBg struct {
	Text
	BoxColor string
	BoxSize  int
}

func (TextWithBg) Kind() Kind { return KindTextWithBg }

func (o TextWithBg) Token() string {
	return strings.Join([]string{
		"textwithbg",
		strconv.Itoa(o.Padding),
		strconv.Itoa(o.FontSize),
		o.Position.String(),
		o.Color,
		o.BoxColor,
		strconv.Itoa(o.BoxSize),
		o.Text.Text,
	}, "::")
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
