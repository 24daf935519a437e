package ffmpeg

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/bnema/renderfarm/internal/domain"
	"github.com/bnema/renderfarm/internal/step"
)

type request struct {
	op       step.Operation
	in, out  string
	meta     domain.MediaMetadata
	prof     profile
	fontFile string
}

type command struct {
	args []string
	// files are written before the run and removed after it.
	files map[string]string
}

type builder func(r request) (command, error)

func head(inputs ...string) []string {
	args := []string{"-hide_banner", "-nostdin", "-y"}
	for _, in := range inputs {
		args = append(args, "-i", in)
	}
	return args
}

func tail(r request, args ...string) command {
	args = append(args, r.prof.container()...)
	return command{args: append(args, r.out)}
}

// videoFilter is the common shape: one input, a -vf chain, full re-encode.
func videoFilter(r request, vf string) command {
	args := head(r.in)
	args = append(args, "-vf", vf, "-map", "0:v:0", "-map", "0:a?")
	args = append(args, r.prof.video()...)
	args = append(args, r.prof.audio()...)
	return tail(r, args...)
}

// complexFilter maps [v] and the given audio selector after a filter graph.
func complexFilter(r request, args []string, graph, audioMap string) command {
	args = append(args, "-filter_complex", graph, "-map", "[v]")
	if audioMap != "" {
		args = append(args, "-map", audioMap)
	}
	args = append(args, r.prof.video()...)
	if audioMap != "" {
		args = append(args, r.prof.audio()...)
	} else {
		args = append(args, "-an")
	}
	return tail(r, args...)
}

func buildFlip(r request) (command, error) {
	return videoFilter(r, "hflip"), nil
}

func buildSpeed(r request) (command, error) {
	o := r.op.(step.Speed)
	setpts := "setpts=PTS/" + ff(o.Factor)
	if !r.meta.HasAudio {
		args := head(r.in)
		args = append(args, "-vf", setpts, "-map", "0:v:0", "-an")
		args = append(args, r.prof.video()...)
		return tail(r, args...), nil
	}
	graph := "[0:v]" + setpts + "[v];[0:a]" + atempoChain(o.Factor) + "[a]"
	return complexFilter(r, head(r.in), graph, "[a]"), nil
}

func buildNoise(r request) (command, error) {
	o := r.op.(step.Noise)
	return videoFilter(r, fmt.Sprintf("noise=alls=%d:allf=t+u", o.Strength)), nil
}

func buildFormat(r request) (command, error) {
	args := head(r.in)
	args = append(args, "-map", "0:v:0", "-map", "0:a?")
	args = append(args, r.prof.video()...)
	args = append(args, r.prof.audio()...)
	return tail(r, args...), nil
}

func buildBitrate(r request) (command, error) {
	o := r.op.(step.Bitrate)
	target := int64(math.Round(float64(r.meta.Bitrate) * o.Multiplier))
	if target <= 0 {
		return command{}, fmt.Errorf("target bitrate %d is not positive", target)
	}
	args := head(r.in)
	args = append(args, "-map", "0:v:0", "-map", "0:a?")
	args = append(args, r.prof.videoAtBitrate(target)...)
	args = append(args, r.prof.audio()...)
	return tail(r, args...), nil
}

func buildBorder(r request) (command, error) {
	o := r.op.(step.Border)
	w := o.Width
	return videoFilter(r, fmt.Sprintf("pad=iw+%d:ih+%d:%d:%d:color=%s", 2*w, 2*w, w, w, o.Color)), nil
}

func buildVignette(r request) (command, error) {
	o := r.op.(step.Vignette)
	return videoFilter(r, "vignette=angle="+ff(o.Angle)), nil
}

func buildSaturation(r request) (command, error) {
	o := r.op.(step.Saturation)
	return videoFilter(r, "eq=saturation="+ff(o.Value)), nil
}

func buildBrightness(r request) (command, error) {
	o := r.op.(step.Brightness)
	return videoFilter(r, "eq=brightness="+ff(o.Value)), nil
}

// buildZoom always produces a frame of the probed size.
func buildZoom(r request) (command, error) {
	o := r.op.(step.Zoom)
	w, h := r.meta.Width, r.meta.Height
	sw, sh := even(float64(w)*o.Factor), even(float64(h)*o.Factor)
	if o.Factor >= 1 {
		return videoFilter(r, fmt.Sprintf("scale=%d:%d,crop=%d:%d,setsar=1", sw, sh, w, h)), nil
	}
	return videoFilter(r, fmt.Sprintf("scale=%d:%d,pad=%d:%d:(ow-iw)/2:(oh-ih)/2:color=black,setsar=1", sw, sh, w, h)), nil
}

func buildRotate(r request) (command, error) {
	o := r.op.(step.Rotate)
	rad := float64(o.Degrees) * math.Pi / 180
	return videoFilter(r, "rotate="+ff(rad)+":ow=iw:oh=ih:c=black"), nil
}

const (
	watermarkDelaySeconds = 3
	watermarkFadeSeconds  = 0.5
)

func buildWatermark(r request) (command, error) {
	o := r.op.(step.Watermark)
	v, ok := step.LookupWatermark(o.Variant)
	if !ok {
		return command{}, fmt.Errorf("unknown watermark variant %d", o.Variant)
	}
	width := v.Width(r.meta.Width)
	margin := v.Margin(r.meta.Height)
	graph := fmt.Sprintf("[1:v]scale=%d:-2,format=rgba,fade=t=in:st=%d:d=%s:alpha=1[wm];"+
		"[0:v][wm]overlay=x=(W-w)/2:y=H-h%+d:enable='gte(t,%d)':shortest=1[v]",
		width, watermarkDelaySeconds, ff(watermarkFadeSeconds), -margin, watermarkDelaySeconds)

	args := head(r.in)
	args = append(args, "-stream_loop", "-1", "-i", v.AssetURL)
	return complexFilter(r, args, graph, "0:a?"), nil
}

func buildReplaceAudio(r request) (command, error) {
	o := r.op.(step.ReplaceAudio)
	graph := "[1:a]atrim=end=" + ff(r.meta.Duration) + ",asetpts=PTS-STARTPTS[a]"
	args := head(r.in, o.Asset)
	args = append(args, "-filter_complex", graph, "-map", "0:v:0", "-map", "[a]", "-c:v", "copy")
	args = append(args, r.prof.audio()...)
	args = append(args, "-shortest")
	return tail(r, args...), nil
}

func buildBackgroundMusic(r request) (command, error) {
	o := r.op.(step.BackgroundMusic)
	vol := ff(float64(o.Volume) / 100)
	graph := "[1:a]volume=" + vol + "[a]"
	if r.meta.HasAudio {
		graph = "[1:a]volume=" + vol + "[music];" +
			"[0:a][music]amix=inputs=2:duration=first:dropout_transition=2:weights=1 1:normalize=0[a]"
	}
	args := head(r.in)
	args = append(args, "-stream_loop", "-1", "-i", o.Asset)
	args = append(args, "-filter_complex", graph, "-map", "0:v:0", "-map", "[a]")
	args = append(args, r.prof.video()...)
	args = append(args, r.prof.audio()...)
	args = append(args, "-shortest")
	return tail(r, args...), nil
}

// buildRatio stretches the height and distorts the content.
func buildRatio(r request) (command, error) {
	o := r.op.(step.Ratio)
	return videoFilter(r, fmt.Sprintf("scale=iw:trunc(iw*%d/%d/2)*2,setsar=1", o.H, o.W)), nil
}

// buildInjectRatio pads to the target aspect without scaling the content.
func buildInjectRatio(r request) (command, error) {
	o := r.op.(step.InjectRatio)
	vf := fmt.Sprintf("pad=w='trunc(max(iw,ih*%[1]d/%[2]d)/2)*2':h='trunc(max(ih,iw*%[2]d/%[1]d)/2)*2'"+
		":x=(ow-iw)/2:y=(oh-ih)/2:color=black,setsar=1", o.W, o.H)
	return videoFilter(r, vf), nil
}

func buildSticker(r request) (command, error) {
	o := r.op.(step.Sticker)
	chain := "scale=" + strconv.Itoa(o.Width) + ":-1"
	if o.Rotation != 0 {
		chain += ",rotate=" + ff(o.Rotation*math.Pi/180) + ":ow='hypot(iw,ih)':oh=ow:c=none"
	}
	chain += ",format=rgba"

	overlay := "overlay=x=W*" + ff(o.X/100) + "-w/2:y=H*" + ff(o.Y/100) + "-h/2"
	args := head(r.in)
	if o.Animated() {
		overlay += ":shortest=1"
		args = append(args, "-stream_loop", "-1")
	}
	args = append(args, "-i", o.URL)

	graph := "[1:v]" + chain + "[st];[0:v][st]" + overlay + "[v]"
	return complexFilter(r, args, graph, "0:a?"), nil
}

func buildGeotags(r request) (command, error) {
	o := r.op.(step.Geotags)
	loc := o.ISO6709()
	args := head(r.in)
	args = append(args,
		"-map", "0:v:0", "-map", "0:a?", "-c", "copy",
		"-metadata", "location="+loc,
		"-metadata", "location-eng="+loc,
		"-metadata:s:v:0", "location="+loc,
	)
	return tail(r, args...), nil
}

const leadInSeconds = 0.04

func buildThumbnail(r request) (command, error) {
	o := r.op.(step.Thumbnail)
	at := r.meta.Duration * o.Percent / 100
	if at > r.meta.Duration-leadInSeconds {
		at = math.Max(0, r.meta.Duration-leadInSeconds)
	}
	graph := "[0:v]split=2[src][body];" +
		"[src]trim=start=" + ff(at) + ":duration=" + ff(leadInSeconds) + ",setpts=PTS-STARTPTS[thumb];" +
		"[body]setpts=PTS-STARTPTS[main];" +
		"[thumb][main]concat=n=2:v=1:a=0[v]"
	return complexFilter(r, head(r.in), graph, "0:a?"), nil
}

func buildInjectThumbnail(r request) (command, error) {
	o := r.op.(step.InjectThumbnail)
	w, h := r.meta.Width, r.meta.Height
	fps := r.prof.enc.FrameRate
	graph := "[0:v]" + fitCanvas(w, h, fps) + ",trim=duration=" + ff(leadInSeconds) + ",setpts=PTS-STARTPTS[thumb];" +
		"[1:v]" + fitCanvas(w, h, fps) + ",setpts=PTS-STARTPTS[main];" +
		"[thumb][main]concat=n=2:v=1:a=0[v]"
	args := []string{"-hide_banner", "-nostdin", "-y", "-loop", "1", "-i", o.Asset, "-i", r.in}
	return complexFilter(r, args, graph, "1:a?"), nil
}

// buildRoll concatenates asset and main clip on the main clip's canvas.
// The asset goes first when before is set.
func buildRoll(asset string, before bool) builder {
	return func(r request) (command, error) {
		w, h := r.meta.Width, r.meta.Height
		fps := r.prof.enc.FrameRate
		graph := "[0:v]" + fitCanvas(w, h, fps) + "[mv];[1:v]" + fitCanvas(w, h, fps) + "[xv];"

		first, second := "[mv]", "[xv]"
		firstA, secondA := "[ma]", "[xa]"
		if before {
			first, second = second, first
			firstA, secondA = secondA, firstA
		}

		if !r.meta.HasAudio {
			graph += first + second + "concat=n=2:v=1:a=0[v]"
			return complexFilter(r, head(r.in, asset), graph, ""), nil
		}
		graph += "[0:a]" + audioNormalize + "[ma];[1:a]" + audioNormalize + "[xa];" +
			first + firstA + second + secondA + "concat=n=2:v=1:a=1[v][a]"
		return complexFilter(r, head(r.in, asset), graph, "[a]"), nil
	}
}

func buildPreroll(r request) (command, error) {
	return buildRoll(r.op.(step.Preroll).Asset, true)(r)
}

func buildPostroll(r request) (command, error) {
	return buildRoll(r.op.(step.Postroll).Asset, false)(r)
}

func textPosition(t step.Text) (x, y string) {
	pad := ff(float64(t.Padding) / 100)
	switch t.Position.Anchor {
	case step.AnchorPoint:
		return "w*" + ff(t.Position.X/100) + "-tw/2", "h*" + ff(t.Position.Y/100) + "-th/2"
	case step.AnchorTop:
		return "(w-tw)/2", "h*" + pad
	case step.AnchorBottom:
		return "(w-tw)/2", "h-th-h*" + pad
	default:
		return "(w-tw)/2", "(h-th)/2"
	}
}

// drawtext reads the caption from a side file, which avoids escaping user text
// inside the filter graph.
func drawtext(r request, t step.Text, extra string) (command, error) {
	if t.Text == "" {
		return command{}, errors.New("empty text")
	}
	textFile := r.out + ".txt"
	x, y := textPosition(t)

	var b strings.Builder
	b.WriteString("drawtext=textfile=" + escapeFilterValue(textFile))
	b.WriteString(":expansion=none")
	if r.fontFile != "" {
		b.WriteString(":fontfile=" + escapeFilterValue(r.fontFile))
	}
	b.WriteString(":fontsize=" + strconv.Itoa(t.FontSize))
	b.WriteString(":fontcolor=" + t.Color)
	b.WriteString(":x=" + x + ":y=" + y)
	b.WriteString(extra)

	cmd := videoFilter(r, b.String())
	cmd.files = map[string]string{textFile: norm.NFC.String(t.Text)}
	return cmd, nil
}

func buildText(r request) (command, error) {
	return drawtext(r, r.op.(step.Text), "")
}

func buildTextWithBg(r request) (command, error) {
	o := r.op.(step.TextWithBg)
	box := o.BoxColor
	if !strings.Contains(box, "@") {
		box += "@1"
	}
	return drawtext(r, o.Text, ":box=1:boxcolor="+box+":boxborderw="+strconv.Itoa(o.BoxSize))
}
