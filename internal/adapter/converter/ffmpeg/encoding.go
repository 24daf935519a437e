package ffmpeg

import (
	"path/filepath"
	"strconv"
	"strings"
)

// Encoding holds the encoder settings shared by every step.
type Encoding struct {
	Preset       string
	CRF          int
	WebmCRF      int
	AudioBitrate string
	FrameRate    int
	GOP          int
}

func DefaultEncoding() Encoding {
	return Encoding{
		Preset:       "fast",
		CRF:          23,
		WebmCRF:      32,
		AudioBitrate: "128k",
		FrameRate:    30,
		GOP:          60,
	}
}

// profile is the codec pair chosen by the output container.
type profile struct {
	webm  bool
	muxer string
	enc   Encoding
}

var muxers = map[string]string{
	".mp4":  "mp4",
	".mov":  "mov",
	".mkv":  "matroska",
	".webm": "webm",
}

func (e Encoding) profileFor(outputPath string) profile {
	ext := strings.ToLower(filepath.Ext(outputPath))
	m, ok := muxers[ext]
	if !ok {
		m = "mp4"
	}
	return profile{webm: ext == ".webm", muxer: m, enc: e}
}

func (p profile) rate() []string {
	return []string{"-r", strconv.Itoa(p.enc.FrameRate), "-g", strconv.Itoa(p.enc.GOP)}
}

func (p profile) video() []string {
	var args []string
	if p.webm {
		args = []string{"-c:v", "libvpx-vp9", "-crf", strconv.Itoa(p.enc.WebmCRF), "-b:v", "0",
			"-deadline", "good", "-cpu-used", "4", "-row-mt", "1"}
	} else {
		args = []string{"-c:v", "libx264", "-preset", p.enc.Preset, "-crf", strconv.Itoa(p.enc.CRF)}
	}
	args = append(args, "-pix_fmt", "yuv420p")
	return append(args, p.rate()...)
}

// videoAtBitrate replaces constant quality with a bitrate target.
func (p profile) videoAtBitrate(bps int64) []string {
	b := strconv.FormatInt(bps, 10)
	buf := strconv.FormatInt(bps*2, 10)
	var args []string
	if p.webm {
		args = []string{"-c:v", "libvpx-vp9", "-b:v", b, "-maxrate", b, "-bufsize", buf,
			"-deadline", "good", "-cpu-used", "4", "-row-mt", "1"}
	} else {
		args = []string{"-c:v", "libx264", "-preset", p.enc.Preset, "-b:v", b, "-maxrate", b, "-bufsize", buf}
	}
	args = append(args, "-pix_fmt", "yuv420p")
	return append(args, p.rate()...)
}

func (p profile) audio() []string {
	if p.webm {
		return []string{"-c:a", "libopus", "-b:a", p.enc.AudioBitrate}
	}
	return []string{"-c:a", "aac", "-b:a", p.enc.AudioBitrate}
}

// container returns the trailing muxer flags.
func (p profile) container() []string {
	args := []string{"-f", p.muxer}
	if p.muxer == "mp4" || p.muxer == "mov" {
		args = append(args, "-movflags", "+faststart")
	}
	return args
}
