package domain

import (
	"fmt"
	"strconv"
)

type ProbeFormat struct {
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	BitRate    string `json:"bit_rate"`
}

type ProbeStream struct {
	Index     int    `json:"index"`
	CodecType string `json:"codec_type"`
	CodecName string `json:"codec_name"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Duration  string `json:"duration"`
	BitRate   string `json:"bit_rate"`
}

// ProbeResult mirrors the subset of `ffprobe -show_format -show_streams` we read.
type ProbeResult struct {
	Format  ProbeFormat   `json:"format"`
	Streams []ProbeStream `json:"streams"`
}

const (
	oneMegabitPerSec = 1000000
	oneKilobitPerSec = 1000
)

func (p *ProbeResult) VideoStream() *ProbeStream {
	for i := range p.Streams {
		if p.Streams[i].CodecType == "video" {
			return &p.Streams[i]
		}
	}
	return nil
}

func (p *ProbeResult) AudioStream() *ProbeStream {
	for i := range p.Streams {
		if p.Streams[i].CodecType == "audio" {
			return &p.Streams[i]
		}
	}
	return nil
}

// Metadata reduces the probe output. Bitrate prefers the video stream and
// falls back to the container; duration prefers the container.
func (p *ProbeResult) Metadata() MediaMetadata {
	var m MediaMetadata
	vs := p.VideoStream()
	if vs != nil {
		m.Width, m.Height = vs.Width, vs.Height
		m.Bitrate = ParseBitrate(vs.BitRate)
	}
	if m.Bitrate == 0 {
		m.Bitrate = ParseBitrate(p.Format.BitRate)
	}
	m.Duration = ParseDuration(p.Format.Duration)
	if m.Duration == 0 && vs != nil {
		m.Duration = ParseDuration(vs.Duration)
	}
	m.HasAudio = p.AudioStream() != nil
	return m
}

func ParseDuration(durationStr string) float64 {
	if durationStr == "" || durationStr == "N/A" {
		return 0
	}
	duration, err := strconv.ParseFloat(durationStr, 64)
	if err != nil || duration < 0 {
		return 0
	}
	return duration
}

func ParseBitrate(bitrateStr string) int64 {
	if bitrateStr == "" || bitrateStr == "N/A" {
		return 0
	}
	bitrate, err := strconv.ParseInt(bitrateStr, 10, 64)
	if err != nil || bitrate < 0 {
		return 0
	}
	return bitrate
}

func FormatDuration(seconds float64) string {
	if seconds <= 0 {
		return "00:00"
	}
	hours := int(seconds) / 3600
	minutes := (int(seconds) % 3600) / 60
	secs := int(seconds) % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

func FormatBitrate(bitrate int64) string {
	b := float64(bitrate)
	if b >= oneMegabitPerSec {
		return fmt.Sprintf("%.1f Mbps", b/oneMegabitPerSec)
	}
	if b >= oneKilobitPerSec {
		return fmt.Sprintf("%.1f Kbps", b/oneKilobitPerSec)
	}
	return fmt.Sprintf("%.0f bps", b)
}
