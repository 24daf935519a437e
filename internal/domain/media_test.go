package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProbeResult_Metadata(t *testing.T) {
	tests := []struct {
		name  string
		probe ProbeResult
		want  MediaMetadata
	}{
		{
			name: "video and audio with stream bitrate",
			probe: ProbeResult{
				Format: ProbeFormat{Duration: "12.500000", BitRate: "3000000"},
				Streams: []ProbeStream{
					{CodecType: "video", Width: 1920, Height: 1080, BitRate: "2500000"},
					{CodecType: "audio"},
				},
			},
			want: MediaMetadata{Width: 1920, Height: 1080, Bitrate: 2500000, Duration: 12.5, HasAudio: true},
		},
		{
			name: "container bitrate fallback",
			probe: ProbeResult{
				Format:  ProbeFormat{Duration: "4", BitRate: "900000"},
				Streams: []ProbeStream{{CodecType: "video", Width: 720, Height: 1280, BitRate: "N/A"}},
			},
			want: MediaMetadata{Width: 720, Height: 1280, Bitrate: 900000, Duration: 4},
		},
		{
			name: "stream duration fallback",
			probe: ProbeResult{
				Format:  ProbeFormat{Duration: "N/A"},
				Streams: []ProbeStream{{CodecType: "video", Width: 640, Height: 360, Duration: "7.25"}},
			},
			want: MediaMetadata{Width: 640, Height: 360, Duration: 7.25},
		},
		{
			name: "audio only",
			probe: ProbeResult{
				Format:  ProbeFormat{Duration: "30"},
				Streams: []ProbeStream{{CodecType: "audio"}},
			},
			want: MediaMetadata{Duration: 30, HasAudio: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.probe.Metadata()
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMediaMetadata_Validate(t *testing.T) {
	assert.NoError(t, MediaMetadata{Width: 2, Height: 2}.Validate())
	assert.Error(t, MediaMetadata{Width: 2}.Validate())
	assert.Error(t, MediaMetadata{}.Validate())
}

func TestFormatBitrate(t *testing.T) {
	assert.Equal(t, "2.5 Mbps", FormatBitrate(2500000))
	assert.Equal(t, "128.0 Kbps", FormatBitrate(128000))
	assert.Equal(t, "500 bps", FormatBitrate(500))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "00:00", FormatDuration(0))
	assert.Equal(t, "1:05", FormatDuration(65.4))
	assert.Equal(t, "1:01:01", FormatDuration(3661))
}
