package domain

import (
	"errors"
	"fmt"
)

// MediaMetadata is probed once from the fetched source and reused by every
// step. HasAudio is the exception: the pipeline sets it once a step adds a
// track.
type MediaMetadata struct {
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Bitrate  int64   `json:"bitrate"`
	Duration float64 `json:"duration"`
	HasAudio bool    `json:"has_audio"`
}

func (m MediaMetadata) HasDimensions() bool {
	return m.Width > 0 && m.Height > 0
}

func (m MediaMetadata) Validate() error {
	if !m.HasDimensions() {
		return errors.New("no video dimensions")
	}
	return nil
}

func (m MediaMetadata) String() string {
	s := fmt.Sprintf("%dx%d, %s", m.Width, m.Height, FormatDuration(m.Duration))
	if m.Bitrate > 0 {
		s += ", " + FormatBitrate(m.Bitrate)
	}
	if !m.HasAudio {
		s += ", no audio"
	}
	return s
}
