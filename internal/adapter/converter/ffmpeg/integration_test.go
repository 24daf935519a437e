package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/renderfarm/internal/step"
)

// requireTools skips unless ffmpeg, ffprobe and the encoders the catalog uses
// are installed.
func requireTools(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping ffmpeg integration test in short mode")
	}
	for _, bin := range []string{"ffmpeg", "ffprobe"} {
		if _, err := exec.LookPath(bin); err != nil {
			t.Skipf("%s not installed", bin)
		}
	}
	out, err := exec.Command("ffmpeg", "-hide_banner", "-encoders").Output()
	if err != nil {
		t.Skip("cannot list ffmpeg encoders")
	}
	for _, enc := range []string{"libx264", "libvpx-vp9", "libopus", "aac"} {
		if !strings.Contains(string(out), enc) {
			t.Skipf("ffmpeg built without %s", enc)
		}
	}
}

func makeClip(t *testing.T, dir string, seconds string) string {
	t.Helper()
	clip := filepath.Join(dir, "source.mp4")
	cmd := exec.Command("ffmpeg", "-hide_banner", "-nostdin", "-y",
		"-f", "lavfi", "-i", "testsrc=size=320x240:rate=30:duration="+seconds,
		"-f", "lavfi", "-i", "sine=frequency=440:duration="+seconds,
		"-shortest", "-c:v", "libx264", "-pix_fmt", "yuv420p", "-c:a", "aac", clip)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
	return clip
}

func TestIntegration_FlipSpeedWebm(t *testing.T) {
	requireTools(t)
	ctx := context.Background()
	dir := t.TempDir()
	src := makeClip(t, dir, "3")

	prober := NewProber("ffprobe", nil)
	catalog := NewCatalog(Options{Binary: "ffmpeg", DiagnosticsLimit: 2048})

	meta, err := prober.Probe(ctx, src)
	require.NoError(t, err)
	require.Equal(t, 320, meta.Width)

	current := src
	for i, tok := range []string{"hflip", "speed1.10", "format:webm"} {
		op, err := step.Decode(tok)
		require.NoError(t, err)
		out := filepath.Join(dir, fmt.Sprintf("step-%02d-%s%s", i, op.Kind(), filepath.Ext(current)))
		current, err = catalog.Execute(ctx, op, current, out, meta)
		require.NoError(t, err)
	}

	assert.Equal(t, ".webm", filepath.Ext(current))
	final, err := prober.Probe(ctx, current)
	require.NoError(t, err)
	assert.Equal(t, 320, final.Width)
	assert.Equal(t, 240, final.Height)
	assert.InDelta(t, meta.Duration/1.1, final.Duration, 0.25)
	assert.True(t, final.HasAudio)
}

func TestIntegration_ZoomKeepsDimensions(t *testing.T) {
	requireTools(t)
	ctx := context.Background()
	dir := t.TempDir()
	src := makeClip(t, dir, "1")

	prober := NewProber("ffprobe", nil)
	catalog := NewCatalog(Options{})

	meta, err := prober.Probe(ctx, src)
	require.NoError(t, err)

	for _, f := range []float64{1.3, 0.7} {
		out := filepath.Join(dir, "zoom-"+step.Zoom{Factor: f}.Token()+".mp4")
		got, err := catalog.Execute(ctx, step.Zoom{Factor: f}, src, out, meta)
		require.NoError(t, err)

		res, err := prober.Probe(ctx, got)
		require.NoError(t, err)
		assert.Equal(t, meta.Width, res.Width)
		assert.Equal(t, meta.Height, res.Height)
	}
}
