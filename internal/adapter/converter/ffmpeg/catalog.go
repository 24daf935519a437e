package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/bnema/renderfarm/internal/domain"
	"github.com/bnema/renderfarm/internal/infrastructure/logger"
	"github.com/bnema/renderfarm/internal/infrastructure/process"
	"github.com/bnema/renderfarm/internal/port"
	"github.com/bnema/renderfarm/internal/step"
)

// Needs lists the metadata fields an operation reads.
type Needs uint8

const (
	NeedDimensions Needs = 1 << iota
	NeedBitrate
	NeedDuration
)

type entry struct {
	build builder
	needs Needs
}

var registry = map[step.Kind]entry{
	step.KindFlip:            {build: buildFlip},
	step.KindSpeed:           {build: buildSpeed},
	step.KindNoise:           {build: buildNoise},
	step.KindFormat:          {build: buildFormat},
	step.KindBitrate:         {build: buildBitrate, needs: NeedBitrate},
	step.KindBorder:          {build: buildBorder},
	step.KindVignette:        {build: buildVignette},
	step.KindSaturation:      {build: buildSaturation},
	step.KindBrightness:      {build: buildBrightness},
	step.KindZoom:            {build: buildZoom, needs: NeedDimensions},
	step.KindRotate:          {build: buildRotate},
	step.KindWatermark:       {build: buildWatermark, needs: NeedDimensions},
	step.KindReplaceAudio:    {build: buildReplaceAudio, needs: NeedDuration},
	step.KindBackgroundMusic: {build: buildBackgroundMusic},
	step.KindRatio:           {build: buildRatio},
	step.KindInjectRatio:     {build: buildInjectRatio},
	step.KindSticker:         {build: buildSticker},
	step.KindGeotags:         {build: buildGeotags},
	step.KindThumbnail:       {build: buildThumbnail, needs: NeedDuration},
	step.KindInjectThumbnail: {build: buildInjectThumbnail, needs: NeedDimensions},
	step.KindPreroll:         {build: buildPreroll, needs: NeedDimensions},
	step.KindPostroll:        {build: buildPostroll, needs: NeedDimensions},
	step.KindText:            {build: buildText},
	step.KindTextWithBg:      {build: buildTextWithBg},
}

type Options struct {
	Binary           string
	Encoding         Encoding
	FontFile         string
	DiagnosticsLimit int
	Runner           process.Runner
}

// Catalog executes decoded operations with ffmpeg.
type Catalog struct {
	runner    process.Runner
	binary    string
	enc       Encoding
	fontFile  string
	diagLimit int
	entries   map[step.Kind]entry
}

func NewCatalog(opts Options) *Catalog {
	if opts.Binary == "" {
		opts.Binary = "ffmpeg"
	}
	if opts.Runner == nil {
		opts.Runner = process.ExecRunner{}
	}
	if opts.Encoding == (Encoding{}) {
		opts.Encoding = DefaultEncoding()
	}
	return &Catalog{
		runner:    opts.Runner,
		binary:    opts.Binary,
		enc:       opts.Encoding,
		fontFile:  opts.FontFile,
		diagLimit: opts.DiagnosticsLimit,
		entries:   registry,
	}
}

// Kinds returns every kind the catalog can execute.
func (c *Catalog) Kinds() []step.Kind {
	kinds := make([]step.Kind, 0, len(c.entries))
	for k := range c.entries {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Execute runs op on inputPath. Errors are *domain.ExecutionError with a
// StepIndex of -1; the pipeline fills in the index.
func (c *Catalog) Execute(ctx context.Context, op step.Operation, inputPath, outputPath string, meta domain.MediaMetadata) (string, error) {
	kind := string(op.Kind())
	fail := func(diag string, err error) (string, error) {
		return "", &domain.ExecutionError{StepIndex: -1, Kind: kind, Diagnostics: diag, Err: err}
	}

	e, ok := c.entries[op.Kind()]
	if !ok {
		return fail("", errors.New("no executor registered"))
	}
	if err := checkNeeds(e.needs, meta); err != nil {
		return fail("", err)
	}

	if f, ok := op.(step.Format); ok {
		outputPath = strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + f.Extension()
	}

	cmd, err := e.build(request{
		op:       op,
		in:       inputPath,
		out:      outputPath,
		meta:     meta,
		prof:     c.enc.profileFor(outputPath),
		fontFile: c.fontFile,
	})
	if err != nil {
		return fail("", fmt.Errorf("build command: %w", err))
	}

	for path, content := range cmd.files {
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			return fail("", fmt.Errorf("write %s: %w", filepath.Base(path), err))
		}
	}
	defer func() {
		for path := range cmd.files {
			_ = os.Remove(path)
		}
	}()

	log.Debug().
		Str("kind", kind).
		Str("args", logger.SanitizeForLog(strings.Join(cmd.args, " "))).
		Msg("running ffmpeg")

	_, stderr, err := c.runner.Run(ctx, c.binary, cmd.args...)
	if err != nil {
		if rmErr := os.Remove(outputPath); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			log.Warn().Err(rmErr).Str("path", outputPath).Msg("failed to remove partial output")
		}
		return fail(logger.Tail(string(stderr), c.diagLimit), err)
	}

	if _, err := os.Stat(outputPath); err != nil {
		return fail(logger.Tail(string(stderr), c.diagLimit), fmt.Errorf("no output produced: %w", err))
	}

	return outputPath, nil
}

func checkNeeds(n Needs, meta domain.MediaMetadata) error {
	switch {
	case n&NeedDimensions != 0 && !meta.HasDimensions():
		return errors.New("operation needs frame dimensions")
	case n&NeedBitrate != 0 && meta.Bitrate <= 0:
		return errors.New("operation needs the source bitrate")
	case n&NeedDuration != 0 && meta.Duration <= 0:
		return errors.New("operation needs the source duration")
	}
	return nil
}

var _ port.StepExecutor = (*Catalog)(nil)
