package cli

import (
	"fmt"
	"image"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/brandkit/internal/colour"
	"github.com/jmylchreest/brandkit/internal/seed"
)

// extractSettings holds the extraction flags shared by extract and batch.
type extractSettings struct {
	size      int
	raw       bool
	filter    filterFlag
	maxEdge   int
	seedMode  seedModeFlag
	seedValue int64
}

func (s *extractSettings) register(cmd *cobra.Command) {
	s.filter = filterFlag(colour.FilterCatmullRom)
	s.seedMode = seedModeFlag(seed.ModeFixed)

	cmd.Flags().IntVarP(&s.size, "size", "s", colour.DefaultPaletteSize, fmt.Sprintf("number of colours in the palette (1-%d)", colour.MaxPaletteSize))
	cmd.Flags().BoolVar(&s.raw, "raw", false, "return clustered colours without curation")
	cmd.Flags().Var(&s.filter, "filter", "resample filter for large images (catmullrom, bilinear, lanczos)")
	cmd.Flags().IntVar(&s.maxEdge, "max-edge", colour.DefaultMaxEdge, "downsample images whose longer edge exceeds this many pixels")
	cmd.Flags().Var(&s.seedMode, "seed-mode", "clustering seed mode (fixed, content, manual)")
	cmd.Flags().Int64Var(&s.seedValue, "seed", seed.DefaultSeed, "clustering seed (implies --seed-mode=manual)")
}

func (s *extractSettings) validate() error {
	if s.size < 1 || s.size > colour.MaxPaletteSize {
		return fmt.Errorf("size must be between 1 and %d, got %d", colour.MaxPaletteSize, s.size)
	}
	if s.maxEdge < 1 {
		return fmt.Errorf("max edge must be at least 1, got %d", s.maxEdge)
	}
	return nil
}

// seedConfig resolves the seed flags. Setting --seed alone selects manual mode.
func (s *extractSettings) seedConfig(cmd *cobra.Command) seed.Config {
	cfg := seed.Config{Mode: seed.Mode(s.seedMode)}
	if cmd.Flags().Changed("seed") {
		v := s.seedValue
		cfg.Value = &v
		if !cmd.Flags().Changed("seed-mode") {
			cfg.Mode = seed.ModeManual
		}
	}
	return cfg
}

// extract runs the palette extraction for one image.
func (s *extractSettings) extract(cmd *cobra.Command, img image.Image, logger hclog.Logger) (*colour.Palette, error) {
	cfg := s.seedConfig(cmd)
	seedValue, err := seed.Calculate(img, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate seed: %w", err)
	}
	logger.Debug("using seed", "mode", cfg.Mode, "seed", seedValue)

	opts := colour.DefaultOptions()
	opts.MaxEdge = s.maxEdge
	opts.Filter = colour.ResampleFilter(s.filter)
	opts.Seed = seedValue
	opts.Logger = logger

	extractor, err := colour.NewExtractor(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create extractor: %w", err)
	}

	if s.raw {
		return extractor.Extract(img, s.size)
	}
	return extractor.ExtractPalette(img, s.size)
}
