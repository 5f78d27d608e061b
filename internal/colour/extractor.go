package colour

import (
	"errors"
	"fmt"
	"image"

	"github.com/hashicorp/go-hclog"
)

var (
	// ErrEmptySample is returned when no pixel samples survive filtering.
	ErrEmptySample = errors.New("no colour samples remain after filtering")

	// ErrInvalidInput is returned for caller contract violations.
	ErrInvalidInput = errors.New("invalid input")
)

const (
	// DefaultPaletteSize is the palette size used when none is requested.
	DefaultPaletteSize = 5

	// MaxPaletteSize bounds the requested palette size.
	MaxPaletteSize = 128
)

// Options configures an Extractor.
type Options struct {
	MaxEdge       int
	Filter        ResampleFilter
	Seed          int64
	MaxIterations int
	Tolerance     float64

	// Logger receives debug output. Nil disables logging.
	Logger hclog.Logger
}

// DefaultOptions returns the default extractor options.
func DefaultOptions() Options {
	return Options{
		MaxEdge:       DefaultMaxEdge,
		Filter:        FilterCatmullRom,
		Seed:          DefaultSeed,
		MaxIterations: defaultMaxIterations,
		Tolerance:     defaultTolerance,
	}
}

// Validate validates the extractor options.
func (o Options) Validate() error {
	if o.MaxEdge < 1 {
		return fmt.Errorf("%w: max edge must be at least 1, got %d", ErrInvalidInput, o.MaxEdge)
	}
	if !IsValidFilter(o.Filter) {
		return fmt.Errorf("%w: unknown resample filter %q (valid filters: %v)", ErrInvalidInput, o.Filter, ValidFilters())
	}
	if o.MaxIterations < 1 {
		return fmt.Errorf("%w: max iterations must be at least 1, got %d", ErrInvalidInput, o.MaxIterations)
	}
	if o.Tolerance < 0 {
		return fmt.Errorf("%w: tolerance cannot be negative, got %g", ErrInvalidInput, o.Tolerance)
	}
	return nil
}

// Extractor runs the sampling, clustering, classification and curation
// pipeline. It holds no mutable state and is safe for concurrent use.
type Extractor struct {
	sampler *Sampler
	kmeans  *KMeans
	logger  hclog.Logger
}

// NewExtractor creates an Extractor. Invalid options are rejected.
func NewExtractor(opts Options) (*Extractor, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Extractor{
		sampler: &Sampler{MaxEdge: opts.MaxEdge, Filter: opts.Filter},
		kmeans: &KMeans{
			MaxIterations: opts.MaxIterations,
			Tolerance:     opts.Tolerance,
			Seed:          opts.Seed,
		},
		logger: logger,
	}, nil
}

// ExtractPalette returns a curated brand palette of at most size colours.
func (e *Extractor) ExtractPalette(img image.Image, size int) (*Palette, error) {
	if err := validateSize(size); err != nil {
		return nil, err
	}

	candidates, total, err := e.classify(img, size*CandidateFactor)
	if err != nil {
		return nil, err
	}

	colours, fellBack := Curate(candidates, size)
	e.logger.Debug("curated palette", "requested", size, "returned", len(colours), "fallback", fellBack)

	return &Palette{
		Colours:      colours,
		Candidates:   candidates,
		TotalSamples: total,
		Curated:      true,
		FellBack:     fellBack,
	}, nil
}

// Extract returns count clustered colours without curation, in frequency order.
func (e *Extractor) Extract(img image.Image, count int) (*Palette, error) {
	if err := validateSize(count); err != nil {
		return nil, err
	}

	candidates, total, err := e.classify(img, count)
	if err != nil {
		return nil, err
	}

	return &Palette{
		Colours:      candidates,
		Candidates:   candidates,
		TotalSamples: total,
	}, nil
}

// classify samples the image, clusters into k colours and classifies them.
func (e *Extractor) classify(img image.Image, k int) ([]ClassifiedColour, int, error) {
	samples, err := e.sampler.Sample(img)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to sample image: %w", err)
	}
	e.logger.Debug("sampled image", "samples", len(samples))

	clusters := e.kmeans.Cluster(samples, k)
	e.logger.Debug("clustered samples", "requested", k, "clusters", len(clusters))

	return Classify(clusters), len(samples), nil
}

func validateSize(size int) error {
	if size < 1 {
		return fmt.Errorf("%w: palette size must be at least 1, got %d", ErrInvalidInput, size)
	}
	if size > MaxPaletteSize {
		return fmt.Errorf("%w: palette size too large: %d (maximum: %d)", ErrInvalidInput, size, MaxPaletteSize)
	}
	return nil
}
