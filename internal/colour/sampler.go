package colour

import (
	"fmt"
	"image"
	"slices"

	"github.com/nfnt/resize"
	"golang.org/x/image/draw"
)

// DefaultMaxEdge caps the longer image edge before sampling.
const DefaultMaxEdge = 300

// ResampleFilter selects the interpolation used when downsampling.
type ResampleFilter string

const (
	// FilterCatmullRom uses Catmull-Rom cubic interpolation (default).
	FilterCatmullRom ResampleFilter = "catmullrom"

	// FilterBiLinear uses bilinear interpolation. Faster, slightly softer.
	FilterBiLinear ResampleFilter = "bilinear"

	// FilterLanczos uses a Lanczos3 kernel.
	FilterLanczos ResampleFilter = "lanczos"
)

// ValidFilters returns the supported resample filters.
func ValidFilters() []ResampleFilter {
	return []ResampleFilter{FilterCatmullRom, FilterBiLinear, FilterLanczos}
}

// IsValidFilter checks if the given filter name is supported.
func IsValidFilter(f ResampleFilter) bool {
	return slices.Contains(ValidFilters(), f)
}

var (
	pureWhite = RGB{R: 255, G: 255, B: 255}
	pureBlack = RGB{}
)

// Sampler turns an image into a bounded multiset of RGB samples.
type Sampler struct {
	MaxEdge int
	Filter  ResampleFilter
}

// NewSampler creates a Sampler with default settings.
func NewSampler() *Sampler {
	return &Sampler{
		MaxEdge: DefaultMaxEdge,
		Filter:  FilterCatmullRom,
	}
}

// Sample downsamples img, flattens it row-major and strips pure white and
// pure black pixels. Returns ErrEmptySample if nothing survives.
func (s *Sampler) Sample(img image.Image) ([]RGB, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: image cannot be nil", ErrInvalidInput)
	}

	scaled := s.downsample(img)
	bounds := scaled.Bounds()

	samples := make([]RGB, 0, bounds.Dx()*bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			rgb := ToRGB(scaled.At(x, y))
			if rgb == pureWhite || rgb == pureBlack {
				continue
			}
			samples = append(samples, rgb)
		}
	}

	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: all %d pixels are pure white or black", ErrEmptySample, bounds.Dx()*bounds.Dy())
	}

	return samples, nil
}

// downsample resizes img so its longer edge is at most MaxEdge.
// Images already within the cap are returned untouched.
func (s *Sampler) downsample(img image.Image) image.Image {
	maxEdge := s.MaxEdge
	if maxEdge <= 0 {
		maxEdge = DefaultMaxEdge
	}

	bounds := img.Bounds()
	w, h := fitWithin(bounds.Dx(), bounds.Dy(), maxEdge)
	if w == bounds.Dx() && h == bounds.Dy() {
		return img
	}

	switch s.Filter {
	case FilterLanczos:
		return resize.Resize(uint(w), uint(h), img, resize.Lanczos3) // #nosec G115 -- w, h are positive
	case FilterBiLinear:
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.BiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
		return dst
	default:
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
		return dst
	}
}

// fitWithin scales (w, h) so the longer edge is at most maxEdge, keeping the
// aspect ratio and never shrinking an edge below 1.
func fitWithin(w, h, maxEdge int) (int, int) {
	longer := max(w, h)
	if longer <= maxEdge {
		return w, h
	}
	ratio := float64(maxEdge) / float64(longer)
	nw := max(int(float64(w)*ratio+0.5), 1)
	nh := max(int(float64(h)*ratio+0.5), 1)
	return min(nw, maxEdge), min(nh, maxEdge)
}
