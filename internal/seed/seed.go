// Package seed selects the clustering seed used for palette extraction.
//
// Extraction is deterministic for a given seed. The fixed mode always uses
// DefaultSeed so repeated runs over the same image agree, the content mode derives
// the seed from the pixels themselves, and the manual mode takes a caller value.
package seed

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"slices"

	"github.com/jmylchreest/brandkit/internal/colour"
)

// DefaultSeed is the seed used by ModeFixed.
const DefaultSeed = colour.DefaultSeed

// Mode determines how the clustering seed is chosen.
type Mode string

const (
	// ModeFixed always uses DefaultSeed.
	ModeFixed Mode = "fixed"
	// ModeContent hashes a grid of image pixels into a seed.
	ModeContent Mode = "content"
	// ModeManual uses a caller-provided seed value.
	ModeManual Mode = "manual"
)

// ErrMissingValue is returned when ModeManual has no value.
var ErrMissingValue = errors.New("seed value is required for manual seed mode")

// Config holds configuration for seed selection.
type Config struct {
	Mode  Mode
	Value *int64 // only used by ModeManual
}

// Calculate returns the seed for img according to config.
// An empty mode behaves like ModeFixed.
func Calculate(img image.Image, config Config) (int64, error) {
	switch config.Mode {
	case "", ModeFixed:
		return DefaultSeed, nil
	case ModeContent:
		return ContentSeed(img)
	case ModeManual:
		if config.Value == nil {
			return 0, ErrMissingValue
		}
		return *config.Value, nil
	default:
		return 0, fmt.Errorf("unknown seed mode: %s", config.Mode)
	}
}

// ContentSeed derives a seed from image content. The same pixels always give the
// same seed regardless of where the image came from.
func ContentSeed(img image.Image) (int64, error) {
	if img == nil {
		return 0, fmt.Errorf("image is required for content seed mode")
	}

	bounds := img.Bounds()
	hasher := sha256.New()

	dims := make([]byte, 8)
	binary.LittleEndian.PutUint32(dims[0:4], uint32(bounds.Dx())) // #nosec G115 -- image dimensions are non-negative
	binary.LittleEndian.PutUint32(dims[4:8], uint32(bounds.Dy())) // #nosec G115 -- image dimensions are non-negative
	hasher.Write(dims)

	// A grid of roughly 100x100 points identifies the image well enough.
	step := max(bounds.Dx()/100, bounds.Dy()/100, 1)
	px := make([]byte, 4)
	for y := bounds.Min.Y; y < bounds.Max.Y; y += step {
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			r, g, b, a := img.At(x, y).RGBA()
			px[0], px[1], px[2], px[3] = byte(r>>8), byte(g>>8), byte(b>>8), byte(a>>8)
			hasher.Write(px)
		}
	}

	sum := hasher.Sum(nil)
	return int64(binary.LittleEndian.Uint64(sum[:8])), nil // #nosec G115 -- wrapping is fine for a seed
}

// ValidModes returns the supported seed modes.
func ValidModes() []Mode {
	return []Mode{ModeFixed, ModeContent, ModeManual}
}

// ParseMode converts a string to a Mode.
func ParseMode(s string) (Mode, error) {
	mode := Mode(s)
	if slices.Contains(ValidModes(), mode) {
		return mode, nil
	}
	return "", fmt.Errorf("invalid seed mode: %s (valid: fixed, content, manual)", s)
}
