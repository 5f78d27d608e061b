// Package colour extracts brand colour palettes from decoded images.
package colour

import (
	"encoding/json"
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB represents a colour as three 8-bit channels.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// String returns the RGB colour as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the RGB colour as a lowercase hex string (e.g., "#1a2b3c").
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}

// Slice returns the channels as [r, g, b].
func (rgb RGB) Slice() []int {
	return []int{int(rgb.R), int(rgb.G), int(rgb.B)}
}

// Distance returns the Euclidean distance between two colours in RGB space.
func (rgb RGB) Distance(other RGB) float64 {
	dr := float64(rgb.R) - float64(other.R)
	dg := float64(rgb.G) - float64(other.G)
	db := float64(rgb.B) - float64(other.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// Colorful converts the colour to a go-colorful value.
func (rgb RGB) Colorful() colorful.Color {
	return colorful.Color{
		R: float64(rgb.R) / 255.0,
		G: float64(rgb.G) / 255.0,
		B: float64(rgb.B) / 255.0,
	}
}

// ToRGB converts a color.Color to RGB, discarding alpha.
// Colours are un-premultiplied first so translucent pixels keep their hue.
func ToRGB(c color.Color) RGB {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGB{R: n.R, G: n.G, B: n.B}
}

// ParseHex decodes "#rrggbb" or "#rgb" (hash optional) into an RGB value.
func ParseHex(s string) (RGB, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid hex colour %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}

// Palette is the result of one extraction.
type Palette struct {
	// Colours is the final palette, ordered by descending frequency.
	Colours []ClassifiedColour

	// Candidates is every classified cluster before curation or trimming.
	Candidates []ClassifiedColour

	// TotalSamples is the number of pixel samples that were clustered.
	TotalSamples int

	// Curated reports whether the palette went through the curator.
	Curated bool

	// FellBack reports whether the curator returned unfiltered candidates.
	FellBack bool
}

// Len returns the number of colours in the palette.
func (p *Palette) Len() int {
	return len(p.Colours)
}

// ToHex returns the palette colours as hex strings.
func (p *Palette) ToHex() []string {
	hexColours := make([]string, len(p.Colours))
	for i, c := range p.Colours {
		hexColours[i] = c.Hex
	}
	return hexColours
}

// Get returns the colour at the specified index.
func (p *Palette) Get(index int) (ClassifiedColour, error) {
	if index < 0 || index >= len(p.Colours) {
		return ClassifiedColour{}, fmt.Errorf("index out of bounds: %d (palette has %d colours)", index, len(p.Colours))
	}
	return p.Colours[index], nil
}

// All returns an iterator over the palette colours.
func (p *Palette) All() func(func(int, ClassifiedColour) bool) {
	return func(yield func(int, ClassifiedColour) bool) {
		for i, c := range p.Colours {
			if !yield(i, c) {
				return
			}
		}
	}
}

// ColourJSON is one colour in the response envelope.
type ColourJSON struct {
	Hex        string  `json:"hex"`
	RGB        []int   `json:"rgb"`
	Name       string  `json:"name"`
	Brightness float64 `json:"brightness"`
	Frequency  int     `json:"frequency"`
	Percentage float64 `json:"percentage"`
	Usage      Usage   `json:"usage"`
}

// Response is the envelope returned to callers of the extraction endpoint.
// On failure only Success and Error are set.
type Response struct {
	Success     bool         `json:"success"`
	Colors      []ColourJSON `json:"colors,omitempty"`
	TotalPixels int          `json:"totalPixels,omitempty"`
	Error       string       `json:"error,omitempty"`
}

// NewResponse builds a success envelope for the palette.
func NewResponse(p *Palette) Response {
	colours := make([]ColourJSON, len(p.Colours))
	for i, c := range p.Colours {
		colours[i] = ColourJSON{
			Hex:        c.Hex,
			RGB:        c.RGB.Slice(),
			Name:       c.Name,
			Brightness: round2(c.Brightness),
			Frequency:  c.Frequency,
			Percentage: c.Percentage,
			Usage:      c.Usage,
		}
	}
	return Response{
		Success:     true,
		Colors:      colours,
		TotalPixels: p.TotalSamples,
	}
}

// NewErrorResponse builds a failure envelope.
func NewErrorResponse(err error) Response {
	return Response{Success: false, Error: err.Error()}
}

// ToJSON converts the palette to the response envelope as indented JSON.
func (p *Palette) ToJSON() ([]byte, error) {
	return json.MarshalIndent(NewResponse(p), "", "  ")
}

// String returns a human-readable representation of the palette.
func (p *Palette) String() string {
	return p.StringWithPreview(false)
}

// StringWithPreview renders the palette, optionally with ANSI colour swatches.
func (p *Palette) StringWithPreview(showPreview bool) string {
	if len(p.Colours) == 0 {
		return "Empty palette"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Palette with %d colours (%d samples):\n", len(p.Colours), p.TotalSamples)
	for i, c := range p.Colours {
		line := fmt.Sprintf("%-12s %-10s %6.2f%%  %s", c.Name, c.Usage, c.Percentage, c.Hex)
		if showPreview {
			fmt.Fprintf(&sb, "  %2d: %s %s\n", i+1, ColourPreview(c.RGB, 6), line)
		} else {
			fmt.Fprintf(&sb, "  %2d: %s\n", i+1, line)
		}
	}
	return sb.String()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
