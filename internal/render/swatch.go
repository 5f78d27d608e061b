// Package render draws palette swatch images.
package render

import (
	"fmt"
	"image"
	"image/color"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/jmylchreest/brandkit/internal/colour"
)

const (
	// DefaultWidth is the default swatch width in pixels.
	DefaultWidth = 1000
	// DefaultHeight is the default swatch height in pixels.
	DefaultHeight = 300

	baseFontSize = 22.0
	minFontSize  = 10.0
)

// SwatchOptions configures swatch rendering.
type SwatchOptions struct {
	Width  int
	Height int

	ShowHex   bool
	ShowName  bool
	ShowUsage bool

	// Proportional sizes each bar by the colour's percentage instead of equally.
	Proportional bool
}

// DefaultSwatchOptions returns options that label every bar.
func DefaultSwatchOptions() SwatchOptions {
	return SwatchOptions{
		Width:     DefaultWidth,
		Height:    DefaultHeight,
		ShowHex:   true,
		ShowName:  true,
		ShowUsage: true,
	}
}

type fontSet struct {
	regular *truetype.Font
	bold    *truetype.Font
}

var loadFonts = sync.OnceValues(func() (fontSet, error) {
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return fontSet{}, fmt.Errorf("failed to parse regular font: %w", err)
	}
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return fontSet{}, fmt.Errorf("failed to parse bold font: %w", err)
	}
	return fontSet{regular: regular, bold: bold}, nil
})

// Swatch draws one vertical bar per palette colour, left to right in palette order.
func Swatch(p *colour.Palette, opts SwatchOptions) (image.Image, error) {
	if p == nil || p.Len() == 0 {
		return nil, fmt.Errorf("no colours to render")
	}
	if opts.Width < p.Len() || opts.Height < 1 {
		return nil, fmt.Errorf("swatch of %dx%d is too small for %d colours", opts.Width, opts.Height, p.Len())
	}

	fonts, err := loadFonts()
	if err != nil {
		return nil, err
	}

	// Shrink text as bars get narrower.
	size := baseFontSize
	if n := p.Len(); n > 5 {
		size = max(baseFontSize*5/float64(n), minFontSize)
	}
	regular := truetype.NewFace(fonts.regular, &truetype.Options{Size: size})
	bold := truetype.NewFace(fonts.bold, &truetype.Options{Size: size})

	dc := gg.NewContext(opts.Width, opts.Height)
	dc.SetColor(color.White)
	dc.Clear()

	height := float64(opts.Height)
	for i, bar := range barEdges(p, opts) {
		c := p.Colours[i]
		x, w := float64(bar[0]), float64(bar[1]-bar[0])

		dc.SetColor(color.RGBA{R: c.RGB.R, G: c.RGB.G, B: c.RGB.B, A: 255})
		dc.DrawRectangle(x, 0, w, height)
		dc.Fill()

		dc.SetColor(contrastColour(c.RGB))
		y := height * 0.33
		if opts.ShowHex {
			drawCentred(dc, bold, strings.TrimPrefix(c.Hex, "#"), x, w, y)
			y += size * 1.4
		}
		if opts.ShowName {
			drawCentred(dc, regular, c.Name, x, w, y)
			y += size * 1.2
		}
		if opts.ShowUsage {
			drawCentred(dc, regular, fmt.Sprintf("%s %.1f%%", c.Usage, c.Percentage), x, w, y)
		}
	}

	return dc.Image(), nil
}

// SavePNG renders the palette and writes it to path as PNG.
func SavePNG(p *colour.Palette, opts SwatchOptions, path string) error {
	img, err := Swatch(p, opts)
	if err != nil {
		return err
	}
	if err := gg.SavePNG(path, img); err != nil {
		return fmt.Errorf("failed to write swatch: %w", err)
	}
	return nil
}

// barEdges returns [start, end) pixel columns for each bar. The last bar always
// ends at the right edge.
func barEdges(p *colour.Palette, opts SwatchOptions) [][2]int {
	n := p.Len()
	weights := make([]float64, n)
	total := 0.0
	for i, c := range p.Colours {
		w := 1.0
		if opts.Proportional && c.Percentage > 0 {
			w = c.Percentage
		}
		weights[i] = w
		total += w
	}

	edges := make([][2]int, n)
	start, acc := 0, 0.0
	for i, w := range weights {
		acc += w
		end := int(float64(opts.Width) * acc / total)
		if i == n-1 {
			end = opts.Width
		}
		// Every bar is at least one pixel wide.
		end = max(end, start+1)
		edges[i] = [2]int{start, end}
		start = end
	}
	return edges
}

func drawCentred(dc *gg.Context, face font.Face, text string, x, width, y float64) {
	dc.SetFontFace(face)
	tw, _ := dc.MeasureString(text)
	if tw > width {
		return
	}
	dc.DrawString(text, x+(width-tw)/2, y)
}

// contrastColour returns black text on light colours and white text on dark ones.
func contrastColour(c colour.RGB) color.Color {
	if colour.Brightness(c) > 128 {
		return color.Black
	}
	return color.White
}
