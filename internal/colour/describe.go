package colour

import "math"

// Descriptor is the per-colour metadata derived from a centroid alone.
type Descriptor struct {
	Hex        string  `json:"hex"`
	RGB        RGB     `json:"rgb"`
	Brightness float64 `json:"brightness"`
	Name       string  `json:"name"`
}

// grayscaleDeviation is the maximum channel deviation from the channel mean
// for a colour to be named on the grey scale.
const grayscaleDeviation = 15.0

// brightnessBand names a grey by perceived brightness. Upper bounds are exclusive.
type brightnessBand struct {
	below float64
	name  string
}

var grayscaleBands = []brightnessBand{
	{below: 50, name: "Black"},
	{below: 100, name: "Dark Gray"},
	{below: 180, name: "Gray"},
	{below: 230, name: "Light Gray"},
	{below: math.Inf(1), name: "White"},
}

// hueSector is a half-open hue interval [from, to) in degrees.
type hueSector struct {
	from, to float64
	name     string
}

// hueSectors cover [0, 360) with no gaps or overlaps. Red wraps around 0.
var hueSectors = []hueSector{
	{from: 0, to: 15, name: "Red"},
	{from: 15, to: 45, name: "Orange"},
	{from: 45, to: 75, name: "Yellow"},
	{from: 75, to: 150, name: "Green"},
	{from: 150, to: 210, name: "Cyan"},
	{from: 210, to: 270, name: "Blue"},
	{from: 270, to: 330, name: "Purple"},
	{from: 330, to: 345, name: "Pink"},
	{from: 345, to: 360, name: "Red"},
}

const (
	minNamedSaturation = 0.2
	minNamedValue      = 0.2
)

// Describe derives hex, brightness and a name for a colour.
func Describe(c RGB) Descriptor {
	return Descriptor{
		Hex:        c.Hex(),
		RGB:        c,
		Brightness: Brightness(c),
		Name:       Name(c),
	}
}

// Brightness returns perceived luminance on a 0-255 scale, weighted
// 0.299 R + 0.587 G + 0.114 B.
func Brightness(c RGB) float64 {
	return 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
}

// IsGrayscale reports whether every channel is within 15 of the channel mean.
func IsGrayscale(c RGB) bool {
	r, g, b := float64(c.R), float64(c.G), float64(c.B)
	mean := (r + g + b) / 3
	return math.Abs(r-mean) < grayscaleDeviation &&
		math.Abs(g-mean) < grayscaleDeviation &&
		math.Abs(b-mean) < grayscaleDeviation
}

// Name returns a human-readable colour name.
func Name(c RGB) string {
	if IsGrayscale(c) {
		brightness := Brightness(c)
		for _, band := range grayscaleBands {
			if brightness < band.below {
				return band.name
			}
		}
	}

	h, s, v := c.Colorful().Hsv()
	if s < minNamedSaturation {
		return "Gray"
	}
	if v < minNamedValue {
		return "Black"
	}
	return hueName(h)
}

// hueName maps a hue in degrees to its sector name.
func hueName(h float64) string {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	for _, sector := range hueSectors {
		if h >= sector.from && h < sector.to {
			return sector.name
		}
	}
	return "Red"
}
