package colour

import (
	"encoding/json"
	"errors"
	"image/color"
	"math"
	"strings"
	"testing"
)

func TestRGBHex(t *testing.T) {
	tests := []struct {
		name string
		rgb  RGB
		want string
	}{
		{name: "black", rgb: RGB{0, 0, 0}, want: "#000000"},
		{name: "white", rgb: RGB{255, 255, 255}, want: "#ffffff"},
		{name: "red", rgb: RGB{255, 0, 0}, want: "#ff0000"},
		{name: "zero padded", rgb: RGB{1, 2, 10}, want: "#01020a"},
		{name: "mixed", rgb: RGB{26, 43, 60}, want: "#1a2b3c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rgb.Hex(); got != tt.want {
				t.Errorf("Hex() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseHexRoundTrip(t *testing.T) {
	// Every value of each channel must survive Hex -> ParseHex unchanged.
	for v := 0; v <= 255; v++ {
		for _, rgb := range []RGB{
			{R: uint8(v), G: 0, B: 0},
			{R: 0, G: uint8(v), B: 0},
			{R: 0, G: 0, B: uint8(v)},
			{R: uint8(v), G: uint8(255 - v), B: uint8(v / 2)},
		} {
			got, err := ParseHex(rgb.Hex())
			if err != nil {
				t.Fatalf("ParseHex(%q) returned error: %v", rgb.Hex(), err)
			}
			if got != rgb {
				t.Fatalf("ParseHex(%q) = %+v, want %+v", rgb.Hex(), got, rgb)
			}
		}
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    RGB
		wantErr bool
	}{
		{name: "with hash", input: "#1a2b3c", want: RGB{26, 43, 60}},
		{name: "without hash", input: "1a2b3c", want: RGB{26, 43, 60}},
		{name: "upper case", input: "#FF8000", want: RGB{255, 128, 0}},
		{name: "short form", input: "#fff", want: RGB{255, 255, 255}},
		{name: "invalid", input: "#zzzzzz", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHex(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseHex(%q) expected error, got %+v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseHex(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseHex(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestToRGB(t *testing.T) {
	tests := []struct {
		name  string
		color color.Color
		want  RGB
	}{
		{name: "opaque red", color: color.RGBA{R: 255, A: 255}, want: RGB{R: 255}},
		{name: "nrgba keeps channels", color: color.NRGBA{R: 10, G: 20, B: 30, A: 255}, want: RGB{10, 20, 30}},
		{name: "translucent nrgba", color: color.NRGBA{R: 200, G: 100, B: 50, A: 128}, want: RGB{200, 100, 50}},
		{name: "gray", color: color.Gray{Y: 128}, want: RGB{128, 128, 128}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToRGB(tt.color); got != tt.want {
				t.Errorf("ToRGB() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRGBDistance(t *testing.T) {
	a := RGB{0, 0, 0}
	b := RGB{30, 40, 0}
	if got := a.Distance(b); got != 50 {
		t.Errorf("Distance() = %v, want 50", got)
	}
	if got := b.Distance(a); got != 50 {
		t.Errorf("Distance() should be symmetric, got %v", got)
	}
}

func testPalette() *Palette {
	colours := Classify([]Cluster{
		{Centroid: RGB{255, 0, 0}, Frequency: 60},
		{Centroid: RGB{0, 0, 255}, Frequency: 40},
	})
	return &Palette{Colours: colours, Candidates: colours, TotalSamples: 100, Curated: true}
}

func TestPaletteToJSON(t *testing.T) {
	data, err := testPalette().ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() returned error: %v", err)
	}

	var resp struct {
		Success     bool `json:"success"`
		TotalPixels int  `json:"totalPixels"`
		Colors      []struct {
			Hex        string  `json:"hex"`
			RGB        []int   `json:"rgb"`
			Name       string  `json:"name"`
			Brightness float64 `json:"brightness"`
			Frequency  int     `json:"frequency"`
			Percentage float64 `json:"percentage"`
			Usage      string  `json:"usage"`
		} `json:"colors"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		t.Fatalf("failed to unmarshal JSON: %v", err)
	}

	if !resp.Success {
		t.Error("Expected success to be true")
	}
	if resp.TotalPixels != 100 {
		t.Errorf("Expected totalPixels 100, got %d", resp.TotalPixels)
	}
	if len(resp.Colors) != 2 {
		t.Fatalf("Expected 2 colours, got %d", len(resp.Colors))
	}

	first := resp.Colors[0]
	if first.Hex != "#ff0000" || first.Name != "Red" || first.Usage != "dominant" {
		t.Errorf("Unexpected first colour: %+v", first)
	}
	if len(first.RGB) != 3 || first.RGB[0] != 255 {
		t.Errorf("Expected rgb [255 0 0], got %v", first.RGB)
	}
	if math.Abs(first.Brightness-76.245) > 0.01 {
		t.Errorf("Expected brightness ~76.25, got %v", first.Brightness)
	}
	if first.Percentage != 60 || first.Frequency != 60 {
		t.Errorf("Expected 60 samples at 60%%, got %d at %v", first.Frequency, first.Percentage)
	}
}

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse(errors.New("boom"))
	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Marshal() returned error: %v", err)
	}
	if got := string(data); got != `{"success":false,"error":"boom"}` {
		t.Errorf("Unexpected error envelope: %s", got)
	}
}

func TestPaletteGet(t *testing.T) {
	p := testPalette()

	c, err := p.Get(1)
	if err != nil {
		t.Fatalf("Get(1) returned error: %v", err)
	}
	if c.Name != "Blue" {
		t.Errorf("Get(1) = %s, want Blue", c.Name)
	}

	for _, idx := range []int{-1, 2} {
		if _, err := p.Get(idx); err == nil {
			t.Errorf("Get(%d) expected error", idx)
		}
	}
}

func TestPaletteAll(t *testing.T) {
	p := testPalette()

	count := 0
	for i, c := range p.All() {
		if c.Hex != p.Colours[i].Hex {
			t.Errorf("All() yielded %s at %d, want %s", c.Hex, i, p.Colours[i].Hex)
		}
		count++
	}
	if count != p.Len() {
		t.Errorf("All() yielded %d colours, want %d", count, p.Len())
	}
}

func TestPaletteString(t *testing.T) {
	if got := (&Palette{}).String(); got != "Empty palette" {
		t.Errorf("Expected 'Empty palette', got %q", got)
	}

	out := testPalette().String()
	for _, want := range []string{"2 colours", "#ff0000", "Red", "dominant", "60.00%"} {
		if !strings.Contains(out, want) {
			t.Errorf("String() missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Error("String() should not contain ANSI escapes")
	}

	if !strings.Contains(testPalette().StringWithPreview(true), ansiBgPrefix) {
		t.Error("StringWithPreview(true) should contain an ANSI swatch")
	}
}

func TestPaletteToHex(t *testing.T) {
	got := testPalette().ToHex()
	if len(got) != 2 || got[0] != "#ff0000" || got[1] != "#0000ff" {
		t.Errorf("ToHex() = %v", got)
	}
}
