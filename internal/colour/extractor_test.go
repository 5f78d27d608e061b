package colour

import (
	"errors"
	"image"
	"image/color"
	"math"
	"reflect"
	"sync"
	"testing"
)

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()
	e, err := NewExtractor(DefaultOptions())
	if err != nil {
		t.Fatalf("NewExtractor() returned error: %v", err)
	}
	return e
}

func noiseImage(w, h int, seed uint64) *image.RGBA {
	samples := randomSamples(w*h, seed)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i, s := range samples {
		img.Set(i%w, i/w, color.RGBA{R: s.R, G: s.G, B: s.B, A: 255})
	}
	return img
}

func TestExtractPaletteTwoColours(t *testing.T) {
	img := imageFromRuns(200, colourRun{RGB{255, 0, 0}, 100}, colourRun{RGB{0, 0, 255}, 100})

	palette, err := newTestExtractor(t).ExtractPalette(img, 2)
	if err != nil {
		t.Fatalf("ExtractPalette() returned error: %v", err)
	}
	if palette.FellBack {
		t.Error("Expected no fallback")
	}
	if palette.Len() != 2 {
		t.Fatalf("Expected 2 colours, got %d", palette.Len())
	}
	if palette.TotalSamples != 200 {
		t.Errorf("TotalSamples = %d, want 200", palette.TotalSamples)
	}

	names := map[string]bool{}
	for _, c := range palette.Colours {
		names[c.Name] = true
		if c.Frequency != 100 {
			t.Errorf("%s frequency = %d, want 100", c.Hex, c.Frequency)
		}
		if c.Percentage != 50 {
			t.Errorf("%s percentage = %v, want 50", c.Hex, c.Percentage)
		}
	}
	if !names["Red"] || !names["Blue"] {
		t.Errorf("Expected Red and Blue, got %v", names)
	}

	if palette.Colours[0].Usage != UsageDominant || palette.Colours[1].Usage != UsagePrimary {
		t.Errorf("Usages = %s, %s, want dominant, primary", palette.Colours[0].Usage, palette.Colours[1].Usage)
	}
}

func TestExtractPaletteAllWhite(t *testing.T) {
	_, err := newTestExtractor(t).ExtractPalette(solidImage(40, 40, RGB{255, 255, 255}), 5)
	if !errors.Is(err, ErrEmptySample) {
		t.Errorf("Expected ErrEmptySample, got %v", err)
	}
}

func TestExtractPaletteSolidGray(t *testing.T) {
	palette, err := newTestExtractor(t).ExtractPalette(solidImage(40, 40, RGB{128, 128, 128}), 5)
	if err != nil {
		t.Fatalf("ExtractPalette() returned error: %v", err)
	}
	if palette.Len() != 1 {
		t.Fatalf("Expected 1 colour, got %d", palette.Len())
	}

	c := palette.Colours[0]
	if c.Hex != "#808080" || c.Name != "Gray" {
		t.Errorf("Colour = %s %q, want #808080 \"Gray\"", c.Hex, c.Name)
	}
	if c.Percentage != 100 || c.Usage != UsageDominant {
		t.Errorf("Colour = %v%% %s, want 100%% dominant", c.Percentage, c.Usage)
	}
}

func TestExtractPaletteFallsBackForMonochrome(t *testing.T) {
	img := imageFromRuns(70,
		colourRun{RGB{20, 30, 120}, 12},
		colourRun{RGB{25, 35, 125}, 11},
		colourRun{RGB{30, 40, 130}, 10},
		colourRun{RGB{22, 28, 118}, 9},
		colourRun{RGB{28, 32, 128}, 8},
		colourRun{RGB{24, 38, 122}, 7},
		colourRun{RGB{240, 220, 30}, 13},
	)

	palette, err := newTestExtractor(t).ExtractPalette(img, 5)
	if err != nil {
		t.Fatalf("ExtractPalette() returned error: %v", err)
	}
	if !palette.FellBack {
		t.Error("Expected fallback")
	}
	if palette.Len() != 5 {
		t.Fatalf("Expected 5 colours, got %d", palette.Len())
	}
	if !reflect.DeepEqual(palette.Colours, palette.Candidates[:5]) {
		t.Error("Fallback colours should be the leading candidates")
	}
}

func TestExtractPaletteDistinctPair(t *testing.T) {
	img := imageFromRuns(200,
		colourRun{RGB{20, 30, 120}, 50},
		colourRun{RGB{25, 35, 130}, 50},
		colourRun{RGB{240, 220, 30}, 100},
	)

	palette, err := newTestExtractor(t).ExtractPalette(img, 2)
	if err != nil {
		t.Fatalf("ExtractPalette() returned error: %v", err)
	}
	if palette.FellBack {
		t.Error("Expected no fallback")
	}
	if palette.Len() != 2 {
		t.Fatalf("Expected 2 colours, got %d", palette.Len())
	}
	if palette.Colours[0].Name != "Yellow" || palette.Colours[1].Name != "Blue" {
		t.Errorf("Names = %q, %q, want Yellow, Blue", palette.Colours[0].Name, palette.Colours[1].Name)
	}
}

func TestExtractPaletteDeterministic(t *testing.T) {
	img := noiseImage(80, 60, 21)
	e := newTestExtractor(t)

	first, err := e.ExtractPalette(img, 6)
	if err != nil {
		t.Fatalf("ExtractPalette() returned error: %v", err)
	}
	for range 3 {
		again, err := newTestExtractor(t).ExtractPalette(img, 6)
		if err != nil {
			t.Fatalf("ExtractPalette() returned error: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatal("ExtractPalette() is not deterministic")
		}
	}
}

func TestExtractPaletteSize(t *testing.T) {
	img := noiseImage(30, 30, 4)
	e := newTestExtractor(t)

	for _, size := range []int{0, -1, MaxPaletteSize + 1} {
		if _, err := e.ExtractPalette(img, size); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("size %d: expected ErrInvalidInput, got %v", size, err)
		}
		if _, err := e.Extract(img, size); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("raw size %d: expected ErrInvalidInput, got %v", size, err)
		}
	}

	for _, size := range []int{1, 3, 8} {
		palette, err := e.ExtractPalette(img, size)
		if err != nil {
			t.Fatalf("size %d: unexpected error: %v", size, err)
		}
		if palette.Len() < 1 || palette.Len() > size {
			t.Errorf("size %d: got %d colours", size, palette.Len())
		}
	}
}

func TestExtractPaletteNilImage(t *testing.T) {
	if _, err := newTestExtractor(t).ExtractPalette(nil, 5); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestExtractRaw(t *testing.T) {
	img := imageFromRuns(100,
		colourRun{RGB{250, 250, 245}, 60},
		colourRun{RGB{255, 0, 0}, 40},
	)

	palette, err := newTestExtractor(t).Extract(img, 5)
	if err != nil {
		t.Fatalf("Extract() returned error: %v", err)
	}
	if palette.Curated {
		t.Error("Raw palette should not be marked curated")
	}
	// Near-white survives because raw mode does not curate.
	want := []string{"#fafaf5", "#ff0000"}
	if got := palette.ToHex(); !reflect.DeepEqual(got, want) {
		t.Errorf("ToHex() = %v, want %v", got, want)
	}
}

func TestExtractPaletteDiversityOrFallback(t *testing.T) {
	e := newTestExtractor(t)

	for seed := uint64(1); seed <= 5; seed++ {
		for _, size := range []int{2, 5, 8} {
			palette, err := e.ExtractPalette(noiseImage(40, 40, seed), size)
			if err != nil {
				t.Fatalf("seed %d size %d: %v", seed, size, err)
			}

			if palette.FellBack {
				if want := min(size, len(palette.Candidates)); palette.Len() != want {
					t.Errorf("seed %d size %d: fallback returned %d colours, want %d", seed, size, palette.Len(), want)
				}
				continue
			}

			if palette.Len() != size {
				t.Errorf("seed %d size %d: got %d colours", seed, size, palette.Len())
			}
			for i, a := range palette.Colours {
				if a.Brightness > MaxCuratedBrightness || a.Brightness < MinCuratedBrightness {
					t.Errorf("seed %d size %d: %s brightness %v out of range", seed, size, a.Hex, a.Brightness)
				}
				for _, b := range palette.Colours[i+1:] {
					if d := a.RGB.Distance(b.RGB); d < SimilarityThreshold {
						t.Errorf("seed %d size %d: %s and %s only %.1f apart", seed, size, a.Hex, b.Hex, d)
					}
				}
			}
		}
	}
}

func TestExtractPaletteCandidatePercentages(t *testing.T) {
	palette, err := newTestExtractor(t).ExtractPalette(noiseImage(50, 50, 8), 6)
	if err != nil {
		t.Fatalf("ExtractPalette() returned error: %v", err)
	}

	sum, total := 0.0, 0
	for _, c := range palette.Candidates {
		sum += c.Percentage
		total += c.Frequency
	}
	if total != palette.TotalSamples {
		t.Errorf("Candidate frequencies sum to %d, want %d", total, palette.TotalSamples)
	}
	if tolerance := 0.005 * float64(len(palette.Candidates)); math.Abs(sum-100) > tolerance {
		t.Errorf("Candidate percentages sum to %v", sum)
	}
}

func TestExtractorConcurrentUse(t *testing.T) {
	e := newTestExtractor(t)
	img := noiseImage(60, 40, 13)

	want, err := e.ExtractPalette(img, 5)
	if err != nil {
		t.Fatalf("ExtractPalette() returned error: %v", err)
	}

	var wg sync.WaitGroup
	results := make([]*Palette, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = e.ExtractPalette(img, 5)
		}()
	}
	wg.Wait()

	for i, got := range results {
		if !reflect.DeepEqual(got, want) {
			t.Errorf("goroutine %d returned a different palette", i)
		}
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Options)
		valid  bool
	}{
		{name: "defaults", modify: func(*Options) {}, valid: true},
		{name: "lanczos", modify: func(o *Options) { o.Filter = FilterLanczos }, valid: true},
		{name: "zero max edge", modify: func(o *Options) { o.MaxEdge = 0 }},
		{name: "unknown filter", modify: func(o *Options) { o.Filter = "box" }},
		{name: "zero iterations", modify: func(o *Options) { o.MaxIterations = 0 }},
		{name: "negative tolerance", modify: func(o *Options) { o.Tolerance = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.modify(&opts)

			err := opts.Validate()
			if tt.valid && err != nil {
				t.Errorf("Validate() returned error: %v", err)
			}
			if !tt.valid {
				if !errors.Is(err, ErrInvalidInput) {
					t.Errorf("Validate() = %v, want ErrInvalidInput", err)
				}
				if _, err := NewExtractor(opts); err == nil {
					t.Error("NewExtractor() accepted invalid options")
				}
			}
		})
	}
}
