package colour

const (
	// SimilarityThreshold is the minimum RGB distance between curated colours.
	SimilarityThreshold = 50.0

	// MaxCuratedBrightness excludes near-white candidates.
	MaxCuratedBrightness = 240.0

	// MinCuratedBrightness excludes near-black candidates.
	MinCuratedBrightness = 20.0

	// CandidateFactor is how many candidates are clustered per requested colour.
	CandidateFactor = 2
)

// Curate greedily picks up to size candidates that are neither near-white nor
// near-black and at least SimilarityThreshold apart. Candidates must already be
// in descending frequency order.
//
// If fewer than size colours survive, the first size unfiltered candidates are
// returned instead and fellBack is true.
func Curate(candidates []ClassifiedColour, size int) (colours []ClassifiedColour, fellBack bool) {
	if size < 1 {
		return nil, false
	}

	selected := make([]ClassifiedColour, 0, size)
	for _, c := range candidates {
		if len(selected) >= size {
			break
		}
		if c.Brightness > MaxCuratedBrightness || c.Brightness < MinCuratedBrightness {
			continue
		}
		if tooSimilar(c.RGB, selected) {
			continue
		}
		selected = append(selected, c)
	}

	if len(selected) < size {
		n := min(size, len(candidates))
		return append([]ClassifiedColour(nil), candidates[:n]...), true
	}
	return selected, false
}

func tooSimilar(c RGB, accepted []ClassifiedColour) bool {
	for _, a := range accepted {
		if c.Distance(a.RGB) < SimilarityThreshold {
			return true
		}
	}
	return false
}
