package colour

import (
	"fmt"
	"slices"
)

// Usage is the branding tier assigned to a colour.
type Usage string

const (
	UsageDominant  Usage = "dominant"
	UsagePrimary   Usage = "primary"
	UsageSecondary Usage = "secondary"
	UsageAccent    Usage = "accent"
	UsageMinor     Usage = "minor"
)

// String returns the tier name.
func (u Usage) String() string {
	return string(u)
}

// ClassifiedColour is a described cluster with its share of the image.
type ClassifiedColour struct {
	Descriptor
	Frequency  int     `json:"frequency"`
	Percentage float64 `json:"percentage"`
	Usage      Usage   `json:"usage"`
}

// String returns a one-line summary of the colour.
func (c ClassifiedColour) String() string {
	return fmt.Sprintf("%s %s (%s, %.2f%%)", c.Hex, c.Name, c.Usage, c.Percentage)
}

// usageRule matches a colour by its rank in the frequency-sorted list and its
// unrounded percentage.
type usageRule struct {
	usage Usage
	match func(rank int, percentage float64) bool
}

// usageRules are evaluated in order; the first match wins. minor is the fallback.
var usageRules = []usageRule{
	{UsageDominant, func(rank int, pct float64) bool { return rank == 0 && pct > 30 }},
	{UsagePrimary, func(rank int, pct float64) bool { return rank < 2 && pct > 15 }},
	{UsageSecondary, func(_ int, pct float64) bool { return pct > 10 }},
	{UsageAccent, func(_ int, pct float64) bool { return pct > 5 }},
}

// AssignUsage returns the tier for a colour at the given rank.
func AssignUsage(rank int, percentage float64) Usage {
	for _, rule := range usageRules {
		if rule.match(rank, percentage) {
			return rule.usage
		}
	}
	return UsageMinor
}

// Classify describes every cluster, orders them by descending frequency and
// assigns percentage shares and usage tiers. Ties keep their input order.
func Classify(clusters []Cluster) []ClassifiedColour {
	total := 0
	for _, c := range clusters {
		total += c.Frequency
	}
	if total == 0 {
		return nil
	}

	sorted := slices.Clone(clusters)
	slices.SortStableFunc(sorted, func(a, b Cluster) int {
		return b.Frequency - a.Frequency
	})

	classified := make([]ClassifiedColour, len(sorted))
	for rank, c := range sorted {
		pct := float64(c.Frequency) / float64(total) * 100
		classified[rank] = ClassifiedColour{
			Descriptor: Describe(c.Centroid),
			Frequency:  c.Frequency,
			Percentage: round2(pct),
			Usage:      AssignUsage(rank, pct),
		}
	}
	return classified
}
