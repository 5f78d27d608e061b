package colour

import (
	"math"
	"math/rand/v2"
)

const (
	// DefaultSeed matches the fixed random state the palette service has always used.
	DefaultSeed int64 = 42

	defaultMaxIterations = 100
	defaultTolerance     = 0.5
)

// Cluster is one representative colour and the number of samples it covers.
type Cluster struct {
	Centroid  RGB
	Frequency int
}

// KMeans partitions samples into clusters using seeded k-means++ and Lloyd
// iterations. The same samples, k and Seed always give the same clusters.
type KMeans struct {
	MaxIterations int
	Tolerance     float64
	Seed          int64
}

// NewKMeans creates a KMeans with default settings.
func NewKMeans() *KMeans {
	return &KMeans{
		MaxIterations: defaultMaxIterations,
		Tolerance:     defaultTolerance,
		Seed:          DefaultSeed,
	}
}

// point3D represents a point in 3D RGB colour space.
type point3D struct {
	R, G, B float64
}

func toPoint(rgb RGB) point3D {
	return point3D{R: float64(rgb.R), G: float64(rgb.G), B: float64(rgb.B)}
}

// distanceSq returns the squared Euclidean distance between two points.
func (p point3D) distanceSq(other point3D) float64 {
	dr := p.R - other.R
	dg := p.G - other.G
	db := p.B - other.B
	return dr*dr + dg*dg + db*db
}

func (p point3D) toRGB() RGB {
	return RGB{R: roundChannel(p.R), G: roundChannel(p.G), B: roundChannel(p.B)}
}

func roundChannel(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(v))))
}

// Cluster partitions samples into at most k clusters. k is reduced to the
// number of distinct samples when fewer exist. Returns nil for empty input or k < 1.
func (km *KMeans) Cluster(samples []RGB, k int) []Cluster {
	if len(samples) == 0 || k < 1 {
		return nil
	}

	distinct := countDistinct(samples)
	k = min(k, distinct)

	points := make([]point3D, len(samples))
	for i, s := range samples {
		points[i] = toPoint(s)
	}

	// #nosec G115 G404 -- deterministic clustering, not security sensitive
	rng := rand.New(rand.NewPCG(uint64(km.Seed), uint64(km.Seed)^0x9e3779b97f4a7c15))
	centroids := initialiseCentroids(points, k, rng)
	assignments := make([]int, len(points))

	maxIterations := km.MaxIterations
	if maxIterations <= 0 {
		maxIterations = defaultMaxIterations
	}
	toleranceSq := km.Tolerance * km.Tolerance

	for range maxIterations {
		for i, p := range points {
			assignments[i] = nearestCentroid(p, centroids)
		}

		next := recalculateCentroids(points, assignments, centroids)

		maxMove := 0.0
		for i := range centroids {
			maxMove = math.Max(maxMove, centroids[i].distanceSq(next[i]))
		}
		centroids = next

		if maxMove < toleranceSq {
			break
		}
	}

	counts := make([]int, len(centroids))
	for _, p := range points {
		counts[nearestCentroid(p, centroids)]++
	}

	clusters := make([]Cluster, 0, len(centroids))
	for i, c := range centroids {
		if counts[i] == 0 {
			continue
		}
		clusters = append(clusters, Cluster{Centroid: c.toRGB(), Frequency: counts[i]})
	}
	return clusters
}

// initialiseCentroids picks k distinct starting centroids with k-means++.
// Points already equal to a chosen centroid have zero weight and are never picked again.
func initialiseCentroids(points []point3D, k int, rng *rand.Rand) []point3D {
	centroids := make([]point3D, 0, k)
	centroids = append(centroids, points[rng.IntN(len(points))])

	minDist := make([]float64, len(points))
	for i, p := range points {
		minDist[i] = p.distanceSq(centroids[0])
	}

	for len(centroids) < k {
		total := 0.0
		for _, d := range minDist {
			total += d
		}
		if total == 0 {
			break
		}

		target := rng.Float64() * total
		chosen := -1
		cumulative := 0.0
		for i, d := range minDist {
			if d == 0 {
				continue
			}
			cumulative += d
			chosen = i
			if cumulative >= target {
				break
			}
		}

		next := points[chosen]
		centroids = append(centroids, next)
		for i, p := range points {
			minDist[i] = math.Min(minDist[i], p.distanceSq(next))
		}
	}

	return centroids
}

// nearestCentroid returns the index of the closest centroid; ties go to the lowest index.
func nearestCentroid(p point3D, centroids []point3D) int {
	best := math.MaxFloat64
	nearest := 0
	for i, c := range centroids {
		if d := p.distanceSq(c); d < best {
			best = d
			nearest = i
		}
	}
	return nearest
}

// recalculateCentroids moves each centroid to the mean of its points.
// An empty cluster takes the point farthest from its own centroid.
func recalculateCentroids(points []point3D, assignments []int, previous []point3D) []point3D {
	k := len(previous)
	sums := make([]point3D, k)
	counts := make([]int, k)

	for i, p := range points {
		c := assignments[i]
		sums[c].R += p.R
		sums[c].G += p.G
		sums[c].B += p.B
		counts[c]++
	}

	centroids := make([]point3D, k)
	for i := range k {
		if counts[i] == 0 {
			continue
		}
		n := float64(counts[i])
		centroids[i] = point3D{R: sums[i].R / n, G: sums[i].G / n, B: sums[i].B / n}
	}

	for i := range k {
		if counts[i] > 0 {
			continue
		}
		farthest, farthestDist := 0, -1.0
		for j, p := range points {
			if d := p.distanceSq(centroids[assignments[j]]); d > farthestDist {
				farthest, farthestDist = j, d
			}
		}
		centroids[i] = points[farthest]
	}

	return centroids
}

func countDistinct(samples []RGB) int {
	seen := make(map[RGB]struct{}, 256)
	for _, s := range samples {
		seen[s] = struct{}{}
	}
	return len(seen)
}
