// Package linkage implements agglomerative hierarchical clustering over a
// condensed pairwise distance matrix, with flat cluster extraction at a
// distance threshold.
package linkage

import (
	"fmt"
	"math"
)

// Method selects how the distance between two clusters is derived from the
// pairwise distances of their members.
type Method int

const (
	// Single linkage merges on the minimum pairwise distance between
	// members, the most permissive rule.
	Single Method = iota
	// Complete linkage merges on the maximum pairwise distance between
	// members, the most restrictive rule.
	Complete
	// Average linkage merges on the unweighted mean pairwise distance
	// between members.
	Average
)

func (m Method) String() string {
	switch m {
	case Single:
		return "single"
	case Complete:
		return "complete"
	case Average:
		return "average"
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// ParseMethod converts a method name to a Method.
func ParseMethod(s string) (Method, error) {
	switch s {
	case "single":
		return Single, nil
	case "complete":
		return Complete, nil
	case "average":
		return Average, nil
	}
	return 0, fmt.Errorf("unknown linkage method %q", s)
}

// Condensed is the upper triangle of an n x n symmetric distance matrix
// stored as a flat buffer of n*(n-1)/2 entries, one per unordered pair.
type Condensed struct {
	n int
	d []float64
}

// NewCondensed returns a zeroed condensed matrix over n observations.
// n must be at least 2.
func NewCondensed(n int) Condensed {
	if n < 2 {
		panic(fmt.Sprintf("condensed matrix needs at least 2 observations, got %d", n))
	}
	return Condensed{n: n, d: make([]float64, n*(n-1)/2)}
}

// N returns the number of observations.
func (c Condensed) N() int { return c.n }

// offset maps the unordered pair (i, j), i != j, to its slot in the flat
// buffer: pairs are laid out row by row of the upper triangle.
func (c Condensed) offset(i, j int) int {
	if i > j {
		i, j = j, i
	}
	return i*(2*c.n-i-1)/2 + (j - i - 1)
}

// At returns the distance between observations i and j.
func (c Condensed) At(i, j int) float64 {
	if i == j {
		return 0
	}
	return c.d[c.offset(i, j)]
}

// Set records the distance between observations i and j, i != j.
func (c Condensed) Set(i, j int, v float64) {
	c.d[c.offset(i, j)] = v
}

// Merge records one agglomeration step. Observations are clusters 0..n-1;
// the cluster created by step k is numbered n+k, as in the usual linkage
// matrix encoding.
type Merge struct {
	// Left and Right are the ids of the two clusters merged in this step,
	// with Left < Right.
	Left, Right int
	// Distance is the inter-cluster distance at which the merge happened.
	Distance float64
	// Size is the number of observations in the merged cluster.
	Size int
}

// Cluster runs bottom-up agglomerative clustering over the condensed
// distance matrix and returns the n-1 merge steps in order of increasing
// distance. Single, complete, and average linkage all keep inter-cluster
// distances current with the Lance-Williams update after each merge, so
// the full pairwise matrix is consulted only once. Ties are broken toward
// the pair with the smallest ids, which makes the output deterministic.
//
// Runtime is O(n^3) in the worst case and memory is O(n^2); callers with
// large n should prefer a cheaper strategy.
func Cluster(dm Condensed, method Method) []Merge {
	n := dm.N()
	// Working distances, indexed by cluster id pair. Ids 0..n-1 are the
	// observations, n..2n-2 the merged clusters.
	dist := make(map[[2]int]float64, len(dm.d))
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dist[pairKey(i, j)] = dm.At(i, j)
		}
	}
	active := make([]int, n)
	size := make(map[int]int, 2*n-1)
	for i := 0; i < n; i++ {
		active[i] = i
		size[i] = 1
	}

	merges := make([]Merge, 0, n-1)
	for step := 0; step < n-1; step++ {
		// Find the closest active pair.
		var bestA, bestB int
		best := math.Inf(1)
		for x := 0; x < len(active); x++ {
			for y := x + 1; y < len(active); y++ {
				a, b := active[x], active[y]
				if d := dist[pairKey(a, b)]; d < best {
					best, bestA, bestB = d, a, b
				}
			}
		}
		merged := n + step
		// Lance-Williams update of distances to every other active cluster.
		for _, k := range active {
			if k == bestA || k == bestB {
				continue
			}
			da := dist[pairKey(k, bestA)]
			db := dist[pairKey(k, bestB)]
			var d float64
			switch method {
			case Single:
				d = math.Min(da, db)
			case Complete:
				d = math.Max(da, db)
			case Average:
				na, nb := float64(size[bestA]), float64(size[bestB])
				d = (na*da + nb*db) / (na + nb)
			default:
				panic("unknown linkage method " + method.String())
			}
			dist[pairKey(k, merged)] = d
			delete(dist, pairKey(k, bestA))
			delete(dist, pairKey(k, bestB))
		}
		delete(dist, pairKey(bestA, bestB))
		size[merged] = size[bestA] + size[bestB]
		merges = append(merges, Merge{Left: bestA, Right: bestB, Distance: best, Size: size[merged]})

		// Replace the merged pair in the active set.
		next := active[:0]
		for _, a := range active {
			if a != bestA && a != bestB {
				next = append(next, a)
			}
		}
		active = append(next, merged)
	}
	return merges
}

func pairKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

// Cut flattens a dendrogram at the given distance threshold: every merge
// that happened at a distance <= threshold keeps its members in one flat
// cluster. It returns one label per observation, numbered from 1 in order
// of first appearance, so labels are deterministic for a given merge
// sequence.
func Cut(merges []Merge, n int, threshold float64) []int {
	parent := make([]int, n+len(merges))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	for step, m := range merges {
		merged := n + step
		if m.Distance <= threshold {
			parent[find(m.Left)] = merged
			parent[find(m.Right)] = merged
		}
	}
	labels := make([]int, n)
	seen := map[int]int{}
	for i := 0; i < n; i++ {
		root := find(i)
		label, ok := seen[root]
		if !ok {
			label = len(seen) + 1
			seen[root] = label
		}
		labels[i] = label
	}
	return labels
}
