package umi

import (
	"math/rand"
	"sort"

	"github.com/spatialomics/umitools/util"
)

// ClusterNaive groups records by walking them in barcode order and chaining
// each barcode onto the current cluster while its Hamming distance to the
// cluster's last member stays within maxMismatches. The linkage is chained,
// not centroid: a run of pairwise-close barcodes can merge even when its
// endpoints are far apart. That drift is intentional and part of this
// strategy's contract; callers needing a globally consistent partition
// should use ClusterHierarchical.
//
// Records are re-sorted by barcode before the sweep, so the input need not
// come straight from Extract. Cost is O(n log n) for the sort plus one
// distance per record.
func ClusterNaive(records []Record, maxMismatches, minClusterSize int, rnd *rand.Rand) ([]Read, error) {
	if err := checkArgs(maxMismatches, minClusterSize); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	sorted := append([]Record(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Barcode < sorted[j].Barcode
	})

	out := make([]Read, 0, len(sorted))
	cluster := make([]Read, 0, len(sorted))
	last := ""
	for i, rec := range sorted {
		if i > 0 {
			d, err := util.HammingDistance(last, rec.Barcode)
			if err != nil {
				return nil, err
			}
			if d > maxMismatches {
				out = pickRead(out, cluster, minClusterSize, rnd)
				cluster = cluster[:0]
			}
		}
		cluster = append(cluster, rec.Read)
		last = rec.Barcode
	}
	return pickRead(out, cluster, minClusterSize, rnd), nil
}
