package umi

import (
	"math/rand"

	"github.com/grailbio/base/traverse"
	"github.com/spatialomics/umitools/linkage"
	"github.com/spatialomics/umitools/util"
)

// ClusterHierarchical clusters records by agglomerative linkage over the
// full pairwise Hamming distance matrix, cut at maxMismatches. Unlike
// ClusterTrie the partition does not depend on record order, and unlike
// ClusterNaive the merge rule is selectable: linkage.Single merges on the
// closest pair of members, linkage.Complete on the farthest, and
// linkage.Average on the mean.
//
// Matrix-based linkage is undefined for fewer than 3 records, so batches
// of up to 2 records delegate to ClusterNaive. Cost is O(n^2) space and at
// least O(n^2 * L) time for barcode length L; the matrix fill runs one
// parallel job per row.
func ClusterHierarchical(records []Record, maxMismatches, minClusterSize int, method linkage.Method, rnd *rand.Rand) ([]Read, error) {
	if err := checkArgs(maxMismatches, minClusterSize); err != nil {
		return nil, err
	}
	if len(records) <= 2 {
		return ClusterNaive(records, maxMismatches, minClusterSize, rnd)
	}
	n := len(records)
	dm := linkage.NewCondensed(n)
	if err := traverse.Each(n-1, func(i int) error {
		for j := i + 1; j < n; j++ {
			d, err := util.HammingDistance(records[i].Barcode, records[j].Barcode)
			if err != nil {
				return err
			}
			dm.Set(i, j, float64(d))
		}
		return nil
	}); err != nil {
		return nil, err
	}
	labels := linkage.Cut(linkage.Cluster(dm, method), n, float64(maxMismatches))

	// Group record indices by flat cluster label. Labels are numbered in
	// record order, so iterating 1..k keeps the output deterministic.
	groups := make(map[int][]Read, n)
	nlabels := 0
	for i, label := range labels {
		groups[label] = append(groups[label], records[i].Read)
		if label > nlabels {
			nlabels = label
		}
	}
	out := make([]Read, 0, nlabels)
	for label := 1; label <= nlabels; label++ {
		out = pickRead(out, groups[label], minClusterSize, rnd)
	}
	return out, nil
}
