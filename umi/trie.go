package umi

import (
	"math/rand"

	"github.com/spatialomics/umitools/counttrie"
)

// Index is the fuzzy-lookup capability consumed by ClusterIndex. An Index
// must count repeated inserts of the same key (Count reports the inserts
// since the last Remove), and FindWithinDistance must include the queried
// key itself while it is still indexed. counttrie.Trie is the default
// implementation; BK-trees or sorted-array scans can be substituted
// without touching the clustering logic.
type Index interface {
	Insert(key string)
	Remove(key string)
	Count(key string) int
	FindWithinDistance(key string, maxDistance int, allowIndels bool) []string
}

// ClusterTrie clusters records through a counting prefix trie. It is
// ClusterIndex with a freshly built counttrie.Trie.
func ClusterTrie(records []Record, maxMismatches, minClusterSize int, allowIndels bool, rnd *rand.Rand) ([]Read, error) {
	return ClusterIndex(records, counttrie.New(), maxMismatches, minClusterSize, allowIndels, rnd)
}

// ClusterIndex clusters records using idx, which must be empty. Every
// barcode is inserted into the index, then records are processed in their
// given order: each not-yet-consumed barcode pulls its entire
// within-distance neighborhood out of the index as one cluster, and the
// neighborhood is removed from both the index and the barcode-to-reads map
// so no read is emitted twice. Cluster size is the sum of the
// neighborhood's occurrence counts, so exact-duplicate barcodes are
// counted read by read.
//
// Because consumption is destructive, the record order decides cluster
// membership wherever mismatch neighborhoods overlap: a barcode within
// tolerance of two mutually distant barcodes joins whichever is processed
// first. This order dependence is inherent to the strategy, not an
// accident; records coming from Extract are processed in extractor order.
//
// allowIndels widens the neighborhood search to tolerate insertions and
// deletions; when false the search is a Hamming lookup over equal-length
// keys.
func ClusterIndex(records []Record, idx Index, maxMismatches, minClusterSize int, allowIndels bool, rnd *rand.Rand) ([]Read, error) {
	if err := checkArgs(maxMismatches, minClusterSize); err != nil {
		return nil, err
	}
	reads := make(map[string][]Read, len(records))
	for _, rec := range records {
		idx.Insert(rec.Barcode)
		reads[rec.Barcode] = append(reads[rec.Barcode], rec.Read)
	}
	var out []Read
	for _, rec := range records {
		// Already consumed by an earlier neighborhood: the query comes
		// back empty and the record is skipped.
		neighborhood := idx.FindWithinDistance(rec.Barcode, maxMismatches, allowIndels)
		size := 0
		var members []Read
		for _, barcode := range neighborhood {
			size += idx.Count(barcode)
			members = append(members, reads[barcode]...)
			delete(reads, barcode)
			idx.Remove(barcode)
		}
		if size >= minClusterSize {
			out = pickRead(out, members, 1, rnd)
		} else {
			out = append(out, members...)
		}
	}
	return out, nil
}
