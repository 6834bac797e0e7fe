// Package umi deduplicates sequencing reads by molecular barcode (UMI).
// Reads carrying the same or nearly-the-same barcode are grouped into
// mismatch-bounded clusters and each sufficiently large cluster is
// collapsed to a single representative read; barcodes that are similar but
// below the cluster size threshold are kept as distinct observations.
//
// Three interchangeable clustering strategies are provided: ClusterNaive
// (sorted greedy chaining), ClusterTrie (fuzzy prefix index with
// destructive consumption), and ClusterHierarchical (agglomerative linkage
// over the full pairwise distance matrix). All three share the same
// representative-selection policy and the same input, the records produced
// by Extract.
//
// The package never owns read storage: it reorders, groups, and filters
// the read handles supplied by the caller and returns handles drawn from
// the input set, each at most once.
package umi

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrInvalidRange is returned by Extract when the barcode offsets do
	// not satisfy end > start >= 0.
	ErrInvalidRange = errors.New("barcode range must satisfy end > start >= 0")
	// ErrInvalidArgument is returned by the clustering strategies when
	// maxMismatches is negative or minClusterSize is less than 1.
	ErrInvalidArgument = errors.New("maxMismatches must be >= 0 and minClusterSize >= 1")
)

// Read is an opaque handle to a sequencing read. The caller owns the read;
// this package only needs its sequence.
type Read interface {
	Sequence() string
}

// Record is one extracted barcode observation: the barcode substring, the
// read it came from, the number of reads in the batch sharing the exact
// same barcode, and the number of ambiguous (N) bases in the barcode.
type Record struct {
	Barcode string
	Read    Read
	Count   int
	NCount  int
}

// Extract pulls the barcode substring [start:end) out of every read's
// sequence and returns one Record per read, sorted by barcode ascending,
// then occurrence count descending, then N count ascending. The sorted
// order is a precondition of ClusterNaive and makes the other strategies
// deterministic to test against.
//
// Reads shorter than end yield a truncated barcode; the resulting length
// disagreement surfaces later as util.ErrLengthMismatch when a strategy
// computes distances, so mixed-length batches fail loudly rather than
// silently.
func Extract(reads []Read, start, end int) ([]Record, error) {
	if start < 0 || end <= start {
		return nil, ErrInvalidRange
	}
	counts := make(map[string]int, len(reads))
	barcodes := make([]string, len(reads))
	for i, r := range reads {
		seq := r.Sequence()
		lo, hi := start, end
		if lo > len(seq) {
			lo = len(seq)
		}
		if hi > len(seq) {
			hi = len(seq)
		}
		barcodes[i] = seq[lo:hi]
		counts[barcodes[i]]++
	}
	records := make([]Record, len(reads))
	for i, r := range reads {
		records[i] = Record{
			Barcode: barcodes[i],
			Read:    r,
			Count:   counts[barcodes[i]],
			NCount:  strings.Count(barcodes[i], "N"),
		}
	}
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.Barcode != b.Barcode {
			return a.Barcode < b.Barcode
		}
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.NCount < b.NCount
	})
	return records, nil
}
