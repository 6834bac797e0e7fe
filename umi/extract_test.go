package umi

import (
	"testing"

	"github.com/grailbio/testutil/expect"
)

// testRead is a minimal Read with pointer identity, so duplicate sequences
// remain distinguishable handles.
type testRead struct {
	name string
	seq  string
}

func (r *testRead) Sequence() string { return r.seq }

func makeReads(seqs ...string) []Read {
	reads := make([]Read, len(seqs))
	for i, s := range seqs {
		reads[i] = &testRead{name: string(rune('a' + i)), seq: s}
	}
	return reads
}

func barcodes(records []Record) []string {
	b := make([]string, len(records))
	for i, rec := range records {
		b[i] = rec.Barcode
	}
	return b
}

func TestExtract(t *testing.T) {
	reads := makeReads("TTTT", "AAAA", "NAAA", "AAAA", "AAAT")
	records, err := Extract(reads, 0, 4)
	expect.NoError(t, err)
	expect.EQ(t, barcodes(records), []string{"AAAA", "AAAA", "AAAT", "NAAA", "TTTT"})

	for _, rec := range records {
		switch rec.Barcode {
		case "AAAA":
			expect.EQ(t, rec.Count, 2)
			expect.EQ(t, rec.NCount, 0)
		case "NAAA":
			expect.EQ(t, rec.Count, 1)
			expect.EQ(t, rec.NCount, 1)
		default:
			expect.EQ(t, rec.Count, 1)
			expect.EQ(t, rec.NCount, 0)
		}
	}

	// Duplicate barcodes keep their input order (stable sort): reads[1]
	// before reads[3].
	expect.EQ(t, records[0].Read, reads[1])
	expect.EQ(t, records[1].Read, reads[3])
}

func TestExtractOffsets(t *testing.T) {
	// The barcode is an interior substring of the read.
	reads := makeReads("GGACGTGG", "CCACGTCC", "TTTTTTTT")
	records, err := Extract(reads, 2, 6)
	expect.NoError(t, err)
	expect.EQ(t, barcodes(records), []string{"ACGT", "ACGT", "TTTT"})
	expect.EQ(t, records[0].Count, 2)
	expect.EQ(t, records[2].Count, 1)
}

func TestExtractInvalidRange(t *testing.T) {
	reads := makeReads("ACGT")
	for _, test := range []struct{ start, end int }{
		{-1, 2},
		{2, 2},
		{3, 1},
		{0, 0},
	} {
		_, err := Extract(reads, test.start, test.end)
		expect.EQ(t, err, ErrInvalidRange, "start=%d end=%d", test.start, test.end)
	}
}

func TestExtractEmpty(t *testing.T) {
	records, err := Extract(nil, 0, 4)
	expect.NoError(t, err)
	expect.EQ(t, len(records), 0)
}

func TestExtractShortRead(t *testing.T) {
	// A read shorter than the barcode window yields a truncated barcode
	// rather than a panic; the mismatch is caught by the clusterers.
	reads := makeReads("ACGTACGT", "AC")
	records, err := Extract(reads, 0, 4)
	expect.NoError(t, err)
	expect.EQ(t, barcodes(records), []string{"AC", "ACGT"})
}

func TestExtractDeterministic(t *testing.T) {
	reads := makeReads("AAAT", "AAAA", "TTTT", "AAAA", "NTTT")
	a, err := Extract(reads, 0, 4)
	expect.NoError(t, err)
	b, err := Extract(reads, 0, 4)
	expect.NoError(t, err)
	expect.EQ(t, a, b)
}
