// Command umi-dedup removes duplicated reads from a FASTQ file by
// molecular barcode (UMI). The barcode is the subsequence at
// [-start, -end) of each read; reads whose barcodes fall within
// -mismatches of each other are clustered with the selected -strategy, and
// every cluster of at least -min-cluster-size reads is collapsed to one
// representative read. Smaller groups pass through untouched.
//
// Example:
//
//	umi-dedup -input in.fastq.gz -output dedup.fastq \
//	    -start 0 -end 12 -mismatches 1 -strategy trie
package main

import (
	"context"
	"flag"
	"io"
	"math/rand"
	"os"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/spatialomics/umitools/encoding/fastq"
	"github.com/spatialomics/umitools/linkage"
	"github.com/spatialomics/umitools/umi"
)

type dedupFlags struct {
	input          string
	output         string
	start, end     int
	maxMismatches  int
	minClusterSize int
	strategy       string
	linkageMethod  string
	allowIndels    bool
	seed           int64
}

func main() {
	shutdown := grail.Init()
	defer shutdown()

	flags := dedupFlags{}
	flag.StringVar(&flags.input, "input", "", "Input FASTQ path (possibly gzipped). Empty reads stdin.")
	flag.StringVar(&flags.output, "output", "", "Output FASTQ path. Empty writes to stdout.")
	flag.IntVar(&flags.start, "start", 0, "Start offset of the barcode within the read sequence.")
	flag.IntVar(&flags.end, "end", 12, "End offset (exclusive) of the barcode within the read sequence.")
	flag.IntVar(&flags.maxMismatches, "mismatches", 1, "Max mismatches between barcodes in one cluster.")
	flag.IntVar(&flags.minClusterSize, "min-cluster-size", 2,
		"Min reads in a cluster before it collapses to one representative.")
	flag.StringVar(&flags.strategy, "strategy", "hierarchical",
		"Clustering strategy: naive, trie, or hierarchical.")
	flag.StringVar(&flags.linkageMethod, "linkage", "single",
		"Linkage method for the hierarchical strategy: single, complete, or average.")
	flag.BoolVar(&flags.allowIndels, "allow-indels", false,
		"In the trie strategy, also tolerate insertions and deletions.")
	flag.Int64Var(&flags.seed, "seed", 1, "Seed for representative selection.")
	flag.Parse()

	ctx := vcontext.Background()
	if err := run(ctx, flags); err != nil {
		log.Fatalf("umi-dedup: %v", err)
	}
}

func run(ctx context.Context, flags dedupFlags) error {
	reads, err := readInput(ctx, flags.input)
	if err != nil {
		return err
	}
	log.Printf("read %d reads from %s", len(reads), inputName(flags.input))

	records, err := umi.Extract(reads, flags.start, flags.end)
	if err != nil {
		return errors.E(err, "extracting barcodes")
	}
	rnd := rand.New(rand.NewSource(flags.seed))

	var survivors []umi.Read
	switch flags.strategy {
	case "naive":
		survivors, err = umi.ClusterNaive(records, flags.maxMismatches, flags.minClusterSize, rnd)
	case "trie":
		survivors, err = umi.ClusterTrie(records, flags.maxMismatches, flags.minClusterSize,
			flags.allowIndels, rnd)
	case "hierarchical":
		var method linkage.Method
		if method, err = linkage.ParseMethod(flags.linkageMethod); err != nil {
			return err
		}
		survivors, err = umi.ClusterHierarchical(records, flags.maxMismatches, flags.minClusterSize,
			method, rnd)
	default:
		return errors.E("unknown strategy:", flags.strategy)
	}
	if err != nil {
		return errors.E(err, "clustering barcodes")
	}
	log.Printf("%d of %d reads survive deduplication", len(survivors), len(reads))

	return writeOutput(ctx, flags.output, survivors)
}

func inputName(path string) string {
	if path == "" {
		return "stdin"
	}
	return path
}

func readInput(ctx context.Context, path string) ([]umi.Read, error) {
	var in io.Reader = os.Stdin
	if path != "" {
		f, err := file.Open(ctx, path)
		if err != nil {
			return nil, errors.E(err, "open", path)
		}
		defer f.Close(ctx) // nolint: errcheck
		in = f.Reader(ctx)
		if u := compress.NewReaderPath(in, f.Name()); u != nil {
			in = u
		}
	}
	var reads []umi.Read
	sc := fastq.NewScanner(in)
	for {
		r := &fastq.Read{}
		if !sc.Scan(r) {
			break
		}
		reads = append(reads, r)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.E(err, "reading", inputName(path))
	}
	return reads, nil
}

func writeOutput(ctx context.Context, path string, survivors []umi.Read) error {
	var out io.Writer = os.Stdout
	var f file.File
	if path != "" {
		var err error
		if f, err = file.Create(ctx, path); err != nil {
			return errors.E(err, "create", path)
		}
		out = f.Writer(ctx)
	}
	w := fastq.NewWriter(out)
	for _, r := range survivors {
		// Survivors are the same handles readInput produced.
		if err := w.Write(r.(*fastq.Read)); err != nil {
			return errors.E(err, "writing output")
		}
	}
	if err := w.Flush(); err != nil {
		return errors.E(err, "writing output")
	}
	if f != nil {
		if err := f.Close(ctx); err != nil {
			return errors.E(err, "close", path)
		}
	}
	return nil
}
