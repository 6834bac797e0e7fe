// Package fastq reads and writes FASTQ read records. It exists to feed
// sequencing reads to the deduplication core and to write the surviving
// reads back out; it performs only the validation needed to catch
// truncated or corrupt inputs early.
package fastq

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
)

var (
	// ErrTruncated is returned when the input ends in the middle of a
	// four-line record.
	ErrTruncated = errors.New("truncated FASTQ record")
	// ErrFormat is returned when a record violates the FASTQ layout.
	ErrFormat = errors.New("malformed FASTQ record")
)

// Read is one FASTQ record. Sep is the third line (the "+" separator,
// which may carry a copy of the ID).
type Read struct {
	ID, Seq, Sep, Qual string
}

// Sequence returns the read's base sequence.
func (r *Read) Sequence() string { return r.Seq }

// Scanner reads FASTQ records one at a time. Scanners are not threadsafe.
type Scanner struct {
	b    *bufio.Scanner
	line int
	err  error
}

// NewScanner returns a Scanner reading raw FASTQ data from r.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{b: bufio.NewScanner(r)}
}

// Scan reads the next record into read, returning false at end of input or
// on error. Once Scan returns false it never returns true again; check Err
// to distinguish end of input from failure.
func (s *Scanner) Scan(read *Read) bool {
	if s.err != nil {
		return false
	}
	lines := [4]string{}
	for i := range lines {
		if !s.b.Scan() {
			if err := s.b.Err(); err != nil {
				s.err = err
			} else if i > 0 {
				s.err = errors.Wrapf(ErrTruncated, "line %d", s.line+i)
			}
			return false
		}
		lines[i] = s.b.Text()
	}
	s.line += 4
	read.ID, read.Seq, read.Sep, read.Qual = lines[0], lines[1], lines[2], lines[3]
	if len(read.ID) == 0 || read.ID[0] != '@' {
		s.err = errors.Wrapf(ErrFormat, "line %d: ID must start with '@'", s.line-3)
		return false
	}
	if len(read.Sep) == 0 || read.Sep[0] != '+' {
		s.err = errors.Wrapf(ErrFormat, "line %d: separator must start with '+'", s.line-1)
		return false
	}
	if len(read.Qual) != len(read.Seq) {
		s.err = errors.Wrapf(ErrFormat, "line %d: quality length %d != sequence length %d",
			s.line, len(read.Qual), len(read.Seq))
		return false
	}
	return true
}

// Err returns the first error encountered, or nil if scanning stopped at
// end of input.
func (s *Scanner) Err() error { return s.err }

// Writer writes FASTQ records. The first write error is latched and
// returned by every subsequent Write.
type Writer struct {
	w   *bufio.Writer
	err error
}

// NewWriter returns a Writer emitting FASTQ records to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write writes one record.
func (w *Writer) Write(r *Read) error {
	for _, line := range []string{r.ID, r.Seq, r.Sep, r.Qual} {
		w.writeln(line)
	}
	return w.err
}

func (w *Writer) writeln(line string) {
	if w.err != nil {
		return
	}
	if _, w.err = w.w.WriteString(line); w.err == nil {
		w.err = w.w.WriteByte('\n')
	}
}

// Flush writes any buffered records to the underlying writer.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	return w.w.Flush()
}
