package fastq

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

const sample = `@read1
ACGTACGT
+
FFFFFFFF
@read2
TTTTNNNN
+read2
!!!!!!!!
`

func TestScanner(t *testing.T) {
	sc := NewScanner(strings.NewReader(sample))
	var r Read

	assert.True(t, sc.Scan(&r))
	assert.Equal(t, Read{ID: "@read1", Seq: "ACGTACGT", Sep: "+", Qual: "FFFFFFFF"}, r)
	assert.Equal(t, "ACGTACGT", r.Sequence())

	assert.True(t, sc.Scan(&r))
	assert.Equal(t, "@read2", r.ID)
	assert.Equal(t, "+read2", r.Sep)

	assert.False(t, sc.Scan(&r))
	assert.NoError(t, sc.Err())
}

func TestScannerErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"truncated", "@read1\nACGT\n", ErrTruncated},
		{"bad id", "read1\nACGT\n+\nFFFF\n", ErrFormat},
		{"bad separator", "@read1\nACGT\n-\nFFFF\n", ErrFormat},
		{"qual length", "@read1\nACGT\n+\nFFF\n", ErrFormat},
	}
	for _, test := range tests {
		sc := NewScanner(strings.NewReader(test.input))
		var r Read
		assert.False(t, sc.Scan(&r), test.name)
		assert.Equal(t, test.want, errors.Cause(sc.Err()), test.name)
	}
}

func TestScannerEmpty(t *testing.T) {
	sc := NewScanner(strings.NewReader(""))
	var r Read
	assert.False(t, sc.Scan(&r))
	assert.NoError(t, sc.Err())
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	assert.NoError(t, w.Write(&Read{ID: "@read1", Seq: "ACGT", Sep: "+", Qual: "FFFF"}))
	assert.NoError(t, w.Flush())
	assert.Equal(t, "@read1\nACGT\n+\nFFFF\n", buf.String())
}

func TestRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	sc := NewScanner(strings.NewReader(sample))
	var r Read
	for sc.Scan(&r) {
		assert.NoError(t, w.Write(&r))
	}
	assert.NoError(t, sc.Err())
	assert.NoError(t, w.Flush())
	assert.Equal(t, sample, buf.String())
}
