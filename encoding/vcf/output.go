package vcf

import (
	"context"
	"io"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/klauspost/compress/gzip"
)

// Output is a file opened for writing, optionally gzip compressed.
type Output struct {
	out file.File
	gz  *gzip.Writer
	w   io.Writer
}

// Create opens path for writing. If path ends in ".gz", the data written to
// Writer() is gzip compressed.
func Create(ctx context.Context, path string) (*Output, error) {
	out, err := file.Create(ctx, path)
	if err != nil {
		return nil, err
	}
	o := &Output{out: out, w: out.Writer(ctx)}
	if strings.HasSuffix(path, ".gz") {
		o.gz = gzip.NewWriter(o.w)
		o.w = o.gz
	}
	return o, nil
}

// Writer returns the writer for the file contents.
func (o *Output) Writer() io.Writer { return o.w }

// Close flushes the compressor, if any, and closes the file.
func (o *Output) Close(ctx context.Context) error {
	once := errors.Once{}
	if o.gz != nil {
		once.Set(o.gz.Close())
	}
	once.Set(o.out.Close(ctx))
	return once.Err()
}
