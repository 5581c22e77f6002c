package bamprovider

import (
	"sync"

	"github.com/grailbio/base/errorreporter"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/hts/bam"
	"github.com/grailbio/hts/sam"
	"v.io/x/lib/vlog"
)

// BAMProvider implements Provider for BAM files. The path may be an S3 URL,
// in which case the data will be read from S3. Otherwise the data will be read
// from the local filesystem.
type BAMProvider struct {
	// Path of the *.bam file. Must be nonempty.
	Path string
	err  errorreporter.T

	mu      sync.Mutex
	nActive int
	header  *sam.Header
}

// GetHeader implements the Provider interface.
func (b *BAMProvider) GetHeader() (*sam.Header, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.header != nil {
		return b.header, nil
	}

	ctx := vcontext.Background()
	reader, err := file.Open(ctx, b.Path)
	if err != nil {
		b.err.Set(err)
		return nil, err
	}
	defer reader.Close(ctx) // nolint: errcheck
	bamReader, err := bam.NewReader(reader.Reader(ctx), 1)
	if err != nil {
		b.err.Set(err)
		return nil, err
	}
	defer bamReader.Close() // nolint: errcheck
	b.header = bamReader.Header()
	return b.header, nil
}

// NewIterator implements the Provider interface.
func (b *BAMProvider) NewIterator() Iterator {
	b.mu.Lock()
	b.nActive++
	b.mu.Unlock()

	ctx := vcontext.Background()
	in, err := file.Open(ctx, b.Path)
	if err != nil {
		b.err.Set(err)
		b.release()
		return NewErrorIterator(err)
	}
	reader, err := bam.NewReader(in.Reader(ctx), 1)
	if err != nil {
		b.err.Set(err)
		in.Close(ctx) // nolint: errcheck
		b.release()
		return NewErrorIterator(err)
	}
	vlog.VI(1).Infof("%v: opened BAM reader", b.Path)
	return newSortedIterator(b.Path, reader.Header(), reader, func() error {
		err := reader.Close()
		if e := in.Close(ctx); e != nil && err == nil {
			err = e
		}
		b.err.Set(err)
		b.release()
		return err
	})
}

func (b *BAMProvider) release() {
	b.mu.Lock()
	b.nActive--
	if b.nActive < 0 {
		vlog.Fatalf("Negative active count for %+v", b.Path)
	}
	b.mu.Unlock()
}

// Close implements the Provider interface.
func (b *BAMProvider) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.nActive > 0 {
		vlog.Fatalf("%d iterators still active for %+v", b.nActive, b.Path)
	}
	return b.err.Err()
}
