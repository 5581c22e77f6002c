package bamprovider

import (
	"sync"

	"github.com/grailbio/base/errorreporter"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/hts/sam"
	"v.io/x/lib/vlog"
)

// SAMProvider implements Provider for SAM text files.
type SAMProvider struct {
	// Path of the *.sam file. Must be nonempty.
	Path string
	err  errorreporter.T

	mu      sync.Mutex
	nActive int
	header  *sam.Header
}

// GetHeader implements the Provider interface.
func (s *SAMProvider) GetHeader() (*sam.Header, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.header != nil {
		return s.header, nil
	}
	ctx := vcontext.Background()
	in, err := file.Open(ctx, s.Path)
	if err != nil {
		s.err.Set(err)
		return nil, err
	}
	defer in.Close(ctx) // nolint: errcheck
	reader, err := sam.NewReader(in.Reader(ctx))
	if err != nil {
		s.err.Set(err)
		return nil, err
	}
	s.header = reader.Header()
	return s.header, nil
}

// NewIterator implements the Provider interface.
func (s *SAMProvider) NewIterator() Iterator {
	ctx := vcontext.Background()
	in, err := file.Open(ctx, s.Path)
	if err != nil {
		s.err.Set(err)
		return NewErrorIterator(err)
	}
	reader, err := sam.NewReader(in.Reader(ctx))
	if err != nil {
		s.err.Set(err)
		in.Close(ctx) // nolint: errcheck
		return NewErrorIterator(err)
	}
	s.mu.Lock()
	s.nActive++
	s.mu.Unlock()
	return newSortedIterator(s.Path, reader.Header(), reader, func() error {
		err := in.Close(ctx)
		s.err.Set(err)
		s.mu.Lock()
		s.nActive--
		s.mu.Unlock()
		return err
	})
}

// Close implements the Provider interface.
func (s *SAMProvider) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nActive > 0 {
		vlog.Fatalf("%d iterators still active for %+v", s.nActive, s.Path)
	}
	return s.err.Err()
}
