package bamprovider

import (
	"io"

	"github.com/grailbio/hts/sam"
)

// fakeProvider is only for unittests. It yields the given records.
type fakeProvider struct {
	header *sam.Header
	recs   []*sam.Record
}

// NewFakeProvider creates a provider that returns "header" in response to a
// GetHeader() call, and recs, in the given order, from NewIterator. The
// iterator applies the same sort order checks as the file-backed providers.
func NewFakeProvider(header *sam.Header, recs []*sam.Record) Provider {
	return &fakeProvider{header, recs}
}

// GetHeader implements the Provider interface. It returns the header passed to
// the constructor.
func (b *fakeProvider) GetHeader() (*sam.Header, error) {
	return b.header, nil
}

// Close implements the Provider interface.
func (b *fakeProvider) Close() error {
	return nil
}

// NewIterator implements the Provider interface.
func (b *fakeProvider) NewIterator() Iterator {
	return newSortedIterator("fake", b.header, &fakeReader{recs: b.recs}, nil)
}

type fakeReader struct {
	recs []*sam.Record
}

// Read returns a copy of the next record so that the code under test cannot
// alter the original test input data.
func (r *fakeReader) Read() (*sam.Record, error) {
	if len(r.recs) == 0 {
		return nil, io.EOF
	}
	rec := *r.recs[0]
	r.recs = r.recs[1:]
	return &rec, nil
}
