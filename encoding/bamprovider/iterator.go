package bamprovider

import (
	"io"
	"math"

	"github.com/grailbio/hts/sam"
	"github.com/pkg/errors"
)

// recordReader is the part of the BAM and SAM readers used by the iterator.
type recordReader interface {
	Read() (*sam.Record, error)
}

// sortedIterator reads records in file order and checks that they are
// sorted by (refid, position), with unplaced unmapped records at the end.
type sortedIterator struct {
	path   string
	reader recordReader
	// done is called once, by Close.
	done func() error

	rec     *sam.Record
	err     error
	nRecs   int
	prevRef int
	prevPos int
	closed  bool
}

func newSortedIterator(path string, header *sam.Header, reader recordReader, done func() error) *sortedIterator {
	i := &sortedIterator{path: path, reader: reader, done: done}
	if err := CheckHeaderSorted(header); err != nil {
		i.err = errors.Wrap(err, path)
	}
	return i
}

// CheckHeaderSorted returns ErrUnsorted unless the header declares coordinate
// sort order.
func CheckHeaderSorted(header *sam.Header) error {
	if header.SortOrder != sam.Coordinate {
		return errors.Wrapf(ErrUnsorted, "header sort order is %v", header.SortOrder)
	}
	return nil
}

// sortKey returns the coordinate of the record. Records with no reference
// sort after all others.
func sortKey(r *sam.Record) (int, int) {
	if r.Ref == nil || r.Ref.ID() < 0 {
		return math.MaxInt32, 0
	}
	return r.Ref.ID(), r.Pos
}

func (i *sortedIterator) Scan() bool {
	if i.closed {
		panic("Reusing iterator")
	}
	if i.err != nil {
		return false
	}
	i.rec, i.err = i.reader.Read()
	if i.err != nil {
		return false
	}
	ref, pos := sortKey(i.rec)
	if i.nRecs > 0 && (ref < i.prevRef || (ref == i.prevRef && pos < i.prevPos)) {
		i.err = errors.Wrapf(ErrUnsorted, "%s: record #%d (%s) at %d:%d follows %d:%d",
			i.path, i.nRecs, i.rec.Name, ref, pos, i.prevRef, i.prevPos)
		return false
	}
	i.prevRef, i.prevPos = ref, pos
	i.nRecs++
	return true
}

func (i *sortedIterator) Record() *sam.Record {
	return i.rec
}

// Err implements the Iterator interface.
func (i *sortedIterator) Err() error {
	if i.err == io.EOF {
		return nil
	}
	return i.err
}

// Close implements the Iterator interface.
func (i *sortedIterator) Close() error {
	i.closed = true
	err := i.Err()
	if i.done != nil {
		if e := i.done(); e != nil && err == nil {
			err = e
		}
		i.done = nil
	}
	return err
}

// failedIterator yields no record. It reports err from Err and Close.
type failedIterator struct {
	err error
}

func (i *failedIterator) Scan() bool          { return false }
func (i *failedIterator) Record() *sam.Record { panic("shall not be called") }
func (i *failedIterator) Err() error          { return i.err }
func (i *failedIterator) Close() error        { return i.err }

// NewErrorIterator creates an Iterator that yields no record and returns "err"
// in Err and Close.
func NewErrorIterator(err error) Iterator {
	return &failedIterator{err: err}
}
