package bamprovider

import (
	"strings"

	"github.com/grailbio/hts/sam"
	"github.com/pkg/errors"
	"v.io/x/lib/vlog"
)

// ErrUnsorted is reported when the input is not sorted by coordinate. Use
// errors.Cause to detect it.
var ErrUnsorted = errors.New("alignment input is not coordinate-sorted")

// Provider allows reading a BAM or SAM file in file order. Thread safe.
type Provider interface {
	// GetHeader returns the header for the provided alignment data. The callee
	// must not modify the returned header object.
	//
	// REQUIRES: Close has not been called.
	GetHeader() (*sam.Header, error)

	// NewIterator returns an iterator over all the records in the file, in
	// file order. The iterator fails with ErrUnsorted if the header does not
	// declare coordinate sort order, or if a record is out of order.
	//
	// REQUIRES: Close has not been called.
	NewIterator() Iterator

	// Close must be called exactly once. It returns any error encountered
	// by the provider, or any iterator created by the provider.
	//
	// REQUIRES: All the iterators created by NewIterator have been closed.
	Close() error
}

// Iterator iterates over sam.Records in coordinate order. Thread compatible.
type Iterator interface {
	// Scan returns where there are any records remaining in the iterator,
	// and if so, advances the iterator to the next record. If the iterator
	// reaches the end of the file, Scan() returns false. If an error
	// occurs, Scan() returns false and the error can be retrieved by
	// calling Err().
	//
	// REQUIRES: Close has not been called.
	Scan() bool

	// Record returns the current record in the iterator. This must be
	// called only after a call to Scan() returns true.
	//
	// REQUIRES: Close has not been called.
	Record() *sam.Record

	// Err returns the error encoutered during iteration, or nil if no error
	// occurred. An io.EOF error will be translated to nil.
	Err() error

	// Close must be called exactly once. It returns the value of Err().
	Close() error
}

// FileType represents the type of an alignment file.
type FileType int

const (
	// Unknown is a sentinel.
	Unknown FileType = iota
	// BAM file
	BAM
	// SAM text file
	SAM
)

// ParseFileType parses the file type string. "bam" returns bamprovider.BAM, for
// example. On error, it returns Unknown.
func ParseFileType(name string) FileType {
	switch name {
	case "bam":
		return BAM
	case "sam":
		return SAM
	default:
		return Unknown
	}
}

// GuessFileType returns the file type from the pathname. Returns Unknown if
// the suffix is not recognized.
func GuessFileType(path string) FileType {
	if strings.HasSuffix(path, ".bam") {
		return BAM
	}
	if strings.HasSuffix(path, ".sam") {
		return SAM
	}
	vlog.VI(1).Infof("%v: could not detect file type.", path)
	return Unknown
}

// ProviderOpts defines options for NewProvider.
type ProviderOpts struct {
	// Type overrides the file type guessed from the path.
	Type FileType
}

func mergeOpts(optList []ProviderOpts) ProviderOpts {
	opts := ProviderOpts{}
	for _, o := range optList {
		if o.Type != Unknown {
			opts.Type = o.Type
		}
	}
	return opts
}

// NewProvider creates a Provider object that can handle BAM or SAM file of
// "path". Unless opts sets the type, it is detected from the path, and files
// of unknown type are read as BAM.
func NewProvider(path string, optList ...ProviderOpts) Provider {
	opts := mergeOpts(optList)
	typ := opts.Type
	if typ == Unknown {
		typ = GuessFileType(path)
	}
	switch typ {
	case BAM, Unknown:
		return &BAMProvider{Path: path}
	case SAM:
		return &SAMProvider{Path: path}
	}
	panic("shouldn't reach here")
}
