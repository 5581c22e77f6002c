package sv

import (
	"github.com/grailbio/hts/sam"
)

// AlignmentRecord holds the fields of one alignment that junction detection
// looks at. It is detached from the sam.Record it was built from, so it can be
// handed to another goroutine.
type AlignmentRecord struct {
	Name    string
	Flags   sam.Flags
	RefName string
	// Pos is the 1-based leftmost mapping position.
	Pos   int
	MapQ  int
	Cigar sam.Cigar
	// Seq is the SEQ field, in reference orientation.
	Seq string
	// SA is the value of the SA aux tag, or "" if the tag is absent.
	SA string
}

// NewAlignmentRecord extracts an AlignmentRecord from r.
func NewAlignmentRecord(r *sam.Record) AlignmentRecord {
	rec := AlignmentRecord{
		Name:  r.Name,
		Flags: r.Flags,
		Pos:   r.Pos + 1,
		MapQ:  int(r.MapQ),
		Cigar: append(sam.Cigar(nil), r.Cigar...),
		Seq:   string(r.Seq.Expand()),
	}
	if r.Ref != nil {
		rec.RefName = r.Ref.Name()
	}
	if aux, ok := r.Tag(SATag[:]); ok {
		if v, ok := aux.Value().(string); ok {
			rec.SA = v
		}
	}
	return rec
}

// Orientation returns Reverse iff the record is reverse complemented.
func (r *AlignmentRecord) Orientation() Strand {
	if r.Flags&sam.Reverse != 0 {
		return Reverse
	}
	return Forward
}

// Segment returns the AlignedSegment of the record itself.
func (r *AlignmentRecord) Segment() AlignedSegment {
	return AlignedSegment{
		Orientation: r.Orientation(),
		RefName:     r.RefName,
		RefStart:    r.Pos,
		MapQ:        r.MapQ,
		Cigar:       r.Cigar,
	}
}

// OriginalSeq returns the read bases in sequencing order, i.e., SEQ reverse
// complemented for reverse alignments.
func (r *AlignmentRecord) OriginalSeq() string {
	if r.Orientation() == Forward {
		return r.Seq
	}
	return ReverseComplement(r.Seq)
}

// skip checks whether the record is unfit for junction detection.
func (r *AlignmentRecord) skip(opts Opts) bool {
	const excluded = sam.Unmapped | sam.Secondary | sam.Duplicate
	return r.Flags&excluded != 0 || r.RefName == "" || r.MapQ < opts.MinMapQ
}

var revCompTable = [256]byte{
	'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N',
	'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N',
	'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N',
	'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N',
	'N', 'T', 'N', 'G', 'N', 'N', 'N', 'C', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N',
	'N', 'N', 'N', 'N', 'A', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N',
	'N', 'T', 'N', 'G', 'N', 'N', 'N', 'C', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N',
	'N', 'N', 'N', 'N', 'A', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N',
	'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N',
	'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N',
	'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N',
	'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N',
	'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N',
	'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N',
	'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N',
	'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N',
}

// ReverseComplement returns the reverse complement of seq. It maps 'A'/'a' to
// 'T', 'C'/'c' to 'G', 'G'/'g' to 'C', 'T'/'t' to 'A', and everything else to
// 'N'.
func ReverseComplement(seq string) string {
	n := len(seq)
	buf := make([]byte, n)
	for i := 0; i < n; i++ {
		buf[n-1-i] = revCompTable[seq[i]]
	}
	return string(buf)
}
