package sv

import (
	"fmt"
	"strings"
)

// SequenceType tells whether a breakend position refers to a reference
// sequence or to the coordinate space of the supporting read itself.
type SequenceType uint8

const (
	// Reference means the breakend is a locus on a reference chromosome.
	Reference SequenceType = iota
	// Read means the breakend is an offset within unaligned read sequence.
	Read
)

// String returns "Reference" or "Read".
func (t SequenceType) String() string {
	switch t {
	case Reference:
		return "Reference"
	case Read:
		return "Read"
	}
	return fmt.Sprintf("SequenceType(%d)", t)
}

// Strand is the direction in which a read leaves or enters a breakend.
type Strand uint8

const (
	// Forward strand.
	Forward Strand = iota
	// Reverse strand.
	Reverse
)

// String returns "Forward" or "Reverse".
func (s Strand) String() string {
	switch s {
	case Forward:
		return "Forward"
	case Reverse:
		return "Reverse"
	}
	return fmt.Sprintf("Strand(%d)", s)
}

// Flip returns the opposite strand.
func (s Strand) Flip() Strand {
	if s == Forward {
		return Reverse
	}
	return Forward
}

// Breakend is one directed endpoint of a rearrangement.
type Breakend struct {
	SeqType SequenceType
	// SeqName is the chromosome name for Reference breakends, or an identifier
	// of the read sequence for Read breakends.
	SeqName string
	// Pos is the 1-based position on SeqName.
	Pos         int
	Orientation Strand
}

// NewBreakend creates a Reference breakend.
func NewBreakend(chrom string, pos int, orientation Strand) Breakend {
	return Breakend{SeqType: Reference, SeqName: chrom, Pos: pos, Orientation: orientation}
}

// FlipOrientation toggles the orientation of b. Nothing else changes.
func (b *Breakend) FlipOrientation() {
	b.Orientation = b.Orientation.Flip()
}

// Compare orders breakends by (SeqType, SeqName, Pos). Orientation does not
// participate. It returns a negative value if b sorts before o, zero if they
// tie, and a positive value otherwise.
func (b Breakend) Compare(o Breakend) int {
	if b.SeqType != o.SeqType {
		return int(b.SeqType) - int(o.SeqType)
	}
	if c := strings.Compare(b.SeqName, o.SeqName); c != 0 {
		return c
	}
	switch {
	case b.Pos < o.Pos:
		return -1
	case b.Pos > o.Pos:
		return 1
	}
	return 0
}

// Less is Compare(o) < 0.
func (b Breakend) Less(o Breakend) bool { return b.Compare(o) < 0 }

// Equal checks whether the two breakends denote the same directed locus.
func (b Breakend) Equal(o Breakend) bool {
	return b.Compare(o) == 0 && b.Orientation == o.Orientation
}

// String renders the breakend as "seq_type\tseq_name\tposition\torientation".
func (b Breakend) String() string {
	return fmt.Sprintf("%v\t%s\t%d\t%v", b.SeqType, b.SeqName, b.Pos, b.Orientation)
}

// sameLocusGroup checks whether b and o can be placed in one cluster at all,
// i.e., everything but the position agrees.
func (b Breakend) sameLocusGroup(o Breakend) bool {
	return b.SeqType == o.SeqType && b.SeqName == o.SeqName && b.Orientation == o.Orientation
}
