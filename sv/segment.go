package sv

import (
	"github.com/grailbio/hts/sam"
)

// AlignedSegment is one contiguous mapped block of a (possibly chimeric) read.
type AlignedSegment struct {
	Orientation Strand
	RefName     string
	// RefStart is the 1-based position of the first aligned reference base.
	RefStart int
	MapQ     int
	// Cigar is in reference orientation, as stored in SAM/BAM.
	Cigar sam.Cigar
}

// ReferenceEnd returns the 1-based position one past the last reference base
// covered by the segment.
func (s AlignedSegment) ReferenceEnd() int {
	end := s.RefStart
	for _, op := range s.Cigar {
		end += op.Len() * op.Type().Consumes().Reference
	}
	return end
}

func isClip(t sam.CigarOpType) bool {
	return t == sam.CigarSoftClipped || t == sam.CigarHardClipped
}

// QueryStart returns the offset of the first aligned base in the original
// read. Soft- and hard-clipped bases count as consumed, so segments of one read
// can be placed along it regardless of their strand. For a reverse segment the
// start of the original read corresponds to the end of the CIGAR.
func (s AlignedSegment) QueryStart() int {
	n := len(s.Cigar)
	start := 0
	for i := 0; i < n; i++ {
		op := s.Cigar[i]
		if s.Orientation == Reverse {
			op = s.Cigar[n-1-i]
		}
		if !isClip(op.Type()) {
			break
		}
		start += op.Len()
	}
	return start
}

// QueryEnd returns the offset one past the last aligned base in the original
// read, so that [QueryStart, QueryEnd) is the read range of the segment.
func (s AlignedSegment) QueryEnd() int {
	end := s.QueryStart()
	for _, op := range s.Cigar {
		switch op.Type() {
		case sam.CigarMatch, sam.CigarInsertion, sam.CigarEqual, sam.CigarMismatch:
			end += op.Len()
		}
	}
	return end
}

// exitBreakend is the breakend through which the read leaves the segment: the
// reference end for a forward segment, the reference start for a reverse one.
func (s AlignedSegment) exitBreakend() Breakend {
	pos := s.RefStart
	if s.Orientation == Forward {
		pos = s.ReferenceEnd()
	}
	return NewBreakend(s.RefName, pos, s.Orientation)
}

// entryBreakend is the breakend through which the read enters the segment.
func (s AlignedSegment) entryBreakend() Breakend {
	pos := s.RefStart
	if s.Orientation == Reverse {
		pos = s.ReferenceEnd()
	}
	return NewBreakend(s.RefName, pos, s.Orientation)
}
