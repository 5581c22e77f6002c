package sv

import (
	"sort"

	"github.com/grailbio/hts/sam"
)

// DetectJunctions runs every detection method enabled in opts on the record.
// The junctions of the CIGAR method come first, then those of the split-read
// method. An error means that the record's SA tag is corrupt; junctions from
// the CIGAR string are returned regardless. Counters are added to stats, which
// may be nil.
func DetectJunctions(rec AlignmentRecord, stats *Stats, opts Opts) ([]Junction, error) {
	if stats == nil {
		stats = &Stats{}
	}
	var junctions []Junction
	if opts.Enabled(CigarString) {
		junctions = append(junctions, DetectCigarJunctions(rec, stats, opts)...)
	}
	if opts.Enabled(SplitRead) && rec.SA != "" && rec.Flags&sam.Supplementary == 0 {
		js, err := DetectSplitReadJunctions(rec, stats, opts)
		if err != nil {
			stats.CorruptSATags++
			return junctions, err
		}
		junctions = append(junctions, js...)
	}
	return junctions, nil
}

// DetectSplitReadJunctions reconstructs the junctions of a chimeric read from
// the record and its SA tag. The segments are sorted by their start on the
// original read, and every pair of consecutive segments that are at most
// opts.MaxReadGap bases apart on the read, without overlapping, yields one
// junction. The junctions are returned in read order. stats may be nil.
func DetectSplitReadJunctions(rec AlignmentRecord, stats *Stats, opts Opts) ([]Junction, error) {
	if stats == nil {
		stats = &Stats{}
	}
	stats.ChimericReads++
	supplementary, err := ParseSATag(rec.SA, stats)
	if err != nil {
		return nil, err
	}
	primary := rec.Segment()
	segments := append([]AlignedSegment{primary}, supplementary...)
	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].QueryStart() < segments[j].QueryStart()
	})
	// SEQ lacks the hard-clipped bases of the primary record, so read offsets
	// are shifted by their count.
	readSeq := rec.OriginalSeq()
	hardClipped := 0
	for _, op := range orientedCigar(primary) {
		if op.Type() != sam.CigarHardClipped {
			break
		}
		hardClipped += op.Len()
	}
	junctions := junctionsFromSegments(segments, readSeq, hardClipped, rec.Name, opts.MaxReadGap)
	stats.SplitReadJunctions += len(junctions)
	return junctions, nil
}

// orientedCigar returns the CIGAR of s in the order the read traverses it.
func orientedCigar(s AlignedSegment) sam.Cigar {
	if s.Orientation == Forward {
		return s.Cigar
	}
	c := make(sam.Cigar, len(s.Cigar))
	for i, op := range s.Cigar {
		c[len(c)-1-i] = op
	}
	return c
}

// junctionsFromSegments builds junctions between consecutive segments.
//
// REQUIRES: segments are sorted by QueryStart.
func junctionsFromSegments(segments []AlignedSegment, readSeq string, seqOffset int, readName string, maxGap int) []Junction {
	var junctions []Junction
	for i := 1; i < len(segments); i++ {
		current, next := segments[i-1], segments[i]
		end, start := current.QueryEnd(), next.QueryStart()
		if gap := start - end; gap < 0 || gap > maxGap {
			continue
		}
		var inserted string
		if s, e := end-seqOffset, start-seqOffset; s >= 0 && e <= len(readSeq) {
			inserted = readSeq[s:e]
		}
		junctions = append(junctions,
			NewJunction(current.exitBreakend(), next.entryBreakend(), inserted, readName))
	}
	return junctions
}

// DetectCigarJunctions finds deletions and insertions of at least
// opts.MinVarLength bases in the CIGAR string of rec.
//
// A deletion yields a junction from the reference position after the last
// aligned base to the first base after the deletion, so the mate distance
// equals the deletion length. An insertion yields a junction whose two mates
// are both at the insertion point, carrying the inserted bases. stats may be
// nil.
func DetectCigarJunctions(rec AlignmentRecord, stats *Stats, opts Opts) []Junction {
	if stats == nil {
		stats = &Stats{}
	}
	var (
		junctions []Junction
		refPos    = rec.Pos
		seqPos    = 0
	)
	for _, op := range rec.Cigar {
		n := op.Len()
		switch op.Type() {
		case sam.CigarDeletion:
			if n >= opts.MinVarLength {
				junctions = append(junctions, NewJunction(
					NewBreakend(rec.RefName, refPos, Forward),
					NewBreakend(rec.RefName, refPos+n, Forward),
					"", rec.Name))
			}
		case sam.CigarInsertion:
			if n >= opts.MinVarLength {
				var inserted string
				if seqPos+n <= len(rec.Seq) {
					inserted = rec.Seq[seqPos : seqPos+n]
				}
				junctions = append(junctions, NewJunction(
					NewBreakend(rec.RefName, refPos, Forward),
					NewBreakend(rec.RefName, refPos, Forward),
					inserted, rec.Name))
			}
		}
		c := op.Type().Consumes()
		refPos += n * c.Reference
		if op.Type() != sam.CigarHardClipped {
			seqPos += n * c.Query
		}
	}
	stats.CigarJunctions += len(junctions)
	return junctions
}
