package sv

import "fmt"

// SVType is the type of a structural variant.
type SVType int

const (
	// DEL is a deletion.
	DEL SVType = iota
	// INS is an insertion.
	INS
	// DUP is a tandem duplication.
	DUP
	// INV is an inversion.
	INV
	// BND is a breakend pair on different chromosomes.
	BND
)

func (t SVType) String() string {
	switch t {
	case DEL:
		return "DEL"
	case INS:
		return "INS"
	case DUP:
		return "DUP"
	case INV:
		return "INV"
	case BND:
		return "BND"
	}
	return fmt.Sprintf("SVType(%d)", int(t))
}

// Variant is a typed structural variant call. Positions are 1-based and follow
// VCF conventions: for DEL and INS, Pos is the reference base before the
// event; for DUP and INV, [Pos, End] is the affected reference interval and
// holds Length bases. For BND, Pos and MatePos are the reference bases on
// either side of the junction.
type Variant struct {
	Type  SVType
	Chrom string
	Pos   int
	// End is the last reference base affected. For INS it equals Pos. Unset
	// for BND.
	End int
	// Length is the variant length. 0 for BND.
	Length int
	// MateChrom and MatePos locate the second breakend of a BND.
	MateChrom string
	MatePos   int
	// Orientation1 and Orientation2 are the orientations of the breakends.
	Orientation1, Orientation2 Strand
	// InsertedSequence is the inserted sequence of the representative
	// junction.
	InsertedSequence string
	// Support is the number of junctions in the cluster.
	Support int
}

// Classify derives the variant described by the representative junction of
// c. It returns false if the cluster does not describe a reportable variant
// or if the variant length is outside [opts.MinVarLength, opts.MaxVarLength].
func Classify(c Cluster, opts Opts) (Variant, bool) {
	rep := c.Representative
	m1, m2 := rep.mate1, rep.mate2
	v := Variant{
		Orientation1:     m1.Orientation,
		Orientation2:     m2.Orientation,
		InsertedSequence: rep.insertedSeq,
		Support:          c.SupportCount(),
	}
	keep := func(length int) bool {
		return length >= opts.MinVarLength && length <= opts.MaxVarLength
	}

	if m1.SeqType == Read || m2.SeqType == Read {
		anchor := m1
		if anchor.SeqType == Read {
			anchor = m2
		}
		if anchor.SeqType == Read {
			return v, false
		}
		v.Type, v.Chrom, v.Length = INS, anchor.SeqName, len(rep.insertedSeq)
		v.Pos, v.End = anchor.Pos-1, anchor.Pos-1
		return v, keep(v.Length)
	}
	if m1.SeqName != m2.SeqName {
		v.Type, v.Chrom, v.Pos = BND, m1.SeqName, adjacentBase(m1, Forward)
		v.MateChrom, v.MatePos = m2.SeqName, adjacentBase(m2, Reverse)
		return v, true
	}

	v.Chrom = m1.SeqName
	if m1.Orientation != m2.Orientation {
		v.Type, v.Length = INV, m2.Pos-m1.Pos
		v.Pos, v.End = m1.Pos, m2.Pos-1
		return v, keep(v.Length)
	}
	// Measure the distance in read-traversal direction. A canonical junction
	// with both mates reversed was traversed from mate2 to mate1.
	d := m2.Pos - m1.Pos
	if m1.Orientation == Reverse {
		d = -d
	}
	switch {
	case d > opts.MaxTolInsertedLength && len(rep.insertedSeq) <= opts.MaxTolInsertedLength:
		v.Type, v.Length = DEL, d
		v.Pos, v.End = m1.Pos-1, m2.Pos-1
	case d < 0:
		v.Type, v.Length = DUP, -d
		v.Pos, v.End = m1.Pos, m2.Pos-1
	case d <= opts.MaxTolInsertedLength:
		v.Type, v.Length = INS, len(rep.insertedSeq)
		v.Pos, v.End = m1.Pos-1, m1.Pos-1
	default:
		return v, false
	}
	return v, keep(v.Length)
}

// adjacentBase returns the position of the base next to the junction on the
// reference side of b. A breakend with the given orientation sits one past
// that base.
func adjacentBase(b Breakend, onePast Strand) int {
	if b.Orientation == onePast {
		return b.Pos - 1
	}
	return b.Pos
}

// FindVariants classifies each cluster and returns the reportable variants in
// cluster order.
func FindVariants(clusters []Cluster, opts Opts) []Variant {
	var variants []Variant
	for _, c := range clusters {
		if v, ok := Classify(c, opts); ok {
			variants = append(variants, v)
		}
	}
	return variants
}
