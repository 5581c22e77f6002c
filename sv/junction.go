package sv

import "fmt"

// Junction is an unordered pair of directed breakends observed in one read.
//
// INVARIANT: mate1.Compare(mate2) <= 0. The constructor establishes it and no
// method mutates a Junction afterwards.
type Junction struct {
	mate1, mate2 Breakend
	insertedSeq  string
	readName     string
}

// NewJunction creates a canonical junction. "Leave mate1, enter mate2" is the
// same physical event as "leave flipped mate2, enter flipped mate1", so when
// mate2 sorts before mate1 the two are swapped and both orientations are
// flipped.
func NewJunction(mate1, mate2 Breakend, insertedSeq, readName string) Junction {
	if mate2.Less(mate1) {
		mate1, mate2 = mate2, mate1
		mate1.FlipOrientation()
		mate2.FlipOrientation()
	}
	return Junction{mate1: mate1, mate2: mate2, insertedSeq: insertedSeq, readName: readName}
}

// Mate1 returns the lower breakend.
func (j Junction) Mate1() Breakend { return j.mate1 }

// Mate2 returns the upper breakend.
func (j Junction) Mate2() Breakend { return j.mate2 }

// InsertedSequence returns the read bases found between the two breakends. It
// may be empty.
func (j Junction) InsertedSequence() string { return j.insertedSeq }

// ReadName returns the name of the supporting read.
func (j Junction) ReadName() string { return j.readName }

// Compare orders junctions lexicographically by (mate1, mate2).
func (j Junction) Compare(o Junction) int {
	if c := j.mate1.Compare(o.mate1); c != 0 {
		return c
	}
	return j.mate2.Compare(o.mate2)
}

// Less is Compare(o) < 0.
func (j Junction) Less(o Junction) bool { return j.Compare(o) < 0 }

// Equal checks if two junctions have the same mates. The read name and the
// inserted sequence are ignored, since many reads support the same junction.
func (j Junction) Equal(o Junction) bool {
	return j.mate1.Equal(o.mate1) && j.mate2.Equal(o.mate2)
}

// String renders the junction as mate1, mate2 and the read name, tab
// separated.
func (j Junction) String() string {
	return fmt.Sprintf("%v\t%v\t%s", j.mate1, j.mate2, j.readName)
}
