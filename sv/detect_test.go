package sv

import (
	"strconv"
	"strings"
	"testing"

	"github.com/grailbio/hts/sam"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/require"
)

// splitRecord builds a forward primary record "100M<n>S" on chr21 whose only
// supplementary segment starts 100+gap bases into the read.
func splitRecord(t *testing.T, gap int) AlignmentRecord {
	const suppLen = 50
	readLen := 100 + gap + suppLen
	if gap < 0 {
		readLen = 100 + suppLen
	}
	suppStart := 100 + gap
	return AlignmentRecord{
		Name:    "read1",
		RefName: "chr21",
		Pos:     41972616,
		MapQ:    60,
		Cigar:   mustParseCigar(t, "100M"+strconv.Itoa(readLen-100)+"S"),
		Seq:     strings.Repeat("A", 100) + strings.Repeat("C", readLen-100),
		SA:      "chr22,17458417,+," + strconv.Itoa(suppStart) + "S" + strconv.Itoa(readLen-suppStart) + "M,60,2;",
	}
}

func TestSplitReadGapPolicy(t *testing.T) {
	for _, test := range []struct {
		gap  int
		want bool
	}{
		{-1, false},
		{0, true},
		{1, true},
		{10, true},
		{11, false},
	} {
		stats := Stats{}
		junctions, err := DetectSplitReadJunctions(splitRecord(t, test.gap), &stats, DefaultOpts)
		require.NoError(t, err)
		expect.EQ(t, len(junctions) == 1, test.want, "gap %d", test.gap)
		if test.want {
			j := junctions[0]
			expect.EQ(t, j.Mate1(), NewBreakend("chr21", 41972716, Forward))
			expect.EQ(t, j.Mate2(), NewBreakend("chr22", 17458417, Forward))
			expect.EQ(t, j.InsertedSequence(), strings.Repeat("C", test.gap))
			expect.EQ(t, j.ReadName(), "read1")
		}
	}
}

func TestSplitReadReverse(t *testing.T) {
	// A reverse read with a 200bp deletion: the read first traverses the
	// segment at 1250, then the one at 1000.
	rec := AlignmentRecord{
		Name:    "read1",
		Flags:   sam.Reverse,
		RefName: "chr1",
		Pos:     1000,
		MapQ:    60,
		Cigar:   mustParseCigar(t, "50M50S"),
		Seq:     strings.Repeat("A", 50) + strings.Repeat("G", 50),
		SA:      "chr1,1250,-,50S50M,60,0;",
	}
	stats := Stats{}
	junctions, err := DetectSplitReadJunctions(rec, &stats, DefaultOpts)
	require.NoError(t, err)
	require.Len(t, junctions, 1)
	// Exit the reverse segment at its start (1250), enter the next one at its
	// end (1050); canonicalization swaps and flips.
	expect.EQ(t, junctions[0].Mate1(), NewBreakend("chr1", 1050, Forward))
	expect.EQ(t, junctions[0].Mate2(), NewBreakend("chr1", 1250, Forward))
	expect.EQ(t, stats.ChimericReads, 1)
	expect.EQ(t, stats.SplitReadJunctions, 1)
}

func TestSplitReadInsertedSequenceReverse(t *testing.T) {
	// Reverse primary; the 4 bases between the segments are taken from the
	// original read, i.e. reverse complemented SEQ.
	rec := AlignmentRecord{
		Name:    "read1",
		Flags:   sam.Reverse,
		RefName: "chr1",
		Pos:     1000,
		MapQ:    60,
		Cigar:   mustParseCigar(t, "40M44S"),
		Seq:     strings.Repeat("A", 40) + "ACGG" + strings.Repeat("T", 40),
		SA:      "chr5,1000,+,40M44S,60,0;",
	}
	junctions, err := DetectSplitReadJunctions(rec, &Stats{}, DefaultOpts)
	require.NoError(t, err)
	require.Len(t, junctions, 1)
	expect.EQ(t, junctions[0].Mate1(), NewBreakend("chr1", 1040, Forward))
	expect.EQ(t, junctions[0].Mate2(), NewBreakend("chr5", 1040, Reverse))
	expect.EQ(t, junctions[0].InsertedSequence(), "CCGT")
}

func TestDetectJunctionsCorruptSA(t *testing.T) {
	rec := AlignmentRecord{
		Name:    "read1",
		RefName: "chr1",
		Pos:     1000,
		MapQ:    60,
		Cigar:   mustParseCigar(t, "20M40D20M60S"),
		Seq:     strings.Repeat("A", 100),
		SA:      "chr2,notanumber,+,40S60M,60,0;",
	}
	stats := Stats{}
	junctions, err := DetectJunctions(rec, &stats, DefaultOpts)
	require.Error(t, err)
	expect.EQ(t, stats.CorruptSATags, 1)
	// The CIGAR junction survives.
	require.Len(t, junctions, 1)
	expect.EQ(t, junctions[0].Mate1(), NewBreakend("chr1", 1020, Forward))
	expect.EQ(t, junctions[0].Mate2(), NewBreakend("chr1", 1060, Forward))
}

func TestDetectJunctionsMethods(t *testing.T) {
	rec := splitRecord(t, 0)
	rec.Cigar = mustParseCigar(t, "20M40D80M50S")
	opts := DefaultOpts

	opts.Methods = []DetectionMethod{CigarString}
	junctions, err := DetectJunctions(rec, &Stats{}, opts)
	assert.NoError(t, err)
	expect.EQ(t, len(junctions), 1)

	opts.Methods = []DetectionMethod{SplitRead}
	junctions, err = DetectJunctions(rec, &Stats{}, opts)
	assert.NoError(t, err)
	expect.EQ(t, len(junctions), 1)
	expect.EQ(t, junctions[0].Mate2().SeqName, "chr22")

	opts.Methods = []DetectionMethod{CigarString, SplitRead}
	junctions, err = DetectJunctions(rec, &Stats{}, opts)
	assert.NoError(t, err)
	expect.EQ(t, len(junctions), 2)

	// Supplementary records only contribute CIGAR junctions.
	rec.Flags = sam.Supplementary
	junctions, err = DetectJunctions(rec, &Stats{}, opts)
	assert.NoError(t, err)
	expect.EQ(t, len(junctions), 1)
}

func TestCigarJunctions(t *testing.T) {
	rec := AlignmentRecord{
		Name:    "read1",
		RefName: "chr1",
		Pos:     1000,
		MapQ:    60,
		Cigar:   mustParseCigar(t, "5H10S20M29D10M35I10M30D10M"),
		Seq:     strings.Repeat("A", 40) + strings.Repeat("G", 35) + strings.Repeat("T", 20),
	}
	stats := Stats{}
	junctions := DetectCigarJunctions(rec, &stats, DefaultOpts)
	require.Len(t, junctions, 2)
	// 29D is below MinVarLength.
	expect.EQ(t, junctions[0].Mate1(), NewBreakend("chr1", 1059, Forward))
	expect.EQ(t, junctions[0].Mate2(), NewBreakend("chr1", 1059, Forward))
	expect.EQ(t, junctions[0].InsertedSequence(), strings.Repeat("G", 35))
	expect.EQ(t, junctions[1].Mate1(), NewBreakend("chr1", 1069, Forward))
	expect.EQ(t, junctions[1].Mate2(), NewBreakend("chr1", 1099, Forward))
	expect.EQ(t, stats.CigarJunctions, 2)
}

func TestNewAlignmentRecord(t *testing.T) {
	ref, err := sam.NewReference("chr21", "", "", 46709983, nil, nil)
	require.NoError(t, err)
	aux, err := sam.NewAux(SATag, "chr22,17458417,+,110S50M,60,2;")
	require.NoError(t, err)
	r, err := sam.NewRecord("read1", ref, nil, 41972615, -1, 0, 60,
		mustParseCigar(t, "100M60S"), []byte(strings.Repeat("ACGT", 40)), nil, []sam.Aux{aux})
	require.NoError(t, err)
	r.Flags = sam.Reverse

	rec := NewAlignmentRecord(r)
	expect.EQ(t, rec.Name, "read1")
	expect.EQ(t, rec.RefName, "chr21")
	expect.EQ(t, rec.Pos, 41972616)
	expect.EQ(t, rec.MapQ, 60)
	expect.EQ(t, rec.SA, "chr22,17458417,+,110S50M,60,2;")
	expect.EQ(t, rec.Orientation(), Reverse)
	expect.EQ(t, rec.OriginalSeq(), strings.Repeat("ACGT", 40))
	expect.EQ(t, ReverseComplement("AACGTN"), "NACGTT")
	expect.EQ(t, ReverseComplement("acgtx-"), "NNACGT")

	opts := DefaultOpts
	expect.False(t, rec.skip(opts))
	opts.MinMapQ = 61
	expect.True(t, rec.skip(opts))
	rec.Flags |= sam.Duplicate
	expect.True(t, rec.skip(DefaultOpts))
}

func TestDetectNilStats(t *testing.T) {
	rec := splitRecord(t, 4)
	rec.Cigar = mustParseCigar(t, "20M40D80M54S")
	junctions, err := DetectJunctions(rec, nil, DefaultOpts)
	assert.NoError(t, err)
	expect.EQ(t, len(junctions), 2)

	junctions, err = DetectSplitReadJunctions(rec, nil, DefaultOpts)
	assert.NoError(t, err)
	expect.EQ(t, len(junctions), 1)
	expect.EQ(t, len(DetectCigarJunctions(rec, nil, DefaultOpts)), 1)

	segments, err := ParseSATag("chr22,17458417,+,50M,60;chr1,500,x,30M,13,0;chr1,500,-,30M,13,0;", nil)
	assert.NoError(t, err)
	expect.EQ(t, len(segments), 1)

	rec.SA = "chr2,notanumber,+,40S60M,60,0;"
	_, err = DetectJunctions(rec, nil, DefaultOpts)
	expect.NotNil(t, err)
}
