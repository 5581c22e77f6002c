package vcf

import (
	"fmt"
	"io"
	"strconv"

	"github.com/grailbio/base/tsv"
	"github.com/grailbio/hts/sam"
	"github.com/grailbio/svcaller/sv"
)

// Source is the value of the ##source header line.
const Source = "bio-sv"

var metaLines = []string{
	"##fileformat=VCFv4.3",
	"##source=" + Source,
	`##INFO=<ID=SVTYPE,Number=1,Type=String,Description="Type of structural variant">`,
	`##INFO=<ID=SVLEN,Number=1,Type=Integer,Description="Difference in length between REF and ALT alleles">`,
	`##INFO=<ID=END,Number=1,Type=Integer,Description="End position of the variant described in this record">`,
	`##ALT=<ID=DEL,Description="Deletion">`,
	`##ALT=<ID=INS,Description="Insertion">`,
	`##ALT=<ID=DUP,Description="Duplication">`,
	`##ALT=<ID=INV,Description="Inversion">`,
}

var columns = []string{"#CHROM", "POS", "ID", "REF", "ALT", "QUAL", "FILTER", "INFO"}

// Writer writes variants as VCF records.
type Writer struct {
	w *tsv.Writer
	n int
}

// NewWriter creates a Writer and writes the VCF header. Contigs, if any, are
// listed in ##contig lines.
func NewWriter(out io.Writer, contigs []*sam.Reference) (*Writer, error) {
	w := &Writer{w: tsv.NewWriter(out)}
	for _, line := range metaLines {
		w.w.WriteString(line)
		if err := w.w.EndLine(); err != nil {
			return nil, err
		}
	}
	for _, ref := range contigs {
		w.w.WriteString(fmt.Sprintf("##contig=<ID=%s,length=%d>", ref.Name(), ref.Len()))
		if err := w.w.EndLine(); err != nil {
			return nil, err
		}
	}
	for _, col := range columns {
		w.w.WriteString(col)
	}
	if err := w.w.EndLine(); err != nil {
		return nil, err
	}
	return w, nil
}

// bndAlt renders the ALT allele of a BND record in VCF bracket notation. The
// bracket points in the direction in which the mate sequence extends.
func bndAlt(v sv.Variant) string {
	mate := fmt.Sprintf("%s:%d", v.MateChrom, v.MatePos)
	if v.Orientation2 == sv.Forward {
		mate = "[" + mate + "["
	} else {
		mate = "]" + mate + "]"
	}
	if v.Orientation1 == sv.Forward {
		return "N" + v.InsertedSequence + mate
	}
	// The joined piece precedes POS, so the inserted bases are read on the
	// opposite strand.
	return mate + sv.ReverseComplement(v.InsertedSequence) + "N"
}

func info(v sv.Variant) string {
	s := "SVTYPE=" + v.Type.String()
	switch v.Type {
	case sv.BND:
		return s
	case sv.DEL:
		s += ";SVLEN=" + strconv.Itoa(-v.Length)
	default:
		s += ";SVLEN=" + strconv.Itoa(v.Length)
	}
	return s + ";END=" + strconv.Itoa(v.End)
}

// Write writes one VCF record. IDs are assigned sequentially per writer.
func (w *Writer) Write(v sv.Variant) error {
	w.n++
	alt := "<" + v.Type.String() + ">"
	if v.Type == sv.BND {
		alt = bndAlt(v)
	}
	w.w.WriteString(v.Chrom)
	w.w.WriteString(strconv.Itoa(v.Pos))
	w.w.WriteString(fmt.Sprintf("%s%d", v.Type, w.n))
	w.w.WriteString("N")
	w.w.WriteString(alt)
	w.w.WriteString(strconv.Itoa(v.Support))
	w.w.WriteString("PASS")
	w.w.WriteString(info(v))
	return w.w.EndLine()
}

// Flush flushes buffered records to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// JunctionWriter writes one junction per line: the sequence type, sequence
// name, position and orientation of mate1, the same for mate2, the inserted
// sequence ("." if empty) and the read name.
type JunctionWriter struct {
	w *tsv.Writer
}

// NewJunctionWriter creates a JunctionWriter. It writes no header.
func NewJunctionWriter(out io.Writer) *JunctionWriter {
	return &JunctionWriter{w: tsv.NewWriter(out)}
}

func (w *JunctionWriter) writeBreakend(b sv.Breakend) {
	w.w.WriteString(b.SeqType.String())
	w.w.WriteString(b.SeqName)
	w.w.WriteString(strconv.Itoa(b.Pos))
	w.w.WriteString(b.Orientation.String())
}

// Write writes one junction.
func (w *JunctionWriter) Write(j sv.Junction) error {
	w.writeBreakend(j.Mate1())
	w.writeBreakend(j.Mate2())
	ins := j.InsertedSequence()
	if ins == "" {
		ins = "."
	}
	w.w.WriteString(ins)
	w.w.WriteString(j.ReadName())
	return w.w.EndLine()
}

// Flush flushes buffered lines to the underlying writer.
func (w *JunctionWriter) Flush() error {
	return w.w.Flush()
}
