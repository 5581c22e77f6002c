package main

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/svcaller/encoding/bamprovider"
	"github.com/grailbio/svcaller/sv"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"github.com/pkg/errors"
)

func TestMain(m *testing.M) {
	shutdown := grail.Init()
	status := m.Run()
	shutdown()
	os.Exit(status)
}

const (
	samHeader = "@HD\tVN:1.4\tSO:coordinate\n" +
		"@SQ\tSN:chr21\tLN:46709983\n" +
		"@SQ\tSN:chr22\tLN:50818468\n"
	insertedSeq = "GGGGGCCCCC"
)

var (
	chimericSeq = strings.Repeat("ACGT", 25) + insertedSeq + strings.Repeat("TTGCA", 10)
	deletionSeq = strings.Repeat("ACGTT", 20)
)

func samLine(fields ...string) string {
	return strings.Join(fields, "\t") + "\n"
}

// testSAM has one read with a 100bp deletion on chr21, and two reads that
// join chr21:41972716 to chr22:17458417 with 10 inserted bases.
func testSAM() string {
	return samHeader +
		samLine("del", "0", "chr21", "1000", "60", "50M100D50M", "*", "0", "0", deletionSeq, "*") +
		samLine("readA", "0", "chr21", "41972616", "60", "100M60S", "*", "0", "0", chimericSeq, "*",
			"SA:Z:chr22,17458417,+,110S50M,60,2;") +
		samLine("readB", "0", "chr21", "41972616", "60", "100M60S", "*", "0", "0", chimericSeq, "*",
			"SA:Z:chr22,17458417,+,110S50M,60,2;") +
		samLine("readA", "2048", "chr22", "17458417", "60", "110S50M", "*", "0", "0", chimericSeq, "*",
			"SA:Z:chr21,41972616,+,100M60S,60,0;") +
		samLine("readB", "2048", "chr22", "17458417", "60", "110S50M", "*", "0", "0", chimericSeq, "*",
			"SA:Z:chr21,41972616,+,100M60S,60,0;")
}

func writeFile(t *testing.T, path, data string) {
	assert.NoError(t, ioutil.WriteFile(path, []byte(data), 0644))
}

func readLines(t *testing.T, path string) (header, body []string) {
	data, err := ioutil.ReadFile(path)
	assert.NoError(t, err)
	for _, line := range strings.Split(strings.TrimSuffix(string(data), "\n"), "\n") {
		if strings.HasPrefix(line, "#") {
			header = append(header, line)
		} else if line != "" {
			body = append(body, line)
		}
	}
	return
}

var wantVariants = []string{
	"chr21\t1049\tDEL1\tN\t<DEL>\t1\tPASS\tSVTYPE=DEL;SVLEN=-100;END=1149",
	"chr21\t41972715\tBND2\tN\tN" + insertedSeq + "[chr22:17458417[\t2\tPASS\tSVTYPE=BND",
}

func TestEndToEnd(t *testing.T) {
	ctx := vcontext.Background()
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	inputPath := filepath.Join(tmpDir, "input.sam")
	writeFile(t, inputPath, testSAM())

	opts := sv.DefaultOpts
	opts.Parallelism = 3
	flags := svFlags{
		inputPath:          inputPath,
		vcfOutputPath:      filepath.Join(tmpDir, "sv.vcf"),
		junctionOutputPath: filepath.Join(tmpDir, "junctions.tsv"),
		rioOutputPath:      filepath.Join(tmpDir, "junctions.rio"),
	}
	assert.NoError(t, DetectSV(ctx, flags, opts))

	header, body := readLines(t, flags.vcfOutputPath)
	expect.EQ(t, body, wantVariants)
	expect.EQ(t, header[len(header)-1], "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO")
	expect.True(t, strings.Contains(strings.Join(header, "\n"), "##contig=<ID=chr22,length=50818468>"))

	_, junctions := readLines(t, flags.junctionOutputPath)
	expect.EQ(t, junctions, []string{
		"Reference\tchr21\t1050\tForward\tReference\tchr21\t1150\tForward\t.\tdel",
		"Reference\tchr21\t41972716\tForward\tReference\tchr22\t17458417\tForward\t" + insertedSeq + "\treadA",
		"Reference\tchr21\t41972716\tForward\tReference\tchr22\t17458417\tForward\t" + insertedSeq + "\treadB",
	})

	// Rerun the 2nd phase from the recordio dump with every clustering method.
	for m := sv.SimpleClustering; m <= sv.CandidateSelectionBasedOnVoting; m++ {
		opts.ClusteringMethod = m
		flags2 := svFlags{
			rioInputPath:  flags.rioOutputPath,
			vcfOutputPath: filepath.Join(tmpDir, "sv-"+m.String()+".vcf.gz"),
		}
		assert.NoError(t, DetectSV(ctx, flags2, opts))
	}
	junctionsFromRIO, h, err := readJunctions(ctx, flags.rioOutputPath)
	assert.NoError(t, err)
	expect.EQ(t, len(junctionsFromRIO), 3)
	expect.EQ(t, h.Stats.Records, 5)
	expect.EQ(t, h.Stats.ChimericReads, 2)
	expect.EQ(t, h.Stats.SplitReadJunctions, 2)
	expect.EQ(t, h.Stats.CigarJunctions, 1)
	expect.EQ(t, h.Contigs, []contig{{"chr21", 46709983}, {"chr22", 50818468}})
	expect.True(t, junctionsFromRIO[1].Equal(junctionsFromRIO[2]))
	expect.EQ(t, junctionsFromRIO[2].ReadName(), "readB")
	expect.EQ(t, junctionsFromRIO[2].InsertedSequence(), insertedSeq)
}

func TestUnsortedInput(t *testing.T) {
	ctx := vcontext.Background()
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	lines := strings.SplitAfter(strings.TrimPrefix(testSAM(), samHeader), "\n")
	// Move the chr21:1000 record after the chr21:41972616 ones.
	unsorted := samHeader + lines[1] + lines[2] + lines[0]
	inputPath := filepath.Join(tmpDir, "unsorted.sam")
	writeFile(t, inputPath, unsorted)

	err := DetectSV(ctx, svFlags{inputPath: inputPath, vcfOutputPath: filepath.Join(tmpDir, "sv.vcf")}, sv.DefaultOpts)
	expect.EQ(t, errors.Cause(err), bamprovider.ErrUnsorted)
	_, err = os.Stat(filepath.Join(tmpDir, "sv.vcf"))
	expect.True(t, os.IsNotExist(err))
}

func TestInvalidOpts(t *testing.T) {
	opts := sv.DefaultOpts
	opts.MinVarLength, opts.MaxVarLength = 100, 10
	expect.NotNil(t, DetectSV(vcontext.Background(), svFlags{}, opts))
}
