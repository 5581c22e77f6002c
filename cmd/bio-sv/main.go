package main

//
// bio-sv detects structural variants in a coordinate-sorted BAM or SAM file.
//
// The application has two phases
//
//   1. detect junctions in every alignment record, from long CIGAR indels and
//      from the segments of chimeric reads listed in the SA tag. The junctions
//      are optionally written to --junction-output (text) and --rio-output.
//
//   2. cluster the junctions, classify each cluster as DEL, INS, DUP, INV or
//      BND, and write the variants to --vcf-output.
//
// Example 1: run both phases.
//
//    bio-sv --vcf-output=sv.vcf.gz --rio-output=junctions.rio input.bam
//
// Example 2: run only the 2nd phase using the junctions from the previous
// example, with a different clustering strategy.
//
//    bio-sv --rio-input=junctions.rio --clustering-method=hierarchical_clustering --vcf-output=sv2.vcf

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/hts/sam"
	"github.com/grailbio/svcaller/encoding/bamprovider"
	"github.com/grailbio/svcaller/encoding/vcf"
	"github.com/grailbio/svcaller/sv"
)

// Collection of options set via cmdline flags
type svFlags struct {
	inputPath          string
	vcfOutputPath      string
	junctionOutputPath string
	rioOutputPath      string
	rioInputPath       string
}

// detectJunctions runs the 1st phase, or loads its results from
// flags.rioInputPath.
func detectJunctions(ctx context.Context, flags svFlags, opts sv.Opts) ([]sv.Junction, []contig, error) {
	if flags.rioInputPath != "" {
		junctions, h, err := readJunctions(ctx, flags.rioInputPath)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("Read %d junctions from %s, detected with %+v", len(junctions), flags.rioInputPath, h.Opts)
		log.Printf("Stats: detection: %+v", h.Stats)
		return junctions, h.Contigs, nil
	}

	provider := bamprovider.NewProvider(flags.inputPath)
	header, err := provider.GetHeader()
	if err != nil {
		provider.Close() // nolint: errcheck
		return nil, nil, err
	}
	contigs := newContigs(header.Refs())
	junctions, stats, err := sv.ScanJunctions(provider, opts)
	once := errors.Once{}
	once.Set(err)
	once.Set(provider.Close())
	if err := once.Err(); err != nil {
		return nil, nil, err
	}
	log.Printf("Stats: detection: %+v", stats)

	if flags.rioOutputPath != "" {
		w, err := newJunctionWriter(ctx, flags.rioOutputPath, junctionFileHeader{Opts: opts, Stats: stats, Contigs: contigs})
		if err != nil {
			return nil, nil, err
		}
		for _, j := range junctions {
			if err := w.Write(j); err != nil {
				return nil, nil, err
			}
		}
		if err := w.Close(ctx); err != nil {
			return nil, nil, err
		}
		log.Printf("Wrote %d junctions to %s", len(junctions), flags.rioOutputPath)
	}
	return junctions, contigs, nil
}

func writeJunctions(ctx context.Context, path string, junctions []sv.Junction) error {
	out, err := vcf.Create(ctx, path)
	if err != nil {
		return err
	}
	w := vcf.NewJunctionWriter(out.Writer())
	once := errors.Once{}
	for _, j := range junctions {
		once.Set(w.Write(j))
	}
	once.Set(w.Flush())
	once.Set(out.Close(ctx))
	return once.Err()
}

func writeVariants(ctx context.Context, path string, contigs []contig, variants []sv.Variant) error {
	refs := make([]*sam.Reference, 0, len(contigs))
	for _, c := range contigs {
		ref, err := c.reference()
		if err != nil {
			return err
		}
		refs = append(refs, ref)
	}
	out, err := vcf.Create(ctx, path)
	if err != nil {
		return err
	}
	once := errors.Once{}
	w, err := vcf.NewWriter(out.Writer(), refs)
	once.Set(err)
	if err == nil {
		for _, v := range variants {
			once.Set(w.Write(v))
		}
		once.Set(w.Flush())
	}
	once.Set(out.Close(ctx))
	return once.Err()
}

// DetectSV runs both phases. It returns an error wrapping
// bamprovider.ErrUnsorted if the input is not sorted by coordinate.
func DetectSV(ctx context.Context, flags svFlags, opts sv.Opts) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	junctions, contigs, err := detectJunctions(ctx, flags, opts)
	if err != nil {
		return err
	}
	log.Printf("Stats: %d junctions after stage 1", len(junctions))
	if flags.junctionOutputPath != "" {
		if err := writeJunctions(ctx, flags.junctionOutputPath, junctions); err != nil {
			return err
		}
	}

	clusters := sv.ClusterJunctions(junctions, opts)
	log.Printf("Stats: %d clusters (%v, tolerance %d)", len(clusters), opts.ClusteringMethod, opts.ClusterTolerance)
	variants := sv.FindVariants(clusters, opts)
	counts := map[sv.SVType]int{}
	for _, v := range variants {
		counts[v.Type]++
	}
	log.Printf("Stats: %d variants: DEL=%d INS=%d DUP=%d INV=%d BND=%d", len(variants),
		counts[sv.DEL], counts[sv.INS], counts[sv.DUP], counts[sv.INV], counts[sv.BND])
	if err := writeVariants(ctx, flags.vcfOutputPath, contigs, variants); err != nil {
		return err
	}
	log.Printf("Wrote %d variants to %s", len(variants), flags.vcfOutputPath)
	return nil
}

func usage() {
	fmt.Fprintln(os.Stderr, `
bio-sv detects structural variants (deletions, insertions, duplications,
inversions and translocations) from split reads and long CIGAR indels in a
coordinate-sorted BAM or SAM file.

Usage:
  bio-sv [flags] input.bam
  bio-sv [flags] --rio-input=junctions.rio

Flags:`)
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	opts := sv.DefaultOpts
	flags := svFlags{}
	var methodsFlag, clusteringMethodFlag string
	detectionHelp, clusteringHelp := methodHelp()
	defaultMethods := make([]string, len(sv.DefaultOpts.Methods))
	for i, m := range sv.DefaultOpts.Methods {
		defaultMethods[i] = m.String()
	}
	flag.StringVar(&flags.vcfOutputPath, "vcf-output", "./sv.vcf", "VCF file to store the variants. A .gz suffix enables gzip compression.")
	flag.StringVar(&flags.junctionOutputPath, "junction-output", "", "If nonempty, write all the junctions to this tab-separated file.")
	flag.StringVar(&flags.rioOutputPath, "rio-output", "", "If nonempty, write all the junctions to this recordio file.")
	flag.StringVar(&flags.rioInputPath, "rio-input", "", "Recordio file that stores all junctions. If this flag is nonempty, bio-sv will skip junction detection and use the junctions in the file.")
	flag.StringVar(&methodsFlag, "methods", strings.Join(defaultMethods, ","),
		"Comma-separated list of junction detection methods: "+detectionHelp)
	flag.StringVar(&clusteringMethodFlag, "clustering-method", sv.DefaultOpts.ClusteringMethod.String(),
		"Clustering strategy: "+clusteringHelp)
	flag.IntVar(&opts.MinMapQ, "min-mapq", sv.DefaultOpts.MinMapQ, "Alignments with lower mapping quality are ignored.")
	flag.IntVar(&opts.MaxReadGap, "max-read-gap", sv.DefaultOpts.MaxReadGap,
		"Max # of read bases between two segments of a split read that still form a junction.")
	flag.IntVar(&opts.ClusterTolerance, "cluster-tolerance", sv.DefaultOpts.ClusterTolerance,
		"Max distance between the corresponding breakends of two junctions in one cluster.")
	flag.IntVar(&opts.MinVarLength, "min-var-length", sv.DefaultOpts.MinVarLength, "Min length of variants to report.")
	flag.IntVar(&opts.MaxVarLength, "max-var-length", sv.DefaultOpts.MaxVarLength, "Max length of variants to report.")
	flag.IntVar(&opts.MaxTolInsertedLength, "max-tol-inserted-length", sv.DefaultOpts.MaxTolInsertedLength,
		"Max length of inserted sequence tolerated at the junction of a non-insertion variant.")
	flag.IntVar(&opts.Parallelism, "parallelism", sv.DefaultOpts.Parallelism, "# of detection goroutines. 0 means the # of CPUs.")

	cleanup := grail.Init()
	defer cleanup()
	ctx := vcontext.Background()

	var err error
	if opts.Methods, err = sv.ParseDetectionMethods(sv.DetectionMethodNames(), methodsFlag); err != nil {
		log.Fatalf("--methods: %v", err)
	}
	if opts.ClusteringMethod, err = sv.ParseClusteringMethod(sv.ClusteringMethodNames(), clusteringMethodFlag); err != nil {
		log.Fatalf("--clustering-method: %v", err)
	}
	if flags.rioInputPath == "" {
		if flag.NArg() != 1 {
			flag.Usage()
			log.Fatal("exactly one input file is required unless --rio-input is set")
		}
		flags.inputPath = flag.Arg(0)
	}
	if err := DetectSV(ctx, flags, opts); err != nil {
		log.Fatalf("bio-sv: %v", err)
	}
	log.Printf("All done")
}

// methodHelp lists the symbolic names of the detection and clustering
// methods.
func methodHelp() (detection, clustering string) {
	var d, c []string
	for m := sv.CigarString; m <= sv.SplitRead; m++ {
		d = append(d, m.String())
	}
	for m := sv.SimpleClustering; m <= sv.CandidateSelectionBasedOnVoting; m++ {
		c = append(c, m.String())
	}
	return strings.Join(d, ", "), strings.Join(c, ", ")
}
