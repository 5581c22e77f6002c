// Package sv extracts structural-variant evidence from read alignments and
// turns it into typed variant calls.
//
// The pipeline has three stages:
//
//   1. Junction detection. Each primary alignment is examined on its own. The
//      CIGAR string yields junctions for long deletions and insertions, and the
//      "SA" aux tag of a chimeric read yields junctions between the read's
//      aligned segments (DetectJunctions).
//
//   2. Clustering. Junctions from all reads are grouped into Clusters of
//      mutually consistent evidence (ClusterJunctions). Several strategies are
//      available, selected by Opts.ClusteringMethod.
//
//   3. Classification. Each cluster is classified as DEL, INS, DUP, INV or BND
//      and filtered by length (FindVariants).
//
// ScanJunctions drives stage 1 over a coordinate-sorted BAM or SAM file.
package sv
