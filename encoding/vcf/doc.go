// Package vcf writes structural variant calls in VCF, and junctions in a
// tab-separated format.
//
// Outputs whose path ends in ".gz" are gzip compressed.
package vcf
