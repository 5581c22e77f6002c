// Package bamprovider provides a uniform way to read the records of a BAM or
// SAM file in file order.
//
// Structural variant detection needs its input sorted by coordinate, so every
// Iterator checks the header sort order and the order of the records as it
// reads, and fails with ErrUnsorted on the first violation.
package bamprovider
