package sv

// Stats represents high-level statistics collected during junction detection.
type Stats struct {
	// Records is the # of alignment records read.
	Records int
	// SkippedRecords is the # of records ignored because they are unmapped,
	// secondary, duplicates, or below Opts.MinMapQ.
	SkippedRecords int
	// ChimericReads is the # of primary records that carry an SA tag.
	ChimericReads int
	// SASegments is the # of supplementary segments parsed from SA tags.
	SASegments int
	// MalformedSAEntries counts SA entries without exactly six fields.
	MalformedSAEntries int
	// InvalidStrandSAEntries counts SA entries whose strand is neither '+' nor '-'.
	InvalidStrandSAEntries int
	// CorruptSATags counts reads whose SA tag failed to parse.
	CorruptSATags int
	// SplitReadJunctions is the # of junctions found between SA segments.
	SplitReadJunctions int
	// CigarJunctions is the # of junctions found in CIGAR strings.
	CigarJunctions int
}

// Merge adds the field values of the two Stats objects and creates new Stats.
func (s Stats) Merge(o Stats) Stats {
	s.Records += o.Records
	s.SkippedRecords += o.SkippedRecords
	s.ChimericReads += o.ChimericReads
	s.SASegments += o.SASegments
	s.MalformedSAEntries += o.MalformedSAEntries
	s.InvalidStrandSAEntries += o.InvalidStrandSAEntries
	s.CorruptSATags += o.CorruptSATags
	s.SplitReadJunctions += o.SplitReadJunctions
	s.CigarJunctions += o.CigarJunctions
	return s
}
