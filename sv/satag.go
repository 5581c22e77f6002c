package sv

import (
	"strconv"
	"strings"

	"github.com/grailbio/base/log"
	"github.com/grailbio/hts/sam"
	"github.com/pkg/errors"
)

// SATag is the aux tag listing the other segments of a chimeric alignment.
var SATag = sam.NewTag("SA")

// ParseSATag parses the value of an SA tag,
//
//   (rname,pos,strand,CIGAR,mapQ,NM;)+
//
// and returns one AlignedSegment per entry. Entries that don't have exactly six
// fields are logged and skipped, and so are entries whose strand is neither
// '+' nor '-'. A position, CIGAR or mapping quality that fails to parse is an
// error for the whole tag. Counters are added to stats, which may be nil.
func ParseSATag(value string, stats *Stats) ([]AlignedSegment, error) {
	if stats == nil {
		stats = &Stats{}
	}
	var segments []AlignedSegment
	for _, entry := range strings.Split(value, ";") {
		if entry == "" {
			continue
		}
		fields := strings.Split(entry, ",")
		if len(fields) != 6 {
			log.Error.Printf("SA tag has a wrong format (%d fields, want 6): %s", len(fields), entry)
			stats.MalformedSAEntries++
			continue
		}
		pos, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, errors.Wrapf(err, "SA entry %q: position", entry)
		}
		var orientation Strand
		switch fields[2] {
		case "+":
			orientation = Forward
		case "-":
			orientation = Reverse
		default:
			stats.InvalidStrandSAEntries++
			continue
		}
		cigar, err := sam.ParseCigar([]byte(fields[3]))
		if err != nil {
			return nil, errors.Wrapf(err, "SA entry %q: CIGAR", entry)
		}
		mapq, err := strconv.Atoi(fields[4])
		if err != nil {
			return nil, errors.Wrapf(err, "SA entry %q: mapping quality", entry)
		}
		segments = append(segments, AlignedSegment{
			Orientation: orientation,
			RefName:     fields[0],
			RefStart:    pos,
			MapQ:        mapq,
			Cigar:       cigar,
		})
	}
	stats.SASegments += len(segments)
	return segments, nil
}
