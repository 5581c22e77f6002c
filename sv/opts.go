package sv

import (
	"fmt"
	"sort"
	"strings"
)

// DetectionMethod identifies a source of junction evidence.
type DetectionMethod uint8

const (
	// CigarString detects long insertions and deletions within one alignment.
	CigarString DetectionMethod = iota + 1
	// SplitRead detects junctions between the segments of a chimeric read.
	SplitRead
)

// String returns the canonical method name.
func (m DetectionMethod) String() string {
	switch m {
	case CigarString:
		return "cigar_string"
	case SplitRead:
		return "split_read"
	}
	return fmt.Sprintf("DetectionMethod(%d)", m)
}

// ClusteringMethod selects the strategy used by ClusterJunctions.
type ClusteringMethod uint8

const (
	// SimpleClustering scans junctions in sorted order and extends the current
	// cluster while the junction is consistent with it.
	SimpleClustering ClusteringMethod = iota
	// HierarchicalClustering repeatedly merges the two closest clusters.
	HierarchicalClustering
	// SelfBalancingBinaryTree indexes open clusters in a balanced tree.
	SelfBalancingBinaryTree
	// CandidateSelectionBasedOnVoting picks the best-supported candidate groups.
	CandidateSelectionBasedOnVoting
)

// String returns the canonical method name.
func (m ClusteringMethod) String() string {
	switch m {
	case SimpleClustering:
		return "simple_clustering"
	case HierarchicalClustering:
		return "hierarchical_clustering"
	case SelfBalancingBinaryTree:
		return "self_balancing_binary_tree"
	case CandidateSelectionBasedOnVoting:
		return "candidate_selection_based_on_voting"
	}
	return fmt.Sprintf("ClusteringMethod(%d)", m)
}

// ClusteringMethodNames returns a new table mapping every accepted spelling of
// a clustering method, numeric or symbolic, to the method.
func ClusteringMethodNames() map[string]ClusteringMethod {
	return map[string]ClusteringMethod{
		"0":                                   SimpleClustering,
		"simple_clustering":                   SimpleClustering,
		"1":                                   HierarchicalClustering,
		"hierarchical_clustering":             HierarchicalClustering,
		"2":                                   SelfBalancingBinaryTree,
		"self_balancing_binary_tree":          SelfBalancingBinaryTree,
		"3":                                   CandidateSelectionBasedOnVoting,
		"candidate_selection_based_on_voting": CandidateSelectionBasedOnVoting,
	}
}

// DetectionMethodNames returns a new table mapping every accepted spelling of
// a detection method to the method.
func DetectionMethodNames() map[string]DetectionMethod {
	return map[string]DetectionMethod{
		"1":            CigarString,
		"cigar_string": CigarString,
		"2":            SplitRead,
		"split_read":   SplitRead,
	}
}

func joinSorted(keys []string) string {
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}

// ParseClusteringMethod looks up name in the given table.
func ParseClusteringMethod(names map[string]ClusteringMethod, name string) (ClusteringMethod, error) {
	if m, ok := names[name]; ok {
		return m, nil
	}
	var all []string
	for k := range names {
		all = append(all, k)
	}
	return 0, fmt.Errorf("unknown clustering method %q; valid values: %s", name, joinSorted(all))
}

// ParseDetectionMethods parses a comma-separated list of detection methods
// using the given table. Duplicates are removed.
func ParseDetectionMethods(names map[string]DetectionMethod, list string) ([]DetectionMethod, error) {
	var (
		methods []DetectionMethod
		seen    = map[DetectionMethod]bool{}
	)
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		m, ok := names[name]
		if !ok {
			var all []string
			for k := range names {
				all = append(all, k)
			}
			return nil, fmt.Errorf("unknown detection method %q; valid values: %s", name, joinSorted(all))
		}
		if !seen[m] {
			seen[m] = true
			methods = append(methods, m)
		}
	}
	return methods, nil
}

// Opts configures detection, clustering and classification.
type Opts struct {
	// Methods lists the enabled junction detection methods.
	Methods []DetectionMethod
	// MinMapQ causes alignments with lower mapping quality to be ignored.
	MinMapQ int
	// MaxReadGap is the longest stretch of read bases allowed between two
	// consecutive aligned segments of a split read. Segments farther apart on
	// the read, or overlapping, don't produce a junction.
	MaxReadGap int

	// ClusteringMethod picks the clustering strategy.
	ClusteringMethod ClusteringMethod
	// ClusterTolerance is the max positional distance between the
	// corresponding mates of any two junctions in one cluster.
	ClusterTolerance int

	// MinVarLength is the minimum length of variants to report. It is also the
	// minimum length of CIGAR insertions and deletions turned into junctions.
	MinVarLength int
	// MaxVarLength is the maximum length of variants to report.
	MaxVarLength int
	// MaxTolInsertedLength is the longest inserted sequence tolerated at the
	// junction of a non-INS variant.
	MaxTolInsertedLength int

	// Parallelism is the number of goroutines used for junction detection. 0
	// means runtime.NumCPU().
	Parallelism int
}

// DefaultOpts sets the default values to Opts.
var DefaultOpts = Opts{
	Methods:              []DetectionMethod{CigarString, SplitRead},
	MinMapQ:              20,
	MaxReadGap:           10,
	ClusteringMethod:     SimpleClustering,
	ClusterTolerance:     20,
	MinVarLength:         30,
	MaxVarLength:         1000000,
	MaxTolInsertedLength: 5,
}

// Enabled checks whether the given detection method is listed in o.Methods.
func (o *Opts) Enabled(m DetectionMethod) bool {
	for _, x := range o.Methods {
		if x == m {
			return true
		}
	}
	return false
}

// Validate checks the option values for consistency.
func (o *Opts) Validate() error {
	if len(o.Methods) == 0 {
		return fmt.Errorf("at least one detection method must be enabled")
	}
	if o.MinVarLength < 0 {
		return fmt.Errorf("min-var-length must be non-negative, got %d", o.MinVarLength)
	}
	if o.MaxVarLength < o.MinVarLength {
		return fmt.Errorf("max-var-length (%d) must be >= min-var-length (%d)", o.MaxVarLength, o.MinVarLength)
	}
	if o.MaxTolInsertedLength < 0 {
		return fmt.Errorf("max-tol-inserted-length must be non-negative, got %d", o.MaxTolInsertedLength)
	}
	if o.ClusterTolerance < 0 {
		return fmt.Errorf("cluster-tolerance must be non-negative, got %d", o.ClusterTolerance)
	}
	if o.MaxReadGap < 0 {
		return fmt.Errorf("max-read-gap must be non-negative, got %d", o.MaxReadGap)
	}
	if o.ClusteringMethod > CandidateSelectionBasedOnVoting {
		return fmt.Errorf("invalid clustering method %v", o.ClusteringMethod)
	}
	return nil
}
