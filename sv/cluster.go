package sv

import (
	"sort"

	"github.com/grailbio/base/log"
)

// Cluster is a group of junctions judged to represent one physical
// rearrangement.
//
// INVARIANT: every two members have matching sequence types, sequence names
// and orientations on both mates, and their mate1 (resp. mate2) positions are
// at most the clustering tolerance apart.
type Cluster struct {
	// Members are sorted by Junction.Less. Equal junctions from different
	// reads all appear.
	Members []Junction
	// Representative summarizes the group. Each strategy documents how it is
	// picked. It is always one of Members.
	Representative Junction
}

// SupportCount is the number of members, duplicates included.
func (c Cluster) SupportCount() int { return len(c.Members) }

// Clusterer partitions junctions into clusters. Implementations must uphold
// the Cluster invariant for the given tolerance, and must put every input
// junction in exactly one cluster.
type Clusterer interface {
	Cluster(junctions []Junction, tolerance int) []Cluster
}

// NewClusterer returns the Clusterer that implements method.
func NewClusterer(method ClusteringMethod) Clusterer {
	switch method {
	case SimpleClustering:
		return simpleClusterer{}
	case HierarchicalClustering:
		return hierarchicalClusterer{}
	case SelfBalancingBinaryTree:
		return treeClusterer{}
	case CandidateSelectionBasedOnVoting:
		return votingClusterer{}
	}
	log.Panicf("unknown clustering method %v", method)
	return nil
}

// ClusterJunctions groups the junctions with the strategy chosen by
// opts.ClusteringMethod. The result is sorted by representative. It panics if
// the strategy produced a cluster that violates the Cluster invariant, or lost
// or duplicated junctions.
func ClusterJunctions(junctions []Junction, opts Opts) []Cluster {
	clusters := NewClusterer(opts.ClusteringMethod).Cluster(junctions, opts.ClusterTolerance)
	n := 0
	for i := range clusters {
		if err := checkCluster(clusters[i], opts.ClusterTolerance); err != "" {
			log.Panicf("%v produced an inconsistent cluster: %s: %+v", opts.ClusteringMethod, err, clusters[i].Members)
		}
		n += len(clusters[i].Members)
	}
	if n != len(junctions) {
		log.Panicf("%v returned %d junctions in clusters, want %d", opts.ClusteringMethod, n, len(junctions))
	}
	sortClusters(clusters)
	return clusters
}

// checkCluster verifies the Cluster invariant. It returns a description of the
// violation, or "" if c is consistent.
func checkCluster(c Cluster, tolerance int) string {
	if len(c.Members) == 0 {
		return "empty cluster"
	}
	b := newClusterBuilder(c.Members[0])
	for _, j := range c.Members[1:] {
		if !b.accepts(j, tolerance) {
			return "member " + j.String() + " is inconsistent with the rest"
		}
		b.add(j)
	}
	for _, j := range c.Members {
		if j.Equal(c.Representative) {
			return ""
		}
	}
	return "representative is not a member"
}

func sortClusters(clusters []Cluster) {
	sort.SliceStable(clusters, func(i, j int) bool {
		ci, cj := &clusters[i], &clusters[j]
		if c := ci.Representative.Compare(cj.Representative); c != 0 {
			return c < 0
		}
		return ci.Members[0].Less(cj.Members[0])
	})
}

// sortedJunctions returns a copy of junctions sorted by Junction.Less. Ties
// keep their input order.
func sortedJunctions(junctions []Junction) []Junction {
	sorted := append([]Junction(nil), junctions...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })
	return sorted
}

// clusterBuilder accumulates a cluster and tracks the bounding box of its
// mate positions. A junction can join iff the box stays within the tolerance,
// which is the same as being within the tolerance of every member.
type clusterBuilder struct {
	members    []Junction
	min1, max1 int
	min2, max2 int
}

func newClusterBuilder(j Junction) *clusterBuilder {
	return &clusterBuilder{
		members: []Junction{j},
		min1:    j.mate1.Pos,
		max1:    j.mate1.Pos,
		min2:    j.mate2.Pos,
		max2:    j.mate2.Pos,
	}
}

func (b *clusterBuilder) first() Junction { return b.members[0] }

func span(lo, hi, pos int) int {
	return maxInt(hi, pos) - minInt(lo, pos)
}

func (b *clusterBuilder) accepts(j Junction, tolerance int) bool {
	f := b.first()
	return f.mate1.sameLocusGroup(j.mate1) && f.mate2.sameLocusGroup(j.mate2) &&
		span(b.min1, b.max1, j.mate1.Pos) <= tolerance &&
		span(b.min2, b.max2, j.mate2.Pos) <= tolerance
}

func (b *clusterBuilder) add(j Junction) {
	b.members = append(b.members, j)
	b.extend(j.mate1.Pos, j.mate2.Pos)
}

func (b *clusterBuilder) extend(pos1, pos2 int) {
	if pos1 < b.min1 {
		b.min1 = pos1
	}
	if pos1 > b.max1 {
		b.max1 = pos1
	}
	if pos2 < b.min2 {
		b.min2 = pos2
	}
	if pos2 > b.max2 {
		b.max2 = pos2
	}
}

// merge moves the members of o into b.
//
// REQUIRES: the result is consistent.
func (b *clusterBuilder) merge(o *clusterBuilder) {
	b.members = append(b.members, o.members...)
	b.extend(o.min1, o.min2)
	b.extend(o.max1, o.max2)
}

// mergedSpan returns the sum of the mate1 and mate2 extents of the union of b
// and o.
func (b *clusterBuilder) mergedSpan(o *clusterBuilder) int {
	lo1, hi1 := minInt(b.min1, o.min1), maxInt(b.max1, o.max1)
	lo2, hi2 := minInt(b.min2, o.min2), maxInt(b.max2, o.max2)
	return (hi1 - lo1) + (hi2 - lo2)
}

func (b *clusterBuilder) canMerge(o *clusterBuilder, tolerance int) bool {
	f, g := b.first(), o.first()
	if !f.mate1.sameLocusGroup(g.mate1) || !f.mate2.sameLocusGroup(g.mate2) {
		return false
	}
	return maxInt(b.max1, o.max1)-minInt(b.min1, o.min1) <= tolerance &&
		maxInt(b.max2, o.max2)-minInt(b.min2, o.min2) <= tolerance
}

// build finalizes the cluster with the given representative. Members are
// sorted.
func (b *clusterBuilder) build(representative Junction) Cluster {
	return Cluster{Members: sortedJunctions(b.members), Representative: representative}
}

// locusKey identifies the set of junctions that may share a cluster: it
// covers everything except the two positions.
type locusKey struct {
	seqType1, seqType2         SequenceType
	seqName1, seqName2         string
	orientation1, orientation2 Strand
}

func newLocusKey(j Junction) locusKey {
	return locusKey{
		seqType1:     j.mate1.SeqType,
		seqType2:     j.mate2.SeqType,
		seqName1:     j.mate1.SeqName,
		seqName2:     j.mate2.SeqName,
		orientation1: j.mate1.Orientation,
		orientation2: j.mate2.Orientation,
	}
}

// groupByLocus splits sorted junctions by locusKey. Groups appear in the order
// of their first junction; each group stays sorted.
func groupByLocus(sorted []Junction) [][]Junction {
	var (
		groups [][]Junction
		index  = map[locusKey]int{}
	)
	for _, j := range sorted {
		k := newLocusKey(j)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], j)
	}
	return groups
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
