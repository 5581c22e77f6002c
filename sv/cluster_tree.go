package sv

import (
	"strings"

	"github.com/biogo/store/llrb"
)

// treeClusterer indexes clusters in a left-leaning red-black tree keyed by
// locus group and anchor mate1 position. Each junction joins the closest
// cluster that accepts it, where closeness is the position distance to the
// cluster's anchor. Ties go to the older cluster. A junction that no cluster
// accepts becomes the anchor of a new one.
//
// The representative is the anchor.
type treeClusterer struct{}

type treeKey struct {
	locus locusKey
	pos   int
	id    int
}

// treeNode is stored in the tree. Only key participates in ordering.
type treeNode struct {
	key     treeKey
	anchor  Junction
	builder *clusterBuilder
}

func compareLocus(a, b locusKey) int {
	if c := int(a.seqType1) - int(b.seqType1); c != 0 {
		return c
	}
	if c := strings.Compare(a.seqName1, b.seqName1); c != 0 {
		return c
	}
	if c := int(a.orientation1) - int(b.orientation1); c != 0 {
		return c
	}
	if c := int(a.seqType2) - int(b.seqType2); c != 0 {
		return c
	}
	if c := strings.Compare(a.seqName2, b.seqName2); c != 0 {
		return c
	}
	return int(a.orientation2) - int(b.orientation2)
}

// Compare implements llrb.Comparable.
func (n *treeNode) Compare(x llrb.Comparable) int {
	o := x.(*treeNode)
	if c := compareLocus(n.key.locus, o.key.locus); c != 0 {
		return c
	}
	if c := n.key.pos - o.key.pos; c != 0 {
		return c
	}
	return n.key.id - o.key.id
}

func (treeClusterer) Cluster(junctions []Junction, tolerance int) []Cluster {
	var (
		tree  llrb.Tree
		nodes []*treeNode
	)
	for _, j := range sortedJunctions(junctions) {
		locus := newLocusKey(j)
		// Clusters are never wider than the tolerance, so any cluster that
		// accepts j is anchored within [pos-tolerance, pos+tolerance].
		from := &treeNode{key: treeKey{locus: locus, pos: j.mate1.Pos - tolerance, id: -1}}
		to := &treeNode{key: treeKey{locus: locus, pos: j.mate1.Pos + tolerance + 1, id: -1}}
		var best *treeNode
		bestDist := 0
		tree.DoRange(func(c llrb.Comparable) bool {
			n := c.(*treeNode)
			if !n.builder.accepts(j, tolerance) {
				return false
			}
			d := junctionDistance(n.anchor, j)
			if best == nil || d < bestDist || (d == bestDist && n.key.id < best.key.id) {
				best, bestDist = n, d
			}
			return false
		}, from, to)
		if best != nil {
			best.builder.add(j)
			continue
		}
		n := &treeNode{
			key:     treeKey{locus: locus, pos: j.mate1.Pos, id: len(nodes)},
			anchor:  j,
			builder: newClusterBuilder(j),
		}
		tree.Insert(n)
		nodes = append(nodes, n)
	}
	clusters := make([]Cluster, len(nodes))
	for i, n := range nodes {
		clusters[i] = n.builder.build(n.anchor)
	}
	return clusters
}
