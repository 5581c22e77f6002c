package sv

import (
	"container/heap"
	"sort"
)

// votingClusterer treats every distinct position pair as a candidate center.
// A junction votes for every center it is close to: both of its mate
// positions are within half the tolerance of the center's. Centers are then
// elected greedily, the one with the most unassigned voters first, and each
// elected center takes all of its unassigned voters as a cluster. Ties go to
// the center that sorts first.
//
// Two voters of one center are at most the tolerance apart on each mate, so
// every cluster is consistent.
//
// The representative is the member at the center, or if all of those were
// taken by an earlier center, the member nearest to it.
type votingClusterer struct{}

type candidate struct {
	index  int // position in the sorted group of the first junction at the center
	voters []int
	votes  int // unassigned voters, as of the last count
}

type candidateHeap []*candidate

func (h candidateHeap) Len() int { return len(h) }
func (h candidateHeap) Less(i, j int) bool {
	if h[i].votes != h[j].votes {
		return h[i].votes > h[j].votes
	}
	return h[i].index < h[j].index
}
func (h candidateHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *candidateHeap) Push(x interface{}) { *h = append(*h, x.(*candidate)) }
func (h *candidateHeap) Pop() interface{} {
	old := *h
	c := old[len(old)-1]
	*h = old[:len(old)-1]
	return c
}

func (votingClusterer) Cluster(junctions []Junction, tolerance int) []Cluster {
	var clusters []Cluster
	for _, group := range groupByLocus(sortedJunctions(junctions)) {
		clusters = append(clusters, electClusters(group, tolerance)...)
	}
	return clusters
}

// within reports whether a voter at pos may vote for a center at center.
func within(pos, center, tolerance int) bool {
	return 2*abs(pos-center) <= tolerance
}

// electClusters clusters one sorted locus group.
func electClusters(group []Junction, tolerance int) []Cluster {
	h := candidateHeap{}
	for i, j := range group {
		if i > 0 && group[i-1].Equal(j) {
			continue
		}
		c := &candidate{index: i}
		// The group is sorted by mate1 position, so the voters are in a window.
		lo := sort.Search(len(group), func(k int) bool {
			return within(j.mate1.Pos, group[k].mate1.Pos, tolerance) || group[k].mate1.Pos > j.mate1.Pos
		})
		for k := lo; k < len(group) && within(group[k].mate1.Pos, j.mate1.Pos, tolerance); k++ {
			if within(group[k].mate2.Pos, j.mate2.Pos, tolerance) {
				c.voters = append(c.voters, k)
			}
		}
		c.votes = len(c.voters)
		h = append(h, c)
	}
	heap.Init(&h)

	var (
		assigned = make([]bool, len(group))
		clusters []Cluster
	)
	for h.Len() > 0 {
		c := heap.Pop(&h).(*candidate)
		votes := 0
		for _, k := range c.voters {
			if !assigned[k] {
				votes++
			}
		}
		if votes == 0 {
			continue
		}
		if votes < c.votes {
			// Stale count. Requeue and let a better candidate go first.
			c.votes = votes
			heap.Push(&h, c)
			continue
		}
		center := group[c.index]
		var members []Junction
		for _, k := range c.voters {
			if !assigned[k] {
				assigned[k] = true
				members = append(members, group[k])
			}
		}
		clusters = append(clusters, Cluster{Members: members, Representative: nearest(members, center)})
	}
	return clusters
}

// nearest returns the member closest to center. Members are sorted, so ties
// go to the smallest.
func nearest(members []Junction, center Junction) Junction {
	best := members[0]
	for _, m := range members[1:] {
		if junctionDistance(m, center) < junctionDistance(best, center) {
			best = m
		}
	}
	return best
}
