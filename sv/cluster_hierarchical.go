package sv

import (
	"encoding/binary"
	"sort"

	"github.com/minio/highwayhash"
)

// hierarchicalClusterer runs agglomerative clustering separately for each
// locus group. Identical junctions start in one cluster. Then the two closest
// clusters whose union still fits in the tolerance are merged, until no such
// pair remains. Distance is the sum of the mate1 and mate2 extents of the
// union. Ties go to the pair that sorts first.
//
// The representative is the medoid: the member with the smallest total
// distance to the other members. Ties go to the smallest junction.
type hierarchicalClusterer struct{}

// hashKey is the highwayhash key used to fingerprint junction positions.
var hashKey = [highwayhash.Size]byte{
	0x73, 0x76, 0x63, 0x61, 0x6c, 0x6c, 0x65, 0x72,
	0x2d, 0x6a, 0x75, 0x6e, 0x63, 0x74, 0x69, 0x6f,
	0x6e, 0x2d, 0x64, 0x65, 0x64, 0x75, 0x70, 0x6c,
	0x69, 0x63, 0x61, 0x74, 0x69, 0x6f, 0x6e, 0x21,
}

// positionFingerprint hashes the mate positions of j. Within a locus group,
// equal fingerprints mean equal junctions unless the hash collides, which is
// checked by the caller.
func positionFingerprint(j Junction) uint64 {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], uint64(j.mate1.Pos))
	binary.LittleEndian.PutUint64(buf[8:], uint64(j.mate2.Pos))
	return highwayhash.Sum64(buf[:], hashKey[:])
}

func (hierarchicalClusterer) Cluster(junctions []Junction, tolerance int) []Cluster {
	var clusters []Cluster
	for _, group := range groupByLocus(sortedJunctions(junctions)) {
		for _, b := range agglomerate(dedupJunctions(group), tolerance) {
			clusters = append(clusters, b.build(medoid(b.members)))
		}
	}
	return clusters
}

// dedupJunctions returns one builder per distinct junction in the sorted
// group, holding all its copies.
func dedupJunctions(group []Junction) []*clusterBuilder {
	var (
		builders []*clusterBuilder
		byHash   = map[uint64][]*clusterBuilder{}
	)
outer:
	for _, j := range group {
		h := positionFingerprint(j)
		for _, b := range byHash[h] {
			if b.first().Equal(j) {
				b.add(j)
				continue outer
			}
		}
		b := newClusterBuilder(j)
		byHash[h] = append(byHash[h], b)
		builders = append(builders, b)
	}
	return builders
}

// agglomerate merges the closest compatible pair of builders until none is
// left. The builders are kept sorted by min1, so the scan for partners of
// builder i stops at the first builder whose min1 is beyond the tolerance.
func agglomerate(builders []*clusterBuilder, tolerance int) []*clusterBuilder {
	for {
		bestI, bestJ, bestDist := -1, -1, 0
		for i := range builders {
			for j := i + 1; j < len(builders); j++ {
				if builders[j].min1-builders[i].min1 > tolerance {
					break
				}
				if !builders[i].canMerge(builders[j], tolerance) {
					continue
				}
				if d := builders[i].mergedSpan(builders[j]); bestI < 0 || d < bestDist {
					bestI, bestJ, bestDist = i, j, d
				}
			}
		}
		if bestI < 0 {
			return builders
		}
		builders[bestI].merge(builders[bestJ])
		builders = append(builders[:bestJ], builders[bestJ+1:]...)
		sort.SliceStable(builders, func(i, j int) bool { return builders[i].min1 < builders[j].min1 })
	}
}

func junctionDistance(a, b Junction) int {
	return abs(a.mate1.Pos-b.mate1.Pos) + abs(a.mate2.Pos-b.mate2.Pos)
}

func medoid(members []Junction) Junction {
	best, bestCost := members[0], -1
	for _, m := range members {
		cost := 0
		for _, o := range members {
			cost += junctionDistance(m, o)
		}
		if bestCost < 0 || cost < bestCost || (cost == bestCost && m.Less(best)) {
			best, bestCost = m, cost
		}
	}
	return best
}
