package sv

// simpleClusterer walks each locus group in sorted order once, keeping a
// single open cluster. A junction that the open cluster cannot accept closes
// it and starts a new one. The representative is the first junction of the
// cluster.
type simpleClusterer struct{}

func (simpleClusterer) Cluster(junctions []Junction, tolerance int) []Cluster {
	var clusters []Cluster
	for _, group := range groupByLocus(sortedJunctions(junctions)) {
		cur := newClusterBuilder(group[0])
		for _, j := range group[1:] {
			if cur.accepts(j, tolerance) {
				cur.add(j)
				continue
			}
			clusters = append(clusters, cur.build(cur.first()))
			cur = newClusterBuilder(j)
		}
		clusters = append(clusters, cur.build(cur.first()))
	}
	return clusters
}
