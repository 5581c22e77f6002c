package sv

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allClusteringMethods = []ClusteringMethod{
	SimpleClustering,
	HierarchicalClustering,
	SelfBalancingBinaryTree,
	CandidateSelectionBasedOnVoting,
}

func testJunction(chrom string, pos int, orientation Strand, name string) Junction {
	return NewJunction(
		NewBreakend(chrom, pos, orientation),
		NewBreakend(chrom, pos+1000, orientation),
		"", name)
}

func clusterOpts(method ClusteringMethod, tolerance int) Opts {
	opts := DefaultOpts
	opts.ClusteringMethod = method
	opts.ClusterTolerance = tolerance
	return opts
}

// mate1Positions lists the mate1 positions of the members of each cluster.
func mate1Positions(clusters []Cluster) [][]int {
	var r [][]int
	for _, c := range clusters {
		var pos []int
		for _, j := range c.Members {
			pos = append(pos, j.Mate1().Pos)
		}
		r = append(r, pos)
	}
	return r
}

func representatives(clusters []Cluster) []int {
	var r []int
	for _, c := range clusters {
		r = append(r, c.Representative.Mate1().Pos)
	}
	return r
}

func testJunctions(positions ...int) []Junction {
	var junctions []Junction
	for i, pos := range positions {
		junctions = append(junctions, testJunction("chr1", pos, Forward, fmt.Sprint("r", i)))
	}
	return junctions
}

func TestSimpleClustering(t *testing.T) {
	clusters := ClusterJunctions(testJunctions(125, 110, 100, 130), clusterOpts(SimpleClustering, 20))
	expect.EQ(t, mate1Positions(clusters), [][]int{{100, 110}, {125, 130}})
	expect.EQ(t, representatives(clusters), []int{100, 125})
}

func TestHierarchicalClustering(t *testing.T) {
	clusters := ClusterJunctions(testJunctions(130, 115, 101, 100), clusterOpts(HierarchicalClustering, 20))
	expect.EQ(t, mate1Positions(clusters), [][]int{{100, 101, 115}, {130}})
	// The medoid.
	expect.EQ(t, representatives(clusters), []int{101, 130})
}

func TestTreeClustering(t *testing.T) {
	clusters := ClusterJunctions(testJunctions(130, 115, 101, 100), clusterOpts(SelfBalancingBinaryTree, 20))
	expect.EQ(t, mate1Positions(clusters), [][]int{{100, 101, 115}, {130}})
	expect.EQ(t, representatives(clusters), []int{100, 130})
}

func TestVotingClustering(t *testing.T) {
	clusters := ClusterJunctions(testJunctions(100, 104, 108, 112, 116), clusterOpts(CandidateSelectionBasedOnVoting, 8))
	expect.EQ(t, mate1Positions(clusters), [][]int{{100, 104, 108}, {112, 116}})
	expect.EQ(t, representatives(clusters), []int{104, 112})
}

func TestClusteringSeparatesLoci(t *testing.T) {
	junctions := []Junction{
		testJunction("chr1", 100, Forward, "a"),
		testJunction("chr1", 100, Reverse, "b"),
		testJunction("chr2", 100, Forward, "c"),
		NewJunction(NewBreakend("chr1", 100, Forward), NewBreakend("chr1", 1100, Reverse), "", "d"),
		testJunction("chr1", 100, Forward, "e"),
	}
	for _, method := range allClusteringMethods {
		clusters := ClusterJunctions(junctions, clusterOpts(method, 100))
		require.Len(t, clusters, 4, method.String())
		// Output is sorted by representative; equal junctions are aggregated.
		expect.EQ(t, clusters[0].SupportCount()+clusters[1].SupportCount()+clusters[2].SupportCount(), 4, method.String())
		expect.EQ(t, clusters[3].Representative.Mate1().SeqName, "chr2", method.String())
		for _, c := range clusters {
			if c.Representative.Equal(junctions[0]) {
				expect.EQ(t, c.SupportCount(), 2, method.String())
				expect.EQ(t, c.Members[0].ReadName(), "a")
				expect.EQ(t, c.Members[1].ReadName(), "e")
			}
		}
	}
}

func TestClusteringEmpty(t *testing.T) {
	for _, method := range allClusteringMethods {
		expect.EQ(t, len(ClusterJunctions(nil, clusterOpts(method, 10))), 0)
	}
}

func randomJunctions(r *rand.Rand, n int) []Junction {
	junctions := make([]Junction, n)
	for i := range junctions {
		chrom1 := []string{"chr1", "chr2"}[r.Intn(2)]
		chrom2 := []string{"chr1", "chr2"}[r.Intn(2)]
		o1, o2 := Strand(r.Intn(2)), Strand(r.Intn(2))
		p1 := 1000 + r.Intn(300)
		p2 := 5000 + r.Intn(300)
		junctions[i] = NewJunction(NewBreakend(chrom1, p1, o1), NewBreakend(chrom2, p2, o2), "", fmt.Sprint(i))
	}
	return junctions
}

// Every strategy must put each junction in exactly one cluster, and every two
// members of a cluster must be within the tolerance of each other.
func TestClusteringPredicate(t *testing.T) {
	r := rand.New(rand.NewSource(0))
	for iter := 0; iter < 20; iter++ {
		junctions := randomJunctions(r, 50+r.Intn(400))
		for _, tolerance := range []int{0, 5, 20, 100} {
			for _, method := range allClusteringMethods {
				clusters := ClusterJunctions(junctions, clusterOpts(method, tolerance))
				var names []string
				for _, c := range clusters {
					for _, a := range c.Members {
						names = append(names, a.ReadName())
						for _, b := range c.Members {
							ok := a.Mate1().sameLocusGroup(b.Mate1()) && a.Mate2().sameLocusGroup(b.Mate2()) &&
								abs(a.Mate1().Pos-b.Mate1().Pos) <= tolerance &&
								abs(a.Mate2().Pos-b.Mate2().Pos) <= tolerance
							if !ok {
								t.Fatalf("%v, tolerance %d: %v and %v in one cluster", method, tolerance, a, b)
							}
						}
					}
				}
				require.Equal(t, len(junctions), len(names))
				sort.Strings(names)
				for i := 1; i < len(names); i++ {
					require.NotEqual(t, names[i-1], names[i])
				}
				for i := 1; i < len(clusters); i++ {
					require.False(t, clusters[i].Representative.Less(clusters[i-1].Representative))
				}
				// Deterministic.
				require.Equal(t, clusters, ClusterJunctions(junctions, clusterOpts(method, tolerance)))
			}
		}
	}
}

func TestCheckCluster(t *testing.T) {
	a := testJunction("chr1", 100, Forward, "a")
	b := testJunction("chr1", 121, Forward, "b")
	c := testJunction("chr1", 110, Reverse, "c")
	expect.EQ(t, checkCluster(Cluster{Members: []Junction{a, b}, Representative: a}, 21), "")
	expect.True(t, checkCluster(Cluster{Members: []Junction{a, b}, Representative: a}, 20) != "")
	expect.True(t, checkCluster(Cluster{Members: []Junction{a, c}, Representative: a}, 20) != "")
	expect.True(t, checkCluster(Cluster{Members: []Junction{a}, Representative: b}, 100) != "")
	expect.True(t, checkCluster(Cluster{}, 100) != "")
}

func TestNewClustererUnknown(t *testing.T) {
	assert.Panics(t, func() { NewClusterer(ClusteringMethod(17)) })
}

func BenchmarkClustering(b *testing.B) {
	junctions := randomJunctions(rand.New(rand.NewSource(0)), 20000)
	for _, method := range allClusteringMethods {
		b.Run(method.String(), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				ClusterJunctions(junctions, clusterOpts(method, 20))
			}
		})
	}
}
