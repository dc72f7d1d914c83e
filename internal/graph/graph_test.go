package graph

import (
	"fmt"
	"slices"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/reddit-threads/internal/ingest"
	"github.com/pribylovaa/reddit-threads/internal/models"
)

func buildIndex(t *testing.T, comments ...models.Comment) *ingest.Index {
	t.Helper()

	b := ingest.NewBuilder(len(comments))
	for i, c := range comments {
		require.NoError(t, b.Add(c, i+1))
	}

	return b.Freeze()
}

func TestBuild_ChildOrdering(t *testing.T) {
	t.Parallel()

	idx := buildIndex(t,
		models.Comment{ID: "t1_p", ParentID: "t3_s", LinkID: "t3_s", CreatedUTC: 1},
		models.Comment{ID: "b", ParentID: "t1_p", LinkID: "t3_s", CreatedUTC: 100},
		models.Comment{ID: "a", ParentID: "t1_p", LinkID: "t3_s", CreatedUTC: 100},
		models.Comment{ID: "c", ParentID: "t1_p", LinkID: "t3_s", CreatedUTC: 99},
	)

	g := Build(idx)
	p, _ := idx.Lookup("t1_p")
	require.Equal(t, []string{"c", "a", "b"}, g.ChildIDs(idx, p))
	require.Equal(t, NoParent, g.Parent(p))

	for _, k := range g.Children(p) {
		require.Equal(t, p, g.Parent(k))
	}
}

func TestBuild_MissingParentAndSelfLoop(t *testing.T) {
	t.Parallel()

	idx := buildIndex(t,
		models.Comment{ID: "t1_a", ParentID: "t1_gone", LinkID: "t3_s"},
		models.Comment{ID: "t1_b", ParentID: "t1_b", LinkID: "t3_s"},
	)

	g := Build(idx)
	require.Equal(t, 2, g.Len())
	require.Equal(t, NoParent, g.Parent(0))
	require.EqualValues(t, 1, g.Parent(1))
	require.Equal(t, []int32{1}, g.Children(1))
	require.Empty(t, g.Children(0))
}

func TestBuild_Empty(t *testing.T) {
	t.Parallel()

	g := Build(buildIndex(t))
	require.Zero(t, g.Len())
}

// Случайный лес: каждый узел i ссылается на случайный узел с меньшим номером
// либо на публикацию; времена берутся из маленького диапазона, чтобы были совпадения.
func TestBuild_Properties(t *testing.T) {
	t.Parallel()

	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 100
	properties := gopter.NewProperties(params)

	build := func(parents []int, times []int64) (*ingest.Index, *Graph) {
		n := min(len(parents), len(times))
		b := ingest.NewBuilder(n)
		for i := range n {
			parent := "t3_s"
			if p := parents[i]; p >= 0 && p < i {
				parent = fmt.Sprintf("t1_%03d", p)
			}
			_ = b.Add(models.Comment{
				ID:         fmt.Sprintf("t1_%03d", i),
				ParentID:   parent,
				LinkID:     "t3_s",
				CreatedUTC: times[i],
			}, i+1)
		}
		idx := b.Freeze()
		return idx, Build(idx)
	}

	genParents := gen.SliceOf(gen.IntRange(-1, 59))
	genTimes := gen.SliceOf(gen.Int64Range(0, 5))

	properties.Property("children are sorted by (created_utc, id)", prop.ForAll(
		func(parents []int, times []int64) bool {
			idx, g := build(parents, times)
			for i := range g.Len() {
				kids := g.Children(int32(i))
				if !slices.IsSortedFunc(kids, func(a, b int32) int { return models.Compare(idx.At(a), idx.At(b)) }) {
					return false
				}
			}
			return true
		},
		genParents, genTimes,
	))

	properties.Property("every resolved comment appears exactly once as a child", prop.ForAll(
		func(parents []int, times []int64) bool {
			_, g := build(parents, times)
			seen := make([]int, g.Len())
			for i := range g.Len() {
				for _, k := range g.Children(int32(i)) {
					if g.Parent(k) != int32(i) {
						return false
					}
					seen[k]++
				}
			}
			for i := range g.Len() {
				want := 1
				if g.Parent(int32(i)) == NoParent {
					want = 0
				}
				if seen[i] != want {
					return false
				}
			}
			return true
		},
		genParents, genTimes,
	))

	properties.TestingRun(t)
}
