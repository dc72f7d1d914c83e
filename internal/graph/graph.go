// Package graph строит связи родитель→дети поверх индекса комментариев.
package graph

import (
	"slices"

	"github.com/pribylovaa/reddit-threads/internal/ingest"
	"github.com/pribylovaa/reddit-threads/internal/models"
)

// NoParent — позиция родителя, отсутствующего в индексе.
const NoParent int32 = -1

// Graph — неизменяемый граф в формате CSR: дети позиции i лежат в
// children[offsets[i]:offsets[i+1]], упорядоченные по (created_utc, id).
type Graph struct {
	parent   []int32
	offsets  []int32
	children []int32
}

// Build строит граф за один проход по индексу плюс сортировку детей каждого узла.
// Ссылки на отсутствующих родителей ошибкой не считаются.
func Build(idx *ingest.Index) *Graph {
	n := idx.Len()
	g := &Graph{
		parent:  make([]int32, n),
		offsets: make([]int32, n+1),
	}

	for i := range n {
		p, ok := idx.Lookup(idx.At(int32(i)).ParentID)
		if !ok {
			g.parent[i] = NoParent
			continue
		}
		g.parent[i] = p
		g.offsets[p+1]++
	}

	for i := range n {
		g.offsets[i+1] += g.offsets[i]
	}

	g.children = make([]int32, g.offsets[n])
	next := slices.Clone(g.offsets[:n])
	for i := range n {
		if p := g.parent[i]; p != NoParent {
			g.children[next[p]] = int32(i)
			next[p]++
		}
	}

	byTime := func(a, b int32) int { return models.Compare(idx.At(a), idx.At(b)) }
	for i := range n {
		if seg := g.children[g.offsets[i]:g.offsets[i+1]]; len(seg) > 1 {
			slices.SortFunc(seg, byTime)
		}
	}

	return g
}

// Len — число узлов.
func (g *Graph) Len() int { return len(g.parent) }

// Parent возвращает позицию родителя или NoParent.
func (g *Graph) Parent(pos int32) int32 { return g.parent[pos] }

// Children возвращает упорядоченных детей. Срез разделяется с графом, менять его нельзя.
func (g *Graph) Children(pos int32) []int32 {
	return g.children[g.offsets[pos]:g.offsets[pos+1]]
}

// ChildIDs возвращает id детей в порядке графа.
func (g *Graph) ChildIDs(idx *ingest.Index, pos int32) []string {
	kids := g.Children(pos)
	ids := make([]string, len(kids))
	for i, k := range kids {
		ids[i] = idx.At(k).ID
	}

	return ids
}
