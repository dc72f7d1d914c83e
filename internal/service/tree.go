package service

import (
	"slices"

	"github.com/pribylovaa/reddit-threads/internal/graph"
	"github.com/pribylovaa/reddit-threads/internal/ingest"
	"github.com/pribylovaa/reddit-threads/internal/models"
)

// frame — кадр обхода: узел, его дети в графе и курсор следующего ребёнка.
type frame struct {
	node *models.ThreadNode
	kids []int32
	next int
}

// Materialize собирает лес одной публикации. Возвращает nil, если корней нет.
//
// Правила:
//   - корень — комментарий, чей parent_id равен link_id группы или отсутствует в индексе;
//   - отсутствующий родитель, не похожий на публикацию (t3_), даёт +1 к orphan_comments;
//   - спуск идёт только в детей той же публикации;
//   - члены группы, недостижимые из корней (циклы, родитель в другой публикации),
//     в дерево не попадают и тоже считаются сиротами;
//   - created_utc_min/max берутся по всей группе, а не только по дереву;
//   - обход итеративный, глубина не ограничена.
func Materialize(idx *ingest.Index, g *graph.Graph, grp *SubmissionGroup) *models.ThreadRecord {
	var roots []int32
	orphans := 0

	for _, pos := range grp.Members {
		c := idx.At(pos)
		if c.ParentID == grp.LinkID {
			roots = append(roots, pos)
			continue
		}
		if g.Parent(pos) == graph.NoParent {
			roots = append(roots, pos)
			if !models.IsSubmissionRef(c.ParentID) {
				orphans++
			}
		}
	}

	if len(roots) == 0 {
		return nil
	}

	slices.SortFunc(roots, func(a, b int32) int { return models.Compare(idx.At(a), idx.At(b)) })

	first := idx.At(roots[0])
	rec := &models.ThreadRecord{
		LinkID:        grp.LinkID,
		Subreddit:     first.Subreddit,
		RootCount:     len(roots),
		CreatedUTCMin: grp.MinCreated,
		CreatedUTCMax: grp.MaxCreated,
		Roots:         make([]*models.ThreadNode, 0, len(roots)),
	}

	visit := func(c *models.Comment, depth int, kids []int32) *models.ThreadNode {
		n := models.NewThreadNode(c, depth)
		if len(kids) > 0 {
			n.Children = make([]*models.ThreadNode, 0, len(kids))
		}

		rec.CommentCount++

		return n
	}

	var stack []frame
	for _, r := range roots {
		kids := g.Children(r)
		root := visit(idx.At(r), 0, kids)
		rec.Roots = append(rec.Roots, root)
		stack = append(stack[:0], frame{node: root, kids: kids})

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next == len(top.kids) {
				stack = stack[:len(stack)-1]
				continue
			}

			k := top.kids[top.next]
			top.next++

			// Ребёнок из другой публикации или уже взятый корнем не спускается.
			c := idx.At(k)
			if c.LinkID != grp.LinkID || c.ParentID == grp.LinkID {
				continue
			}

			kids := g.Children(k)
			child := visit(c, top.node.Depth+1, kids)
			top.node.Children = append(top.node.Children, child)
			stack = append(stack, frame{node: child, kids: kids})
		}
	}

	rec.OrphanComments = orphans + len(grp.Members) - rec.CommentCount

	return rec
}
