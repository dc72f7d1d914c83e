package service

import (
	"cmp"
	"slices"
	"strings"

	"github.com/pribylovaa/reddit-threads/internal/ingest"
)

// SubmissionGroup — комментарии одной публикации.
// Members — позиции в индексе в порядке вставки; MinCreated и MaxCreated —
// границы created_utc по всем членам группы, включая не попавших в дерево.
type SubmissionGroup struct {
	LinkID     string
	Members    []int32
	MinCreated int64
	MaxCreated int64
}

// GroupSubmissions разбивает индекс по link_id и упорядочивает группы по
// (MinCreated asc, LinkID asc). Каждый комментарий попадает ровно в одну группу.
func GroupSubmissions(idx *ingest.Index) []SubmissionGroup {
	byLink := make(map[string]int)
	var groups []SubmissionGroup

	for i := range idx.Len() {
		pos := int32(i)
		c := idx.At(pos)

		gi, ok := byLink[c.LinkID]
		if !ok {
			gi = len(groups)
			byLink[c.LinkID] = gi
			groups = append(groups, SubmissionGroup{
				LinkID:     c.LinkID,
				MinCreated: c.CreatedUTC,
				MaxCreated: c.CreatedUTC,
			})
		}

		g := &groups[gi]
		g.Members = append(g.Members, pos)
		g.MinCreated = min(g.MinCreated, c.CreatedUTC)
		g.MaxCreated = max(g.MaxCreated, c.CreatedUTC)
	}

	slices.SortFunc(groups, func(a, b SubmissionGroup) int {
		if c := cmp.Compare(a.MinCreated, b.MinCreated); c != 0 {
			return c
		}
		return strings.Compare(a.LinkID, b.LinkID)
	})

	return groups
}
