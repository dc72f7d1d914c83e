package models

import (
	"encoding/json"
	"fmt"
)

// FlatNode — узел без детей. Последовательность FlatNode в pre-order вместе с Depth
// однозначно задаёт лес; используется хранилищами с ограниченной вложенностью документов.
type FlatNode struct {
	ID               string          `json:"id"`
	ParentID         string          `json:"parent_id"`
	Author           *string         `json:"author"`
	Body             *string         `json:"body"`
	BodyCleaned      *string         `json:"body_cleaned"`
	Score            int64           `json:"score"`
	Controversiality int64           `json:"controversiality"`
	CreatedUTC       int64           `json:"created_utc"`
	Distinguished    *string         `json:"distinguished"`
	Edited           json.RawMessage `json:"edited"`
	Depth            int             `json:"depth"`
}

// Flatten раскладывает лес в pre-order.
func Flatten(roots []*ThreadNode) []FlatNode {
	var out []FlatNode
	Walk(roots, func(n *ThreadNode) bool {
		out = append(out, FlatNode{
			ID:               n.ID,
			ParentID:         n.ParentID,
			Author:           n.Author,
			Body:             n.Body,
			BodyCleaned:      n.BodyCleaned,
			Score:            n.Score,
			Controversiality: n.Controversiality,
			CreatedUTC:       n.CreatedUTC,
			Distinguished:    n.Distinguished,
			Edited:           n.Edited,
			Depth:            n.Depth,
		})
		return true
	})

	return out
}

// Unflatten восстанавливает лес из pre-order последовательности.
// Глубина каждого следующего узла не может превышать глубину предыдущего больше чем на 1.
func Unflatten(flat []FlatNode) ([]*ThreadNode, error) {
	roots := []*ThreadNode{}
	// path[d] — последний встреченный узел глубины d.
	var path []*ThreadNode

	for i := range flat {
		f := &flat[i]
		if f.Depth < 0 || f.Depth > len(path) {
			return nil, fmt.Errorf("unflatten: node %q at position %d has depth %d after depth %d", f.ID, i, f.Depth, len(path)-1)
		}

		n := &ThreadNode{
			ID:               f.ID,
			ParentID:         f.ParentID,
			Author:           f.Author,
			Body:             f.Body,
			BodyCleaned:      f.BodyCleaned,
			Score:            f.Score,
			Controversiality: f.Controversiality,
			CreatedUTC:       f.CreatedUTC,
			Distinguished:    f.Distinguished,
			Edited:           f.Edited,
			Depth:            f.Depth,
			Children:         []*ThreadNode{},
		}

		path = path[:f.Depth]
		if f.Depth == 0 {
			roots = append(roots, n)
		} else {
			parent := path[f.Depth-1]
			parent.Children = append(parent.Children, n)
		}
		path = append(path, n)
	}

	return roots, nil
}
