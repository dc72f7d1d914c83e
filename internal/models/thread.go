package models

import "encoding/json"

// ThreadNode — материализованный узел дерева.
// Children никогда не nil, чтобы в JSON получался [] вместо null.
type ThreadNode struct {
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
	Children         []*ThreadNode   `json:"children"`
}

// NewThreadNode копирует отображаемые атрибуты комментария в узел заданной глубины.
func NewThreadNode(c *Comment, depth int) *ThreadNode {
	return &ThreadNode{
		ID:               c.ID,
		ParentID:         c.ParentID,
		Author:           c.Author,
		Body:             c.Body,
		BodyCleaned:      c.BodyCleaned,
		Score:            c.Score,
		Controversiality: c.Controversiality,
		CreatedUTC:       c.CreatedUTC,
		Distinguished:    c.Distinguished,
		Edited:           c.Edited,
		Depth:            depth,
		Children:         []*ThreadNode{},
	}
}

// ThreadRecord — собранный лес одной публикации.
//   - CommentCount — число узлов во всех поддеревьях Roots;
//   - RootCount — len(Roots);
//   - OrphanComments — корни, чей родитель-комментарий отсутствует в выборке,
//     плюс комментарии, недостижимые из корней.
type ThreadRecord struct {
	LinkID         string        `json:"link_id"`
	Subreddit      string        `json:"subreddit"`
	CommentCount   int           `json:"comment_count"`
	RootCount      int           `json:"root_count"`
	CreatedUTCMin  int64         `json:"created_utc_min"`
	CreatedUTCMax  int64         `json:"created_utc_max"`
	OrphanComments int           `json:"orphan_comments"`
	Roots          []*ThreadNode `json:"roots"`
}

// Document — документ корпуса: весь текст одной ветки.
type Document struct {
	LinkID        string `json:"link_id"`
	Subreddit     string `json:"subreddit"`
	CommentCount  int    `json:"comment_count"`
	RootCount     int    `json:"root_count"`
	CreatedUTCMin int64  `json:"created_utc_min"`
	CreatedUTCMax int64  `json:"created_utc_max"`
	Text          string `json:"text"`
}

// Walk обходит узлы в глубину (pre-order, корни по порядку) без рекурсии.
// Если fn возвращает false, обход прекращается.
func Walk(roots []*ThreadNode, fn func(n *ThreadNode) bool) {
	stack := make([]*ThreadNode, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, roots[i])
	}

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !fn(n) {
			return
		}

		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
}
