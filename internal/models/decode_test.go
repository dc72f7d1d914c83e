package models

import (
	"fmt"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

// deepChain строит ветку-цепочку: каждый комментарий отвечает на предыдущий.
func deepChain(depth int) *ThreadRecord {
	root := &ThreadNode{ID: "t1_0", ParentID: "t3_deep", Body: strPtr("b0"), Children: []*ThreadNode{}}
	n := root
	for i := 1; i < depth; i++ {
		child := &ThreadNode{
			ID:         fmt.Sprintf("t1_%d", i),
			ParentID:   n.ID,
			CreatedUTC: int64(i),
			Depth:      i,
			Children:   []*ThreadNode{},
		}
		n.Children = append(n.Children, child)
		n = child
	}

	return &ThreadRecord{
		LinkID: "t3_deep", Subreddit: "test", CommentCount: depth, RootCount: 1,
		CreatedUTCMax: int64(depth - 1), Roots: []*ThreadNode{root},
	}
}

func TestDecodeThreadRecord_MatchesEncoder(t *testing.T) {
	t.Parallel()

	rec := &ThreadRecord{
		LinkID: "t3_x", Subreddit: "golang", CommentCount: 4, RootCount: 2,
		CreatedUTCMin: 10, CreatedUTCMax: 40, OrphanComments: 1,
		Roots: []*ThreadNode{
			{
				ID: "t1_a", ParentID: "t3_x", Author: strPtr("alice"), Body: strPtr("hi \"there\""),
				Score: -3, CreatedUTC: 10, Edited: json.RawMessage("1700000000"),
				Children: []*ThreadNode{
					{ID: "t1_b", ParentID: "t1_a", CreatedUTC: 20, Depth: 1, Children: []*ThreadNode{}},
					{ID: "t1_c", ParentID: "t1_a", CreatedUTC: 30, Depth: 1, Distinguished: strPtr("moderator"), Children: []*ThreadNode{}},
				},
			},
			{ID: "t1_d", ParentID: "t1_gone", BodyCleaned: strPtr("clean"), Controversiality: 1, CreatedUTC: 40, Edited: json.RawMessage("false"), Children: []*ThreadNode{}},
		},
	}

	want, err := json.Marshal(rec)
	require.NoError(t, err)

	got, err := DecodeThreadRecord(want)
	require.NoError(t, err)

	b, err := json.Marshal(got)
	require.NoError(t, err)
	require.JSONEq(t, string(want), string(b))

	require.Equal(t, "alice", *got.Roots[0].Author)
	require.Nil(t, got.Roots[0].Children[0].Author)
	require.Equal(t, "t1_c", got.Roots[0].Children[1].ID)
}

func TestDecodeThreadRecord_DeepChain(t *testing.T) {
	t.Parallel()

	const depth = 20_000

	data, err := json.Marshal(deepChain(depth))
	require.NoError(t, err)

	got, err := DecodeThreadRecord(data)
	require.NoError(t, err)
	require.Equal(t, depth, got.CommentCount)

	count, last := 0, (*ThreadNode)(nil)
	Walk(got.Roots, func(n *ThreadNode) bool {
		count++
		last = n
		return true
	})
	require.Equal(t, depth, count)
	require.Equal(t, depth-1, last.Depth)
	require.Equal(t, fmt.Sprintf("t1_%d", depth-2), last.ParentID)
}

func TestDecodeThreadRecord_LooseShapes(t *testing.T) {
	t.Parallel()

	got, err := DecodeThreadRecord([]byte(`{"extra":{"nested":[1,2]},"link_id":"t3_a","roots":[
		{"id":"t1_r","children":null,"unknown":"x"}
	]}`))
	require.NoError(t, err)
	require.Equal(t, "t3_a", got.LinkID)
	require.Len(t, got.Roots, 1)
	require.Empty(t, got.Roots[0].Children)
	require.NotNil(t, got.Roots[0].Children)

	got, err = DecodeThreadRecord([]byte(`{"link_id":"t3_b","roots":null}`))
	require.NoError(t, err)
	require.Empty(t, got.Roots)
}

func TestDecodeThreadRecord_Malformed(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"not an object":  `[1]`,
		"truncated":      `{"link_id":"t3_a","roots":[{"id":"t1_a","children":[`,
		"bad field type": `{"link_id":"t3_a","comment_count":"three"}`,
		"roots object":   `{"roots":{}}`,
		"node not obj":   `{"roots":[42]}`,
		"bad node field": `{"roots":[{"id":"t1_a","score":"high"}]}`,
		"children obj":   `{"roots":[{"id":"t1_a","children":{}}]}`,
	}

	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := DecodeThreadRecord([]byte(in))
			require.Error(t, err)
		})
	}
}
