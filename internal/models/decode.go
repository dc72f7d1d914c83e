package models

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// decodeFrame — открытый на разборе JSON-контейнер: объект узла или массив детей.
type decodeFrame struct {
	node *ThreadNode
	list *[]*ThreadNode
}

// DecodeThreadRecord разбирает одну запись ветки без рекурсии по children,
// поэтому глубина дерева не ограничена лимитом вложенности декодера.
// Неизвестные поля пропускаются.
func DecodeThreadRecord(data []byte) (*ThreadRecord, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	rec := &ThreadRecord{Roots: []*ThreadNode{}}
	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return nil, err
		}

		switch key {
		case "roots":
			roots, err := decodeForest(dec)
			if err != nil {
				return nil, fmt.Errorf("roots: %w", err)
			}
			rec.Roots = roots
			continue
		case "link_id":
			err = dec.Decode(&rec.LinkID)
		case "subreddit":
			err = dec.Decode(&rec.Subreddit)
		case "comment_count":
			err = dec.Decode(&rec.CommentCount)
		case "root_count":
			err = dec.Decode(&rec.RootCount)
		case "created_utc_min":
			err = dec.Decode(&rec.CreatedUTCMin)
		case "created_utc_max":
			err = dec.Decode(&rec.CreatedUTCMax)
		case "orphan_comments":
			err = dec.Decode(&rec.OrphanComments)
		default:
			err = dec.Decode(new(json.RawMessage))
		}
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}

	return rec, nil
}

// decodeForest читает массив узлов, стоящий следующим в потоке.
// null читается как пустой лес.
func decodeForest(dec *json.Decoder) ([]*ThreadNode, error) {
	roots := []*ThreadNode{}

	open, err := openList(dec)
	if err != nil || !open {
		return roots, err
	}

	stack := []decodeFrame{{list: &roots}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]

		if top.list != nil {
			if !dec.More() {
				if err := expectDelim(dec, ']'); err != nil {
					return nil, err
				}
				stack = stack[:len(stack)-1]
				continue
			}

			if err := expectDelim(dec, '{'); err != nil {
				return nil, err
			}
			n := &ThreadNode{Children: []*ThreadNode{}}
			*top.list = append(*top.list, n)
			stack = append(stack, decodeFrame{node: n})
			continue
		}

		if !dec.More() {
			if err := expectDelim(dec, '}'); err != nil {
				return nil, err
			}
			stack = stack[:len(stack)-1]
			continue
		}

		key, err := readKey(dec)
		if err != nil {
			return nil, err
		}

		if key == "children" {
			open, err := openList(dec)
			if err != nil {
				return nil, fmt.Errorf("node %q: %w", top.node.ID, err)
			}
			if open {
				stack = append(stack, decodeFrame{list: &top.node.Children})
			}
			continue
		}

		if err := decodeNodeField(dec, top.node, key); err != nil {
			return nil, fmt.Errorf("node %q field %q: %w", top.node.ID, key, err)
		}
	}

	return roots, nil
}

func decodeNodeField(dec *json.Decoder, n *ThreadNode, key string) error {
	var dst any
	switch key {
	case "id":
		dst = &n.ID
	case "parent_id":
		dst = &n.ParentID
	case "author":
		dst = &n.Author
	case "body":
		dst = &n.Body
	case "body_cleaned":
		dst = &n.BodyCleaned
	case "score":
		dst = &n.Score
	case "controversiality":
		dst = &n.Controversiality
	case "created_utc":
		dst = &n.CreatedUTC
	case "distinguished":
		dst = &n.Distinguished
	case "edited":
		dst = &n.Edited
	case "depth":
		dst = &n.Depth
	default:
		dst = new(json.RawMessage)
	}

	return dec.Decode(dst)
}

// openList читает начало массива. false — на месте массива стоит null.
func openList(dec *json.Decoder) (bool, error) {
	tok, err := dec.Token()
	if err != nil {
		return false, err
	}
	if tok == nil {
		return false, nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return false, fmt.Errorf("expected array, got %v", tok)
	}

	return true, nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}

	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, got %v", tok)
	}

	return key, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}

	return nil
}
