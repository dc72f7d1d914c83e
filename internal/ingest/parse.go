package ingest

import (
	stdjson "encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/pribylovaa/reddit-threads/internal/models"
)

// RawComment — входная запись дампа. Поля хранятся как сырые значения,
// чтобы каждое проверялось отдельно и ошибка указывала на конкретное поле.
// Неизвестные поля дампа игнорируются.
type RawComment struct {
	ID               json.RawMessage `json:"id"`
	ParentID         json.RawMessage `json:"parent_id"`
	LinkID           json.RawMessage `json:"link_id"`
	Subreddit        json.RawMessage `json:"subreddit"`
	CreatedUTC       json.RawMessage `json:"created_utc"`
	Score            json.RawMessage `json:"score"`
	Controversiality json.RawMessage `json:"controversiality"`
	Author           json.RawMessage `json:"author"`
	Body             json.RawMessage `json:"body"`
	BodyCleaned      json.RawMessage `json:"body_cleaned"`
	Distinguished    json.RawMessage `json:"distinguished"`
	Edited           json.RawMessage `json:"edited"`
}

// NormalizeCommentID приводит id к каноническому виду с префиксом t1_.
func NormalizeCommentID(id string) string {
	if strings.HasPrefix(id, models.CommentPrefix) {
		return id
	}

	return models.CommentPrefix + id
}

// ParseLine разбирает одну непустую строку входа в Comment.
//
// Правила:
//   - id, parent_id, link_id — обязательные непустые строки;
//   - created_utc — обязательное целое: JSON-число (дробная часть отбрасывается)
//     или строка с целым числом;
//   - score, controversiality — по тем же правилам, по умолчанию 0;
//   - строковые опциональные поля: отсутствие и null дают nil, иной тип — ошибка;
//   - edited переносится как есть.
func ParseLine(line []byte, lineNo int) (models.Comment, error) {
	var raw RawComment
	if err := json.Unmarshal(line, &raw); err != nil {
		return models.Comment{}, &MalformedRecordError{Line: lineNo, Reason: "invalid json object", Err: err}
	}

	p := fieldParser{line: lineNo}
	c := models.Comment{
		ID:               p.required("id", raw.ID),
		ParentID:         p.required("parent_id", raw.ParentID),
		LinkID:           p.required("link_id", raw.LinkID),
		CreatedUTC:       p.integer("created_utc", raw.CreatedUTC, true),
		Score:            p.integer("score", raw.Score, false),
		Controversiality: p.integer("controversiality", raw.Controversiality, false),
		Author:           p.optional("author", raw.Author),
		Body:             p.optional("body", raw.Body),
		BodyCleaned:      p.optional("body_cleaned", raw.BodyCleaned),
		Distinguished:    p.optional("distinguished", raw.Distinguished),
	}
	if sub := p.optional("subreddit", raw.Subreddit); sub != nil {
		c.Subreddit = *sub
	}
	if len(raw.Edited) > 0 {
		c.Edited = stdjson.RawMessage(raw.Edited)
	}

	if p.err != nil {
		return models.Comment{}, p.err
	}

	c.ID = NormalizeCommentID(c.ID)

	return c, nil
}

// fieldParser запоминает первую ошибку; последующие вызовы после ошибки ничего не делают.
type fieldParser struct {
	line int
	err  *MalformedRecordError
}

func (p *fieldParser) fail(field, reason string, err error) {
	if p.err == nil {
		p.err = &MalformedRecordError{Line: p.line, Field: field, Reason: reason, Err: err}
	}
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

func (p *fieldParser) str(field string, raw json.RawMessage) (string, bool) {
	if raw[0] != '"' {
		p.fail(field, "expected string", nil)
		return "", false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		p.fail(field, "invalid string", err)
		return "", false
	}

	return s, true
}

func (p *fieldParser) required(field string, raw json.RawMessage) string {
	if p.err != nil {
		return ""
	}
	if isNull(raw) {
		p.fail(field, "missing required field", nil)
		return ""
	}

	s, ok := p.str(field, raw)
	if ok && s == "" {
		p.fail(field, "empty value", nil)
	}

	return s
}

func (p *fieldParser) optional(field string, raw json.RawMessage) *string {
	if p.err != nil || isNull(raw) {
		return nil
	}

	s, ok := p.str(field, raw)
	if !ok {
		return nil
	}

	return &s
}

func (p *fieldParser) integer(field string, raw json.RawMessage, required bool) int64 {
	if p.err != nil {
		return 0
	}
	if isNull(raw) {
		if required {
			p.fail(field, "missing required field", nil)
		}
		return 0
	}

	text := string(raw)
	if raw[0] == '"' {
		s, ok := p.str(field, raw)
		if !ok {
			return 0
		}
		v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			p.fail(field, "expected integer string", err)
			return 0
		}
		return v
	}

	if c := raw[0]; c != '-' && (c < '0' || c > '9') {
		p.fail(field, "expected integer", nil)
		return 0
	}

	if v, err := strconv.ParseInt(text, 10, 64); err == nil {
		return v
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || f >= math.MaxInt64 || f < math.MinInt64 {
		p.fail(field, "expected integer", err)
		return 0
	}

	return int64(f)
}
