// Package models содержит доменные сущности движка сборки веток.
package models

import (
	"cmp"
	"encoding/json"
	"strings"
)

// Префиксы идентификаторов Reddit: t1_ — комментарий, t3_ — публикация (submission).
const (
	CommentPrefix    = "t1_"
	SubmissionPrefix = "t3_"
)

// Comment — комментарий после валидации входной записи.
// Важно:
//   - ID всегда нормализован (несёт префикс t1_);
//   - ParentID хранится как пришёл: это id публикации (t3_) или другого комментария;
//   - Edited — непрозрачное значение из дампа (false или unix-время правки), переносится как есть;
//   - после построения индекса запись не меняется.
type Comment struct {
	ID               string
	ParentID         string
	LinkID           string
	Subreddit        string
	CreatedUTC       int64
	Score            int64
	Controversiality int64
	Author           *string
	Body             *string
	BodyCleaned      *string
	Distinguished    *string
	Edited           json.RawMessage
}

// IsSubmissionRef сообщает, выглядит ли ссылка как ссылка на публикацию.
func IsSubmissionRef(ref string) bool {
	return strings.HasPrefix(ref, SubmissionPrefix)
}

// Compare задаёт хронологический порядок: created_utc по возрастанию,
// при равенстве — id по возрастанию. Для уникальных id порядок полный.
func Compare(a, b *Comment) int {
	if c := cmp.Compare(a.CreatedUTC, b.CreatedUTC); c != 0 {
		return c
	}

	return strings.Compare(a.ID, b.ID)
}
