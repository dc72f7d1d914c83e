package ingest

import (
	"fmt"
	"math"

	"github.com/pribylovaa/reddit-threads/internal/models"
)

// Index — неизменяемый индекс комментариев (арена + id→позиция).
// Позиции стабильны и соответствуют порядку вставки; безопасен для
// одновременного чтения из нескольких горутин.
type Index struct {
	comments []models.Comment
	pos      map[string]int32
}

// Len возвращает число комментариев.
func (x *Index) Len() int { return len(x.comments) }

// At возвращает комментарий по позиции. Менять запись нельзя.
func (x *Index) At(i int32) *models.Comment { return &x.comments[i] }

// Lookup ищет позицию по нормализованному id.
func (x *Index) Lookup(id string) (int32, bool) {
	i, ok := x.pos[id]
	return i, ok
}

// Builder — изменяемая фаза индекса. После Freeze использовать нельзя.
type Builder struct {
	comments []models.Comment
	pos      map[string]int32
	lines    []int
	frozen   bool
}

// NewBuilder создаёт построитель; sizeHint — ожидаемое число комментариев (может быть 0).
func NewBuilder(sizeHint int) *Builder {
	return &Builder{
		comments: make([]models.Comment, 0, sizeHint),
		pos:      make(map[string]int32, sizeHint),
		lines:    make([]int, 0, sizeHint),
	}
}

// Add добавляет комментарий, прочитанный из строки line.
// Повтор id — *DuplicateCommentError, запись не добавляется.
func (b *Builder) Add(c models.Comment, line int) error {
	if b.frozen {
		return ErrBuilderFrozen
	}

	if first, ok := b.pos[c.ID]; ok {
		return &DuplicateCommentError{ID: c.ID, FirstLine: b.lines[first], Line: line}
	}

	if len(b.comments) >= math.MaxInt32 {
		return fmt.Errorf("ingest/index/Add: index is full (%d comments)", len(b.comments))
	}

	b.pos[c.ID] = int32(len(b.comments))
	b.comments = append(b.comments, c)
	b.lines = append(b.lines, line)

	return nil
}

// Len — число добавленных комментариев.
func (b *Builder) Len() int { return len(b.comments) }

// Freeze завершает построение и передаёт данные индексу.
func (b *Builder) Freeze() *Index {
	idx := &Index{comments: b.comments, pos: b.pos}

	b.comments, b.pos, b.lines = nil, nil, nil
	b.frozen = true

	return idx
}
