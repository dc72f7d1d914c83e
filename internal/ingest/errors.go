package ingest

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedRecord — строка входа не соответствует схеме комментария.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrDuplicateComment — один и тот же нормализованный id встретился дважды.
	ErrDuplicateComment = errors.New("duplicate comment id")
	// ErrBuilderFrozen — попытка изменить индекс после Freeze.
	ErrBuilderFrozen = errors.New("index builder is frozen")
)

// MalformedRecordError описывает нарушение схемы в конкретной строке.
// Field пуст, если строка не разбирается как JSON-объект целиком.
type MalformedRecordError struct {
	Line   int
	Field  string
	Reason string
	Err    error
}

func (e *MalformedRecordError) Error() string {
	msg := fmt.Sprintf("line %d: malformed record", e.Line)
	if e.Field != "" {
		msg += fmt.Sprintf(": field %q", e.Field)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

func (e *MalformedRecordError) Is(target error) bool { return target == ErrMalformedRecord }

func (e *MalformedRecordError) Unwrap() error { return e.Err }

// DuplicateCommentError — повтор id; FirstLine указывает на первое вхождение.
type DuplicateCommentError struct {
	ID        string
	FirstLine int
	Line      int
}

func (e *DuplicateCommentError) Error() string {
	return fmt.Sprintf("line %d: duplicate comment id %q (first seen at line %d)", e.Line, e.ID, e.FirstLine)
}

func (e *DuplicateCommentError) Is(target error) bool { return target == ErrDuplicateComment }
