package service

import (
	"errors"
	"fmt"
)

// ErrNotFound — запрошенной сущности не существует (HTTP 404)
var ErrNotFound = errors.New("not found")

// ValidationError — запрос отклонён до каких-либо записей в БД (HTTP 400)
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func validationErrorf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ConflictError — запрос отклонён из-за конфликта с существующей сущностью (HTTP 409).
// ConflictWith называет конфликтующую сущность, чтобы админ мог разобраться.
type ConflictError struct {
	Msg          string
	ConflictWith string
}

func (e *ConflictError) Error() string {
	return e.Msg
}
