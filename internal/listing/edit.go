// internal/listing/edit.go
package listing

import "errors"

var (
	ErrEditInProgress = errors.New("listing: сессия редактирования уже открыта")
	ErrNoEdit         = errors.New("listing: нет открытой сессии редактирования")
	ErrUnknownField   = errors.New("listing: поле не редактируется")
	ErrRecordGone     = errors.New("listing: запись больше не существует")
	ErrNotFound       = errors.New("listing: запись не найдена")
)

// EditSession - состояние Open(record, draft). Закрытая сессия представлена nil.
type EditSession[T Entity[T]] struct {
	key      string
	original T
	draft    Draft
}

func (s *EditSession[T]) Key() string { return s.key }
func (s *EditSession[T]) Original() T { return s.original }
func (s *EditSession[T]) Draft() Draft { return s.draft.Clone() }

// OpenEdit копирует редактируемые поля записи в черновик.
// Допустимо только из состояния Closed.
func (l *List[T]) OpenEdit(key string) error {
	if l.edit != nil {
		return ErrEditInProgress
	}
	rec, _, ok := l.Find(key)
	if !ok {
		return ErrNotFound
	}
	draft := make(Draft, len(l.schema.EditableFields))
	for _, name := range l.schema.EditableFields {
		v, _ := rec.Field(name)
		draft[name] = v
	}
	l.edit = &EditSession[T]{key: key, original: rec, draft: draft}
	return nil
}

// Editing возвращает открытую сессию или nil.
func (l *List[T]) Editing() *EditSession[T] {
	return l.edit
}

// UpdateField меняет ровно одно поле черновика.
func (l *List[T]) UpdateField(name, value string) error {
	if l.edit == nil {
		return ErrNoEdit
	}
	if !l.schema.IsEditable(name) {
		return ErrUnknownField
	}
	l.edit.draft[name] = value
	return nil
}

// Commit сливает черновик с записью, найденной по ключу сессии, и закрывает сессию.
// Если запись исчезла, источник не меняется и возвращается ErrRecordGone.
func (l *List[T]) Commit() (T, error) {
	var zero T
	if l.edit == nil {
		return zero, ErrNoEdit
	}
	session := l.edit
	l.edit = nil

	_, idx, ok := l.Find(session.key)
	if !ok {
		return zero, ErrRecordGone
	}
	updated := l.records[idx].WithDraft(session.draft).WithKey(session.key)
	l.records[idx] = updated
	return updated, nil
}

// Cancel отбрасывает черновик.
func (l *List[T]) Cancel() error {
	if l.edit == nil {
		return ErrNoEdit
	}
	l.edit = nil
	return nil
}
