// internal/workspace/slot.go
package workspace

import (
	"context"
	"log/slog"

	"formadmin.fr/internal/listing"
)

// Slot - список одной сущности с ленивой однократной загрузкой.
type Slot[T listing.Entity[T]] struct {
	schema listing.Schema
	list   *listing.List[T]
	loaded bool
	err    error
}

func NewSlot[T listing.Entity[T]](schema listing.Schema) *Slot[T] {
	return &Slot[T]{schema: schema}
}

// Ensure загружает список при первом обращении. Ошибка загрузки логируется,
// список остается пустым и считается загруженным до явного Reset.
func (s *Slot[T]) Ensure(ctx context.Context, fetch func(context.Context) ([]T, error)) *listing.List[T] {
	if s.loaded {
		return s.list
	}
	records, err := fetch(ctx)
	if err != nil {
		slog.Error("Не удалось загрузить список", "entity", s.schema.Name, "error", err)
		records = nil
	}
	s.list = listing.New(s.schema, records)
	s.loaded = true
	s.err = err
	return s.list
}

// Reset отбрасывает список; следующий Ensure загрузит его заново.
func (s *Slot[T]) Reset() {
	s.list = nil
	s.loaded = false
	s.err = nil
}

func (s *Slot[T]) Loaded() bool { return s.loaded }

// Err - ошибка последней загрузки, nil при успехе.
func (s *Slot[T]) Err() error { return s.err }

func (s *Slot[T]) Schema() listing.Schema { return s.schema }
