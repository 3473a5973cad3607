// internal/listing/list.go
package listing

import "github.com/google/uuid"

// Confirm - шаг подтверждения перед удалением. false оставляет список без изменений.
type Confirm[T any] func(rec T) bool

// List - менеджер списка: исходные записи, не более одной сессии редактирования.
// List не потокобезопасен, синхронизация лежит на владельце.
type List[T Entity[T]] struct {
	schema  Schema
	records []T
	edit    *EditSession[T]
}

// New создает список и назначает стабильные ключи записям без ключа.
func New[T Entity[T]](schema Schema, records []T) *List[T] {
	if schema.PageSize < 1 {
		schema.PageSize = DefaultPageSize
	}
	owned := make([]T, len(records))
	seen := make(map[string]struct{}, len(records))
	for i, rec := range records {
		key := rec.Key()
		if _, dup := seen[key]; key == "" || dup {
			key = uuid.NewString()
			rec = rec.WithKey(key)
		}
		seen[key] = struct{}{}
		owned[i] = rec
	}
	return &List[T]{schema: schema, records: owned}
}

func (l *List[T]) Schema() Schema { return l.schema }
func (l *List[T]) Len() int { return len(l.records) }

// Records возвращает копию исходного массива.
func (l *List[T]) Records() []T {
	out := make([]T, len(l.records))
	copy(out, l.records)
	return out
}

// Find ищет запись по ключу и возвращает ее позицию в исходном массиве.
func (l *List[T]) Find(key string) (T, int, bool) {
	for i, rec := range l.records {
		if rec.Key() == key {
			return rec, i, true
		}
	}
	var zero T
	return zero, -1, false
}

// View пересчитывает фильтр и страницу из текущего состояния источника.
func (l *List[T]) View(q Query, page int) Page[T] {
	return Paginate(Filter(l.records, l.schema, q), l.schema.PageSize, page)
}

// Categories возвращает значения для селектора категории.
func (l *List[T]) Categories() []string {
	return Categories(l.records, l.schema.CategoryField)
}

// Delete удаляет ровно одну запись с данным ключом. Несуществующий ключ - тихий no-op.
// Открытая сессия редактирования этой записи закрывается.
func (l *List[T]) Delete(key string, confirm Confirm[T]) bool {
	_, idx, ok := l.Find(key)
	if !ok {
		return false
	}
	return l.DeleteAt(idx, confirm)
}

// DeleteAt удаляет запись по позиции в исходном массиве.
func (l *List[T]) DeleteAt(idx int, confirm Confirm[T]) bool {
	if idx < 0 || idx >= len(l.records) {
		return false
	}
	rec := l.records[idx]
	if confirm != nil && !confirm(rec) {
		return false
	}
	next := make([]T, 0, len(l.records)-1)
	next = append(next, l.records[:idx]...)
	next = append(next, l.records[idx+1:]...)
	l.records = next

	if l.edit != nil && l.edit.key == rec.Key() {
		l.edit = nil
	}
	return true
}
