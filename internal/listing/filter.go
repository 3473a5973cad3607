// internal/listing/filter.go
package listing

import (
	"strings"

	"golang.org/x/text/cases"
)

// AllCategories - значение селектора, отключающее фильтр по категории.
const AllCategories = "all"

// Query - текущие параметры поиска списка.
type Query struct {
	Text     string
	Category string
}

// categoryActive сообщает, задан ли фильтр по категории.
func (q Query) categoryActive() bool {
	return q.Category != "" && q.Category != AllCategories
}

// Filter возвращает записи, у которых хотя бы одно поле поиска содержит текст запроса
// (с приведением регистра по Unicode) и, если выбран фильтр, поле категории совпадает точно.
// Исходный срез не изменяется, порядок записей сохраняется.
func Filter[T Entity[T]](records []T, schema Schema, q Query) []T {
	fold := cases.Fold()
	needle := fold.String(q.Text)
	out := make([]T, 0, len(records))
	for _, rec := range records {
		if !matchesText(rec, schema.SearchFields, needle, fold) {
			continue
		}
		if q.categoryActive() {
			v, ok := rec.Field(schema.CategoryField)
			if !ok || v != q.Category {
				continue
			}
		}
		out = append(out, rec)
	}
	return out
}

func matchesText[T Entity[T]](rec T, fields []string, needle string, fold cases.Caser) bool {
	if needle == "" {
		return true
	}
	for _, name := range fields {
		v, ok := rec.Field(name)
		if !ok {
			continue
		}
		if strings.Contains(fold.String(v), needle) {
			return true
		}
	}
	return false
}

// Categories возвращает "all" и затем уникальные значения поля категории
// в порядке первого появления. Пустые значения пропускаются.
func Categories[T Entity[T]](records []T, field string) []string {
	out := []string{AllCategories}
	if field == "" {
		return out
	}
	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		v, ok := rec.Field(field)
		if !ok || v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
