// internal/listing/entity.go
package listing

// Draft содержит редактируемые поля записи во время сессии редактирования.
type Draft map[string]string

// Clone возвращает независимую копию черновика.
func (d Draft) Clone() Draft {
	out := make(Draft, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Entity реализуется каждым типом записи, которым управляет List.
// Методы работают со значениями: запись никогда не меняется на месте,
// вместо этого возвращается обновленная копия.
type Entity[T any] interface {
	Key() string
	WithKey(key string) T
	// Field возвращает значение поля и false, если поле отсутствует или неизвестно.
	Field(name string) (string, bool)
	// WithDraft сливает черновик поверх записи и возвращает результат.
	WithDraft(d Draft) T
}

// Schema описывает, как List обращается с конкретным типом записи.
type Schema struct {
	Name           string
	SearchFields   []string
	CategoryField  string
	EditableFields []string
	PageSize       int
	ConfirmDelete  bool
}

// IsEditable сообщает, входит ли поле в список редактируемых.
func (s Schema) IsEditable(name string) bool {
	for _, f := range s.EditableFields {
		if f == name {
			return true
		}
	}
	return false
}
