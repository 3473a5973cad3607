// internal/models/training.go
package models

import (
	"strings"
	"time"

	"formadmin.fr/internal/listing"
)

// DateValue - обертка даты в формате генератора:
// {"date": "2024-05-12 10:21:09.000000", "timezone_type": 3, "timezone": "UTC"}.
type DateValue struct {
	Date         string `json:"date"`
	TimezoneType int    `json:"timezone_type"`
	Timezone     string `json:"timezone"`
}

const dateLayout = "2006-01-02 15:04:05.000000"

// Time разбирает дату с учетом часового пояса. Нераспознанная дата дает нулевое время.
func (d DateValue) Time() (time.Time, bool) {
	if d.Date == "" {
		return time.Time{}, false
	}
	loc := time.UTC
	if d.Timezone != "" {
		if l, err := time.LoadLocation(d.Timezone); err == nil {
			loc = l
		}
	}
	t, err := time.ParseInLocation(dateLayout, d.Date, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Display форматирует дату как dd/mm/yyyy, иначе возвращает исходную строку.
func (d DateValue) Display() string {
	if t, ok := d.Time(); ok {
		return t.Format("02/01/2006")
	}
	return strings.TrimSpace(d.Date)
}

// Training - formation.
type Training struct {
	ID    string    `json:"key"`
	Name  string    `json:"name"`
	Phone string    `json:"phone"`
	Web   string    `json:"web"`
	Date  DateValue `json:"date"`
}

var TrainingSchema = listing.Schema{
	Name:           "formations",
	SearchFields:   []string{"name"},
	EditableFields: []string{"name", "phone", "web"},
	PageSize:       10,
}

func (t Training) Key() string { return t.ID }

func (t Training) WithKey(key string) Training {
	t.ID = key
	return t
}

func (t Training) Field(name string) (string, bool) {
	switch name {
	case "name":
		return t.Name, true
	case "phone":
		return t.Phone, true
	case "web":
		return t.Web, true
	case "date":
		return t.Date.Display(), t.Date.Date != ""
	}
	return "", false
}

func (t Training) WithDraft(d listing.Draft) Training {
	if v, ok := d["name"]; ok {
		t.Name = v
	}
	if v, ok := d["phone"]; ok {
		t.Phone = v
	}
	if v, ok := d["web"]; ok {
		t.Web = v
	}
	return t
}
