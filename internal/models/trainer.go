// internal/models/trainer.go
package models

import "formadmin.fr/internal/listing"

// Trainer - преподаватель (formateur) из списка /formateurs.
type Trainer struct {
	ID    string `json:"key"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
	Ville string `json:"ville"`
	Img   string `json:"img"`
}

// TrainerSchema: поиск по имени или email, фильтр по городу, удаление с подтверждением.
var TrainerSchema = listing.Schema{
	Name:           "formateurs",
	SearchFields:   []string{"name", "email"},
	CategoryField:  "ville",
	EditableFields: []string{"name", "phone", "email", "ville"},
	PageSize:       5,
	ConfirmDelete:  true,
}

func (t Trainer) Key() string { return t.ID }

func (t Trainer) WithKey(key string) Trainer {
	t.ID = key
	return t
}

func (t Trainer) Field(name string) (string, bool) {
	switch name {
	case "name":
		return t.Name, true
	case "phone":
		return t.Phone, true
	case "email":
		return t.Email, true
	case "ville":
		return t.Ville, t.Ville != ""
	case "img":
		return t.Img, t.Img != ""
	}
	return "", false
}

func (t Trainer) WithDraft(d listing.Draft) Trainer {
	if v, ok := d["name"]; ok {
		t.Name = v
	}
	if v, ok := d["phone"]; ok {
		t.Phone = v
	}
	if v, ok := d["email"]; ok {
		t.Email = v
	}
	if v, ok := d["ville"]; ok {
		t.Ville = v
	}
	return t
}
