// internal/models/company.go
package models

import "formadmin.fr/internal/listing"

// Company - entreprise. Поле Ville в ответе генератора обычно отсутствует.
type Company struct {
	ID          string `json:"key"`
	Entreprises string `json:"entreprises"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Web         string `json:"web"`
	Ville       string `json:"ville,omitempty"`
}

var CompanySchema = listing.Schema{
	Name:           "entreprises",
	SearchFields:   []string{"entreprises", "ville"},
	EditableFields: []string{"entreprises", "phone", "email", "web"},
	PageSize:       10,
}

func (c Company) Key() string { return c.ID }

func (c Company) WithKey(key string) Company {
	c.ID = key
	return c
}

func (c Company) Field(name string) (string, bool) {
	switch name {
	case "entreprises":
		return c.Entreprises, true
	case "phone":
		return c.Phone, true
	case "email":
		return c.Email, true
	case "web":
		return c.Web, true
	case "ville":
		return c.Ville, c.Ville != ""
	}
	return "", false
}

func (c Company) WithDraft(d listing.Draft) Company {
	if v, ok := d["entreprises"]; ok {
		c.Entreprises = v
	}
	if v, ok := d["phone"]; ok {
		c.Phone = v
	}
	if v, ok := d["email"]; ok {
		c.Email = v
	}
	if v, ok := d["web"]; ok {
		c.Web = v
	}
	return c
}
