package models

import (
	"testing"

	"formadmin.fr/internal/listing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ listing.Entity[Trainer]  = Trainer{}
	_ listing.Entity[Company]  = Company{}
	_ listing.Entity[Training] = Training{}
)

func TestCompany_MissingVilleIsAbsent(t *testing.T) {
	c := Company{Entreprises: "Acme"}

	_, ok := c.Field("ville")
	assert.False(t, ok)

	c.Ville = "Paris"
	v, ok := c.Field("ville")
	assert.True(t, ok)
	assert.Equal(t, "Paris", v)
}

func TestCompany_DraftIgnoresNonEditableFields(t *testing.T) {
	c := Company{ID: "k", Entreprises: "Acme", Ville: "Paris"}

	got := c.WithDraft(listing.Draft{"entreprises": "Acme SA", "ville": "Lyon"})

	assert.Equal(t, "Acme SA", got.Entreprises)
	assert.Equal(t, "Paris", got.Ville)
	assert.Equal(t, "k", got.Key())
}

func TestTrainer_FilteredByVilleAndEmail(t *testing.T) {
	records := []Trainer{
		{ID: "1", Name: "Léa Martin", Email: "lea@example.fr", Ville: "Nantes"},
		{ID: "2", Name: "Hugo Petit", Email: "hugo.martin@example.fr", Ville: "Lille"},
		{ID: "3", Name: "Chloé Roux", Email: "chloe@example.fr", Ville: "Nantes"},
	}

	got := listing.Filter(records, TrainerSchema, listing.Query{Text: "martin"})
	require.Len(t, got, 2)

	got = listing.Filter(records, TrainerSchema, listing.Query{Text: "martin", Category: "Nantes"})
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
}

func TestDateValue_Display(t *testing.T) {
	d := DateValue{Date: "2024-05-12 10:21:09.000000", TimezoneType: 3, Timezone: "UTC"}
	assert.Equal(t, "12/05/2024", d.Display())

	raw := DateValue{Date: "bientôt"}
	assert.Equal(t, "bientôt", raw.Display())

	_, ok := DateValue{}.Time()
	assert.False(t, ok)
}

func TestTraining_DateIsReadOnly(t *testing.T) {
	tr := Training{Name: "Go avancé", Date: DateValue{Date: "2024-05-12 10:21:09.000000"}}

	assert.False(t, TrainingSchema.IsEditable("date"))
	v, ok := tr.Field("date")
	assert.True(t, ok)
	assert.Equal(t, "12/05/2024", v)
}
