package validation

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseListParams_Defaults(t *testing.T) {
	p, errs := ParseListParams(url.Values{})
	assert.Nil(t, errs)
	assert.Equal(t, ListParams{Page: 1}, p)
}

func TestParseListParams_Values(t *testing.T) {
	p, errs := ParseListParams(url.Values{"q": {"  acme "}, "ville": {"Lyon"}, "page": {"3"}})
	assert.Nil(t, errs)
	assert.Equal(t, "acme", p.Query)
	assert.Equal(t, "Lyon", p.Category)
	assert.Equal(t, 3, p.Page)
}

func TestParseListParams_InvalidFallsBack(t *testing.T) {
	p, errs := ParseListParams(url.Values{"page": {"abc"}})
	require.NotNil(t, errs)
	assert.Contains(t, errs, "page")
	assert.Equal(t, 1, p.Page)

	p, errs = ParseListParams(url.Values{"page": {"-4"}, "q": {strings.Repeat("x", 101)}})
	require.NotNil(t, errs)
	assert.Contains(t, errs, "page")
	assert.Contains(t, errs, "q")
	assert.Equal(t, 1, p.Page)
	assert.Empty(t, p.Query)
}

func TestChartParams(t *testing.T) {
	ok := ChartParams{Panel: "analytics", Tab: "Formateurs", Period: "mois dernier"}
	assert.Nil(t, ValidateStruct(ok))

	byKey := ChartParams{Panel: "negotiation", Tab: "Missions", Period: "cetteannee"}
	assert.Nil(t, ValidateStruct(byKey))

	bad := ChartParams{Panel: "autre", Tab: "", Period: "demain"}
	errs := ValidateStruct(bad)
	require.NotNil(t, errs)
	assert.Equal(t, "Неизвестный период.", errs.Get("period"))
	assert.Contains(t, errs.Get("panel"), "analytics negotiation")
	assert.Equal(t, "Это поле обязательно для заполнения.", errs.Get("tab"))
}

func TestStructError_UsesYamlNames(t *testing.T) {
	type sources struct {
		TrainersURL string `yaml:"trainers_url" validate:"required,url"`
	}
	err := StructError(sources{TrainersURL: "pas une url"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trainers_url")

	assert.NoError(t, StructError(sources{TrainersURL: "https://randomuser.me/api/?results=30"}))
}
