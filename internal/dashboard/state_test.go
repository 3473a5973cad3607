package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formadmin.fr/internal/periods"
)

func TestNewState_Defaults(t *testing.T) {
	s := NewState()

	assert.Equal(t, Selection{Tab: "Formateurs", Period: periods.CurrentMonth}, s.Selection(Analytics))
	assert.Equal(t, Selection{Tab: "Négociations", Period: periods.CurrentMonth}, s.Selection(Negotiation))
	assert.Equal(t, periods.CurrentMonth, s.StatPeriod())

	series := s.Series(Analytics)
	require.Len(t, series, 3)
	assert.Equal(t, "Dossier en attente", series[0].Label)
	assert.Equal(t, 20.0, series[0].Percent)
}

func TestSelect(t *testing.T) {
	s := NewState()

	require.NoError(t, s.Select(Negotiation, "Missions", "mois dernier"))
	assert.Equal(t, Selection{Tab: "Missions", Period: periods.PreviousMonth}, s.Selection(Negotiation))
	assert.Equal(t, float64(50), s.Series(Negotiation)[1].Value)

	require.NoError(t, s.Select(Analytics, "Formations", "anneederniere"))
	assert.Equal(t, periods.PreviousYear, s.Selection(Analytics).Period)

	assert.ErrorIs(t, s.Select("autre", "Missions", "cemois"), ErrUnknownPanel)
	assert.ErrorIs(t, s.Select(Analytics, "Missions", "cemois"), ErrUnknownTab)
	assert.ErrorIs(t, s.Select(Analytics, "Formateurs", "demain"), ErrUnknownPeriod)
	assert.Equal(t, "Formations", s.Selection(Analytics).Tab)
}

func TestApply_DropsStaleResponses(t *testing.T) {
	s := NewState()

	first := s.Begin()
	second := s.Begin()

	newer := periods.ChartTable{"Formateurs": {periods.CurrentMonth: {{Label: "B", Value: 1}}}}
	older := periods.ChartTable{"Formateurs": {periods.CurrentMonth: {{Label: "A", Value: 1}}}}

	assert.True(t, s.Apply(second, Tables{Charts: newer}))
	assert.False(t, s.Apply(first, Tables{Charts: older}))

	series := s.Series(Analytics)
	require.Len(t, series, 1)
	assert.Equal(t, "B", series[0].Label)
}

func TestApply_OutOfOrderOlderArrivesFirst(t *testing.T) {
	s := NewState()

	first := s.Begin()
	second := s.Begin()

	assert.False(t, s.Apply(first, Tables{Charts: periods.ChartTable{}}))
	assert.Len(t, s.Series(Analytics), 3)

	assert.True(t, s.Apply(second, Tables{Stats: periods.StatTable{}}))
	assert.False(t, s.Apply(second, Tables{Stats: DefaultStats()}))
	assert.Len(t, s.Series(Analytics), 3)
	assert.Equal(t, periods.Stat{}, s.Cards(time.Now())[0].Current.Stat)
}

func TestMissingPeriodGivesEmptySeries(t *testing.T) {
	s := NewState()
	tok := s.Begin()
	require.True(t, s.Apply(tok, Tables{Charts: periods.ChartTable{
		"Formateurs": {periods.CurrentYear: {{Label: "Inscrits", Value: 3}}},
	}}))

	assert.Empty(t, s.Series(Analytics))
	require.NoError(t, s.Select(Analytics, "Formateurs", "cette année"))
	assert.Len(t, s.Series(Analytics), 1)
	require.NoError(t, s.Select(Analytics, "Entreprises", "cette année"))
	assert.Empty(t, s.Series(Analytics))
}

func TestCards(t *testing.T) {
	s := NewState()
	now := time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC)

	views := s.Cards(now)
	require.Len(t, views, 3)
	assert.Equal(t, "Formateur", views[0].Label)
	assert.Len(t, views[0].Months, TrendMonths)
	assert.Equal(t, periods.Stat{Total: 15000, Percent: 11.05}, views[0].Current.Stat)
	assert.Equal(t, "octobre 2026", views[0].Current.Label)
	assert.False(t, views[0].MonthChosen)

	s.SelectMonth("Formateurs", "septembre 2026")
	views = s.Cards(now)
	assert.Equal(t, periods.Stat{Total: 14250, Percent: 9}, views[0].Current.Stat)
	assert.True(t, views[0].MonthChosen)
	assert.False(t, views[1].MonthChosen)

	s.SelectMonth("Entreprises", "février 1999")
	views = s.Cards(now)
	assert.False(t, views[1].MonthChosen)
	assert.Equal(t, float64(13452), views[1].Current.Total)

	require.NoError(t, s.SelectStatPeriod("cetteannee"))
	assert.Equal(t, periods.CurrentYear, s.StatPeriod())
	assert.ErrorIs(t, s.SelectStatPeriod("???"), ErrUnknownPeriod)
}

func TestTabs(t *testing.T) {
	assert.Equal(t, []string{"Formateurs", "Entreprises", "Formations"}, Tabs(Analytics))
	assert.Equal(t, []string{"Négociations", "Missions"}, Tabs(Negotiation))
	assert.Nil(t, Tabs("autre"))
	assert.Len(t, Cards(), 3)
}
