// internal/dashboard/defaults.go
package dashboard

import "formadmin.fr/internal/periods"

// Panel - диаграмма на главной странице.
type Panel string

const (
	Analytics   Panel = "analytics"
	Negotiation Panel = "negotiation"
)

var panelTabs = map[Panel][]string{
	Analytics:   {"Formateurs", "Entreprises", "Formations"},
	Negotiation: {"Négociations", "Missions"},
}

// Panels в порядке отображения.
func Panels() []Panel { return []Panel{Negotiation, Analytics} }

// Tabs возвращает вкладки панели; для неизвестной панели nil.
func Tabs(p Panel) []string {
	return append([]string(nil), panelTabs[p]...)
}

func (p Panel) Title() string {
	if p == Negotiation {
		return "Négociations & missions"
	}
	return "Analytique"
}

func (p Panel) hasTab(tab string) bool {
	for _, t := range panelTabs[p] {
		if t == tab {
			return true
		}
	}
	return false
}

// Card - карточка статистики. Category совпадает с ключом в StatTable.
type Card struct {
	Label    string
	Category string
}

var cards = []Card{
	{Label: "Formateur", Category: "Formateurs"},
	{Label: "Entreprises", Category: "Entreprises"},
	{Label: "Formations", Category: "Formations"},
}

func Cards() []Card { return append([]Card(nil), cards...) }

// DefaultCharts - встроенные данные диаграмм, одинаковые для всех периодов.
// Используются, когда адрес json-server не настроен.
func DefaultCharts() periods.ChartTable {
	analytics := map[string][]periods.Point{
		"Formateurs": {
			{Label: "Dossier en attente", Value: 20},
			{Label: "Inscrits", Value: 50},
			{Label: "Refusés", Value: 30},
		},
		"Entreprises": {
			{Label: "Dossier en attente", Value: 15},
			{Label: "Inscrits", Value: 60},
			{Label: "Refusés", Value: 25},
		},
		"Formations": {
			{Label: "Dossier en attente", Value: 10},
			{Label: "Inscrits", Value: 70},
			{Label: "Refusés", Value: 20},
		},
	}
	negotiation := map[string][]periods.Point{
		"Négociations": {
			{Label: "En attente du traitement", Value: 25},
			{Label: "En cours", Value: 45},
			{Label: "Échoués", Value: 30},
		},
		"Missions": {
			{Label: "En attente du traitement", Value: 20},
			{Label: "En cours", Value: 50},
			{Label: "Échoués", Value: 30},
		},
	}

	out := periods.ChartTable{}
	for _, src := range []map[string][]periods.Point{analytics, negotiation} {
		for category, points := range src {
			byPeriod := make(map[periods.Key][]periods.Point, 4)
			for _, k := range periods.Keys() {
				byPeriod[k] = append([]periods.Point(nil), points...)
			}
			out[category] = byPeriod
		}
	}
	return out
}

// DefaultStats - встроенные итоги карточек.
func DefaultStats() periods.StatTable {
	base := map[string]periods.Stat{
		"Formateurs":  {Total: 15000, Percent: 11.05},
		"Entreprises": {Total: 13452, Percent: 11.05},
		"Formations":  {Total: 13452, Percent: 11.05},
	}
	out := periods.StatTable{}
	for category, stat := range base {
		byPeriod := make(map[periods.Key]periods.Stat, 4)
		for _, k := range periods.Keys() {
			byPeriod[k] = stat
		}
		out[category] = byPeriod
	}
	return out
}
