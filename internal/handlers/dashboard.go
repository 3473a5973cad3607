// internal/handlers/dashboard.go
package handlers

import (
	"log/slog"
	"net/http"

	"formadmin.fr/internal/dashboard"
	"formadmin.fr/internal/middleware"
	"formadmin.fr/internal/periods"
)

type PeriodOption struct {
	Key      string
	Label    string
	Selected bool
}

type TabOption struct {
	Name     string
	Selected bool
}

type MonthOption struct {
	Label    string
	Selected bool
}

type CardView struct {
	Label       string
	Category    string
	Total       string
	Percent     string
	Positive    bool
	Month       string
	MonthChosen bool
	Months      []MonthOption
	IconClass   string
}

type PanelView struct {
	ID      string
	Title   string
	Tabs    []TabOption
	Tab     string
	Period  string
	Periods []PeriodOption
	Series  []periods.Share
	Empty   bool
}

// DashboardView - данные шаблона pages/dashboard.html.
type DashboardView struct {
	StatPeriod  string
	StatPeriods []PeriodOption
	Cards       []CardView
	Panels      []PanelView
	SourceError bool
}

func periodOptions(selected periods.Key) []PeriodOption {
	keys := periods.Keys()
	out := make([]PeriodOption, 0, len(keys))
	for _, k := range keys {
		out = append(out, PeriodOption{Key: string(k), Label: periods.DisplayLabel(k), Selected: k == selected})
	}
	return out
}

// applySelection переносит параметры запроса в состояние главной страницы.
// Неизвестные значения игнорируются, выбор остается прежним.
func applySelection(state *dashboard.State, r *http.Request) {
	q := r.URL.Query()

	if p := q.Get("stat_period"); p != "" {
		if err := state.SelectStatPeriod(p); err != nil {
			slog.Debug("Период карточек не изменен", "value", p, "error", err)
		}
	}
	// Пустой месяц возвращает карточку к итогу периода.
	if card := q.Get("card"); card != "" {
		state.SelectMonth(card, q.Get("month"))
	}

	panel := dashboard.Panel(q.Get("panel"))
	if panel == "" {
		return
	}
	current := state.Selection(panel)
	tab := q.Get("tab")
	if tab == "" {
		tab = current.Tab
	}
	period := q.Get("period")
	if period == "" {
		period = string(current.Period)
	}
	if err := state.Select(panel, tab, period); err != nil {
		slog.Debug("Выбор панели не изменен", "panel", panel, "tab", tab, "period", period, "error", err)
	}
}

func buildDashboardView(state *dashboard.State, h *AppHandlers) *DashboardView {
	view := &DashboardView{
		StatPeriod:  string(state.StatPeriod()),
		StatPeriods: periodOptions(state.StatPeriod()),
	}

	for _, c := range state.Cards(h.Now()) {
		cv := CardView{
			Label:    c.Label,
			Category: c.Category,
			Total:    formatTotal(c.Current.Total),
			Percent:  c.Current.SignedPercent(),
			Positive: c.Current.Positive(),
			Month:    c.Current.Label,
		}
		cv.MonthChosen = c.MonthChosen
		if cv.Positive {
			cv.IconClass = "trend-up"
		} else {
			cv.IconClass = "trend-down"
		}
		for _, m := range c.Months {
			cv.Months = append(cv.Months, MonthOption{Label: m.Label, Selected: c.MonthChosen && m.Label == c.Current.Label})
		}
		view.Cards = append(view.Cards, cv)
	}

	for _, p := range dashboard.Panels() {
		sel := state.Selection(p)
		pv := PanelView{
			ID:      string(p),
			Title:   p.Title(),
			Tab:     sel.Tab,
			Period:  string(sel.Period),
			Periods: periodOptions(sel.Period),
			Series:  state.Series(p),
		}
		for _, t := range dashboard.Tabs(p) {
			pv.Tabs = append(pv.Tabs, TabOption{Name: t, Selected: t == sel.Tab})
		}
		pv.Empty = len(pv.Series) == 0
		view.Panels = append(view.Panels, pv)
	}
	return view
}

// Dashboard - главная страница: карточки статистики и две диаграммы.
func (h *AppHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	ws, ok := middleware.WorkspaceFromContext(r.Context())
	if !ok {
		http.Error(w, "Erreur interne du serveur", http.StatusInternalServerError)
		return
	}

	ws.Lock()
	applySelection(ws.Dashboard, r)
	ws.Unlock()

	fresh, err := ws.RefreshDashboard(r.Context(), h.Source)
	if err != nil {
		slog.Error("Не удалось загрузить данные главной страницы", "workspace_id", ws.ID, "error", err)
	} else if !fresh {
		slog.Info("Устаревший ответ источника отброшен", "workspace_id", ws.ID)
		h.Metrics.StaleResponse("dashboard")
	}

	data := h.NewPageData(r)
	data.PageTitle = "Aperçu"

	ws.Lock()
	data.Dashboard = buildDashboardView(ws.Dashboard, h)
	ws.Unlock()
	data.Dashboard.SourceError = err != nil

	h.RenderPage(w, r, "dashboard.html", data)
}
