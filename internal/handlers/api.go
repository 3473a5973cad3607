// internal/handlers/api.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"formadmin.fr/internal/dashboard"
	"formadmin.fr/internal/middleware"
	"formadmin.fr/internal/periods"
	"formadmin.fr/internal/validation"
)

type chartSegment struct {
	Name    string  `json:"name"`
	Value   float64 `json:"value"`
	Percent float64 `json:"percent"`
}

type chartResponse struct {
	Panel   string         `json:"panel"`
	Tab     string         `json:"tab"`
	Period  string         `json:"period"`
	Label   string         `json:"label"`
	Display string         `json:"display"`
	Series  []chartSegment `json:"series"`
	Stale   bool           `json:"stale"`
}

type apiError struct {
	Error  string     `json:"error"`
	Fields url.Values `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Ошибка кодирования JSON ответа", "error", err)
	}
}

// ChartAPI переключает вкладку и период панели и возвращает сегменты диаграммы.
// GET /api/dashboard/chart?panel=analytics&tab=Formateurs&period=mois+dernier
func (h *AppHandlers) ChartAPI(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := validation.ChartParams{
		Panel:  strings.TrimSpace(q.Get("panel")),
		Tab:    strings.TrimSpace(q.Get("tab")),
		Period: strings.TrimSpace(q.Get("period")),
	}
	if errs := validation.ValidateStruct(params); errs != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "Paramètres invalides", Fields: errs})
		return
	}

	ws, ok := middleware.WorkspaceFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "Erreur interne du serveur"})
		return
	}

	panel := dashboard.Panel(params.Panel)
	ws.Lock()
	err := ws.Dashboard.Select(panel, params.Tab, params.Period)
	ws.Unlock()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "Onglet inconnu pour ce graphique"})
		return
	}

	fresh, ferr := ws.RefreshDashboard(r.Context(), h.Source)
	if ferr != nil {
		slog.Error("Не удалось обновить данные диаграммы", "panel", panel, "error", ferr)
	} else if !fresh {
		h.Metrics.StaleResponse(params.Panel)
	}

	ws.Lock()
	sel := ws.Dashboard.Selection(panel)
	shares := ws.Dashboard.Series(panel)
	ws.Unlock()

	label, _ := periods.KeyToLabel(sel.Period)
	resp := chartResponse{
		Panel:   params.Panel,
		Tab:     sel.Tab,
		Period:  string(sel.Period),
		Label:   label,
		Display: periods.DisplayLabel(sel.Period),
		Series:  make([]chartSegment, 0, len(shares)),
		Stale:   ferr == nil && !fresh,
	}
	for _, s := range shares {
		resp.Series = append(resp.Series, chartSegment{Name: s.Label, Value: s.Value, Percent: s.Percent})
	}
	writeJSON(w, http.StatusOK, resp)
}
