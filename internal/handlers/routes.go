// internal/handlers/routes.go
package handlers

import "net/http"

// Routes регистрирует страницы администратора. Рабочее пространство сессии
// должно быть уже в контексте (middleware.InjectWorkspace).
func Routes(h *AppHandlers) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.Dashboard)
	mux.HandleFunc("GET /api/dashboard/chart", h.ChartAPI)

	trainerPage(h).register(mux, true)
	companyPage(h).register(mux, false)
	trainingPage(h).register(mux, false)

	return mux
}
