// internal/middleware/csrf.go
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/justinas/nosurf"
)

// NoSurfMiddleware обеспечивает CSRF-защиту форм редактирования, удаления и перезагрузки.
// isProduction: true для production окружения (Secure cookie).
// exemptPaths не проверяются (метрики, healthz).
func NoSurfMiddleware(next http.Handler, isProduction bool, exemptPaths ...string) http.Handler {
	csrfHandler := nosurf.New(next)
	csrfHandler.ExemptPaths(exemptPaths...)

	csrfHandler.SetBaseCookie(http.Cookie{
		HttpOnly: true,
		Path:     "/",
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
	})

	csrfHandler.SetFailureHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slog.Warn("Неудачная проверка CSRF токена", "path", r.URL.Path, "method", r.Method, "reason", nosurf.Reason(r))
		http.Error(w, "Erreur de sécurité : jeton CSRF invalide ou manquant.", http.StatusForbidden)
	}))

	return csrfHandler
}
