// internal/middleware/workspace.go
package middleware

import (
	"context"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"formadmin.fr/internal/workspace"
)

type contextKey string

// WorkspaceSessionKey - ключ идентификатора рабочего пространства в сессии.
const WorkspaceSessionKey = "workspace_id"

const workspaceContextKey contextKey = "workspace"

// InjectWorkspace находит рабочее пространство сессии (или создает новое)
// и кладет его в контекст запроса. Должен стоять внутри sessionManager.LoadAndSave.
func InjectWorkspace(sessionManager *scs.SessionManager, registry *workspace.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			id := sessionManager.GetString(ctx, WorkspaceSessionKey)
			ws := registry.Get(id)
			if ws.ID != id {
				sessionManager.Put(ctx, WorkspaceSessionKey, ws.ID)
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, workspaceContextKey, ws)))
		})
	}
}

// WorkspaceFromContext возвращает пространство, положенное InjectWorkspace.
func WorkspaceFromContext(ctx context.Context) (*workspace.Workspace, bool) {
	ws, ok := ctx.Value(workspaceContextKey).(*workspace.Workspace)
	return ws, ok && ws != nil
}
