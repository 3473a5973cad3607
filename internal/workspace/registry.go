// internal/workspace/registry.go
package workspace

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"formadmin.fr/internal/metrics"
)

// Registry хранит рабочие пространства по идентификатору из сессии
// и удаляет те, что простаивают дольше ttl.
type Registry struct {
	mu      sync.Mutex
	items   map[string]*Workspace
	ttl     time.Duration
	now     func() time.Time
	metrics *metrics.Metrics
}

func NewRegistry(ttl time.Duration, m *metrics.Metrics) *Registry {
	return &Registry{
		items:   make(map[string]*Workspace),
		ttl:     ttl,
		now:     time.Now,
		metrics: m,
	}
}

// Get возвращает пространство по id и отмечает обращение.
// Если id пуст или пространство уже удалено, создается новое.
func (r *Registry) Get(id string) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if id == "" {
		id = uuid.NewString()
	}
	w, ok := r.items[id]
	if !ok {
		w = New(id, now)
		r.items[id] = w
		r.metrics.SetWorkspaces(len(r.items))
		slog.Debug("Создано рабочее пространство", "workspace_id", id)
	}
	w.lastSeen = now
	return w
}

// Drop удаляет пространство; следующий Get создаст новое с пустыми списками.
func (r *Registry) Drop(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	r.metrics.SetWorkspaces(len(r.items))
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Sweep удаляет пространства, простаивающие дольше ttl, и возвращает их число.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.ttl)
	removed := 0
	for id, w := range r.items {
		if w.lastSeen.Before(cutoff) {
			delete(r.items, id)
			removed++
		}
	}
	r.metrics.SetWorkspaces(len(r.items))
	return removed
}

// Run периодически вызывает Sweep, пока не отменен ctx.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("Запущена очистка рабочих пространств", "interval", interval, "ttl", r.ttl)
	for {
		select {
		case <-ctx.Done():
			slog.Info("Очистка рабочих пространств остановлена")
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				slog.Info("Удалены неактивные рабочие пространства", "count", n)
			}
		}
	}
}
