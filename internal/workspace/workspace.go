// internal/workspace/workspace.go
package workspace

import (
	"context"
	"sync"
	"time"

	"formadmin.fr/internal/dashboard"
	"formadmin.fr/internal/models"
	"formadmin.fr/internal/periods"
)

// Fetcher - источник записей и таблиц графиков.
type Fetcher interface {
	Trainers(ctx context.Context) ([]models.Trainer, error)
	Companies(ctx context.Context) ([]models.Company, error)
	Trainings(ctx context.Context) ([]models.Training, error)
	ChartTable(ctx context.Context) (periods.ChartTable, bool, error)
	StatTable(ctx context.Context) (periods.StatTable, bool, error)
}

// Workspace - состояние одной сессии администратора: три списка и главная страница.
// Все обращения к полям выполняются под мьютексом.
type Workspace struct {
	sync.Mutex

	ID        string
	Trainers  *Slot[models.Trainer]
	Companies *Slot[models.Company]
	Trainings *Slot[models.Training]
	Dashboard *dashboard.State

	lastSeen time.Time
}

func New(id string, now time.Time) *Workspace {
	return &Workspace{
		ID:        id,
		Trainers:  NewSlot[models.Trainer](models.TrainerSchema),
		Companies: NewSlot[models.Company](models.CompanySchema),
		Trainings: NewSlot[models.Training](models.TrainingSchema),
		Dashboard: dashboard.NewState(),
		lastSeen:  now,
	}
}

// RefreshDashboard загружает таблицы графиков и карточек через генерационный номер.
// Мьютекс не удерживается во время запроса. Возвращает false, если ответ устарел.
func (w *Workspace) RefreshDashboard(ctx context.Context, f Fetcher) (bool, error) {
	w.Lock()
	token := w.Dashboard.Begin()
	w.Unlock()

	var tables dashboard.Tables
	charts, configured, err := f.ChartTable(ctx)
	if err != nil {
		return false, err
	}
	if configured {
		tables.Charts = charts
	}
	stats, configured, err := f.StatTable(ctx)
	if err != nil {
		return false, err
	}
	if configured {
		tables.Stats = stats
	}

	w.Lock()
	defer w.Unlock()
	return w.Dashboard.Apply(token, tables), nil
}
