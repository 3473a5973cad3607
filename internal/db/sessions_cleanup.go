// internal/db/sessions_cleanup.go
package db

import (
	"context"
	"database/sql"
	"log/slog"
	"time"
)

// CleanupExpiredSessions удаляет просроченные сессии и возвращает их число.
func CleanupExpiredSessions(ctx context.Context, conn *sql.DB) (int64, error) {
	res, err := conn.ExecContext(ctx, `DELETE FROM sessions WHERE expiry < UTC_TIMESTAMP(6)`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// RunSessionCleanup периодически чистит таблицу sessions, пока не отменен ctx.
// mysqlstore создается без собственной очистки, см. cmd/server.
func RunSessionCleanup(ctx context.Context, conn *sql.DB, interval time.Duration) {
	slog.Info("Планировщик очистки сессий запущен", "interval", interval.String())
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			slog.Info("Планировщик очистки сессий остановлен")
			return
		case <-ticker.C:
			n, err := CleanupExpiredSessions(ctx, conn)
			if err != nil {
				slog.Error("Ошибка очистки просроченных сессий", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("Очищены просроченные сессии", "count", n)
			}
		}
	}
}
