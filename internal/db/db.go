// internal/db/db.go
package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"formadmin.fr/internal/config"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Open подключается к MySQL/MariaDB и применяет миграции.
// Используется только для хранения HTTP-сессий.
func Open(ctx context.Context, dbCfg config.DatabaseConfig) (*sql.DB, error) {
	dsn := withMultiStatements(dbCfg.DSN())
	parsed, err := mysqldriver.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("некорректный DSN MariaDB: %w", err)
	}
	parsed.ParseTime = true
	safeDSN := maskDSN(parsed)
	slog.Info("Подключение к MariaDB", "dsn_for_connection", safeDSN)

	conn, err := sql.Open("mysql", parsed.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия соединения с MariaDB: %w", err)
	}

	conn.SetConnMaxLifetime(time.Minute * 3)
	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(10)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err = conn.PingContext(pingCtx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ошибка подключения к MariaDB (ping failed): %w. DSN: %s", err, safeDSN)
	}
	slog.Info("Успешное подключение к MariaDB.")

	if err = RunMigrations(conn, parsed.DBName); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ошибка выполнения миграций MariaDB: %w", err)
	}
	return conn, nil
}

func RunMigrations(dbConn *sql.DB, dbName string) error {
	driverInstance, err := mysql.WithInstance(dbConn, &mysql.Config{
		DatabaseName: dbName,
	})
	if err != nil {
		return fmt.Errorf("не удалось создать драйвер миграций mysql: %w", err)
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("не удалось открыть встроенные миграции: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "mysql", driverInstance)
	if err != nil {
		return fmt.Errorf("ошибка создания экземпляра migrate: %w", err)
	}

	slog.Info("Применение миграций MariaDB...")
	err = m.Up()

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		version, dirty, verr := m.Version()
		if verr != nil {
			slog.Error("Ошибка получения статуса миграции после неудачного Up", "migration_error", err, "status_error", verr)
		} else {
			slog.Error("Ошибка применения миграций.", "current_version", version, "dirty_state", dirty, "error_up", err)
		}
		return fmt.Errorf("ошибка применения миграций MariaDB: %w", err)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		slog.Info("Миграции MariaDB: нет изменений.")
	} else {
		slog.Info("Миграции MariaDB успешно применены.")
	}
	return nil
}

func withMultiStatements(dsn string) string {
	if strings.Contains(dsn, "multiStatements=true") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&multiStatements=true"
	}
	return dsn + "?multiStatements=true"
}

// maskDSN скрывает пароль для логов.
func maskDSN(c *mysqldriver.Config) string {
	masked := *c
	if masked.Passwd != "" {
		masked.Passwd = "****"
	}
	return masked.FormatDSN()
}
