// cmd/server/main.go
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs/mysqlstore"
	"github.com/alexedwards/scs/v2"

	"formadmin.fr/internal/config"
	"formadmin.fr/internal/db"
	"formadmin.fr/internal/handlers"
	"formadmin.fr/internal/metrics"
	"formadmin.fr/internal/middleware"
	"formadmin.fr/internal/source"
	"formadmin.fr/internal/workspace"
	"formadmin.fr/web"
)

func main() {
	configPath := "configs/config.yaml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Критическая ошибка: не удалось загрузить конфигурацию: %v\n", err)
		os.Exit(1)
	}

	config.InitLogger(cfg.AppEnv)
	slog.Info("Запуск сервера Formadmin...", "app_env", cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	sessionManager := scs.New()
	sessionManager.Lifetime = time.Duration(cfg.Session.LifetimeHours) * time.Hour
	sessionManager.Cookie.Name = cfg.Session.CookieName
	sessionManager.Cookie.HttpOnly = true
	sessionManager.Cookie.Persist = true
	sessionManager.Cookie.SameSite = http.SameSiteLaxMode
	sessionManager.Cookie.Secure = cfg.IsProduction()
	sessionManager.Cookie.Path = "/"

	storeName := "memstore"
	var dbConn *sql.DB
	if cfg.Database.Enabled() {
		dbConn, err = db.Open(ctx, cfg.Database)
		if err != nil {
			slog.Error("Критическая ошибка: не удалось инициализировать базу данных", "error", err)
			os.Exit(1)
		}
		defer dbConn.Close()
		// Очистка просроченных сессий выполняется нашим планировщиком, а не горутиной хранилища.
		sessionManager.Store = mysqlstore.NewWithCleanupInterval(dbConn, 0)
		storeName = "mysqlstore"
		go db.RunSessionCleanup(ctx, dbConn, 30*time.Minute)
	} else {
		slog.Warn("База данных не настроена, сессии хранятся в памяти процесса")
	}
	slog.Info("Менеджер сессий инициализирован", "store", storeName, "lifetime", sessionManager.Lifetime, "secure_cookie", sessionManager.Cookie.Secure)

	src := source.NewClient(cfg.Sources, m)

	registry := workspace.NewRegistry(cfg.WorkspaceTTL(), m)
	go registry.Run(ctx, cfg.SweepInterval())

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	go limiter.Run(ctx, time.Minute)

	appHandlers, err := handlers.NewAppHandlers(cfg, web.Templates(), sessionManager, registry, src, m)
	if err != nil {
		slog.Error("Критическая ошибка: не удалось инициализировать обработчики страниц", "error", err)
		os.Exit(1)
	}

	// Страницы: сессия -> лимит запросов -> CSRF -> рабочее пространство сессии.
	pages := sessionManager.LoadAndSave(
		limiter.Middleware(
			middleware.NoSurfMiddleware(
				middleware.InjectWorkspace(sessionManager, registry)(handlers.Routes(appHandlers)),
				cfg.IsProduction(),
			),
		),
	)

	topLevelMux := http.NewServeMux()
	topLevelMux.Handle("/static/", http.StripPrefix("/static/", http.FileServerFS(web.Static())))
	topLevelMux.Handle("GET /metrics", m.Handler())
	topLevelMux.HandleFunc("GET /healthz", handlers.HealthHandler)
	topLevelMux.Handle("/", pages)

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      topLevelMux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Сервер Formadmin запущен и слушает", "address", cfg.BaseURL)
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err = <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Критическая ошибка: не удалось запустить HTTP-сервер", "address", addr, "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		slog.Info("Получен сигнал остановки, завершаем работу")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Ошибка при остановке HTTP-сервера", "error", err)
	}
	slog.Info("Сервер остановлен")
}
