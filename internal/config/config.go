// internal/config/config.go
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"formadmin.fr/internal/validation"
)

// SourcesConfig - адреса тестовых API, из которых загружаются списки и графики.
// Пустые charts_url/stats_url означают встроенные статические данные.
type SourcesConfig struct {
	TrainersURL           string  `yaml:"trainers_url" validate:"required,url"`
	CompaniesURL          string  `yaml:"companies_url" validate:"required,url"`
	TrainingsURL          string  `yaml:"trainings_url" validate:"required,url"`
	ChartsURL             string  `yaml:"charts_url" validate:"omitempty,url"`
	StatsURL              string  `yaml:"stats_url" validate:"omitempty,url"`
	RequestTimeoutSeconds int     `yaml:"request_timeout_seconds" validate:"gt=0"`
	RequestsPerSecond     float64 `yaml:"requests_per_second" validate:"gt=0"`
	Burst                 int     `yaml:"burst" validate:"gt=0"`
}

type DatabaseConfig struct {
	Path     string `yaml:"path"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
}

// Enabled: без DSN и без хоста сессии хранятся в памяти.
func (d DatabaseConfig) Enabled() bool {
	return d.Path != "" || d.Host != ""
}

// DSN собирает строку подключения для go-sql-driver/mysql.
func (d DatabaseConfig) DSN() string {
	if d.Path != "" {
		return d.Path
	}
	port := d.Port
	if port == 0 {
		port = 3306
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&multiStatements=true", d.User, d.Password, d.Host, port, d.DBName)
}

type SessionConfig struct {
	CookieName    string `yaml:"cookie_name" validate:"required"`
	LifetimeHours int    `yaml:"lifetime_hours" validate:"gt=0"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" validate:"gt=0"`
	Burst             int     `yaml:"burst" validate:"gt=0"`
}

type WorkspaceConfig struct {
	IdleTTLMinutes      int `yaml:"idle_ttl_minutes" validate:"gt=0"`
	SweepIntervalSecond int `yaml:"sweep_interval_seconds" validate:"gt=0"`
}

type Config struct {
	SiteName    string          `yaml:"site_name"`
	CurrentYear int             `yaml:"current_year"`
	BaseURL     string          `yaml:"base_url" validate:"required,url"`
	Port        int             `yaml:"port" validate:"gt=0,lte=65535"`
	AppEnv      string          `yaml:"app_env" validate:"oneof=development production test"`
	Sources     SourcesConfig   `yaml:"sources"`
	Database    DatabaseConfig  `yaml:"database"`
	Session     SessionConfig   `yaml:"session"`
	RateLimit   RateLimitConfig `yaml:"rate_limit"`
	Workspace   WorkspaceConfig `yaml:"workspace"`
	CSRFAuthKey string          `yaml:"-"`
}

func (c *Config) IsProduction() bool { return c.AppEnv == "production" }

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Sources.RequestTimeoutSeconds) * time.Second
}

func (c *Config) WorkspaceTTL() time.Duration {
	return time.Duration(c.Workspace.IdleTTLMinutes) * time.Minute
}

func (c *Config) SweepInterval() time.Duration {
	return time.Duration(c.Workspace.SweepIntervalSecond) * time.Second
}

func getStringEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getIntEnvOrDefault(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := strconv.Atoi(valueStr); err == nil {
			return value
		}
		slog.Warn("Не удалось преобразовать переменную окружения в число, используется значение по умолчанию", "key", key, "value", valueStr)
	}
	return defaultValue
}

func getFloatEnvOrDefault(key string, defaultValue float64) float64 {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
			return value
		}
		slog.Warn("Не удалось преобразовать переменную окружения в число, используется значение по умолчанию", "key", key, "value", valueStr)
	}
	return defaultValue
}

func LoadConfig(filename string) (*Config, error) {
	appEnvFromSystem := os.Getenv("APP_ENV")
	if appEnvFromSystem != "production" {
		if err := godotenv.Load("configs/.env"); err != nil {
			slog.Info("configs/.env не найден или ошибка загрузки, это ожидаемо для production или если переменные установлены системно.", "error", err)
		} else {
			slog.Info("Переменные окружения загружены из configs/.env")
		}
	}

	file, err := os.Open(filename)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("файл конфигурации не найден: %s", filename)
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия файла конфигурации '%s': %w", filename, err)
	}
	defer file.Close()

	var cfg Config
	if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("ошибка декодирования YAML из файла '%s': %w", filename, err)
	}

	cfg.AppEnv = getStringEnvOrDefault("APP_ENV", cfg.AppEnv)
	cfg.BaseURL = getStringEnvOrDefault("BASE_URL", cfg.BaseURL)
	cfg.Port = getIntEnvOrDefault("PORT", cfg.Port)

	cfg.Sources.TrainersURL = getStringEnvOrDefault("TRAINERS_URL", cfg.Sources.TrainersURL)
	cfg.Sources.CompaniesURL = getStringEnvOrDefault("COMPANIES_URL", cfg.Sources.CompaniesURL)
	cfg.Sources.TrainingsURL = getStringEnvOrDefault("TRAININGS_URL", cfg.Sources.TrainingsURL)
	cfg.Sources.ChartsURL = getStringEnvOrDefault("CHARTS_URL", cfg.Sources.ChartsURL)
	cfg.Sources.StatsURL = getStringEnvOrDefault("STATS_URL", cfg.Sources.StatsURL)
	cfg.Sources.RequestTimeoutSeconds = getIntEnvOrDefault("SOURCE_TIMEOUT_SECONDS", cfg.Sources.RequestTimeoutSeconds)
	cfg.Sources.RequestsPerSecond = getFloatEnvOrDefault("SOURCE_RPS", cfg.Sources.RequestsPerSecond)

	cfg.RateLimit.RequestsPerSecond = getFloatEnvOrDefault("RATE_LIMIT_RPS", cfg.RateLimit.RequestsPerSecond)
	cfg.RateLimit.Burst = getIntEnvOrDefault("RATE_LIMIT_BURST", cfg.RateLimit.Burst)

	cfg.Database.Password = getStringEnvOrDefault("DB_PASSWORD", cfg.Database.Password)
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		cfg.Database.Path = dsn
		cfg.Database.Host = ""
		cfg.Database.Port = 0
		cfg.Database.User = ""
		cfg.Database.DBName = ""
	} else {
		cfg.Database.Host = getStringEnvOrDefault("DB_HOST", cfg.Database.Host)
		cfg.Database.Port = getIntEnvOrDefault("DB_PORT", cfg.Database.Port)
		cfg.Database.User = getStringEnvOrDefault("DB_USER", cfg.Database.User)
		cfg.Database.DBName = getStringEnvOrDefault("DB_NAME", cfg.Database.DBName)
	}

	applyDefaults(&cfg)
	isProduction := cfg.IsProduction()

	cfg.CSRFAuthKey = getStringEnvOrDefault("CSRF_AUTH_KEY", "")
	if isProduction && cfg.CSRFAuthKey == "" {
		slog.Error("КРИТИЧЕСКАЯ ОШИБКА: CSRF_AUTH_KEY должен быть установлен в переменных окружения для production")
		return nil, fmt.Errorf("CSRF_AUTH_KEY должен быть установлен в переменных окружения для production")
	}

	if err := validation.StructError(cfg); err != nil {
		return nil, err
	}
	if isProduction && !strings.HasPrefix(cfg.BaseURL, "https://") {
		return nil, fmt.Errorf("в production окружении BASE_URL должен начинаться с https://")
	}
	if cfg.Database.Host != "" {
		if cfg.Database.User == "" {
			return nil, fmt.Errorf("DB_USER не задан для подключения к БД")
		}
		if cfg.Database.DBName == "" {
			return nil, fmt.Errorf("DB_NAME не задан для подключения к БД")
		}
	}

	slog.Info("Конфигурация загружена", "app_env", cfg.AppEnv, "base_url", cfg.BaseURL, "port", cfg.Port, "database", cfg.Database.Enabled())
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.AppEnv == "" {
		cfg.AppEnv = "development"
	}
	if cfg.SiteName == "" {
		cfg.SiteName = "Formadmin"
	}
	if cfg.CurrentYear == 0 {
		cfg.CurrentYear = time.Now().Year()
	}
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = fmt.Sprintf("http://localhost:%d", cfg.Port)
	}
	if cfg.Sources.RequestTimeoutSeconds <= 0 {
		cfg.Sources.RequestTimeoutSeconds = 10
	}
	if cfg.Sources.RequestsPerSecond <= 0 {
		cfg.Sources.RequestsPerSecond = 5
	}
	if cfg.Sources.Burst <= 0 {
		cfg.Sources.Burst = 3
	}
	if cfg.Session.CookieName == "" {
		cfg.Session.CookieName = "formadmin_session"
	}
	if cfg.Session.LifetimeHours <= 0 {
		cfg.Session.LifetimeHours = 12
	}
	if cfg.RateLimit.RequestsPerSecond <= 0 {
		cfg.RateLimit.RequestsPerSecond = 10
	}
	if cfg.RateLimit.Burst <= 0 {
		cfg.RateLimit.Burst = 20
	}
	if cfg.Workspace.IdleTTLMinutes <= 0 {
		cfg.Workspace.IdleTTLMinutes = 60
	}
	if cfg.Workspace.SweepIntervalSecond <= 0 {
		cfg.Workspace.SweepIntervalSecond = 60
	}
}

func InitLogger(appEnv string) {
	var logger *slog.Logger
	logLevel := slog.LevelInfo

	if appEnv == "development" {
		logLevel = slog.LevelDebug
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		}))
	} else {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: false,
		}))
	}
	slog.SetDefault(logger)
}
