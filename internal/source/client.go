// internal/source/client.go
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"formadmin.fr/internal/config"
	"formadmin.fr/internal/metrics"
)

// Client загружает записи и таблицы графиков из тестовых API.
// Все запросы проходят через общий ограничитель частоты.
type Client struct {
	cfg     config.SourcesConfig
	http    *http.Client
	limiter *rate.Limiter
	metrics *metrics.Metrics
}

// maxBodyBytes ограничивает размер ответа тестового API.
const maxBodyBytes = 4 << 20

func NewClient(cfg config.SourcesConfig, m *metrics.Metrics) *Client {
	timeout := time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		metrics: m,
	}
}

// getJSON выполняет GET и декодирует JSON в dst. name используется в логах и метриках.
func (c *Client) getJSON(ctx context.Context, name, url string, dst any) (err error) {
	started := time.Now()
	defer func() { c.metrics.ObserveFetch(name, started, err) }()

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("ожидание лимита запросов к %s: %w", name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("ошибка создания запроса к %s: %w", name, err)
	}
	req.Header.Set("Accept", "application/json")

	slog.Debug("Запрос к источнику данных", "source", name, "url", url)

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return fmt.Errorf("источник %s не ответил вовремя или запрос был отменен (%w)", name, err)
		}
		return fmt.Errorf("ошибка отправки запроса к %s (%s): %w", name, url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("ошибка чтения ответа от %s: %w", name, err)
	}
	if resp.StatusCode >= 400 {
		slog.Error("Источник данных вернул ошибку HTTP", "source", name, "status_code", resp.StatusCode)
		return fmt.Errorf("ошибка источника %s: статус %d", name, resp.StatusCode)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("ошибка декодирования JSON от %s: %w", name, err)
	}
	return nil
}
