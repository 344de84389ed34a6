package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v5"
	"github.com/xela07ax/agenticlabs-console/internal/domain"
	"github.com/xela07ax/agenticlabs-console/internal/infra"
	"go.uber.org/zap"
)

// Пути бэкенда роутера
const (
	PathHealth         = "/health"
	PathMetricsSummary = "/v1/metrics/summary"
	PathLogs           = "/v1/logs"
	PathRun            = "/v1/run"
)

// maxBodySize ограничивает чтение ответа бэкенда
const maxBodySize = 8 << 20

// Client — HTTP клиент к бэкенду роутера. Кэша нет: каждый вызов идет в бэкенд.
type Client struct {
	baseURL string
	http    *http.Client
	reads   *guard
	runs    *guard
	metrics *infra.Metrics
	logger  *zap.Logger
}

func NewClient(cfg infra.BackendConfig, httpClient *http.Client, metrics *infra.Metrics, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if metrics == nil {
		metrics = infra.NewMetrics(nil)
	}
	logger = logger.Named("backend")

	baseURL := cfg.ResolvedBaseURL
	if baseURL == "" {
		baseURL = infra.ResolveBaseURL(cfg.BaseURL, cfg.PublicBaseURL)
	}

	return &Client{
		baseURL: baseURL,
		http:    httpClient,
		reads:   newGuard(breakerReads, cfg, nil, metrics, logger),
		runs:    newGuard(breakerRuns, cfg, newRunLimiter(cfg), metrics, logger),
		metrics: metrics,
		logger:  logger,
	}
}

// BaseURL возвращает адрес бэкенда, разрешенный при старте
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetJSON выполняет GET и декодирует тело в out.
// Успех — только 2xx и валидный JSON; остальное возвращается как UpstreamError или TransportError.
func (c *Client) GetJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	target := c.baseURL + endpoint
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	body, err := c.reads.execute(ctx, endpoint, func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return nil, fmt.Errorf("build request %s: %w", endpoint, err)
		}
		req.Header.Set("Accept", "application/json")
		// Представление всегда отражает текущее состояние бэкенда
		req.Header.Set("Cache-Control", "no-cache, no-store")
		req.Header.Set("Pragma", "no-cache")
		return c.do(req, endpoint)
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &TransportError{Endpoint: endpoint, Cause: fmt.Errorf("malformed JSON: %w", err)}
	}
	return nil
}

// PostRun отправляет запуск в /v1/run и возвращает сырое тело 2xx ответа.
func (c *Client) PostRun(ctx context.Context, payload domain.BackendRunPayload) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode run payload: %w", err)
	}

	return c.runs.execute(ctx, PathRun, func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+PathRun, bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("build request %s: %w", PathRun, err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		return c.do(req, PathRun)
	})
}

// do выполняет запрос и классифицирует результат.
func (c *Client) do(req *http.Request, endpoint string) ([]byte, error) {
	start := time.Now()
	status := 0
	defer func() {
		c.metrics.BackendDuration.WithLabelValues(endpoint, statusLabel(status)).Observe(time.Since(start).Seconds())
	}()

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Cause: err}
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Cause: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Debug("backend returned non-2xx",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode))
		return nil, &UpstreamError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return body, nil
}

// Ping проверяет /health бэкенда
func (c *Client) Ping(ctx context.Context) error {
	var health map[string]any
	return c.GetJSON(ctx, PathHealth, nil, &health)
}

// WaitReady — стартовая проверка доступности бэкенда с экспоненциальной паузой.
// Не используется на пользовательских путях: там деградация идет через fallback.
func (c *Client) WaitReady(ctx context.Context, attempts uint) error {
	if attempts == 0 {
		attempts = 1
	}

	r := retry.New(
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.DelayType(retry.BackOffDelay),
	)

	var attempt uint
	return r.Do(func() error {
		attempt++
		pCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()

		err := c.Ping(pCtx)
		if err != nil {
			c.logger.Info("backend not ready yet", zap.Uint("attempt", attempt), zap.Error(err))
		}
		return err
	})
}
