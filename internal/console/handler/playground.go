package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/xela07ax/agenticlabs-console/internal/backend"
	"github.com/xela07ax/agenticlabs-console/internal/domain"
	"github.com/xela07ax/agenticlabs-console/internal/proxy"
	"github.com/xela07ax/agenticlabs-console/internal/render"
)

// maxRunBody ограничивает тело запроса песочницы
const maxRunBody = 1 << 20

type PlaygroundService interface {
	Run(ctx context.Context, raw []byte) (*domain.RunResult, error)
	Theme(selected, resultProvider string) render.Theme
}

type PlaygroundHandler struct {
	service PlaygroundService
}

func NewPlaygroundHandler(s PlaygroundService) *PlaygroundHandler {
	return &PlaygroundHandler{service: s}
}

// Run — прокси трансляции запуска.
// POST /router-proxy
func (h *PlaygroundHandler) Run(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxRunBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	result, err := h.service.Run(r.Context(), raw)
	if err != nil {
		status, msg := runErrorStatus(err)
		writeError(w, status, msg)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Theme — вариант макета песочницы.
// GET /api/playground/theme?selected=auto&provider=openai
func (h *PlaygroundHandler) Theme(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, h.service.Theme(q.Get("selected"), q.Get("provider")))
}

// runErrorStatus: валидация — 400, ответ бэкенда — его статус и текст, остальное — 500.
func runErrorStatus(err error) (int, string) {
	var vErr *proxy.ValidationError
	if errors.As(err, &vErr) {
		return http.StatusBadRequest, vErr.Message
	}
	if uErr, ok := backend.IsUpstream(err); ok {
		if uErr.Body != "" {
			return uErr.StatusCode, uErr.Body
		}
		return uErr.StatusCode, fmt.Sprintf("Router request failed with status %d", uErr.StatusCode)
	}
	return http.StatusInternalServerError, err.Error()
}
