package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/xela07ax/agenticlabs-console/internal/console/service"
	"github.com/xela07ax/agenticlabs-console/internal/console/session"
	"github.com/xela07ax/agenticlabs-console/internal/table"
	"go.uber.org/zap"
)

type LogsService interface {
	Logs(ctx context.Context, q service.LogsQuery) (*service.LogsView, error)
	ToggleSort(ctx context.Context, sessionID, key string) (table.SortState, error)
}

type LogsHandler struct {
	service LogsService
	logger  *zap.Logger
}

func NewLogsHandler(s LogsService, logger *zap.Logger) *LogsHandler {
	return &LogsHandler{service: s, logger: logger.Named("logs-handler")}
}

// List возвращает отсортированную страницу журнала.
// GET /api/logs?offset=0&limit=50[&sort=latency&dir=desc]
func (h *LogsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	offset, err := intParam(q.Get("offset"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "offset must be an integer")
		return
	}
	limit, err := intParam(q.Get("limit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "limit must be an integer")
		return
	}
	override, err := service.ParseSortOverride(q.Get("sort"), q.Get("dir"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := h.service.Logs(r.Context(), service.LogsQuery{
		SessionID:    session.IDFrom(r.Context()),
		Offset:       offset,
		Limit:        limit,
		SortOverride: override,
	})
	if err != nil {
		// Журнал строгий: ошибка бэкенда видна пользователю вместе с пустой таблицей
		if view != nil {
			writeJSON(w, http.StatusBadGateway, view)
			return
		}
		h.logger.Error("logs view failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to load logs")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type sortRequest struct {
	Key string `json:"key"`
}

type sortResponse struct {
	Sort  table.SortState `json:"sort"`
	Label string          `json:"label"`
}

// ToggleSort — клик по заголовку колонки.
// POST /api/logs/sort {"key": "latency"}
func (h *LogsHandler) ToggleSort(w http.ResponseWriter, r *http.Request) {
	var req sortRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	next, err := h.service.ToggleSort(r.Context(), session.IDFrom(r.Context()), req.Key)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to save sort state", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to save sort state")
		return
	}
	writeJSON(w, http.StatusOK, sortResponse{Sort: next, Label: next.Label()})
}

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
