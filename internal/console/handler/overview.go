package handler

import (
	"context"
	"net/http"

	"github.com/xela07ax/agenticlabs-console/internal/analytics"
)

// OverviewService Описываем, что нам нужно от сервиса
type OverviewService interface {
	Overview(ctx context.Context, rangeKey string) analytics.Overview
}

type OverviewHandler struct {
	service OverviewService
}

func NewOverviewHandler(s OverviewService) *OverviewHandler {
	return &OverviewHandler{service: s}
}

// Get отдает обзорную панель. Всегда 200: при сбое бэкенда данные синтетические,
// а причина в поле warning.
// GET /api/overview?range=7d
func (h *OverviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	o := h.service.Overview(r.Context(), r.URL.Query().Get("range"))
	writeJSON(w, http.StatusOK, o)
}
