package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/xela07ax/agenticlabs-console/internal/backend"
	"github.com/xela07ax/agenticlabs-console/internal/console/session"
	"github.com/xela07ax/agenticlabs-console/internal/domain"
	"github.com/xela07ax/agenticlabs-console/internal/fetch"
	"github.com/xela07ax/agenticlabs-console/internal/infra"
	"github.com/xela07ax/agenticlabs-console/internal/risk"
	"github.com/xela07ax/agenticlabs-console/internal/table"
	"go.uber.org/zap"
)

// Пагинация журнала
const (
	DefaultLogsLimit = 50
	MaxLogsLimit     = 500
)

// LogsQuery — параметры одного запроса журнала.
// SortOverride задает сортировку только для этого ответа, не меняя состояние сессии.
type LogsQuery struct {
	SessionID    string
	Offset       int
	Limit        int
	SortOverride *table.SortState
}

// LogsView — журнал, готовый к отображению.
type LogsView struct {
	Total     int64              `json:"total"`
	Offset    int                `json:"offset"`
	Limit     int                `json:"limit"`
	Sort      table.SortState    `json:"sort"`
	SortLabel string             `json:"sort_label"`
	Items     []domain.RunRecord `json:"items"`
	Rows      []table.Row        `json:"rows"`
	Tiers     []risk.TierShare   `json:"tiers"`
	HasPrev   bool               `json:"has_prev"`
	HasNext   bool               `json:"has_next"`
	Stale     bool               `json:"stale,omitempty"`
	Error     string             `json:"error,omitempty"`
}

// LogsService — строгая загрузка журнала: без синтетики, сбой виден пользователю.
type LogsService struct {
	getter  fetch.Getter
	store   session.Store
	metrics *infra.Metrics
	loc     *time.Location
	logger  *zap.Logger
}

func NewLogsService(getter fetch.Getter, store session.Store, metrics *infra.Metrics, loc *time.Location, logger *zap.Logger) *LogsService {
	if metrics == nil {
		metrics = infra.NewMetrics(nil)
	}
	if loc == nil {
		loc = time.UTC
	}
	return &LogsService{
		getter:  getter,
		store:   store,
		metrics: metrics,
		loc:     loc,
		logger:  logger.Named("logs-service"),
	}
}

// Logs загружает страницу журнала и упорядочивает ее по состоянию сортировки сессии.
// При ошибке возвращается вид без строк с текстом ошибки; состояние сессии не меняется.
func (s *LogsService) Logs(ctx context.Context, q LogsQuery) (*LogsView, error) {
	offset, limit := normalizePage(q.Offset, q.Limit)

	state, err := s.store.Load(ctx, q.SessionID, session.ViewLogs)
	if err != nil {
		return nil, err
	}
	sort := state.Sort
	if q.SortOverride != nil {
		sort = *q.SortOverride
	}

	token, err := s.store.Issue(ctx, q.SessionID, session.ViewLogs)
	if err != nil {
		return nil, err
	}

	params := url.Values{
		"offset": {strconv.Itoa(offset)},
		"limit":  {strconv.Itoa(limit)},
	}
	res := fetch.Fetch[domain.LogsPage](ctx, s.getter, backend.PathLogs, params, nil)
	if res.Err != nil {
		s.logger.Error("failed to load logs",
			zap.Int("offset", offset),
			zap.Int("limit", limit),
			zap.Error(res.Err))
		return &LogsView{
			Offset:    offset,
			Limit:     limit,
			Sort:      sort,
			SortLabel: sort.Label(),
			Items:     []domain.RunRecord{},
			Rows:      []table.Row{},
			Tiers:     risk.TierShares(nil),
			Error:     res.Err.Error(),
		}, res.Err
	}

	page := res.Data
	if page.Limit > 0 {
		limit = page.Limit
	}
	offset = page.Offset

	applied, err := s.store.CommitPage(ctx, q.SessionID, session.ViewLogs, token,
		session.Page{Offset: offset, Limit: limit})
	if err != nil {
		return nil, err
	}

	items := sort.Apply(page.Items)
	view := &LogsView{
		Total:     page.Total,
		Offset:    offset,
		Limit:     limit,
		Sort:      sort,
		SortLabel: sort.Label(),
		Items:     items,
		Rows:      table.Rows(items, s.loc),
		Tiers:     risk.TierShares(items),
		HasPrev:   offset > 0,
		HasNext:   int64(offset+len(items)) < page.Total,
	}
	if !applied {
		s.metrics.StaleResponses.WithLabelValues(session.ViewLogs).Inc()
		s.logger.Debug("stale logs response discarded",
			zap.String("session_id", q.SessionID),
			zap.Uint64("token", token))
		view.Stale = true
	}
	return view, nil
}

// ToggleSort переводит машину сортировки сессии по клику на колонку.
func (s *LogsService) ToggleSort(ctx context.Context, sessionID, key string) (table.SortState, error) {
	k, err := table.ParseKey(key)
	if err != nil {
		return table.SortState{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	state, err := s.store.Load(ctx, sessionID, session.ViewLogs)
	if err != nil {
		return table.SortState{}, err
	}
	next := state.Sort.Toggle(k)
	if err := s.store.SaveSort(ctx, sessionID, session.ViewLogs, next); err != nil {
		return table.SortState{}, err
	}
	return next, nil
}

// ParseSortOverride разбирает sort/dir из query; пустой sort — переопределения нет.
func ParseSortOverride(key, dir string) (*table.SortState, error) {
	if key == "" {
		return nil, nil
	}
	k, err := table.ParseKey(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	d, err := table.ParseDirection(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return &table.SortState{Key: k, Dir: d}, nil
}

func normalizePage(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = DefaultLogsLimit
	}
	return offset, min(limit, MaxLogsLimit)
}
