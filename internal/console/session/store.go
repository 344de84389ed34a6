// Package session хранит эфемерное состояние представлений консоли:
// страницу журнала, сортировку и счетчики запросов для отсечения устаревших ответов.
// Это не хранилище метрик: состояние живет не дольше TTL сессии.
package session

import (
	"context"

	"github.com/xela07ax/agenticlabs-console/internal/table"
)

// Представления консоли
const (
	ViewLogs     = "logs"
	ViewOverview = "overview"
)

// Page — последняя успешно загруженная страница
type Page struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// ViewState — состояние одного представления одной сессии.
type ViewState struct {
	Page Page            `json:"page"`
	Sort table.SortState `json:"sort"`

	Issued  uint64 `json:"issued"`
	Applied uint64 `json:"applied"`
}

// Store — хранилище состояния. Все методы заменяют состояние целиком,
// частичных обновлений загруженных данных нет.
type Store interface {
	// Load возвращает состояние; отсутствующая сессия — нулевое состояние.
	Load(ctx context.Context, sessionID, view string) (ViewState, error)
	// SaveSort сохраняет новое состояние сортировки.
	SaveSort(ctx context.Context, sessionID, view string, sort table.SortState) error
	// Issue выдает монотонный токен для нового запроса.
	Issue(ctx context.Context, sessionID, view string) (uint64, error)
	// CommitPage применяет страницу, только если token новее уже примененного.
	CommitPage(ctx context.Context, sessionID, view string, token uint64, page Page) (bool, error)
}
