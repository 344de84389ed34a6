package table

import "github.com/xela07ax/agenticlabs-console/internal/domain"

// SortState — состояние сортировки представления.
// Нулевое значение — "не отсортировано" (порядок поступления).
//
// Переходы:
//
//	Unsorted  --Toggle(k)-->  Asc(k)
//	Asc(k)    --Toggle(k)-->  Desc(k)
//	Desc(k)   --Toggle(k)-->  Asc(k)
//	Any(k)    --Toggle(k')->  Asc(k'), k' != k
type SortState struct {
	Key Key       `json:"key,omitempty"`
	Dir Direction `json:"dir,omitempty"`
}

// Unsorted true для начального состояния
func (s SortState) Unsorted() bool {
	return s.Key == ""
}

// Toggle возвращает следующее состояние после клика по колонке k.
func (s SortState) Toggle(k Key) SortState {
	if s.Key == k && s.Dir == Asc {
		return SortState{Key: k, Dir: Desc}
	}
	return SortState{Key: k, Dir: Asc}
}

// Apply упорядочивает записи согласно состоянию
func (s SortState) Apply(records []domain.RunRecord) []domain.RunRecord {
	if s.Unsorted() {
		return Sort(records, "", Asc)
	}
	return Sort(records, s.Key, s.Dir)
}

// Label — "latency desc" или "unsorted" для заголовков
func (s SortState) Label() string {
	if s.Unsorted() {
		return "unsorted"
	}
	return string(s.Key) + " " + s.Dir.String()
}
