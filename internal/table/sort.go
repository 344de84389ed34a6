// Package table упорядочивает записи журнала для отображения.
package table

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/xela07ax/agenticlabs-console/internal/domain"
)

// Key — колонка, по которой можно сортировать
type Key string

const (
	KeyTime     Key = "time"
	KeyBand     Key = "band"
	KeyProvider Key = "provider"
	KeyModel    Key = "model"
	KeyLatency  Key = "latency"
	KeyTokens   Key = "tokens"
	KeyCost     Key = "cost"
	KeySavings  Key = "savings"
	KeyAlri     Key = "alri"
)

// Keys — все поддерживаемые колонки в порядке отображения
var Keys = []Key{KeyTime, KeyBand, KeyProvider, KeyModel, KeyLatency, KeyTokens, KeyCost, KeySavings, KeyAlri}

// ParseKey проверяет, что колонка поддерживается
func ParseKey(s string) (Key, error) {
	k := Key(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(Keys, k) {
		return k, nil
	}
	return "", fmt.Errorf("unsupported sort key %q", s)
}

// Direction — множитель базового компаратора
type Direction int

const (
	Asc  Direction = 1
	Desc Direction = -1
)

func (d Direction) String() string {
	if d == Desc {
		return "desc"
	}
	return "asc"
}

func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(b []byte) error {
	v, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// ParseDirection: "asc" или "desc", пустая строка — asc
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc":
		return Asc, nil
	case "desc":
		return Desc, nil
	default:
		return 0, fmt.Errorf("unsupported sort direction %q", s)
	}
}

// Compare — базовый (по возрастанию) компаратор для колонки key.
// Записи без ALRI сравниваются так, будто их балл равен -Inf.
func Compare(a, b domain.RunRecord, key Key) int {
	switch key {
	case KeyTime:
		return cmp.Compare(a.Timestamp, b.Timestamp)
	case KeyBand:
		return compareFold(a.Band, b.Band)
	case KeyProvider:
		return compareFold(a.Provider, b.Provider)
	case KeyModel:
		return compareFold(a.Model, b.Model)
	case KeyLatency:
		return cmp.Compare(a.LatencyMs, b.LatencyMs)
	case KeyTokens:
		return cmp.Compare(a.TotalTokens(), b.TotalTokens())
	case KeyCost:
		return cmp.Compare(a.CostUSD, b.CostUSD)
	case KeySavings:
		return cmp.Compare(a.SavingsUSD, b.SavingsUSD)
	case KeyAlri:
		return cmp.Compare(alriValue(a), alriValue(b))
	default:
		return 0
	}
}

// Sort возвращает новый упорядоченный срез; входной срез не меняется.
// Сортировка стабильная: равные по ключу записи сохраняют порядок поступления.
func Sort(records []domain.RunRecord, key Key, dir Direction) []domain.RunRecord {
	out := slices.Clone(records)
	if key == "" {
		return out
	}
	if dir != Desc {
		dir = Asc
	}
	slices.SortStableFunc(out, func(a, b domain.RunRecord) int {
		return int(dir) * Compare(a, b, key)
	})
	return out
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func alriValue(r domain.RunRecord) float64 {
	if r.AlriScore == nil {
		return math.Inf(-1)
	}
	return *r.AlriScore
}
