// Package fetch загружает ресурсы бэкенда с деградацией до синтетических данных.
//
// Каждый вызов независим: пайплайн не хранит состояния между вызовами, поэтому
// повтор с теми же параметрами безопасен. Порядок применения ответов при
// конкурирующих вызовах контролирует Sequencer.
package fetch

import (
	"context"
	"fmt"
	"net/url"
)

// Getter — источник JSON ресурсов (реализуется backend.Client).
type Getter interface {
	GetJSON(ctx context.Context, endpoint string, params url.Values, out any) error
}

// Validator реализуют типы, у которых есть структурные инварианты.
type Validator interface {
	Validate() error
}

// Result — итог загрузки. Err при UsedFallback — это предупреждение, а не отказ.
type Result[T any] struct {
	Data         T
	Err          error
	UsedFallback bool
}

// Warning возвращает текст ошибки для баннера или пустую строку
func (r Result[T]) Warning() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Fetch загружает endpoint и декодирует его в T.
// Успех: 2xx, валидный JSON и, если T реализует Validator, пройденная валидация.
// Любой другой исход — сбой: при fallback != nil данные подменяются fallback(params).
func Fetch[T any](ctx context.Context, g Getter, endpoint string, params url.Values, fallback func(url.Values) T) Result[T] {
	var data T
	err := g.GetJSON(ctx, endpoint, params, &data)
	if err == nil {
		if v, ok := any(&data).(Validator); ok {
			if vErr := v.Validate(); vErr != nil {
				err = fmt.Errorf("unexpected response shape from %s: %w", endpoint, vErr)
			}
		}
	}

	if err == nil {
		return Result[T]{Data: data}
	}

	if fallback == nil {
		var zero T
		return Result[T]{Data: zero, Err: err}
	}
	return Result[T]{Data: fallback(params), Err: err, UsedFallback: true}
}
