package backend

import (
	"errors"
	"fmt"
)

// UpstreamError — бэкенд доступен, но ответил не-2xx статусом.
// Статус и тело сохраняются как есть, чтобы не терять диагностику бэкенда.
type UpstreamError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend %s returned status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("backend %s returned status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// TransportError — бэкенд недоступен, таймаут, открытый предохранитель или битый JSON.
type TransportError struct {
	Endpoint string
	Cause    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("backend %s unreachable: %v", e.Endpoint, e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// IsUpstream достает UpstreamError из цепочки
func IsUpstream(err error) (*UpstreamError, bool) {
	var uErr *UpstreamError
	if errors.As(err, &uErr) {
		return uErr, true
	}
	return nil, false
}
