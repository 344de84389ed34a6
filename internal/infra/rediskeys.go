package infra

import "fmt"

const (
	// RedisNamespace Базовый префикс для изоляции данных проекта в Redis
	RedisNamespace = "agenticlabs"
)

// SessionViewKey — ключ состояния конкретного представления конкретной сессии
func SessionViewKey(sessionID, view string) string {
	return fmt.Sprintf("%s:console:session:%s:%s", RedisNamespace, sessionID, view)
}
