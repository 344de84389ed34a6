package session

import "context"

type ctxKey string

const sessionIDKey ctxKey = "session_id"

// HeaderSessionID — заголовок с идентификатором сессии консоли
const HeaderSessionID = "X-Session-ID"

// WithID кладет идентификатор сессии в контекст
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey, id)
}

// IDFrom достает идентификатор сессии; пустая строка, если middleware не отработал
func IDFrom(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey).(string)
	return id
}
