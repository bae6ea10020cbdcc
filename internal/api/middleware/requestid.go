// requestid.go — middleware присвоения идентификатора запроса.
// Берёт X-Request-Id от клиента или генерирует новый UUID; id кладётся
// в контекст и в заголовок ответа, логирующий middleware добавляет его
// к каждой записи.
package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// headerRequestID — заголовок с идентификатором запроса.
const headerRequestID = "X-Request-Id"

// ctxKeyRequestID — ключ контекста для request id.
type ctxKeyRequestID struct{}

// RequestID возвращает middleware, присваивающий каждому запросу UUID.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(headerRequestID)
			if id == "" {
				id = uuid.NewString()
			}

			w.Header().Set(headerRequestID, id)
			ctx := context.WithValue(r.Context(), ctxKeyRequestID{}, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestIDFromContext возвращает идентификатор запроса из контекста
// (пустая строка, если middleware не применялся).
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyRequestID{}).(string)
	return id
}
