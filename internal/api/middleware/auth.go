package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/CWP-AllocationService/internal/api/handlers"
)

const msgUnauthorized = "отсутствует или некорректен заголовок X-User-ID"

type contextKey string

const userIDKey contextKey = "userID"

// Auth проверяет наличие заголовка X-User-ID и кладет ID пользователя в контекст
// Аутентификацию выполняет API-gateway; сервис доверяет заголовку
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("X-User-ID")
		if raw == "" {
			handlers.RespondUnauthorized(w, msgUnauthorized)
			return
		}

		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, msgUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID возвращает ID пользователя из контекста запроса
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok
}
