package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cau-24swe-team14/ITS-BE/internal/domain"
	"github.com/cau-24swe-team14/ITS-BE/internal/logging"
	"github.com/cau-24swe-team14/ITS-BE/internal/service"
)

// sessionCookie — имя cookie с токеном сессии.
const sessionCookie = "SESSION"

type ctxKey int

const actorKey ctxKey = iota

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware логирует входящие HTTP-запросы и их статус/длительность.
// Ответы 5xx пишутся уровнем error, 4xx — warn.
func LoggingMiddleware(logger *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)
			duration := time.Since(start)

			log := logger.Info

			switch {
			case rec.status >= http.StatusInternalServerError:
				log = logger.Error
			case rec.status >= http.StatusBadRequest:
				log = logger.Warn
			}

			log("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration_ms", duration.Milliseconds(),
			)
		})
	}
}

// errPanic попадает в WriteError при панике и мапится в INTERNAL.
var errPanic = errors.New("internal error")

// RecoveryMiddleware перехватывает panic, логирует их и возвращает INTERNAL ошибку.
func RecoveryMiddleware(logger *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recovered", "panic", rec)
					WriteError(w, errPanic)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// AuthMiddleware разрешает cookie-токен сессии в пользователя и кладёт
// его в контекст запроса; без живой сессии возвращает UNAUTHORIZED.
func AuthMiddleware(sessionSvc *service.SessionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var token string

			if cookie, err := r.Cookie(sessionCookie); err == nil {
				token = cookie.Value
			}

			actor, err := sessionSvc.Resolve(r.Context(), token)

			if err != nil {
				WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), actorKey, actor)))
		})
	}
}

// actorFrom возвращает пользователя, положенного в контекст AuthMiddleware.
func actorFrom(r *http.Request) domain.Actor {
	actor, _ := r.Context().Value(actorKey).(domain.Actor)
	return actor
}
