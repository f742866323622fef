package middleware

import (
	"net/http"

	"github.com/dreschagin/call-analytics-dashboard/pkg/logger"
)

// Recovery middleware перехватывает panic в обработчиках,
// чтобы один запрос не останавливал весь сервис
func Recovery(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("Panic recovered", nil,
						"panic", rec,
						"method", r.Method,
						"path", r.URL.Path,
					)
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
