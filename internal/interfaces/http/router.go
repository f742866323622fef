package http

import (
	"io/fs"
	"net/http"

	"github.com/dreschagin/call-analytics-dashboard/internal/interfaces/http/handler"
	"github.com/dreschagin/call-analytics-dashboard/internal/interfaces/http/middleware"
	"github.com/dreschagin/call-analytics-dashboard/pkg/config"
	"github.com/dreschagin/call-analytics-dashboard/pkg/logger"
)

// Router настраивает маршруты приложения
type Router struct {
	mux              *http.ServeMux
	websocketHandler *handler.WebSocketHandler
	healthAPIHandler *handler.HealthAPIHandler
	logsAPIHandler   *handler.LogsAPIHandler
	demoAPIHandler   *handler.DemoAPIHandler
	security         config.SecurityConfig
	logger           *logger.Logger
}

// NewRouter создает новый router
func NewRouter(
	websocketHandler *handler.WebSocketHandler,
	healthAPIHandler *handler.HealthAPIHandler,
	logsAPIHandler *handler.LogsAPIHandler,
	demoAPIHandler *handler.DemoAPIHandler,
	security config.SecurityConfig,
	logger *logger.Logger,
) *Router {
	return &Router{
		mux:              http.NewServeMux(),
		websocketHandler: websocketHandler,
		healthAPIHandler: healthAPIHandler,
		logsAPIHandler:   logsAPIHandler,
		demoAPIHandler:   demoAPIHandler,
		security:         security,
		logger:           logger,
	}
}

// Setup настраивает все маршруты
func (rt *Router) Setup() http.Handler {
	// Static assets are embedded into the binary.
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic("failed to initialize embedded static assets: " + err.Error())
	}
	rt.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	// Dashboard
	rt.mux.HandleFunc("/{$}", func(w http.ResponseWriter, _ *http.Request) {
		page, err := staticFiles.ReadFile("static/index.html")
		if err != nil {
			rt.logger.Error("Failed to read embedded dashboard page", err)
			http.Error(w, "Dashboard page not found", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(page)
	})

	// WebSocket live feed
	rt.mux.HandleFunc("/ws", rt.websocketHandler.HandleConnection)

	// Health
	rt.mux.HandleFunc("/health", rt.healthAPIHandler.Check)

	// Drill-down по ошибкам
	rt.mux.HandleFunc("GET /logs/{error_type}", rt.logsAPIHandler.GetErrorLogs)

	// Demo/control endpoints с per-IP rate limit
	demoLimiter := middleware.NewIPRateLimiter(rt.security.DemoRateRPS, rt.security.DemoRateBurst)
	rateLimited := middleware.RateLimit(demoLimiter)

	rt.mux.Handle("POST /demo/error", rateLimited(http.HandlerFunc(rt.demoAPIHandler.InjectError)))
	rt.mux.Handle("POST /demo/active-calls", rateLimited(http.HandlerFunc(rt.demoAPIHandler.AdjustActiveCalls)))
	rt.mux.Handle("POST /demo/reset", rateLimited(http.HandlerFunc(rt.demoAPIHandler.Reset)))

	// Применяем middleware
	var h http.Handler = rt.mux
	h = middleware.Logger(rt.logger)(h)
	h = middleware.Recovery(rt.logger)(h)

	return h
}
