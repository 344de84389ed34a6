package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/xela07ax/agenticlabs-console/internal/console/handler"
	"github.com/xela07ax/agenticlabs-console/internal/infra"
	"go.uber.org/zap"
)

type ConsoleServer struct {
	router *chi.Mux
	logger *zap.Logger
	cfg    *infra.Config

	// Обработчики представлений
	overviewHandler   *handler.OverviewHandler   // /api/overview
	logsHandler       *handler.LogsHandler       // /api/logs
	playgroundHandler *handler.PlaygroundHandler // /router-proxy, /api/playground
}

// NewConsoleServer инициализирует фасад консоли со всеми зависимостями
func NewConsoleServer(
	cfg *infra.Config,
	logger *zap.Logger,
	overviewH *handler.OverviewHandler,
	logsH *handler.LogsHandler,
	playgroundH *handler.PlaygroundHandler,
) *ConsoleServer {
	s := &ConsoleServer{
		router:            chi.NewRouter(),
		logger:            logger.Named("console-api"),
		cfg:               cfg,
		overviewHandler:   overviewH,
		logsHandler:       logsH,
		playgroundHandler: playgroundH,
	}

	s.routes()
	return s
}

func (s *ConsoleServer) routes() {
	r := s.router

	// --- 1. Глобальные инфраструктурные Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TracingMiddleware)
	r.Use(RequestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// --- 2. Прокси песочницы (фасад без состояния) ---
	r.Post("/router-proxy", s.playgroundHandler.Run)
	r.Post("/api/router-proxy", s.playgroundHandler.Run)

	// --- 3. Представления с состоянием сессии ---
	r.Group(func(r chi.Router) {
		r.Use(SessionMiddleware)

		r.Get("/api/overview", s.overviewHandler.Get)

		r.Route("/api/logs", func(r chi.Router) {
			r.Get("/", s.logsHandler.List)
			r.Post("/sort", s.logsHandler.ToggleSort)
		})

		r.Get("/api/playground/theme", s.playgroundHandler.Theme)
	})
}

// ServeHTTP позволяет использовать ConsoleServer как стандартный http.Handler
func (s *ConsoleServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
