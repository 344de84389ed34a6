package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xela07ax/agenticlabs-console/internal/backend"
	"github.com/xela07ax/agenticlabs-console/internal/console/handler"
	"github.com/xela07ax/agenticlabs-console/internal/console/server"
	"github.com/xela07ax/agenticlabs-console/internal/console/service"
	"github.com/xela07ax/agenticlabs-console/internal/console/session"
	"github.com/xela07ax/agenticlabs-console/internal/infra"
	"github.com/xela07ax/agenticlabs-console/internal/proxy"
)

func main() {
	// 1. Конфигурация и логгер
	cfg, err := infra.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger, err := infra.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	// Контекст жизненного цикла: SIGTERM отменяет стартовую проверку и фоновые горутины
	appCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Метрики на отдельном листенере
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := infra.NewMetrics(reg)

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		logger.Info("metrics listener started", zap.String("addr", cfg.Metrics.Addr))
		if err := http.ListenAndServe(cfg.Metrics.Addr, mux); err != nil {
			logger.Error("metrics listener stopped", zap.Error(err))
		}
	}()

	// 3. Клиент бэкенда. Недоступный бэкенд не фатален: обзор уйдет на синтетику.
	client := backend.NewClient(cfg.Backend, nil, metrics, logger)
	logger.Info("backend resolved", zap.String("base_url", client.BaseURL()))
	if err := client.WaitReady(appCtx, cfg.Backend.ProbeAttempts); err != nil {
		logger.Warn("backend is not ready, continuing in degraded mode", zap.Error(err))
	}

	// 4. Хранилище состояния сессий
	store, closeStore := newSessionStore(appCtx, cfg, logger)
	defer closeStore()

	// 5. Инициализация слоев (Dependency Injection)
	overviewSvc := service.NewOverviewService(client, metrics, logger)
	logsSvc := service.NewLogsService(client, store, metrics, time.Local, logger)
	playgroundSvc := service.NewPlaygroundService(
		proxy.NewTranslator(client, cfg.Backend.AgentID, logger), metrics, logger)

	srv := &http.Server{
		Addr: cfg.Server.Addr(),
		Handler: server.NewConsoleServer(cfg, logger,
			handler.NewOverviewHandler(overviewSvc),
			handler.NewLogsHandler(logsSvc, logger),
			handler.NewPlaygroundHandler(playgroundSvc),
		),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 6. Graceful Shutdown
	go func() {
		logger.Info("console facade started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	<-appCtx.Done()
	logger.Info("console facade stopping...")

	// Даем 5 секунд на завершение запросов
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
	logger.Info("console facade exited properly")
}

// newSessionStore выбирает хранилище по конфигу; недоступный Redis откатывает на память.
func newSessionStore(ctx context.Context, cfg *infra.Config, logger *zap.Logger) (session.Store, func()) {
	if cfg.Session.Store != "redis" {
		return session.NewMemoryStore(cfg.Session.TTL), func() {}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unreachable, using in-memory session store",
			zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		rdb.Close()
		return session.NewMemoryStore(cfg.Session.TTL), func() {}
	}

	logger.Info("session store: redis", zap.String("addr", cfg.Redis.Addr))
	return session.NewRedisStore(rdb, cfg.Session.TTL), func() { rdb.Close() }
}
