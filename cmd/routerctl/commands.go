package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/xela07ax/agenticlabs-console/internal/backend"
	"github.com/xela07ax/agenticlabs-console/internal/console/service"
	"github.com/xela07ax/agenticlabs-console/internal/console/session"
	"github.com/xela07ax/agenticlabs-console/internal/infra"
	"github.com/xela07ax/agenticlabs-console/internal/proxy"
	"github.com/xela07ax/agenticlabs-console/internal/render"
)

func runOverview(ctx context.Context, cfg *infra.Config, logger *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("overview", flag.ContinueOnError)
	var cf clientFlags
	cf.register(fs)
	rangeKey := fs.String("range", "7d", "time range: 24h, 7d, 30d")
	if err := fs.Parse(args); err != nil {
		return err
	}

	svc := service.NewOverviewService(cf.client(cfg, logger), nil, logger)
	fmt.Println(render.Overview(svc.Overview(ctx, *rangeKey), cf.width))
	return nil
}

func runLogs(ctx context.Context, cfg *infra.Config, logger *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("logs", flag.ContinueOnError)
	var cf clientFlags
	cf.register(fs)
	offset := fs.Int("offset", 0, "first record")
	limit := fs.Int("limit", service.DefaultLogsLimit, "page size")
	sortKey := fs.String("sort", "", "sort column: time, band, provider, model, latency, tokens, cost, savings, alri")
	dir := fs.String("dir", "asc", "sort direction: asc, desc")
	if err := fs.Parse(args); err != nil {
		return err
	}

	override, err := service.ParseSortOverride(*sortKey, *dir)
	if err != nil {
		return err
	}

	svc := service.NewLogsService(cf.client(cfg, logger), session.NewMemoryStore(0), nil, time.Local, logger)
	view, err := svc.Logs(ctx, service.LogsQuery{
		SessionID:    "routerctl",
		Offset:       *offset,
		Limit:        *limit,
		SortOverride: override,
	})
	if err != nil {
		return err
	}

	fmt.Println(render.LogsTable(view.Rows, view.Sort))
	if legend := render.TierLegend(view.Tiers); legend != "" {
		fmt.Println(legend)
	}
	fmt.Println(render.PageFooter(view.Offset, len(view.Rows), view.Total, view.Sort))
	return nil
}

func runPlayground(ctx context.Context, cfg *infra.Config, logger *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	var cf clientFlags
	cf.register(fs)
	band := fs.String("band", "auto", "complexity band: auto, low, medium, high")
	provider := fs.String("provider", render.ProviderAuto, "force provider: "+strings.Join(render.Providers, ", "))
	mode := fs.String("mode", "baseline", "router mode: baseline, enhanced")
	asJSON := fs.Bool("json", false, "print the raw result JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	prompt := strings.Join(fs.Args(), " ")

	raw, err := json.Marshal(map[string]any{
		"prompt":         prompt,
		"band":           *band,
		"force_provider": *provider,
		"router_mode":    *mode,
	})
	if err != nil {
		return err
	}

	translator := proxy.NewTranslator(cf.client(cfg, logger), cfg.Backend.AgentID, logger)
	svc := service.NewPlaygroundService(translator, nil, logger)

	result, runErr := svc.Run(ctx, raw)
	if runErr == nil && *asJSON {
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	view := render.RunView{Prompt: prompt, Result: result}
	if runErr != nil {
		view.Err = runErr.Error()
	}
	resultProvider := ""
	if result != nil {
		resultProvider = result.Provider
	}
	fmt.Println(render.Run(svc.Theme(*provider, resultProvider), view, cf.width))
	return runErr
}

func runStub(ctx context.Context, cfg *infra.Config, logger *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("stub", flag.ContinueOnError)
	addr := fs.String("addr", ":8000", "listen address")
	seed := fs.Int("seed", 120, "runs to pre-populate")
	span := fs.Duration("span", 7*24*time.Hour, "time span the seeded runs cover")
	delay := fs.Duration("delay", 0, "simulated provider delay on /v1/run")
	if err := fs.Parse(args); err != nil {
		return err
	}

	stub := backend.NewStub(nil, logger).WithDelay(*delay)
	stub.Seed(*seed, *span)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Mount("/", stub.Routes())

	srv := &http.Server{Addr: *addr, Handler: r, ReadTimeout: cfg.Server.ReadTimeout}
	errCh := make(chan error, 1)
	go func() {
		logger.Warn("stub backend listening", zap.String("addr", *addr), zap.Int("seeded_runs", *seed))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
