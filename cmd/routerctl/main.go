// routerctl — терминальный клиент консоли роутера и локальный stub бэкенда.
//
//	routerctl overview [-range 7d]
//	routerctl logs [-offset 0] [-limit 50] [-sort latency] [-dir desc]
//	routerctl run [-band high] [-provider openai] [-mode enhanced] <prompt>
//	routerctl stub [-addr :8000] [-seed 120]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/xela07ax/agenticlabs-console/internal/backend"
	"github.com/xela07ax/agenticlabs-console/internal/infra"
)

const usage = `usage: routerctl <command> [flags]

commands:
  overview   derived metrics with synthetic fallback
  logs       sorted run log page
  run        send a prompt through the translation proxy
  stub       serve an in-memory router backend
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := infra.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	// В терминале по умолчанию человекочитаемый лог и только предупреждения
	cfg.Logger.Format = "console"
	if cfg.Logger.Level == "info" {
		cfg.Logger.Level = "warn"
	}
	logger, err := infra.NewLogger(cfg.Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "overview":
		err = runOverview(ctx, cfg, logger, args)
	case "logs":
		err = runLogs(ctx, cfg, logger, args)
	case "run":
		err = runPlayground(ctx, cfg, logger, args)
	case "stub":
		err = runStub(ctx, cfg, logger, args)
	case "-h", "--help", "help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", cmd, err)
		os.Exit(1)
	}
}

// clientFlags — общие флаги подключения к бэкенду
type clientFlags struct {
	backendURL string
	width      int
}

func (c *clientFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.backendURL, "backend", "", "router backend base URL (overrides config)")
	fs.IntVar(&c.width, "width", 110, "render width in columns")
}

func (c *clientFlags) client(cfg *infra.Config, logger *zap.Logger) *backend.Client {
	bc := cfg.Backend
	bc.ResolvedBaseURL = infra.ResolveBaseURL(c.backendURL, bc.ResolvedBaseURL)
	return backend.NewClient(bc, nil, nil, logger)
}
