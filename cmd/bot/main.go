package main

import (
	"context"
	"log"

	"echo_trade/internal/modules/config"
	"echo_trade/internal/modules/exchange"
	"echo_trade/internal/modules/execution"
	"echo_trade/internal/modules/health"
	"echo_trade/internal/modules/postgres"
	"echo_trade/internal/modules/pricefeed"
	"echo_trade/internal/modules/risk"
	"echo_trade/internal/modules/signals"
	"echo_trade/internal/modules/trades"
	"echo_trade/internal/notify"
	"echo_trade/internal/runner"
	"echo_trade/pkg/logger"
	"echo_trade/pkg/tracing"

	"go.uber.org/fx"
)

func main() {
	if err := logger.Init(); err != nil {
		log.Fatal(err)
	}

	app := fx.New(
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
			func(cfg *config.Config) (*notify.Telegram, error) {
				return notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID)
			},
		),
		config.Module(),
		postgres.Module(),
		trades.Module(),
		exchange.Module(),
		execution.Module(),
		pricefeed.Module(),
		signals.Module(),
		risk.Module(),
		health.Module(),
		runner.Module(),

		fx.Invoke(validateConfig, initTracing),
	)
	if err := app.Start(context.Background()); err != nil {
		log.Fatal(err)
	}
}

func validateConfig(cfg *config.Config) {
	errs := cfg.Validate()
	if len(errs) == 0 {
		return
	}
	for _, e := range errs {
		logger.Warn("Config: %s", e)
	}
	if !cfg.PaperTrading {
		logger.Fatal("Refusing to start live trading with invalid config")
	}
}

func initTracing(lc fx.Lifecycle, cfg *config.Config) error {
	if cfg.Jaeger.Host == "" {
		return nil
	}
	_, closeTracer, err := tracing.InitTracer(tracing.Config{
		Host: cfg.Jaeger.Host,
		Port: cfg.Jaeger.Port,
	})
	if err != nil {
		return err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			closeTracer()
			return nil
		},
	})
	return nil
}
