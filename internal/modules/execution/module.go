package execution

import (
	"echo_trade/internal/modules/config"
	"echo_trade/internal/modules/execution/service"
	"echo_trade/pkg/logger"

	exch "echo_trade/internal/modules/exchange/service"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("execution",
		fx.Provide(
			func(cfg *config.Config, client *exch.Client) service.Executor {
				if cfg.PaperTrading {
					logger.Info("OrderExecutor initialized in paper trading mode")
					return service.NewPaper()
				}
				return service.NewLive(client)
			},
		),
	)
}
