package exchange

import (
	"echo_trade/internal/modules/exchange/service"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("exchange",
		fx.Provide(
			service.NewClient, // *service.Client
		),
	)
}
