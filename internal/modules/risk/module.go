package risk

import (
	"echo_trade/internal/modules/risk/service"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("risk",
		fx.Provide(
			service.NewManager, // *service.Manager
		),
	)
}
