package signals

import (
	"echo_trade/internal/modules/signals/service"

	feedsvc "echo_trade/internal/modules/pricefeed/service"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("signals",
		fx.Provide(
			func(book *feedsvc.Book) service.PriceSource { return book },
			service.NewFetcher, // *service.Fetcher
		),
	)
}
