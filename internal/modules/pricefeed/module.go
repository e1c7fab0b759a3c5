package pricefeed

import (
	"context"

	"go.uber.org/fx"

	"echo_trade/internal/models"
	"echo_trade/internal/modules/config"
	"echo_trade/internal/modules/pricefeed/service"
)

func newTicksChan(cfg *config.Config) chan models.PriceTick {
	return make(chan models.PriceTick, cfg.FeedBufferSize)
}
func asRecvOnlyTicks(ch chan models.PriceTick) <-chan models.PriceTick { return ch }

func Module() fx.Option {
	return fx.Module("pricefeed",
		fx.Provide(
			newTicksChan,
			asRecvOnlyTicks,
			service.NewBook,    // *service.Book
			service.NewClient,  // *service.Client
			service.NewSimFeed, // *service.SimFeed
		),

		// стример пишет в канал, насос перекладывает тики в книгу
		fx.Invoke(func(lc fx.Lifecycle, c *service.Client, sim *service.SimFeed, book *service.Book, cfg *config.Config, ticks chan models.PriceTick, ctx context.Context) {
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					if cfg.PaperTrading {
						sim.Start(ctx, ticks)
					} else {
						c.Start(ctx, ticks)
					}
					go func() {
						for {
							select {
							case <-ctx.Done():
								return
							case t, ok := <-ticks:
								if !ok {
									return
								}
								book.Apply(t)
							}
						}
					}()
					return nil
				},
			})
		}),
	)
}
