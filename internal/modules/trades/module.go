package trades

import (
	"context"

	"go.uber.org/fx"

	"echo_trade/internal/modules/trades/service"
	"echo_trade/pkg/db"
)

func Module() fx.Option {
	return fx.Module("trades",
		fx.Provide(
			func(ctx context.Context, tx *db.PgTxManager) (*service.Store, error) {
				if tx == nil {
					return nil, nil // персистентность выключена
				}
				store := service.New(tx)
				if err := store.EnsureSchema(ctx); err != nil {
					return nil, err
				}
				return store, nil
			},
		),
	)
}
