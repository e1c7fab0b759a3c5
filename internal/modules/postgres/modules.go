package postgres

import (
	"context"
	"fmt"

	"echo_trade/internal/modules/config"
	"echo_trade/pkg/db"
	"echo_trade/pkg/logger"

	"go.uber.org/fx"
)

// Module отдаёт *db.PgTxManager. Пустой DSN — валидный кейс для бумажной
// торговли: менеджер будет nil, история сделок просто не пишется.
func Module() fx.Option {
	return fx.Module("postgres",
		fx.Provide(
			func(ctx context.Context, cfg *config.Config) (*db.PgTxManager, error) {
				if cfg.DB == "" {
					logger.Warn("DATABASE_DSN is empty, trade history disabled")
					return nil, nil
				}

				poolMaster, err := db.NewPool(ctx, db.PoolConfig{
					DSN: cfg.DB,
				})
				if err != nil {
					return nil, fmt.Errorf("failed to create poolMaster: %w", err)
				}

				err = poolMaster.Ping(ctx)
				if err != nil {
					return nil, err
				}

				return db.NewPgTxManager(poolMaster), nil
			},
		),
	)
}
