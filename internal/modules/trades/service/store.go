package service

import (
	"context"

	"github.com/bytedance/sonic"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"echo_trade/internal/models"
	"echo_trade/pkg/db"
)

// Store — история завершённых сделок в Postgres. Детали сделки лежат
// одним jsonb-документом, по колонкам — только то, по чему фильтруем.
type Store struct {
	tx *db.PgTxManager
}

func New(tx *db.PgTxManager) *Store {
	return &Store{tx: tx}
}

const schema = `
CREATE TABLE IF NOT EXISTS closed_trades (
	id         BIGSERIAL PRIMARY KEY,
	symbol     TEXT NOT NULL,
	side       TEXT NOT NULL,
	pnl        DOUBLE PRECISION NOT NULL,
	reason     TEXT NOT NULL,
	closed_at  TIMESTAMPTZ NOT NULL,
	details    JSONB NOT NULL
)`

func (s *Store) EnsureSchema(ctx context.Context) error {
	return s.tx.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctxTx, schema)
		return errors.Wrap(err, "create closed_trades")
	})
}

func (s *Store) Insert(ctx context.Context, trade models.ClosedTrade) (err error) {
	defer func() {
		if err != nil {
			err = errors.Wrap(err, "Store.Insert")
		}
	}()

	var details []byte
	details, err = sonic.Marshal(trade)
	if err != nil {
		return err
	}

	return s.tx.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctxTx,
			`INSERT INTO closed_trades (symbol, side, pnl, reason, closed_at, details)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			trade.Symbol, string(trade.Side), trade.PnL, trade.Reason, trade.ClosedAt, details,
		)
		return err
	})
}

// Recent — последние сделки, свежие первыми.
func (s *Store) Recent(ctx context.Context, limit int) (out []models.ClosedTrade, err error) {
	defer func() {
		if err != nil {
			err = errors.Wrap(err, "Store.Recent")
		}
	}()

	rows, err := s.tx.Conn().Query(ctx,
		`SELECT details FROM closed_trades ORDER BY closed_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var raw []byte
		if err = rows.Scan(&raw); err != nil {
			return nil, err
		}
		var t models.ClosedTrade
		if err = sonic.Unmarshal(raw, &t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
