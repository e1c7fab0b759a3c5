package runner

import (
	"context"
	"time"

	"echo_trade/internal/models"
	"echo_trade/pkg/logger"
)

// closePosition закрывает позицию рыночным ордером противоположной
// стороны, фиксирует PnL и пишет сделку в историю.
func (r *Runner) closePosition(ctx context.Context, symbol string, price float64, reason string) {
	pos, ok := r.rm.Position(symbol)
	if !ok {
		return
	}

	closing := models.Signal{
		Trader:     "SYSTEM",
		Symbol:     symbol,
		Side:       pos.Side.Opposite(),
		Price:      price,
		Confidence: 1.0,
		Timestamp:  time.Now(),
	}

	result := r.exec.ExecuteSignalOrder(ctx, closing, pos.Size)
	if !result.Success {
		logger.Error("Failed to close position %s: %s", symbol, result.Error)
		r.n.Sendf("❗️ [%s] Не удалось закрыть позицию: %s", symbol, result.Error)
		return
	}

	pnl, ok := r.rm.RemovePosition(symbol, result.FillPrice)
	if !ok {
		return
	}

	logger.Info("Position closed: %s reason=%s pnl=%.2f", symbol, reason, pnl)

	if r.store != nil {
		trade := models.ClosedTrade{
			Symbol:     symbol,
			Side:       pos.Side,
			Size:       pos.Size,
			EntryPrice: pos.Entry,
			ExitPrice:  result.FillPrice,
			PnL:        pnl,
			Trader:     "SYSTEM",
			Reason:     reason,
			OpenedAt:   pos.OpenedAt,
			ClosedAt:   time.Now(),
		}
		if err := r.store.Insert(ctx, trade); err != nil {
			logger.Error("Failed to persist closed trade: %v", err)
		}
	}

	emoji := "🟢"
	if pnl < 0 {
		emoji = "🔴"
	}
	r.n.Sendf("%s [%s] CLOSE %s @ %.2f | PnL %.2f | %s",
		emoji, symbol, pos.Side, result.FillPrice, pnl, reason)
}
