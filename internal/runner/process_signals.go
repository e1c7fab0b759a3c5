package runner

import (
	"context"
	"log"
	"math"

	"echo_trade/internal/models"
	"echo_trade/pkg/logger"

	signalssvc "echo_trade/internal/modules/signals/service"
)

// processSignals сводит сигналы по символам в одно решение на символ:
// считаем чистый сентимент, слабые символы пропускаем, по сильным
// берём самый уверенный сигнал доминирующей стороны.
func (r *Runner) processSignals(ctx context.Context, sigs []models.Signal) {
	if len(sigs) == 0 {
		return
	}
	logger.Info("Processing %d signals", len(sigs))

	bySymbol := make(map[string][]models.Signal)
	for _, s := range sigs {
		bySymbol[s.Symbol] = append(bySymbol[s.Symbol], s)
	}

	for symbol, symbolSigs := range bySymbol {
		r.processSymbol(ctx, symbol, symbolSigs)
	}
}

func (r *Runner) processSymbol(ctx context.Context, symbol string, sigs []models.Signal) {
	strength := signalssvc.SignalStrength(sigs, symbol)

	if math.Abs(strength.NetSentiment) < r.cfg.MinNetSentiment {
		log.Printf("[SIGNAL] %s net sentiment %.3f below threshold, skip", symbol, strength.NetSentiment)
		return
	}

	dominantSide := models.SideBuy
	if strength.NetSentiment < 0 {
		dominantSide = models.SideSell
	}

	var best *models.Signal
	for i := range sigs {
		if sigs[i].Side != dominantSide {
			continue
		}
		if best == nil || sigs[i].Confidence > best.Confidence {
			best = &sigs[i]
		}
	}
	if best == nil {
		return
	}

	ok, reason := r.rm.ValidateSignal(*best)
	if !ok {
		logger.Warn("Signal rejected for %s: %s", symbol, reason)
		return
	}

	positionSize := r.rm.CalculatePositionSize(*best, 0)
	if positionSize <= 0 {
		logger.Warn("Position size too small for %s", symbol)
		return
	}

	r.executeTrade(ctx, *best, positionSize)
}

// executeTrade: исполнение, учёт позиции, постановка стопа.
func (r *Runner) executeTrade(ctx context.Context, sig models.Signal, positionSize float64) {
	result := r.exec.ExecuteSignalOrder(ctx, sig, positionSize)
	if !result.Success {
		logger.Error("Order execution failed: %s", result.Error)
		r.n.Sendf("❗️ [%s] Ордер не исполнен: %s", sig.Symbol, result.Error)
		return
	}

	r.rm.AddPosition(sig, result.FillPrice, result.FillAmount)

	stopLossPrice := r.rm.CalculateStopLossPrice(result.FillPrice, sig.Side)
	stopResult := r.exec.CreateStopLossOrder(ctx, sig.Symbol, sig.Side, result.FillAmount, stopLossPrice)
	if !stopResult.Success {
		logger.Warn("Stop-loss not placed for %s: %s", sig.Symbol, stopResult.Error)
	}

	logger.Info("Position opened: %s %s %.6f @ %.2f", sig.Symbol, sig.Side, result.FillAmount, result.FillPrice)
	r.n.Sendf("✅ [%s] OPEN %s %.6f @ %.2f | SL=%.2f | трейдер %s",
		sig.Symbol, sig.Side, result.FillAmount, result.FillPrice, stopLossPrice, sig.Trader)
}
