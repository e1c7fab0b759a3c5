package service

import (
	"echo_trade/internal/models"
	"echo_trade/pkg/logger"
)

// CheckStopLosses возвращает символы, по которым стоп сработал.
// Только детекция — закрытие на совести вызывающего, он сам решает
// порядок исполнения и ретраи.
func (m *Manager) CheckStopLosses(marketPrices map[string]float64) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var symbolsToClose []string

	for symbol, pos := range m.positions {
		price, ok := marketPrices[symbol]
		if !ok {
			continue
		}

		shouldClose := false
		if pos.Side == models.SideBuy && price <= pos.StopLoss {
			shouldClose = true
		} else if pos.Side == models.SideSell && price >= pos.StopLoss {
			shouldClose = true
		}

		if shouldClose {
			symbolsToClose = append(symbolsToClose, symbol)
			logger.Warn("Stop loss triggered for %s at %.2f", symbol, price)
		}
	}

	return symbolsToClose
}
