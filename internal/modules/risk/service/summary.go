package service

import "echo_trade/internal/models"

// Summary — снапшот риска для дашборда/health.
func (m *Manager) Summary() models.RiskSummary {
	m.mu.Lock()
	defer m.mu.Unlock()

	current := m.currentPortfolioValueLocked()
	currentDrawdown := (m.peakValue - current) / m.peakValue
	if currentDrawdown < 0 {
		currentDrawdown = 0
	}

	details := make(map[string]models.PositionDetail, len(m.positions))
	for symbol, pos := range m.positions {
		details[symbol] = models.PositionDetail{
			Side:       pos.Side,
			Size:       pos.Size,
			EntryPrice: pos.Entry,
			CurrentPnL: pos.CurrentPnL,
			StopLoss:   pos.StopLoss,
		}
	}

	return models.RiskSummary{
		PortfolioValue:  current,
		DailyPnL:        m.dailyPnL,
		OpenPositions:   len(m.positions),
		MaxDrawdown:     m.maxDrawdown,
		CurrentDrawdown: currentDrawdown,
		TradesToday:     m.tradesToday,
		PositionDetails: details,
	}
}
