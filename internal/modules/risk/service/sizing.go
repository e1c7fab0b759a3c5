package service

import (
	"echo_trade/internal/models"
	"echo_trade/pkg/logger"
)

// CalculatePositionSize — размер позиции в базовой валюте:
// (портфель * доля на сделку * уверенность) / цена.
// currentPrice <= 0 означает "возьми цену из сигнала".
// Возвращает 0, если стоимость позиции ниже минимального лота.
func (m *Manager) CalculatePositionSize(sig models.Signal, currentPrice float64) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.positionSizeLocked(sig, currentPrice)
}

func (m *Manager) positionSizeLocked(sig models.Signal, currentPrice float64) float64 {
	if currentPrice <= 0 {
		currentPrice = sig.Price
	}

	basePositionValue := m.portfolioValue * m.params.PositionSizePercent
	adjustedPositionValue := basePositionValue * sig.Confidence

	// отсекаем пыль
	if adjustedPositionValue < m.params.MinTradeAmount {
		logger.Warn("Position size %.2f below minimum %.2f", adjustedPositionValue, m.params.MinTradeAmount)
		return 0
	}

	return adjustedPositionValue / currentPrice
}

// CalculateStopLossPrice — цена стопа от входа.
// long: entry * (1 - s); short: entry / (1 - s).
// Асимметрия намеренная: при малых s потеря в котируемой валюте примерно
// симметрична, при больших — нет. Не "чинить".
func (m *Manager) CalculateStopLossPrice(entryPrice float64, side models.Side) float64 {
	return m.stopLossPrice(entryPrice, side)
}

func (m *Manager) stopLossPrice(entryPrice float64, side models.Side) float64 {
	multiplier := 1 - m.params.StopLossPercent
	if side == models.SideBuy {
		return entryPrice * multiplier
	}
	return entryPrice / multiplier
}
