package service

import (
	"fmt"

	"echo_trade/internal/models"
	"echo_trade/pkg/logger"
)

// Доля портфеля, больше которой одна сделка не бывает,
// независимо от position_size_percent.
const maxSingleTradeFraction = 0.1

// Минимальная уверенность сигнала, ниже — мусор.
const minConfidence = 0.1

// CheckPositionLimits — false, когда лимит одновременных позиций выбран.
func (m *Manager) CheckPositionLimits() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.checkPositionLimitsLocked()
}

func (m *Manager) checkPositionLimitsLocked() bool {
	if len(m.positions) >= m.params.MaxConcurrentPositions {
		logger.Warn("Maximum concurrent positions (%d) reached", m.params.MaxConcurrentPositions)
		return false
	}
	return true
}

// RefreshRiskState пересчитывает high-water mark и историческую просадку.
// Единственное место, где peak/maxDrawdown мутируют; оба монотонны.
func (m *Manager) RefreshRiskState() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshRiskStateLocked()
}

func (m *Manager) refreshRiskStateLocked() {
	current := m.currentPortfolioValueLocked()

	if current > m.peakValue {
		m.peakValue = current
	}

	drawdown := (m.peakValue - current) / m.peakValue
	if drawdown > m.maxDrawdown {
		m.maxDrawdown = drawdown
	}
}

// WithinDrawdownLimit — чистый предикат поверх освежённого состояния.
// Сначала RefreshRiskState, потом сюда.
func (m *Manager) WithinDrawdownLimit() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.withinDrawdownLimitLocked()
}

func (m *Manager) withinDrawdownLimitLocked() bool {
	current := m.currentPortfolioValueLocked()
	drawdown := (m.peakValue - current) / m.peakValue

	if drawdown > m.params.MaxDrawdownPercent {
		logger.Error("Drawdown limit exceeded: %.2f%% > %.2f%%",
			drawdown*100, m.params.MaxDrawdownPercent*100)
		return false
	}
	return true
}

// ValidateSignal — все бизнес-проверки по порядку, первая упавшая
// останавливает остальные. Просадка блокирует только новый риск:
// открытые позиции и их стопы живут своей жизнью.
func (m *Manager) ValidateSignal(sig models.Signal) (bool, string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.resetDailyStatsLocked()

	if sig.Confidence < minConfidence {
		return false, "Signal confidence too low"
	}

	if _, ok := m.pairs[sig.Symbol]; !ok {
		return false, fmt.Sprintf("Symbol %s not in allowed trading pairs", sig.Symbol)
	}

	if !m.checkPositionLimitsLocked() {
		return false, "Position limits exceeded"
	}

	m.refreshRiskStateLocked()
	if !m.withinDrawdownLimitLocked() {
		return false, "Drawdown limit exceeded"
	}

	// Сигнал в противоположную сторону по открытому символу пропускаем:
	// это осознанный переворот/усреднение, а не дубль.
	if existing, ok := m.positions[sig.Symbol]; ok && existing.Side == sig.Side {
		return false, fmt.Sprintf("Already have %s position in %s", sig.Side, sig.Symbol)
	}

	positionSize := m.positionSizeLocked(sig, 0)
	if positionSize == 0 {
		return false, "Position size too small"
	}

	positionValue := positionSize * sig.Price
	maxSingleTrade := m.portfolioValue * maxSingleTradeFraction
	if positionValue > maxSingleTrade {
		return false, fmt.Sprintf("Position value %.2f exceeds single trade limit %.2f",
			positionValue, maxSingleTrade)
	}

	return true, "Signal validation passed"
}
