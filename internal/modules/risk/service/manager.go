package service

import (
	"sync"
	"time"

	"echo_trade/internal/models"
	"echo_trade/internal/modules/config"
	"echo_trade/pkg/logger"
)

// Manager — единственный владелец книги позиций и счётчиков портфеля.
// Все капитальные решения проходят через него. Мьютекс один на всё:
// validate -> size -> add должны быть атомарны относительно других акторов.
type Manager struct {
	mu sync.Mutex

	params config.RiskParams
	pairs  map[string]struct{}

	// portfolioValue — реализованный капитал, без нереализованного P&L.
	portfolioValue float64
	peakValue      float64 // high-water mark, не убывает
	maxDrawdown    float64 // исторический максимум просадки, не убывает

	dailyPnL    float64
	tradesToday int
	lastReset   time.Time

	positions map[string]*models.Position

	nowFn func() time.Time
}

func NewManager(cfg *config.Config) *Manager {
	return NewWithParams(cfg.RiskParams(), cfg.TradingPairs, cfg.PortfolioValue)
}

// NewWithParams — конструктор для бэктеста и тестов, без полного конфига.
func NewWithParams(params config.RiskParams, pairs []string, portfolioValue float64) *Manager {
	allowed := make(map[string]struct{}, len(pairs))
	for _, p := range pairs {
		allowed[p] = struct{}{}
	}
	return &Manager{
		params:         params,
		pairs:          allowed,
		portfolioValue: portfolioValue,
		peakValue:      portfolioValue,
		positions:      make(map[string]*models.Position),
		lastReset:      time.Now(),
		nowFn:          time.Now,
	}
}

// resetDailyStatsLocked сбрасывает дневные счётчики при смене даты.
func (m *Manager) resetDailyStatsLocked() {
	now := m.nowFn()
	if now.YearDay() != m.lastReset.YearDay() || now.Year() != m.lastReset.Year() {
		m.tradesToday = 0
		m.dailyPnL = 0
		m.lastReset = now
		logger.Info("Daily statistics reset")
	}
}

// AddPosition вставляет позицию по факту исполнения. Лимиты здесь не
// перепроверяются — валидация обязана была пройти раньше. Повторная
// вставка по тому же символу перезаписывает позицию (переворот);
// брошенный нереализованный P&L не реализуется — только логируется.
func (m *Manager) AddPosition(sig models.Signal, fillPrice, fillSize float64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if prev, ok := m.positions[sig.Symbol]; ok {
		logger.Warn("Position flip on %s: discarding %s position with unrealized PnL %.2f",
			sig.Symbol, prev.Side, prev.CurrentPnL)
	}

	stop := m.stopLossPrice(fillPrice, sig.Side)
	m.positions[sig.Symbol] = &models.Position{
		Symbol:   sig.Symbol,
		Side:     sig.Side,
		Size:     fillSize,
		Entry:    fillPrice,
		StopLoss: stop,
		OpenedAt: m.nowFn(),
	}
	m.tradesToday++

	logger.Info("Added position: %s %s %.6f @ %.2f", sig.Symbol, sig.Side, fillSize, fillPrice)
	return true
}

// RemovePosition закрывает позицию по exit-цене, реализует P&L в портфель
// и дневную статистику. ok=false если позиции нет.
func (m *Manager) RemovePosition(symbol string, exitPrice float64) (float64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pos, ok := m.positions[symbol]
	if !ok {
		return 0, false
	}

	finalPnL := pos.UpdatePnL(exitPrice)
	m.portfolioValue += finalPnL
	m.dailyPnL += finalPnL
	delete(m.positions, symbol)

	logger.Info("Closed position: %s with P&L: %.2f", symbol, finalPnL)
	return finalPnL, true
}

// UpdatePositions обновляет нереализованный P&L по котировкам.
// Позиции без котировки остаются со старым значением.
func (m *Manager) UpdatePositions(marketPrices map[string]float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for symbol, pos := range m.positions {
		if price, ok := marketPrices[symbol]; ok {
			pos.UpdatePnL(price)
		}
	}
}

// Position — копия позиции по символу.
func (m *Manager) Position(symbol string) (models.Position, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pos, ok := m.positions[symbol]
	if !ok {
		return models.Position{}, false
	}
	return *pos, true
}

// OpenSymbols — символы с открытыми позициями.
func (m *Manager) OpenSymbols() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, 0, len(m.positions))
	for s := range m.positions {
		out = append(out, s)
	}
	return out
}

func (m *Manager) OpenPositionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.positions)
}

func (m *Manager) PortfolioValue() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.portfolioValue
}

// SetPortfolioValue выставляет реализованный капитал напрямую.
// Нужен бэктесту, который ведёт счёт капитала сам.
func (m *Manager) SetPortfolioValue(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.portfolioValue = v
}

// currentPortfolioValueLocked = портфель + нереализованный P&L открытых позиций.
func (m *Manager) currentPortfolioValueLocked() float64 {
	total := m.portfolioValue
	for _, pos := range m.positions {
		total += pos.CurrentPnL
	}
	return total
}

// CurrentPortfolioValue — портфель с учётом открытых позиций.
func (m *Manager) CurrentPortfolioValue() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentPortfolioValueLocked()
}
