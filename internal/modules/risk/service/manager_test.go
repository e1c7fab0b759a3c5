package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"echo_trade/internal/models"
	"echo_trade/internal/modules/config"
)

func testParams() config.RiskParams {
	return config.RiskParams{
		PositionSizePercent:    0.02,
		StopLossPercent:        0.02,
		MaxDrawdownPercent:     0.10,
		MinTradeAmount:         10,
		MaxConcurrentPositions: 5,
	}
}

func testPairs() []string {
	return []string{"BTC/USDT", "ETH/USDT"}
}

func buySignal(symbol string, price, confidence float64) models.Signal {
	return models.Signal{
		Trader:     "Yun Qiang",
		Symbol:     symbol,
		Side:       models.SideBuy,
		Price:      price,
		Amount:     0.1,
		Confidence: confidence,
		Timestamp:  time.Now(),
	}
}

func TestCalculatePositionSize(t *testing.T) {
	m := NewWithParams(testParams(), testPairs(), 10000)

	// (10000 * 0.02 * 0.8) / 50000
	size := m.CalculatePositionSize(buySignal("BTC/USDT", 50000, 0.8), 0)
	assert.InDelta(t, 0.0032, size, 1e-9)

	// явная рыночная цена важнее цены сигнала
	size = m.CalculatePositionSize(buySignal("BTC/USDT", 50000, 0.8), 40000)
	assert.InDelta(t, 0.004, size, 1e-9)
}

func TestCalculatePositionSizeDust(t *testing.T) {
	m := NewWithParams(testParams(), testPairs(), 10000)

	// 10000 * 0.02 * 0.04 = 8 < min 10
	size := m.CalculatePositionSize(buySignal("BTC/USDT", 50000, 0.04), 0)
	assert.Zero(t, size)
}

func TestCalculateStopLossPrice(t *testing.T) {
	m := NewWithParams(testParams(), testPairs(), 10000)

	assert.InDelta(t, 49000, m.CalculateStopLossPrice(50000, models.SideBuy), 1e-9)
	assert.InDelta(t, 50000/0.98, m.CalculateStopLossPrice(50000, models.SideSell), 1e-9)
}

func TestPositionPnL(t *testing.T) {
	long := models.Position{Symbol: "BTC/USDT", Side: models.SideBuy, Size: 0.1, Entry: 50000}
	assert.InDelta(t, 100, long.UpdatePnL(51000), 1e-9)
	assert.InDelta(t, -100, long.UpdatePnL(49000), 1e-9)

	short := models.Position{Symbol: "BTC/USDT", Side: models.SideSell, Size: 0.1, Entry: 50000}
	assert.InDelta(t, -100, short.UpdatePnL(51000), 1e-9)
	assert.InDelta(t, 100, short.UpdatePnL(49000), 1e-9)
}

func TestRemovePositionRealizesPnL(t *testing.T) {
	m := NewWithParams(testParams(), testPairs(), 10000)
	m.AddPosition(buySignal("BTC/USDT", 50000, 0.8), 50000, 0.01)

	pnl, ok := m.RemovePosition("BTC/USDT", 51000)
	assert.True(t, ok)
	assert.InDelta(t, 10, pnl, 1e-9)
	assert.InDelta(t, 10010, m.PortfolioValue(), 1e-9)
	assert.Zero(t, m.OpenPositionCount())

	_, ok = m.RemovePosition("BTC/USDT", 51000)
	assert.False(t, ok)
}

func TestPositionFlipOverwrites(t *testing.T) {
	m := NewWithParams(testParams(), testPairs(), 10000)
	m.AddPosition(buySignal("BTC/USDT", 50000, 0.8), 50000, 0.01)

	sell := buySignal("BTC/USDT", 50000, 0.8)
	sell.Side = models.SideSell
	m.AddPosition(sell, 50000, 0.02)

	assert.Equal(t, 1, m.OpenPositionCount())
	pos, ok := m.Position("BTC/USDT")
	assert.True(t, ok)
	assert.Equal(t, models.SideSell, pos.Side)
	assert.InDelta(t, 0.02, pos.Size, 1e-9)
}

func TestDrawdownLimit(t *testing.T) {
	m := NewWithParams(testParams(), testPairs(), 10000)
	m.RefreshRiskState() // peak = 10000

	// просадка 8% < лимита 10%
	m.SetPortfolioValue(9200)
	m.RefreshRiskState()
	assert.True(t, m.WithinDrawdownLimit())

	// 12% > 10%
	m.SetPortfolioValue(8800)
	m.RefreshRiskState()
	assert.False(t, m.WithinDrawdownLimit())

	// восстановление не лечит предикат мгновенно — текущая просадка
	// считается от пика, пик не опускается
	m.SetPortfolioValue(9500)
	m.RefreshRiskState()
	assert.True(t, m.WithinDrawdownLimit())
}

func TestPeakIsMonotonic(t *testing.T) {
	m := NewWithParams(testParams(), testPairs(), 10000)

	m.SetPortfolioValue(12000)
	m.RefreshRiskState()
	m.SetPortfolioValue(11000)
	m.RefreshRiskState()

	// пик 12000, просадка (12000-11000)/12000 = 8.3% < 10%
	assert.True(t, m.WithinDrawdownLimit())

	m.SetPortfolioValue(10500)
	m.RefreshRiskState()
	// 12.5% > 10%
	assert.False(t, m.WithinDrawdownLimit())
}

func TestCheckPositionLimits(t *testing.T) {
	params := testParams()
	params.MaxConcurrentPositions = 2
	m := NewWithParams(params, testPairs(), 10000)

	assert.True(t, m.CheckPositionLimits())
	m.AddPosition(buySignal("BTC/USDT", 50000, 0.8), 50000, 0.001)
	assert.True(t, m.CheckPositionLimits())
	m.AddPosition(buySignal("ETH/USDT", 3000, 0.8), 3000, 0.01)
	assert.False(t, m.CheckPositionLimits())
}

func TestValidateSignal(t *testing.T) {
	m := NewWithParams(testParams(), testPairs(), 10000)

	ok, reason := m.ValidateSignal(buySignal("BTC/USDT", 50000, 0.8))
	assert.True(t, ok)
	assert.Equal(t, "Signal validation passed", reason)
}

func TestValidateSignalOrder(t *testing.T) {
	m := NewWithParams(testParams(), testPairs(), 10000)

	// уверенность проверяется раньше символа
	ok, reason := m.ValidateSignal(buySignal("DOGE/USDT", 1, 0.05))
	assert.False(t, ok)
	assert.Equal(t, "Signal confidence too low", reason)

	ok, reason = m.ValidateSignal(buySignal("DOGE/USDT", 1, 0.8))
	assert.False(t, ok)
	assert.Equal(t, "Symbol DOGE/USDT not in allowed trading pairs", reason)
}

func TestValidateSignalDuplicate(t *testing.T) {
	m := NewWithParams(testParams(), testPairs(), 10000)
	m.AddPosition(buySignal("BTC/USDT", 50000, 0.8), 50000, 0.001)

	ok, reason := m.ValidateSignal(buySignal("BTC/USDT", 50000, 0.8))
	assert.False(t, ok)
	assert.Equal(t, "Already have buy position in BTC/USDT", reason)

	// противоположная сторона — осознанный переворот, пропускаем
	sell := buySignal("BTC/USDT", 50000, 0.8)
	sell.Side = models.SideSell
	ok, _ = m.ValidateSignal(sell)
	assert.True(t, ok)
}

func TestValidateSignalPositionLimit(t *testing.T) {
	params := testParams()
	params.MaxConcurrentPositions = 1
	m := NewWithParams(params, testPairs(), 10000)
	m.AddPosition(buySignal("BTC/USDT", 50000, 0.8), 50000, 0.001)

	ok, reason := m.ValidateSignal(buySignal("ETH/USDT", 3000, 0.8))
	assert.False(t, ok)
	assert.Equal(t, "Position limits exceeded", reason)
}

func TestValidateSignalDrawdown(t *testing.T) {
	m := NewWithParams(testParams(), testPairs(), 10000)
	m.SetPortfolioValue(8800)

	ok, reason := m.ValidateSignal(buySignal("BTC/USDT", 50000, 0.8))
	assert.False(t, ok)
	assert.Equal(t, "Drawdown limit exceeded", reason)
}

func TestValidateSignalSingleTradeCap(t *testing.T) {
	params := testParams()
	params.PositionSizePercent = 0.2 // 20% на сделку > кэпа 10%
	m := NewWithParams(params, testPairs(), 10000)

	ok, reason := m.ValidateSignal(buySignal("BTC/USDT", 1.0, 1.0))
	assert.False(t, ok)
	assert.Equal(t, "Position value 2000.00 exceeds single trade limit 1000.00", reason)
}

func TestValidateSignalDustSize(t *testing.T) {
	m := NewWithParams(testParams(), testPairs(), 10000)

	ok, reason := m.ValidateSignal(buySignal("BTC/USDT", 50000, 0.04))
	assert.False(t, ok)
	assert.Equal(t, "Position size too small", reason)
}

func TestCheckStopLosses(t *testing.T) {
	m := NewWithParams(testParams(), testPairs(), 10000)

	m.AddPosition(buySignal("BTC/USDT", 50000, 0.8), 50000, 0.001) // стоп 49000
	sell := buySignal("ETH/USDT", 3000, 0.8)
	sell.Side = models.SideSell
	m.AddPosition(sell, 3000, 0.01) // стоп 3000/0.98 ~ 3061.22

	// цены в безопасной зоне
	assert.Empty(t, m.CheckStopLosses(map[string]float64{
		"BTC/USDT": 49500,
		"ETH/USDT": 3050,
	}))

	// лонг пробил стоп вниз
	assert.Equal(t, []string{"BTC/USDT"}, m.CheckStopLosses(map[string]float64{
		"BTC/USDT": 48900,
		"ETH/USDT": 3050,
	}))

	// шорт пробил стоп вверх
	assert.Equal(t, []string{"ETH/USDT"}, m.CheckStopLosses(map[string]float64{
		"BTC/USDT": 49500,
		"ETH/USDT": 3100,
	}))

	// нет котировки - нет решения
	assert.Empty(t, m.CheckStopLosses(map[string]float64{}))
}

func TestDailyStatsReset(t *testing.T) {
	m := NewWithParams(testParams(), testPairs(), 10000)

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	m.nowFn = func() time.Time { return now }
	m.lastReset = now

	m.AddPosition(buySignal("BTC/USDT", 50000, 0.8), 50000, 0.001)
	assert.Equal(t, 1, m.tradesToday)

	// новый день — счётчик обнуляется при первой валидации
	now = now.Add(24 * time.Hour)
	ok, _ := m.ValidateSignal(buySignal("ETH/USDT", 3000, 0.8))
	assert.True(t, ok)
	assert.Zero(t, m.tradesToday)
	assert.Zero(t, m.dailyPnL)
}

func TestSummary(t *testing.T) {
	m := NewWithParams(testParams(), testPairs(), 10000)
	m.AddPosition(buySignal("BTC/USDT", 50000, 0.8), 50000, 0.01)
	m.UpdatePositions(map[string]float64{"BTC/USDT": 51000})

	s := m.Summary()
	assert.InDelta(t, 10010, s.PortfolioValue, 1e-9)
	assert.Equal(t, 1, s.OpenPositions)
	assert.Equal(t, 1, s.TradesToday)
	assert.Zero(t, s.CurrentDrawdown) // выше стартового пика
	detail, ok := s.PositionDetails["BTC/USDT"]
	assert.True(t, ok)
	assert.InDelta(t, 10, detail.CurrentPnL, 1e-9)
}
