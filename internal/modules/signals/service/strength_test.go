package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"echo_trade/internal/models"
	"echo_trade/internal/modules/config"
)

func sig(symbol string, side models.Side, confidence float64) models.Signal {
	return models.Signal{
		Trader:     "Yun Qiang",
		Symbol:     symbol,
		Side:       side,
		Price:      50000,
		Confidence: confidence,
		Timestamp:  time.Now(),
	}
}

func TestSignalStrength(t *testing.T) {
	signals := []models.Signal{
		sig("BTC/USDT", models.SideBuy, 0.8),
		sig("BTC/USDT", models.SideBuy, 0.6),
		sig("BTC/USDT", models.SideSell, 0.4),
		sig("ETH/USDT", models.SideSell, 0.9), // чужой символ не считается
	}

	s := SignalStrength(signals, "BTC/USDT")
	assert.Equal(t, 3, s.TotalSignals)
	assert.InDelta(t, 1.4/3, s.BuyStrength, 1e-9)
	assert.InDelta(t, 0.4/3, s.SellStrength, 1e-9)
	assert.InDelta(t, 1.0/3, s.NetSentiment, 1e-9)
}

func TestSignalStrengthEmpty(t *testing.T) {
	s := SignalStrength(nil, "BTC/USDT")
	assert.Zero(t, s.TotalSignals)
	assert.Zero(t, s.NetSentiment)
}

func TestSignalStrengthSellDominated(t *testing.T) {
	signals := []models.Signal{
		sig("BTC/USDT", models.SideSell, 0.9),
		sig("BTC/USDT", models.SideSell, 0.7),
	}

	s := SignalStrength(signals, "BTC/USDT")
	assert.Negative(t, s.NetSentiment)
	assert.InDelta(t, -0.8, s.NetSentiment, 1e-9)
}

type staticPrices map[string]models.PriceTick

func (s staticPrices) Tick(symbol string) (models.PriceTick, bool) {
	t, ok := s[symbol]
	return t, ok
}

func fetcherConfig() *config.Config {
	cfg := &config.Config{
		TradingPairs: []string{"BTC/USDT"},
		Traders: []config.Trader{
			{Name: "Crypto Loby", ROI30d: 850, Priority: 2},
			{Name: "Yun Qiang", ROI30d: 1700, Priority: 1},
		},
	}
	return cfg
}

func TestFetchSignalsRespectsCooldown(t *testing.T) {
	prices := staticPrices{
		"BTC/USDT": {Symbol: "BTC/USDT", Price: 50000, Bid: 49990, Ask: 50010, Change24h: 5},
	}
	f := NewFetcher(fetcherConfig(), prices)

	// помечаем трейдеров как только что отсигналивших
	f.mu.Lock()
	f.lastSignal["Yun Qiang"] = time.Now()
	f.lastSignal["Crypto Loby"] = time.Now()
	f.mu.Unlock()

	assert.Empty(t, f.FetchSignals())
}

func TestFetchSignalsFields(t *testing.T) {
	prices := staticPrices{
		"BTC/USDT": {Symbol: "BTC/USDT", Price: 50000, Bid: 49990, Ask: 50010, Change24h: 8},
	}
	f := NewFetcher(fetcherConfig(), prices)

	// вероятность сигнала стохастическая, собираем несколько циклов
	var all []models.Signal
	for i := 0; i < 200 && len(all) == 0; i++ {
		all = append(all, f.FetchSignals()...)
		f.mu.Lock()
		f.lastSignal = make(map[string]time.Time)
		f.mu.Unlock()
	}

	if len(all) == 0 {
		t.Skip("no signals generated, probability too low for this seed")
	}

	for _, s := range all {
		assert.Equal(t, "BTC/USDT", s.Symbol)
		assert.Positive(t, s.Confidence)
		assert.LessOrEqual(t, s.Confidence, 1.0)
		switch s.Side {
		case models.SideBuy:
			assert.InDelta(t, 50010, s.Price, 1e-9)
		case models.SideSell:
			assert.InDelta(t, 49990, s.Price, 1e-9)
		}
	}
}
