package service

import (
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"echo_trade/internal/models"
	"echo_trade/internal/modules/config"
	"echo_trade/pkg/logger"
)

// Между сигналами одного трейдера минимум пять минут.
const minSignalInterval = 5 * time.Minute

// PriceSource — откуда фетчер берёт рынок. В бою это книга стримера,
// в тестах — заглушка.
type PriceSource interface {
	Tick(symbol string) (models.PriceTick, bool)
}

// Fetcher синтезирует сигналы копируемых трейдеров из рыночных данных:
// волатильность и ROI трейдера поднимают и вероятность сигнала, и его
// уверенность. Сами сигналы — инертные данные, решает по ним RiskManager.
type Fetcher struct {
	cfg *config.Config
	src PriceSource

	mu         sync.Mutex
	rnd        *rand.Rand
	lastSignal map[string]time.Time // trader -> время последнего сигнала
}

func NewFetcher(cfg *config.Config, src PriceSource) *Fetcher {
	return &Fetcher{
		cfg:        cfg,
		src:        src,
		rnd:        rand.New(rand.NewSource(time.Now().UnixNano())),
		lastSignal: make(map[string]time.Time),
	}
}

// FetchSignals — все сигналы за цикл, трейдеры в порядке приоритета.
func (f *Fetcher) FetchSignals() []models.Signal {
	traders := make([]config.Trader, len(f.cfg.Traders))
	copy(traders, f.cfg.Traders)
	sort.Slice(traders, func(i, j int) bool {
		if traders[i].Priority != traders[j].Priority {
			return traders[i].Priority < traders[j].Priority
		}
		return traders[i].ROI30d > traders[j].ROI30d
	})

	var all []models.Signal
	for _, trader := range traders {
		all = append(all, f.simulateTraderSignals(trader)...)
	}

	logger.Info("Fetched %d signals from %d traders", len(all), len(traders))
	return all
}

func (f *Fetcher) simulateTraderSignals(trader config.Trader) []models.Signal {
	f.mu.Lock()
	defer f.mu.Unlock()

	if last, ok := f.lastSignal[trader.Name]; ok && time.Since(last) < minSignalInterval {
		return nil
	}

	var signals []models.Signal
	for _, symbol := range f.cfg.TradingPairs {
		tick, ok := f.src.Tick(symbol)
		if !ok {
			continue
		}

		volatilityFactor := math.Abs(tick.Change24h) / 100
		roiFactor := trader.ROI30d / 1000

		// чем волатильнее рынок и агрессивнее трейдер, тем чаще сигналы
		probability := math.Min(0.3, volatilityFactor*roiFactor*0.1)
		if f.rnd.Float64() >= probability {
			continue
		}

		var side models.Side
		switch {
		case tick.Change24h > 2:
			side = models.SideBuy
			if f.rnd.Float64() >= 0.7 {
				side = models.SideSell
			}
		case tick.Change24h < -2:
			side = models.SideSell
			if f.rnd.Float64() >= 0.7 {
				side = models.SideBuy
			}
		default:
			side = models.SideBuy
			if f.rnd.Float64() < 0.5 {
				side = models.SideSell
			}
		}

		confidence := math.Min(1.0, (roiFactor+volatilityFactor)/2)

		price := tick.Bid
		if side == models.SideBuy {
			price = tick.Ask
		}

		sig := models.Signal{
			Trader:     trader.Name,
			Symbol:     symbol,
			Side:       side,
			Price:      price,
			Amount:     100 * roiFactor * confidence,
			Confidence: confidence,
			Timestamp:  time.Now(),
		}
		signals = append(signals, sig)
		logger.Info("Generated signal: %s %s %s @ %.2f conf=%.2f",
			trader.Name, symbol, side, price, confidence)
	}

	if len(signals) > 0 {
		f.lastSignal[trader.Name] = time.Now()
	}
	return signals
}
