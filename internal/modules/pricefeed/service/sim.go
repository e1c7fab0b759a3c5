package service

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"echo_trade/internal/models"
	"echo_trade/internal/modules/config"
	healthsvc "echo_trade/internal/modules/health/service"
)

// SimFeed — синтетический поток цен для бумажного режима: случайное
// блуждание вокруг базовой цены актива. Тот же канал, та же книга,
// что и у живого стримера.
type SimFeed struct {
	cfg   *config.Config
	state *healthsvc.State
	rnd   *rand.Rand

	prices map[string]float64
}

func NewSimFeed(cfg *config.Config, state *healthsvc.State) *SimFeed {
	prices := make(map[string]float64, len(cfg.TradingPairs))
	for _, p := range cfg.TradingPairs {
		prices[p] = basePrice(p)
	}
	return &SimFeed{
		cfg:    cfg,
		state:  state,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		prices: prices,
	}
}

func basePrice(symbol string) float64 {
	switch {
	case strings.Contains(symbol, "BTC"):
		return 50000
	case strings.Contains(symbol, "ETH"):
		return 3000
	case strings.Contains(symbol, "BNB"):
		return 300
	default:
		return 1
	}
}

func (f *SimFeed) Start(ctx context.Context, out chan<- models.PriceTick) {
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()

		f.state.SetWSConnected(true)

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				for _, symbol := range f.cfg.TradingPairs {
					// шаг случайного блуждания до ±0.2%
					step := 1 + (f.rnd.Float64()-0.5)*0.004
					f.prices[symbol] *= step
					px := f.prices[symbol]

					tick := models.PriceTick{
						Symbol:    symbol,
						Price:     px,
						Bid:       px * 0.9995,
						Ask:       px * 1.0005,
						Volume:    f.rnd.Float64() * 10000,
						Change24h: (px/basePrice(symbol) - 1) * 100,
						Time:      time.Now(),
					}

					f.state.TouchTick(tick.Time)

					select {
					case out <- tick:
					default:
					}
				}
			}
		}
	}()
}
