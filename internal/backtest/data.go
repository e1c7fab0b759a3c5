package backtest

import (
	"math/rand"
	"time"
)

// Candle - часовая свеча синтетического ряда.
type Candle struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

var basePrices = map[string]float64{
	"BTC/USDT": 45000,
	"ETH/USDT": 2800,
	"BNB/USDT": 300,
	"ADA/USDT": 0.45,
}

// generateSyntheticData строит часовой ряд геометрическим броуновским
// движением: небольшой положительный дрейф, волатильность 2%.
func generateSyntheticData(rnd *rand.Rand, symbol string, start, end time.Time) []Candle {
	base, ok := basePrices[symbol]
	if !ok {
		base = 100
	}

	var candles []Candle
	price := base
	for t := start; !t.After(end); t = t.Add(time.Hour) {
		prev := price
		if len(candles) > 0 {
			ret := rnd.NormFloat64()*0.02 + 0.0002
			price = prev * (1 + ret)
		}

		hi, lo := prev, price
		if price > prev {
			hi, lo = price, prev
		}
		spread := price * 0.01
		candles = append(candles, Candle{
			Time:   t,
			Open:   prev,
			High:   hi + spread*rnd.Float64(),
			Low:    lo - spread*rnd.Float64(),
			Close:  price,
			Volume: 1000 + rnd.Float64()*9000,
		})
	}
	return candles
}

// sma возвращает среднее close за window свечей, заканчивая i включительно.
func sma(candles []Candle, i, window int) float64 {
	if i+1 < window {
		return 0
	}
	var sum float64
	for j := i - window + 1; j <= i; j++ {
		sum += candles[j].Close
	}
	return sum / float64(window)
}
