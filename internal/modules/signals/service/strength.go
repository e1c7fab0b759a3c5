package service

import "echo_trade/internal/models"

// SignalStrength агрегирует сигналы одного символа в чистый сентимент:
// buy-сила минус sell-сила, обе нормированы на общее число сигналов.
func SignalStrength(signals []models.Signal, symbol string) models.SignalStrength {
	var symbolSignals []models.Signal
	for _, s := range signals {
		if s.Symbol == symbol {
			symbolSignals = append(symbolSignals, s)
		}
	}

	if len(symbolSignals) == 0 {
		return models.SignalStrength{}
	}

	var buySum, sellSum float64
	for _, s := range symbolSignals {
		if s.Side == models.SideBuy {
			buySum += s.Confidence
		} else {
			sellSum += s.Confidence
		}
	}

	total := float64(len(symbolSignals))
	buyStrength := buySum / total
	sellStrength := sellSum / total

	return models.SignalStrength{
		BuyStrength:  buyStrength,
		SellStrength: sellStrength,
		NetSentiment: buyStrength - sellStrength,
		TotalSignals: len(symbolSignals),
	}
}
