package models

import "time"

// Side — направление сделки.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Opposite — закрывающая сторона для стопов и выхода из позиции.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// Signal — сигнал от копируемого трейдера. Иммутабелен: после создания
// никто его не меняет, размер позиции считает RiskManager заново.
type Signal struct {
	Trader     string
	Symbol     string
	Side       Side
	Price      float64
	Amount     float64 // информативно, реальный размер пересчитывается
	Confidence float64 // 0.0 - 1.0
	Timestamp  time.Time
}

// SignalStrength — агрегат по всем сигналам одного символа.
type SignalStrength struct {
	BuyStrength  float64
	SellStrength float64
	NetSentiment float64
	TotalSignals int
}
