package models

import "time"

// Position — открытая позиция. Живёт только внутри книги RiskManager,
// ключ — символ (не больше одной позиции на символ).
type Position struct {
	Symbol     string
	Side       Side
	Size       float64 // в базовой валюте
	Entry      float64
	StopLoss   float64
	OpenedAt   time.Time
	CurrentPnL float64
}

// UpdatePnL пересчитывает нереализованный P&L по текущей цене.
// long: (price - entry) * size; short: (entry - price) * size.
func (p *Position) UpdatePnL(currentPrice float64) float64 {
	if p.Side == SideBuy {
		p.CurrentPnL = (currentPrice - p.Entry) * p.Size
	} else {
		p.CurrentPnL = (p.Entry - currentPrice) * p.Size
	}
	return p.CurrentPnL
}
