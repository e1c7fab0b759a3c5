package models

import "time"

// PriceTick — иммутабельное событие цены из стримера.
type PriceTick struct {
	Symbol    string
	Price     float64
	Bid       float64
	Ask       float64
	Volume    float64
	Change24h float64 // проценты за сутки
	Time      time.Time
}
