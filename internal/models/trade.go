package models

import "time"

// Причины закрытия позиции.
const (
	CloseReasonStopLoss = "STOP_LOSS"
	CloseReasonManual   = "MANUAL"
)

// ClosedTrade — завершённая сделка для истории (пишется в Postgres).
type ClosedTrade struct {
	Symbol     string    `json:"symbol"`
	Side       Side      `json:"side"`
	Size       float64   `json:"size"`
	EntryPrice float64   `json:"entry_price"`
	ExitPrice  float64   `json:"exit_price"`
	PnL        float64   `json:"pnl"`
	Trader     string    `json:"trader"`
	Reason     string    `json:"reason"`
	OpenedAt   time.Time `json:"opened_at"`
	ClosedAt   time.Time `json:"closed_at"`
}
