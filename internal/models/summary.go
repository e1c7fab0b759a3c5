package models

// PositionDetail — срез одной позиции для сводки/дашборда.
type PositionDetail struct {
	Side       Side    `json:"side"`
	Size       float64 `json:"size"`
	EntryPrice float64 `json:"entry_price"`
	CurrentPnL float64 `json:"current_pnl"`
	StopLoss   float64 `json:"stop_loss"`
}

// RiskSummary — снапшот состояния риска, отдаётся наружу как есть.
type RiskSummary struct {
	PortfolioValue  float64                   `json:"portfolio_value"`
	DailyPnL        float64                   `json:"daily_pnl"`
	OpenPositions   int                       `json:"open_positions"`
	MaxDrawdown     float64                   `json:"max_drawdown"`
	CurrentDrawdown float64                   `json:"current_drawdown"`
	TradesToday     int                       `json:"trades_today"`
	PositionDetails map[string]PositionDetail `json:"position_details"`
}
