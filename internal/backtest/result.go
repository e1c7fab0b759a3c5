package backtest

import "time"

// Trade - одна закрытая сделка в симуляции.
type Trade struct {
	EntryTime  time.Time `json:"entryTime"`
	ExitTime   time.Time `json:"exitTime"`
	Symbol     string    `json:"symbol"`
	Side       string    `json:"side"`
	EntryPrice float64   `json:"entryPrice"`
	ExitPrice  float64   `json:"exitPrice"`
	Size       float64   `json:"size"`
	PnL        float64   `json:"pnl"`
	Trader     string    `json:"trader"`
}

type EquityPoint struct {
	Time     time.Time `json:"time"`
	Equity   float64   `json:"equity"`
	Drawdown float64   `json:"drawdown"`
}

// Result - итоговые метрики прогона. Доходности и просадка в процентах.
type Result struct {
	StartDate      time.Time     `json:"startDate"`
	EndDate        time.Time     `json:"endDate"`
	InitialCapital float64       `json:"initialCapital"`
	FinalCapital   float64       `json:"finalCapital"`
	TotalReturn    float64       `json:"totalReturn"`
	AnnualReturn   float64       `json:"annualReturn"`
	MaxDrawdown    float64       `json:"maxDrawdown"`
	SharpeRatio    float64       `json:"sharpeRatio"`
	WinRate        float64       `json:"winRate"`
	TotalTrades    int           `json:"totalTrades"`
	ProfitFactor   float64       `json:"profitFactor"`
	EquityCurve    []EquityPoint `json:"equityCurve"`
	Trades         []Trade       `json:"trades"`

	GrossProfit float64 `json:"grossProfit"`
	GrossLoss   float64 `json:"grossLoss"`
	AvgWin      float64 `json:"avgWin"`
	AvgLoss     float64 `json:"avgLoss"`
	LargestWin  float64 `json:"largestWin"`
	LargestLoss float64 `json:"largestLoss"`
}
