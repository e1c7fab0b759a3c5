package service

// Order — статус ордера, как его видит биржа.
type Order struct {
	ID           string
	Symbol       string
	Status       string // NEW / PARTIALLY_FILLED / FILLED / CANCELED / REJECTED
	AvgPrice     float64
	FilledAmount float64
}

// Filled — ордер исполнен полностью.
func (o *Order) Filled() bool {
	return o.Status == "FILLED"
}

// Ticker — срез рынка по символу.
type Ticker struct {
	Symbol    string
	Last      float64
	Bid       float64
	Ask       float64
	Volume    float64
	Change24h float64 // проценты
}
