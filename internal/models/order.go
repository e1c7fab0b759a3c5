package models

import "time"

// OrderResult — результат одной попытки исполнения. Исполнитель никогда
// не кидает ошибку наружу, всё упаковывается сюда.
type OrderResult struct {
	Success    bool
	OrderID    string
	FillPrice  float64
	FillAmount float64
	Error      string
	Timestamp  time.Time
}

func NewOrderResult(orderID string, fillPrice, fillAmount float64) *OrderResult {
	return &OrderResult{
		Success:    true,
		OrderID:    orderID,
		FillPrice:  fillPrice,
		FillAmount: fillAmount,
		Timestamp:  time.Now(),
	}
}

func FailedOrderResult(reason string) *OrderResult {
	return &OrderResult{
		Success:   false,
		Error:     reason,
		Timestamp: time.Now(),
	}
}
