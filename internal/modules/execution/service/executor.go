package service

import (
	"context"

	"echo_trade/internal/models"

	exch "echo_trade/internal/modules/exchange/service"
)

// Executor превращает валидированный сигнал + размер в исполненный (или
// неисполненный) ордер. Все ошибки упакованы в OrderResult — наружу
// ничего не летит.
type Executor interface {
	ExecuteSignalOrder(ctx context.Context, sig models.Signal, amount float64) *models.OrderResult
	CreateStopLossOrder(ctx context.Context, symbol string, side models.Side, amount, stopPrice float64) *models.OrderResult
	CancelOrder(ctx context.Context, orderID, symbol string) bool
	GetCurrentPrice(ctx context.Context, symbol string) (float64, error)
	GetAccountBalance(ctx context.Context) (map[string]float64, error)
}

// ExchangeClient — то, что исполнителю нужно от биржи.
// Живой клиент лежит в модуле exchange, в тестах подставляется мок.
type ExchangeClient interface {
	CreateMarketOrder(ctx context.Context, symbol string, side models.Side, amount float64) (string, error)
	FetchOrder(ctx context.Context, orderID, symbol string) (*exch.Order, error)
	CreateStopOrder(ctx context.Context, symbol string, side models.Side, amount, stopPrice float64) (string, error)
	CancelOrder(ctx context.Context, orderID, symbol string) error
	FetchTicker(ctx context.Context, symbol string) (*exch.Ticker, error)
	FetchBalance(ctx context.Context) (map[string]float64, error)
}
