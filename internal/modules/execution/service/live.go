package service

import (
	"context"
	"fmt"
	"time"

	"echo_trade/internal/models"
	"echo_trade/pkg/logger"

	exch "echo_trade/internal/modules/exchange/service"
)

// Live исполняет ордера на бирже. Ретраится только транспорт,
// бизнес-отказы (средства, параметры) — сразу наружу.
type Live struct {
	ex ExchangeClient

	retryAttempts int
	retryDelay    time.Duration
	pollDelay     time.Duration
	sleep         func(time.Duration)
}

func NewLive(ex ExchangeClient) *Live {
	return &Live{
		ex:            ex,
		retryAttempts: 3,
		retryDelay:    time.Second,
		pollDelay:     500 * time.Millisecond,
		sleep:         time.Sleep,
	}
}

// ExecuteSignalOrder: рыночный ордер + один опрос статуса. Контракт
// рассчитывает, что маркет исполняется сразу; зависший ордер — это
// отказ с его статусом, а не повод ретраить.
func (l *Live) ExecuteSignalOrder(ctx context.Context, sig models.Signal, amount float64) *models.OrderResult {
	logger.Info("Executing %s order: %.6f %s @ ~%.2f", sig.Side, amount, sig.Symbol, sig.Price)

	for attempt := 0; attempt < l.retryAttempts; attempt++ {
		orderID, err := l.ex.CreateMarketOrder(ctx, sig.Symbol, sig.Side, amount)
		if err == nil {
			// даём бирже момент на исполнение
			l.sleep(l.pollDelay)

			var order *exch.Order
			order, err = l.ex.FetchOrder(ctx, orderID, sig.Symbol)
			if err == nil {
				if order.Filled() {
					return models.NewOrderResult(orderID, order.AvgPrice, order.FilledAmount)
				}
				logger.Warn("Order not immediately filled, status: %s", order.Status)
				return models.FailedOrderResult(fmt.Sprintf("Order not filled, status: %s", order.Status))
			}
		}

		switch exch.KindOf(err) {
		case exch.ErrKindFunds:
			logger.Error("Insufficient funds for order: %v", err)
			return models.FailedOrderResult("Insufficient funds")

		case exch.ErrKindInvalidOrder:
			logger.Error("Invalid order parameters: %v", err)
			return models.FailedOrderResult(fmt.Sprintf("Invalid order: %v", err))

		case exch.ErrKindNetwork:
			logger.Warn("Network error (attempt %d/%d): %v", attempt+1, l.retryAttempts, err)
			if attempt < l.retryAttempts-1 {
				l.sleep(l.retryDelay * time.Duration(attempt+1))
				continue
			}
			return models.FailedOrderResult(fmt.Sprintf("Network error: %v", err))

		default:
			logger.Error("Exchange error: %v", err)
			return models.FailedOrderResult(fmt.Sprintf("Exchange error: %v", err))
		}
	}

	return models.FailedOrderResult("Max retry attempts exceeded")
}

// CreateStopLossOrder ставит закрывающий стоп: сторона противоположна
// стороне позиции, триггер — stopPrice.
func (l *Live) CreateStopLossOrder(ctx context.Context, symbol string, side models.Side, amount, stopPrice float64) *models.OrderResult {
	orderID, err := l.ex.CreateStopOrder(ctx, symbol, side.Opposite(), amount, stopPrice)
	if err != nil {
		logger.Error("Error creating stop-loss order: %v", err)
		return models.FailedOrderResult(fmt.Sprintf("Stop-loss order failed: %v", err))
	}

	logger.Info("Stop-loss order created: %s for %s", orderID, symbol)
	return models.NewOrderResult(orderID, stopPrice, amount)
}

func (l *Live) CancelOrder(ctx context.Context, orderID, symbol string) bool {
	if err := l.ex.CancelOrder(ctx, orderID, symbol); err != nil {
		logger.Error("Error cancelling order %s: %v", orderID, err)
		return false
	}
	logger.Info("Cancelled order: %s", orderID)
	return true
}

func (l *Live) GetCurrentPrice(ctx context.Context, symbol string) (float64, error) {
	ticker, err := l.ex.FetchTicker(ctx, symbol)
	if err != nil {
		return 0, fmt.Errorf("get current price %s: %w", symbol, err)
	}
	return ticker.Last, nil
}

func (l *Live) GetAccountBalance(ctx context.Context) (map[string]float64, error) {
	return l.ex.FetchBalance(ctx)
}
