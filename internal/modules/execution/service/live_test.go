package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"echo_trade/internal/models"

	exch "echo_trade/internal/modules/exchange/service"
)

type fakeExchange struct {
	createMarketOrder func(ctx context.Context, symbol string, side models.Side, amount float64) (string, error)
	fetchOrder        func(ctx context.Context, orderID, symbol string) (*exch.Order, error)
	createStopOrder   func(ctx context.Context, symbol string, side models.Side, amount, stopPrice float64) (string, error)
	cancelOrder       func(ctx context.Context, orderID, symbol string) error
	fetchTicker       func(ctx context.Context, symbol string) (*exch.Ticker, error)

	marketOrderCalls int
}

func (f *fakeExchange) CreateMarketOrder(ctx context.Context, symbol string, side models.Side, amount float64) (string, error) {
	f.marketOrderCalls++
	return f.createMarketOrder(ctx, symbol, side, amount)
}

func (f *fakeExchange) FetchOrder(ctx context.Context, orderID, symbol string) (*exch.Order, error) {
	return f.fetchOrder(ctx, orderID, symbol)
}

func (f *fakeExchange) CreateStopOrder(ctx context.Context, symbol string, side models.Side, amount, stopPrice float64) (string, error) {
	return f.createStopOrder(ctx, symbol, side, amount, stopPrice)
}

func (f *fakeExchange) CancelOrder(ctx context.Context, orderID, symbol string) error {
	return f.cancelOrder(ctx, orderID, symbol)
}

func (f *fakeExchange) FetchTicker(ctx context.Context, symbol string) (*exch.Ticker, error) {
	return f.fetchTicker(ctx, symbol)
}

func (f *fakeExchange) FetchBalance(ctx context.Context) (map[string]float64, error) {
	return map[string]float64{"USDT": 1000}, nil
}

func newTestLive(ex ExchangeClient) *Live {
	l := NewLive(ex)
	l.sleep = func(time.Duration) {}
	return l
}

func testSignal() models.Signal {
	return models.Signal{
		Trader:     "Yun Qiang",
		Symbol:     "BTC/USDT",
		Side:       models.SideBuy,
		Price:      50000,
		Confidence: 0.8,
		Timestamp:  time.Now(),
	}
}

func TestLiveExecuteFilled(t *testing.T) {
	ex := &fakeExchange{
		createMarketOrder: func(context.Context, string, models.Side, float64) (string, error) {
			return "12345", nil
		},
		fetchOrder: func(_ context.Context, orderID, _ string) (*exch.Order, error) {
			return &exch.Order{ID: orderID, Status: "FILLED", AvgPrice: 50010, FilledAmount: 0.003}, nil
		},
	}
	l := newTestLive(ex)

	res := l.ExecuteSignalOrder(context.Background(), testSignal(), 0.003)
	assert.True(t, res.Success)
	assert.Equal(t, "12345", res.OrderID)
	assert.InDelta(t, 50010, res.FillPrice, 1e-9)
	assert.InDelta(t, 0.003, res.FillAmount, 1e-9)
	assert.Equal(t, 1, ex.marketOrderCalls)
}

func TestLiveExecuteUnfilledIsFailureNotRetry(t *testing.T) {
	ex := &fakeExchange{
		createMarketOrder: func(context.Context, string, models.Side, float64) (string, error) {
			return "12345", nil
		},
		fetchOrder: func(context.Context, string, string) (*exch.Order, error) {
			return &exch.Order{ID: "12345", Status: "NEW"}, nil
		},
	}
	l := newTestLive(ex)

	res := l.ExecuteSignalOrder(context.Background(), testSignal(), 0.003)
	assert.False(t, res.Success)
	assert.Equal(t, "Order not filled, status: NEW", res.Error)
	assert.Equal(t, 1, ex.marketOrderCalls)
}

func TestLiveExecuteNetworkRetriesExhausted(t *testing.T) {
	netErr := &exch.Error{Kind: exch.ErrKindNetwork, Code: -1003, Msg: "rate limit"}
	ex := &fakeExchange{
		createMarketOrder: func(context.Context, string, models.Side, float64) (string, error) {
			return "", netErr
		},
	}
	var delays []time.Duration
	l := NewLive(ex)
	l.sleep = func(d time.Duration) { delays = append(delays, d) }

	res := l.ExecuteSignalOrder(context.Background(), testSignal(), 0.003)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "Network error")
	assert.Equal(t, 3, ex.marketOrderCalls)
	// линейный backoff между попытками
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second}, delays)
}

func TestLiveExecuteFundsNotRetried(t *testing.T) {
	ex := &fakeExchange{
		createMarketOrder: func(context.Context, string, models.Side, float64) (string, error) {
			return "", &exch.Error{Kind: exch.ErrKindFunds, Code: -2010, Msg: "insufficient balance"}
		},
	}
	l := newTestLive(ex)

	res := l.ExecuteSignalOrder(context.Background(), testSignal(), 0.003)
	assert.False(t, res.Success)
	assert.Equal(t, "Insufficient funds", res.Error)
	assert.Equal(t, 1, ex.marketOrderCalls)
}

func TestLiveExecuteInvalidOrderNotRetried(t *testing.T) {
	ex := &fakeExchange{
		createMarketOrder: func(context.Context, string, models.Side, float64) (string, error) {
			return "", &exch.Error{Kind: exch.ErrKindInvalidOrder, Code: -1013, Msg: "min notional"}
		},
	}
	l := newTestLive(ex)

	res := l.ExecuteSignalOrder(context.Background(), testSignal(), 0.003)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "Invalid order")
	assert.Equal(t, 1, ex.marketOrderCalls)
}

func TestLiveExecuteExchangeErrorNotRetried(t *testing.T) {
	ex := &fakeExchange{
		createMarketOrder: func(context.Context, string, models.Side, float64) (string, error) {
			return "", &exch.Error{Kind: exch.ErrKindExchange, Code: -1000, Msg: "unknown"}
		},
	}
	l := newTestLive(ex)

	res := l.ExecuteSignalOrder(context.Background(), testSignal(), 0.003)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "Exchange error")
	assert.Equal(t, 1, ex.marketOrderCalls)
}

func TestLiveCreateStopLossUsesOppositeSide(t *testing.T) {
	var gotSide models.Side
	ex := &fakeExchange{
		createStopOrder: func(_ context.Context, _ string, side models.Side, _, _ float64) (string, error) {
			gotSide = side
			return "sl-1", nil
		},
	}
	l := newTestLive(ex)

	res := l.CreateStopLossOrder(context.Background(), "BTC/USDT", models.SideBuy, 0.003, 49000)
	assert.True(t, res.Success)
	assert.Equal(t, models.SideSell, gotSide)
	assert.InDelta(t, 49000, res.FillPrice, 1e-9)
}

func TestLiveGetCurrentPrice(t *testing.T) {
	ex := &fakeExchange{
		fetchTicker: func(context.Context, string) (*exch.Ticker, error) {
			return &exch.Ticker{Symbol: "BTC/USDT", Last: 50123.45}, nil
		},
	}
	l := newTestLive(ex)

	price, err := l.GetCurrentPrice(context.Background(), "BTC/USDT")
	assert.NoError(t, err)
	assert.InDelta(t, 50123.45, price, 1e-9)
}
