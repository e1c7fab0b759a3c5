package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyCode(t *testing.T) {
	assert.Equal(t, ErrKindFunds, classifyCode(-2010, "insufficient balance").Kind)
	assert.Equal(t, ErrKindFunds, classifyCode(-2019, "margin").Kind)
	assert.Equal(t, ErrKindInvalidOrder, classifyCode(-1013, "min notional").Kind)
	assert.Equal(t, ErrKindInvalidOrder, classifyCode(-1121, "invalid symbol").Kind)
	assert.Equal(t, ErrKindNetwork, classifyCode(-1003, "too many requests").Kind)
	assert.Equal(t, ErrKindExchange, classifyCode(-1000, "unknown").Kind)
}

func TestAPIError(t *testing.T) {
	// 5xx — сетевая, неважно что в теле
	err := apiError("create order", 502, []byte("bad gateway"))
	assert.Equal(t, ErrKindNetwork, KindOf(err))

	// разобранный код биржи
	err = apiError("create order", 400, []byte(`{"code":-2010,"msg":"Account has insufficient balance"}`))
	assert.Equal(t, ErrKindFunds, KindOf(err))
	assert.Contains(t, err.Error(), "insufficient balance")

	// нечитаемое тело 4xx — бизнес-ошибка биржи
	err = apiError("create order", 418, []byte("<html>teapot</html>"))
	assert.Equal(t, ErrKindExchange, KindOf(err))
}

func TestKindOf(t *testing.T) {
	// произвольная ошибка транспорта считается сетевой
	assert.Equal(t, ErrKindNetwork, KindOf(errors.New("connection reset")))

	// класс достаётся и из обёрнутой цепочки
	wrapped := fmt.Errorf("create order: %w", &Error{Kind: ErrKindFunds, Code: -2010, Msg: "no funds"})
	assert.Equal(t, ErrKindFunds, KindOf(wrapped))
}

func TestOrderFilled(t *testing.T) {
	assert.True(t, (&Order{Status: "FILLED"}).Filled())
	assert.False(t, (&Order{Status: "NEW"}).Filled())
	assert.False(t, (&Order{Status: "PARTIALLY_FILLED"}).Filled())
}

func TestSign(t *testing.T) {
	c := &Client{apiSecret: "secret"}

	sig := c.sign("symbol=BTCUSDT&side=BUY")
	assert.Len(t, sig, 64) // hex от HMAC-SHA256
	// детерминирован
	assert.Equal(t, sig, c.sign("symbol=BTCUSDT&side=BUY"))
	assert.NotEqual(t, sig, c.sign("symbol=ETHUSDT&side=BUY"))
}

func TestRestSymbol(t *testing.T) {
	assert.Equal(t, "BTCUSDT", restSymbol("BTC/USDT"))
	assert.Equal(t, "BTCUSDT", restSymbol("BTCUSDT"))
}
