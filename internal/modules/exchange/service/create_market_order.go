package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/bytedance/sonic"

	"echo_trade/internal/models"
)

// CreateMarketOrder отправляет рыночный ордер, возвращает orderId.
func (c *Client) CreateMarketOrder(
	ctx context.Context,
	symbol string,
	side models.Side,
	amount float64,
) (string, error) {

	if amount <= 0 {
		return "", &Error{Kind: ErrKindInvalidOrder, Msg: "amount <= 0"}
	}

	params := url.Values{}
	params.Set("symbol", restSymbol(symbol))
	params.Set("side", restSide(side))
	params.Set("type", "MARKET")
	params.Set("quantity", strconv.FormatFloat(amount, 'f', -1, 64))
	params.Set("timestamp", strconv.FormatInt(timestampMillis(), 10))

	query := params.Encode()
	query += "&signature=" + c.sign(query)

	const requestPath = "/api/v3/order"

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+requestPath+"?"+query,
		nil,
	)
	if err != nil {
		return "", fmt.Errorf("CreateMarketOrder new request: %w", err)
	}
	req.Header.Set("X-MBX-APIKEY", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("CreateMarketOrder do: %w", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)

	if resp.StatusCode/100 != 2 {
		return "", apiError("CreateMarketOrder", resp.StatusCode, data)
	}

	var r struct {
		OrderID int64  `json:"orderId"`
		Status  string `json:"status"`
	}
	if err := sonic.Unmarshal(data, &r); err != nil {
		return "", fmt.Errorf("CreateMarketOrder decode: %w; body=%s", err, string(data))
	}

	if r.OrderID == 0 {
		return "", fmt.Errorf("CreateMarketOrder: empty orderId RAW=%s", string(data))
	}

	return strconv.FormatInt(r.OrderID, 10), nil
}

func restSide(side models.Side) string {
	if side == models.SideBuy {
		return "BUY"
	}
	return "SELL"
}
