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

// CreateStopOrder ставит stop_market-ордер. side здесь уже закрывающая
// сторона (противоположная позиции), триггер — stopPrice.
func (c *Client) CreateStopOrder(
	ctx context.Context,
	symbol string,
	side models.Side,
	amount float64,
	stopPrice float64,
) (string, error) {

	if stopPrice <= 0 {
		return "", &Error{Kind: ErrKindInvalidOrder, Msg: "stopPrice <= 0"}
	}

	params := url.Values{}
	params.Set("symbol", restSymbol(symbol))
	params.Set("side", restSide(side))
	params.Set("type", "STOP_LOSS")
	params.Set("quantity", strconv.FormatFloat(amount, 'f', -1, 64))
	params.Set("stopPrice", strconv.FormatFloat(stopPrice, 'f', -1, 64))
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
		return "", fmt.Errorf("CreateStopOrder new request: %w", err)
	}
	req.Header.Set("X-MBX-APIKEY", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("CreateStopOrder do: %w", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)

	if resp.StatusCode/100 != 2 {
		return "", apiError("CreateStopOrder", resp.StatusCode, data)
	}

	var r struct {
		OrderID int64 `json:"orderId"`
	}
	if err := sonic.Unmarshal(data, &r); err != nil {
		return "", fmt.Errorf("CreateStopOrder decode: %w; body=%s", err, string(data))
	}

	if r.OrderID == 0 {
		return "", fmt.Errorf("CreateStopOrder: empty orderId RAW=%s", string(data))
	}

	return strconv.FormatInt(r.OrderID, 10), nil
}
