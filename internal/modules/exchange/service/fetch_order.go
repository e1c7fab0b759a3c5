package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/bytedance/sonic"
)

// FetchOrder тянет статус ордера, среднюю цену считает по исполнению.
func (c *Client) FetchOrder(ctx context.Context, orderID, symbol string) (*Order, error) {
	params := url.Values{}
	params.Set("symbol", restSymbol(symbol))
	params.Set("orderId", orderID)
	params.Set("timestamp", strconv.FormatInt(timestampMillis(), 10))

	query := params.Encode()
	query += "&signature=" + c.sign(query)

	const requestPath = "/api/v3/order"

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		c.baseURL+requestPath+"?"+query,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("FetchOrder new request: %w", err)
	}
	req.Header.Set("X-MBX-APIKEY", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("FetchOrder do: %w", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)

	if resp.StatusCode/100 != 2 {
		return nil, apiError("FetchOrder", resp.StatusCode, data)
	}

	var r struct {
		OrderID     int64  `json:"orderId"`
		Status      string `json:"status"`
		ExecutedQty string `json:"executedQty"`
		CumQuoteQty string `json:"cummulativeQuoteQty"`
		Price       string `json:"price"`
	}
	if err := sonic.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("FetchOrder decode: %w; body=%s", err, string(data))
	}

	filled, _ := strconv.ParseFloat(r.ExecutedQty, 64)
	cumQuote, _ := strconv.ParseFloat(r.CumQuoteQty, 64)
	price, _ := strconv.ParseFloat(r.Price, 64)

	avg := price
	if filled > 0 && cumQuote > 0 {
		avg = cumQuote / filled
	}

	return &Order{
		ID:           strconv.FormatInt(r.OrderID, 10),
		Symbol:       symbol,
		Status:       r.Status,
		AvgPrice:     avg,
		FilledAmount: filled,
	}, nil
}
