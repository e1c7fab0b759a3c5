package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

// CancelOrder снимает ордер.
func (c *Client) CancelOrder(ctx context.Context, orderID, symbol string) error {
	params := url.Values{}
	params.Set("symbol", restSymbol(symbol))
	params.Set("orderId", orderID)
	params.Set("timestamp", strconv.FormatInt(timestampMillis(), 10))

	query := params.Encode()
	query += "&signature=" + c.sign(query)

	const requestPath = "/api/v3/order"

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodDelete,
		c.baseURL+requestPath+"?"+query,
		nil,
	)
	if err != nil {
		return fmt.Errorf("CancelOrder new request: %w", err)
	}
	req.Header.Set("X-MBX-APIKEY", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("CancelOrder do: %w", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)

	if resp.StatusCode/100 != 2 {
		return apiError("CancelOrder", resp.StatusCode, data)
	}

	return nil
}
