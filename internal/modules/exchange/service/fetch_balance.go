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

// FetchBalance — свободные остатки по счёту, только ненулевые.
func (c *Client) FetchBalance(ctx context.Context) (map[string]float64, error) {
	params := url.Values{}
	params.Set("timestamp", strconv.FormatInt(timestampMillis(), 10))

	query := params.Encode()
	query += "&signature=" + c.sign(query)

	const requestPath = "/api/v3/account"

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		c.baseURL+requestPath+"?"+query,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("FetchBalance new request: %w", err)
	}
	req.Header.Set("X-MBX-APIKEY", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("FetchBalance do: %w", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)

	if resp.StatusCode/100 != 2 {
		return nil, apiError("FetchBalance", resp.StatusCode, data)
	}

	var r struct {
		Balances []struct {
			Asset string `json:"asset"`
			Free  string `json:"free"`
		} `json:"balances"`
	}
	if err := sonic.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("FetchBalance decode: %w; body=%s", err, string(data))
	}

	out := make(map[string]float64)
	for _, b := range r.Balances {
		free, _ := strconv.ParseFloat(b.Free, 64)
		if free > 0 {
			out[b.Asset] = free
		}
	}
	return out, nil
}
