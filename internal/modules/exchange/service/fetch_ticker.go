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

// FetchTicker — суточный срез по символу, без подписи.
func (c *Client) FetchTicker(ctx context.Context, symbol string) (*Ticker, error) {
	params := url.Values{}
	params.Set("symbol", restSymbol(symbol))

	const requestPath = "/api/v3/ticker/24hr"

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		c.baseURL+requestPath+"?"+params.Encode(),
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("FetchTicker new request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("FetchTicker do: %w", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)

	if resp.StatusCode/100 != 2 {
		return nil, apiError("FetchTicker", resp.StatusCode, data)
	}

	var r struct {
		LastPrice          string `json:"lastPrice"`
		BidPrice           string `json:"bidPrice"`
		AskPrice           string `json:"askPrice"`
		Volume             string `json:"volume"`
		PriceChangePercent string `json:"priceChangePercent"`
	}
	if err := sonic.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("FetchTicker decode: %w; body=%s", err, string(data))
	}

	last, _ := strconv.ParseFloat(r.LastPrice, 64)
	bid, _ := strconv.ParseFloat(r.BidPrice, 64)
	ask, _ := strconv.ParseFloat(r.AskPrice, 64)
	volume, _ := strconv.ParseFloat(r.Volume, 64)
	change, _ := strconv.ParseFloat(r.PriceChangePercent, 64)

	return &Ticker{
		Symbol:    symbol,
		Last:      last,
		Bid:       bid,
		Ask:       ask,
		Volume:    volume,
		Change24h: change,
	}, nil
}
