package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"echo_trade/internal/modules/config"
)

const (
	baseURL        = "https://api.binance.com"
	sandboxBaseURL = "https://testnet.binance.vision"
)

// Client — тонкий REST-клиент биржи. Ничего не знает про риск и позиции,
// только подписывает и гоняет запросы.
type Client struct {
	http      *http.Client
	baseURL   string
	apiKey    string
	apiSecret string
}

func NewClient(cfg *config.Config) *Client {
	url := baseURL
	if cfg.Exchange.Sandbox {
		url = sandboxBaseURL
	}
	return &Client{
		http:      &http.Client{Timeout: cfg.OrderTimeout},
		baseURL:   url,
		apiKey:    cfg.Exchange.APIKey,
		apiSecret: cfg.Exchange.APISecret,
	}
}

func (c *Client) sign(query string) string {
	mac := hmac.New(sha256.New, []byte(c.apiSecret))
	mac.Write([]byte(query))
	return hex.EncodeToString(mac.Sum(nil))
}

func timestampMillis() int64 {
	return time.Now().UnixMilli()
}

// restSymbol: "BTC/USDT" -> "BTCUSDT".
func restSymbol(symbol string) string {
	return strings.ReplaceAll(symbol, "/", "")
}
