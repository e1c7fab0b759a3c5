package service

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"echo_trade/internal/models"
	"echo_trade/internal/modules/config"
	healthsvc "echo_trade/internal/modules/health/service"
)

const wsURL = "wss://stream.binance.com:9443/stream"

// Client стримит тикеры по всем торгуемым парам в один канал.
// Канал ограничен; если потребитель не успевает — тик дропается,
// следующий всё равно принесёт свежую цену.
type Client struct {
	cfg      *config.Config
	wsDialer *websocket.Dialer
	state    *healthsvc.State

	// BTCUSDT -> BTC/USDT
	symbolBack map[string]string
}

func NewClient(cfg *config.Config, state *healthsvc.State) *Client {
	back := make(map[string]string, len(cfg.TradingPairs))
	for _, p := range cfg.TradingPairs {
		back[strings.ReplaceAll(p, "/", "")] = p
	}
	return &Client{
		cfg:        cfg,
		wsDialer:   &websocket.Dialer{},
		state:      state,
		symbolBack: back,
	}
}

func (c *Client) streamURL() string {
	streams := make([]string, 0, len(c.cfg.TradingPairs))
	for _, p := range c.cfg.TradingPairs {
		streams = append(streams, strings.ToLower(strings.ReplaceAll(p, "/", ""))+"@ticker")
	}
	return wsURL + "?streams=" + strings.Join(streams, "/")
}

// Start держит соединение и переподключается с растущей паузой.
func (c *Client) Start(ctx context.Context, out chan<- models.PriceTick) {
	go func() {
		url := c.streamURL()
		retry := 0
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			conn, _, err := c.wsDialer.DialContext(ctx, url, nil)
			if err != nil {
				retry++
				log.Printf("[FEED] dial failed (retry %d): %v", retry, err)
				select {
				case <-ctx.Done():
					return
				case <-time.After(time.Duration(300*min(retry, 10)) * time.Millisecond):
				}
				continue
			}
			retry = 0
			c.state.SetWSConnected(true)
			log.Printf("[FEED] connected, %d symbols", len(c.symbolBack))

			c.readLoop(ctx, conn, out)

			c.state.SetWSConnected(false)
			_ = conn.Close()
		}
	}()
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn, out chan<- models.PriceTick) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		_, msg, err := conn.ReadMessage()
		if err != nil {
			log.Printf("[FEED] read: %v", err)
			return
		}

		tick, ok := c.parseTicker(msg)
		if !ok {
			continue
		}

		c.state.TouchTick(tick.Time)

		select {
		case out <- tick:
		default:
			// потребитель отстал — этот тик не страшно потерять
		}
	}
}

func (c *Client) parseTicker(msg []byte) (models.PriceTick, bool) {
	var frame struct {
		Data struct {
			Symbol    string `json:"s"`
			Last      string `json:"c"`
			Bid       string `json:"b"`
			Ask       string `json:"a"`
			Volume    string `json:"v"`
			ChangePct string `json:"P"`
		} `json:"data"`
	}
	if err := sonic.Unmarshal(msg, &frame); err != nil {
		return models.PriceTick{}, false
	}

	symbol, ok := c.symbolBack[frame.Data.Symbol]
	if !ok {
		return models.PriceTick{}, false
	}

	last, err := strconv.ParseFloat(frame.Data.Last, 64)
	if err != nil || last == 0 {
		return models.PriceTick{}, false
	}
	bid, _ := strconv.ParseFloat(frame.Data.Bid, 64)
	ask, _ := strconv.ParseFloat(frame.Data.Ask, 64)
	volume, _ := strconv.ParseFloat(frame.Data.Volume, 64)
	change, _ := strconv.ParseFloat(frame.Data.ChangePct, 64)

	return models.PriceTick{
		Symbol:    symbol,
		Price:     last,
		Bid:       bid,
		Ask:       ask,
		Volume:    volume,
		Change24h: change,
		Time:      time.Now(),
	}, true
}
