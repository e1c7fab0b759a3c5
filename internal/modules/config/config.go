package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	configFilePathENV = "CONFIG_FILE"
	apiKeyENV         = "BINANCE_API_KEY"
	apiSecretENV      = "BINANCE_API_SECRET"
	tokenTelegramENV  = "TELEGRAM_TOKEN"
	databaseDSN       = "DATABASE_DSN"
)

// Trader — копируемый трейдер из конфига.
type Trader struct {
	Name     string  `yaml:"name"`
	ROI30d   float64 `yaml:"roi_30d"`
	Priority int     `yaml:"priority"`
}

// Config ...
type Config struct {
	Telegram struct {
		Token  string `yaml:"token"`
		ChatID int64  `yaml:"chat_id"`
	} `yaml:"telegram"`
	DB      string `yaml:"db_dsn"`
	Service struct {
		HealthAddr string `yaml:"health_addr"`
	} `yaml:"service"`
	Jaeger struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"jaeger"`

	Exchange struct {
		APIKey    string `yaml:"api_key"`
		APISecret string `yaml:"api_secret"`
		Sandbox   bool   `yaml:"sandbox"`
	} `yaml:"exchange"`

	// Режим торговли: бумажный (симуляция) или живой.
	PaperTrading bool `yaml:"paper_trading"`

	// Риск. Проценты здесь человеческие (2.0 => 2%),
	// в доли переводит RiskParams().
	PortfolioValue         float64 `yaml:"portfolio_value"`
	PositionSizePercent    float64 `yaml:"position_size_percent"`
	StopLossPercent        float64 `yaml:"stop_loss_percent"`
	MaxDrawdownPercent     float64 `yaml:"max_drawdown_percent"`
	MinTradeAmount         float64 `yaml:"min_trade_amount"` // USDT
	MaxConcurrentPositions int     `yaml:"max_concurrent_positions"`

	TradingPairs []string `yaml:"trading_pairs"`
	Traders      []Trader `yaml:"traders"`

	// Порог чистого сентимента, ниже которого символ пропускаем.
	MinNetSentiment float64 `yaml:"min_net_sentiment"`

	// Интервалы задаются только через env (SIGNAL_CHECK_INTERVAL, ORDER_TIMEOUT).
	SignalCheckInterval time.Duration
	OrderTimeout        time.Duration

	// Стример цен
	FeedBufferSize int `yaml:"feed_buffer_size"`
}

func NewConfig() (*Config, error) {

	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = "values_local.yaml"
	}
	file, err := os.Open("configs/" + configFileName)
	if err != nil {
		log.Fatalf("Failed to open config file: %v", err)
	}

	defer func() {
		_ = file.Close()
	}()

	decoder := yaml.NewDecoder(file)
	config := Config{
		PaperTrading: boolFromEnv("PAPER_TRADING", true),

		PortfolioValue:         floatFromEnv("PORTFOLIO_VALUE", 10000),
		PositionSizePercent:    floatFromEnv("POSITION_SIZE_PERCENT", 2.0),
		StopLossPercent:        floatFromEnv("STOP_LOSS_PERCENT", 2.0),
		MaxDrawdownPercent:     floatFromEnv("MAX_DRAWDOWN_PERCENT", 30.0),
		MinTradeAmount:         floatFromEnv("MIN_TRADE_AMOUNT", 10.0),
		MaxConcurrentPositions: intFromEnv("MAX_CONCURRENT_POSITIONS", 5),

		MinNetSentiment: floatFromEnv("MIN_NET_SENTIMENT", 0.3),

		SignalCheckInterval: durationFromEnv("SIGNAL_CHECK_INTERVAL", "60s"),
		OrderTimeout:        durationFromEnv("ORDER_TIMEOUT", "30s"),

		FeedBufferSize: intFromEnv("FEED_BUFFER_SIZE", 4096),
	}
	err = decoder.Decode(&config)
	if err != nil {
		log.Fatalf("Failed to decode config file: %v", err)
	}

	if len(config.TradingPairs) == 0 {
		config.TradingPairs = []string{"BTC/USDT", "ETH/USDT", "BNB/USDT", "ADA/USDT"}
	}
	if len(config.Traders) == 0 {
		config.Traders = []Trader{
			{Name: "Yun Qiang", ROI30d: 1700.0, Priority: 1},
			{Name: "Crypto Loby", ROI30d: 850.0, Priority: 2},
		}
	}

	if key := os.Getenv(apiKeyENV); key != "" {
		config.Exchange.APIKey = key
	}
	if secret := os.Getenv(apiSecretENV); secret != "" {
		config.Exchange.APISecret = secret
	}

	token := os.Getenv(tokenTelegramENV)
	if token != "" {
		config.Telegram.Token = token
	}

	dsn := os.Getenv(databaseDSN)
	if dsn != "" {
		config.DB = dsn
	}

	return &config, nil
}

// RiskParams — риск-параметры в долях, как их ждёт RiskManager.
type RiskParams struct {
	PositionSizePercent    float64
	StopLossPercent        float64
	MaxDrawdownPercent     float64
	MinTradeAmount         float64
	MaxConcurrentPositions int
}

func (c *Config) RiskParams() RiskParams {
	return RiskParams{
		PositionSizePercent:    c.PositionSizePercent / 100,
		StopLossPercent:        c.StopLossPercent / 100,
		MaxDrawdownPercent:     c.MaxDrawdownPercent / 100,
		MinTradeAmount:         c.MinTradeAmount,
		MaxConcurrentPositions: c.MaxConcurrentPositions,
	}
}

// IsAllowedPair — входит ли символ в торгуемый набор.
func (c *Config) IsAllowedPair(symbol string) bool {
	for _, p := range c.TradingPairs {
		if p == symbol {
			return true
		}
	}
	return false
}

// Validate возвращает список проблем конфига. Для живой торговли непустой
// список = фатал, для бумажной — только предупреждаем.
func (c *Config) Validate() []string {
	var errs []string

	if c.Exchange.APIKey == "" {
		errs = append(errs, fmt.Sprintf("env %s is not set", apiKeyENV))
	}
	if c.Exchange.APISecret == "" {
		errs = append(errs, fmt.Sprintf("env %s is not set", apiSecretENV))
	}
	if c.PortfolioValue <= 0 {
		errs = append(errs, "portfolio_value must be positive")
	}
	if c.PositionSizePercent <= 0 || c.PositionSizePercent > 10 {
		errs = append(errs, "position_size_percent must be in (0, 10]")
	}
	if c.StopLossPercent <= 0 || c.StopLossPercent > 20 {
		errs = append(errs, "stop_loss_percent must be in (0, 20]")
	}

	return errs
}

func intFromEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func floatFromEnv(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func boolFromEnv(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if v == "1" || v == "true" || v == "TRUE" {
			return true
		}
		if v == "0" || v == "false" || v == "FALSE" {
			return false
		}
	}
	return def
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationFromEnv(key, def string) time.Duration {
	val := getenvDefault(key, def)
	d, err := time.ParseDuration(val)
	if err != nil {
		d, _ = time.ParseDuration(def)
	}
	return d
}
