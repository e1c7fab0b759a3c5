package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"echo_trade/internal/models"
	"echo_trade/pkg/logger"
)

// Paper — симулятор исполнения. Капитал не трогает, на биржу не ходит,
// но проскальзывание и частичные филы моделирует.
type Paper struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewPaper() *Paper {
	return NewPaperWithSeed(time.Now().UnixNano())
}

// NewPaperWithSeed — с фиксированным сидом для воспроизводимых прогонов.
func NewPaperWithSeed(seed int64) *Paper {
	return &Paper{rnd: rand.New(rand.NewSource(seed))}
}

func (p *Paper) uniform(lo, hi float64) float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return lo + p.rnd.Float64()*(hi-lo)
}

// ExecuteSignalOrder всегда успешен: проскальзывание 0.01–0.05% против
// тейкера (покупка дороже, продажа дешевле), фил 95–100% от запрошенного.
func (p *Paper) ExecuteSignalOrder(ctx context.Context, sig models.Signal, amount float64) *models.OrderResult {
	slippage := p.uniform(0.0001, 0.0005)

	var fillPrice float64
	if sig.Side == models.SideBuy {
		fillPrice = sig.Price * (1 + slippage)
	} else {
		fillPrice = sig.Price * (1 - slippage)
	}

	fillAmount := amount * p.uniform(0.95, 1.0)

	orderID := fmt.Sprintf("PAPER_%d_%s", time.Now().Unix(), restSymbolID(sig.Symbol))

	logger.Info("[PAPER] Simulated %s order: %.6f %s @ %.2f", sig.Side, fillAmount, sig.Symbol, fillPrice)

	return models.NewOrderResult(orderID, fillPrice, fillAmount)
}

// CreateStopLossOrder в бумаге просто регистрирует стоп и эхом отдаёт
// триггерную цену как fill.
func (p *Paper) CreateStopLossOrder(ctx context.Context, symbol string, side models.Side, amount, stopPrice float64) *models.OrderResult {
	logger.Info("[PAPER] Stop-loss order created: %s %.6f %s @ stop %.2f", side, amount, symbol, stopPrice)

	orderID := fmt.Sprintf("PAPER_SL_%d_%s", time.Now().Unix(), restSymbolID(symbol))
	return models.NewOrderResult(orderID, stopPrice, amount)
}

func (p *Paper) CancelOrder(ctx context.Context, orderID, symbol string) bool {
	logger.Info("[PAPER] Cancelled order: %s", orderID)
	return true
}

// GetCurrentPrice — случайная цена вокруг базы по активу. Нужна только
// чтобы бумажный контур жил, рыночной правды тут нет.
func (p *Paper) GetCurrentPrice(ctx context.Context, symbol string) (float64, error) {
	basePrice := 3000.0
	if strings.Contains(symbol, "BTC") {
		basePrice = 50000.0
	}
	return basePrice * p.uniform(0.95, 1.05), nil
}

func (p *Paper) GetAccountBalance(ctx context.Context) (map[string]float64, error) {
	return map[string]float64{
		"USDT": 10000.0,
		"BTC":  0.0,
		"ETH":  0.0,
		"BNB":  0.0,
	}, nil
}

func restSymbolID(symbol string) string {
	return strings.ReplaceAll(symbol, "/", "")
}
