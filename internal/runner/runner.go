package runner

import (
	"context"
	"log"
	"time"

	"github.com/opentracing/opentracing-go"

	"echo_trade/internal/models"
	"echo_trade/internal/modules/config"
	"echo_trade/internal/notify"
	"echo_trade/pkg/logger"

	execsvc "echo_trade/internal/modules/execution/service"
	healthsvc "echo_trade/internal/modules/health/service"
	feedsvc "echo_trade/internal/modules/pricefeed/service"
	risksvc "echo_trade/internal/modules/risk/service"
	signalssvc "echo_trade/internal/modules/signals/service"
	tradessvc "echo_trade/internal/modules/trades/service"
)

// Runner — единственный актор, который мутирует RiskManager.
// Цикл синхронный: сигналы -> валидация -> исполнение -> стопы -> сон.
type Runner struct {
	cfg     *config.Config
	rm      *risksvc.Manager
	exec    execsvc.Executor
	fetcher *signalssvc.Fetcher
	book    *feedsvc.Book
	state   *healthsvc.State

	store *tradessvc.Store // nil = история выключена
	n     *notify.Telegram // nil = молчим
}

func New(
	cfg *config.Config,
	rm *risksvc.Manager,
	exec execsvc.Executor,
	fetcher *signalssvc.Fetcher,
	book *feedsvc.Book,
	state *healthsvc.State,
	store *tradessvc.Store,
	n *notify.Telegram,
) *Runner {
	return &Runner{
		cfg:     cfg,
		rm:      rm,
		exec:    exec,
		fetcher: fetcher,
		book:    book,
		state:   state,
		store:   store,
		n:       n,
	}
}

func (r *Runner) Start(ctx context.Context) {
	logger.Info("EchoTrade initialized - Paper Trading: %v", r.cfg.PaperTrading)
	logger.Info("Portfolio Value: $%.2f", r.cfg.PortfolioValue)
	logger.Info("Trading Pairs: %v", r.cfg.TradingPairs)

	r.state.SetReady(true)
	r.n.Sendf("🚀 EchoTrade запущен | paper=%v | портфель $%.0f",
		r.cfg.PaperTrading, r.cfg.PortfolioValue)

	go r.loop(ctx)
}

func (r *Runner) loop(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.SignalCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("[RUNNER] stopped")
			return
		case <-ticker.C:
			r.cycle(ctx)
		}
	}
}

func (r *Runner) cycle(ctx context.Context) {
	span := opentracing.GlobalTracer().StartSpan("runner.cycle")
	defer span.Finish()
	ctx = opentracing.ContextWithSpan(ctx, span)

	sigs := r.fetcher.FetchSignals()
	span.SetTag("signals", len(sigs))

	r.processSignals(ctx, sigs)
	r.checkStopLosses(ctx)

	summary := r.rm.Summary()
	log.Printf("[RUNNER] cycle done | positions=%d | value=%.2f | dd=%.2f%%",
		summary.OpenPositions, summary.PortfolioValue, summary.CurrentDrawdown*100)
}

// checkStopLosses обновляет P&L по книге цен и закрывает всё, по чему
// сработал стоп. Для позиций без котировки цену дотягиваем у исполнителя.
func (r *Runner) checkStopLosses(ctx context.Context) {
	symbols := r.rm.OpenSymbols()
	if len(symbols) == 0 {
		return
	}

	marketPrices := r.book.Snapshot()
	for _, symbol := range symbols {
		if _, ok := marketPrices[symbol]; ok {
			continue
		}
		if price, err := r.exec.GetCurrentPrice(ctx, symbol); err == nil && price > 0 {
			marketPrices[symbol] = price
		}
	}

	r.rm.UpdatePositions(marketPrices)

	for _, symbol := range r.rm.CheckStopLosses(marketPrices) {
		r.closePosition(ctx, symbol, marketPrices[symbol], models.CloseReasonStopLoss)
	}
}
