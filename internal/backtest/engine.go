package backtest

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"echo_trade/internal/models"
	"echo_trade/internal/modules/config"
	"echo_trade/pkg/logger"

	risksvc "echo_trade/internal/modules/risk/service"
)

const (
	smaFast = 20
	smaSlow = 50
)

// Engine - симулятор стратегии на синтетических исторических данных.
// Проскальзывание и комиссия - доли (0.001 = 0.1%).
type Engine struct {
	initialCapital float64
	slippage       float64
	commission     float64

	params config.RiskParams
	pairs  []string

	rnd *rand.Rand
}

func NewEngine(cfg *config.Config, initialCapital, slippage float64) *Engine {
	return NewEngineWithSeed(cfg, initialCapital, slippage, time.Now().UnixNano())
}

func NewEngineWithSeed(cfg *config.Config, initialCapital, slippage float64, seed int64) *Engine {
	return &Engine{
		initialCapital: initialCapital,
		slippage:       slippage,
		commission:     0.001,
		params:         cfg.RiskParams(),
		pairs:          cfg.TradingPairs,
		rnd:            rand.New(rand.NewSource(seed)),
	}
}

// generateSignals имитирует сигналы трейдера: пересечение SMA 20/50
// с шумом, 15% шанс на покупку и 10% на продажу.
func (e *Engine) generateSignals(priceData map[string][]Candle, trader string) []models.Signal {
	var signals []models.Signal

	for symbol, candles := range priceData {
		for i := smaSlow; i < len(candles); i++ {
			fast := sma(candles, i, smaFast)
			slow := sma(candles, i, smaSlow)
			price := candles[i].Close

			switch {
			case fast > slow && e.rnd.Float64() < 0.15:
				signals = append(signals, models.Signal{
					Trader:     trader,
					Symbol:     symbol,
					Side:       models.SideBuy,
					Price:      price,
					Amount:     0.1,
					Confidence: math.Min(0.9, 0.5+(fast-slow)/slow),
					Timestamp:  candles[i].Time,
				})
			case fast < slow && e.rnd.Float64() < 0.1:
				signals = append(signals, models.Signal{
					Trader:     trader,
					Symbol:     symbol,
					Side:       models.SideSell,
					Price:      price,
					Amount:     0.1,
					Confidence: math.Min(0.9, 0.5+(slow-fast)/slow),
					Timestamp:  candles[i].Time,
				})
			}
		}
	}

	sort.Slice(signals, func(i, j int) bool { return signals[i].Timestamp.Before(signals[j].Timestamp) })
	return signals
}

func (e *Engine) slippagePrice(price float64, side models.Side) float64 {
	if side == models.SideBuy {
		return price * (1 + e.slippage)
	}
	return price * (1 - e.slippage)
}

// exitClose ищет первую свечу не раньше ts.
func exitClose(candles []Candle, ts time.Time) (float64, bool) {
	i := sort.Search(len(candles), func(i int) bool { return !candles[i].Time.Before(ts) })
	if i >= len(candles) {
		return 0, false
	}
	return candles[i].Close, true
}

// Run прогоняет симуляцию: каждый прошедший фильтры сигнал исполняется
// с проскальзыванием, держится случайные 1-24 часа и закрывается.
func (e *Engine) Run(start, end time.Time, traders []string) Result {
	logger.Info("Starting backtest from %s to %s", start.Format("2006-01-02"), end.Format("2006-01-02"))

	if len(traders) == 0 {
		traders = []string{"Yun Qiang", "Crypto Loby"}
	}

	rm := risksvc.NewWithParams(e.params, e.pairs, e.initialCapital)

	priceData := make(map[string][]Candle, len(e.pairs))
	for _, symbol := range e.pairs {
		priceData[symbol] = generateSyntheticData(e.rnd, symbol, start, end)
	}

	var allSignals []models.Signal
	for _, trader := range traders {
		allSignals = append(allSignals, e.generateSignals(priceData, trader)...)
	}
	sort.Slice(allSignals, func(i, j int) bool { return allSignals[i].Timestamp.Before(allSignals[j].Timestamp) })

	logger.Info("Processing %d signals", len(allSignals))

	currentCapital := e.initialCapital
	peakCapital := e.initialCapital
	maxDrawdown := 0.0

	var trades []Trade
	var equityCurve []EquityPoint
	var tradeReturns []float64

	for i, sig := range allSignals {
		rm.SetPortfolioValue(currentCapital)

		if ok, _ := rm.ValidateSignal(sig); !ok {
			continue
		}

		positionSize := rm.CalculatePositionSize(sig, 0)
		if positionSize <= 0 {
			continue
		}

		fillPrice := e.slippagePrice(sig.Price, sig.Side)
		tradeValue := positionSize * fillPrice
		entryCommission := tradeValue * e.commission

		// держим резерв ликвидности
		if tradeValue+entryCommission > currentCapital*0.95 {
			continue
		}

		rm.AddPosition(sig, fillPrice, positionSize)

		holdingHours := e.rnd.Intn(24) + 1
		exitTime := sig.Timestamp.Add(time.Duration(holdingHours) * time.Hour)

		rawExit, ok := exitClose(priceData[sig.Symbol], exitTime)
		if !ok {
			rm.RemovePosition(sig.Symbol, fillPrice)
			continue
		}
		exitFill := e.slippagePrice(rawExit, sig.Side.Opposite())

		var pnl float64
		if sig.Side == models.SideBuy {
			pnl = (exitFill - fillPrice) * positionSize
		} else {
			pnl = (fillPrice - exitFill) * positionSize
		}
		exitCommission := exitFill * positionSize * e.commission
		netPnL := pnl - entryCommission - exitCommission

		currentCapital += netPnL
		if currentCapital > peakCapital {
			peakCapital = currentCapital
		}
		currentDrawdown := (peakCapital - currentCapital) / peakCapital
		if currentDrawdown > maxDrawdown {
			maxDrawdown = currentDrawdown
		}

		trades = append(trades, Trade{
			EntryTime:  sig.Timestamp,
			ExitTime:   exitTime,
			Symbol:     sig.Symbol,
			Side:       string(sig.Side),
			EntryPrice: fillPrice,
			ExitPrice:  exitFill,
			Size:       positionSize,
			PnL:        netPnL,
			Trader:     sig.Trader,
		})
		equityCurve = append(equityCurve, EquityPoint{
			Time:     exitTime,
			Equity:   currentCapital,
			Drawdown: currentDrawdown,
		})
		if i > 0 {
			tradeReturns = append(tradeReturns, netPnL/currentCapital)
		}

		rm.RemovePosition(sig.Symbol, exitFill)
	}

	return e.buildResult(start, end, currentCapital, maxDrawdown, trades, equityCurve, tradeReturns)
}

func (e *Engine) buildResult(start, end time.Time, finalCapital, maxDrawdown float64,
	trades []Trade, equityCurve []EquityPoint, tradeReturns []float64) Result {

	totalReturn := (finalCapital - e.initialCapital) / e.initialCapital

	days := end.Sub(start).Hours() / 24
	annualReturn := 0.0
	if days > 0 {
		annualReturn = math.Pow(1+totalReturn, 365/days) - 1
	}

	sharpe := 0.0
	if len(tradeReturns) > 1 {
		mean := 0.0
		for _, r := range tradeReturns {
			mean += r
		}
		mean /= float64(len(tradeReturns))
		variance := 0.0
		for _, r := range tradeReturns {
			variance += (r - mean) * (r - mean)
		}
		std := math.Sqrt(variance / float64(len(tradeReturns)))
		if std > 0 {
			sharpe = mean / std * math.Sqrt(365)
		}
	}

	var grossProfit, grossLoss, largestWin, largestLoss float64
	var wins, losses int
	for _, t := range trades {
		if t.PnL > largestWin {
			largestWin = t.PnL
		}
		if t.PnL < largestLoss {
			largestLoss = t.PnL
		}
		if t.PnL > 0 {
			grossProfit += t.PnL
			wins++
		} else if t.PnL < 0 {
			grossLoss += -t.PnL
			losses++
		}
	}

	winRate := 0.0
	if len(trades) > 0 {
		winRate = float64(wins) / float64(len(trades)) * 100
	}
	profitFactor := math.Inf(1)
	if grossLoss > 0 {
		profitFactor = grossProfit / grossLoss
	}
	avgWin := 0.0
	if wins > 0 {
		avgWin = grossProfit / float64(wins)
	}
	avgLoss := 0.0
	if losses > 0 {
		avgLoss = -grossLoss / float64(losses)
	}

	logger.Info("Backtest completed: %d trades, %.2f%% return", len(trades), totalReturn*100)

	return Result{
		StartDate:      start,
		EndDate:        end,
		InitialCapital: e.initialCapital,
		FinalCapital:   finalCapital,
		TotalReturn:    totalReturn * 100,
		AnnualReturn:   annualReturn * 100,
		MaxDrawdown:    maxDrawdown * 100,
		SharpeRatio:    sharpe,
		WinRate:        winRate,
		TotalTrades:    len(trades),
		ProfitFactor:   profitFactor,
		EquityCurve:    equityCurve,
		Trades:         trades,
		GrossProfit:    grossProfit,
		GrossLoss:      grossLoss,
		AvgWin:         avgWin,
		AvgLoss:        avgLoss,
		LargestWin:     largestWin,
		LargestLoss:    largestLoss,
	}
}
