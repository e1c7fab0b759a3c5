package main

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"echo_trade/internal/backtest"
	"echo_trade/internal/modules/config"
	"echo_trade/pkg/logger"
)

// Параметры прогона читаются из backtest.yaml рядом с бинарём,
// отсутствующий файл = дефолты.
func main() {
	if err := logger.Init(); err != nil {
		panic(err)
	}

	viper.SetConfigName("backtest")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("configs")
	viper.SetDefault("initial_capital", 10000.0)
	viper.SetDefault("slippage", 0.001)
	viper.SetDefault("days", 30)
	if err := viper.ReadInConfig(); err != nil {
		logger.Warn("No backtest config found, using defaults: %v", err)
	}

	cfg, err := config.NewConfig()
	if err != nil {
		panic(fmt.Errorf("load config: %w", err))
	}
	if pairs := viper.GetStringSlice("trading_pairs"); len(pairs) > 0 {
		cfg.TradingPairs = pairs
	}

	engine := backtest.NewEngine(cfg, viper.GetFloat64("initial_capital"), viper.GetFloat64("slippage"))

	end := time.Now()
	start := end.AddDate(0, 0, -viper.GetInt("days"))

	fmt.Println("🚀 Running EchoTrade Backtest...")
	result := engine.Run(start, end, viper.GetStringSlice("traders"))

	fmt.Println("\n📊 BACKTEST RESULTS")
	fmt.Println("==================================================")
	fmt.Printf("Period: %s to %s\n", result.StartDate.Format("2006-01-02"), result.EndDate.Format("2006-01-02"))
	fmt.Printf("Initial Capital: $%.2f\n", result.InitialCapital)
	fmt.Printf("Final Capital: $%.2f\n", result.FinalCapital)
	fmt.Printf("Total Return: %+.2f%%\n", result.TotalReturn)
	fmt.Printf("Max Drawdown: %.2f%%\n", result.MaxDrawdown)
	fmt.Printf("Sharpe Ratio: %.2f\n", result.SharpeRatio)
	fmt.Printf("Win Rate: %.1f%%\n", result.WinRate)
	fmt.Printf("Total Trades: %d\n", result.TotalTrades)
	fmt.Printf("Profit Factor: %.2f\n", result.ProfitFactor)

	if len(result.Trades) > 0 {
		fmt.Println("\n🏆 TRADE SUMMARY")
		fmt.Printf("Average Win: $%+.2f\n", result.AvgWin)
		fmt.Printf("Average Loss: $%+.2f\n", result.AvgLoss)
		fmt.Printf("Largest Win: $%+.2f\n", result.LargestWin)
		fmt.Printf("Largest Loss: $%+.2f\n", result.LargestLoss)
	}

	fmt.Println("\n✅ Backtest completed successfully!")
}
