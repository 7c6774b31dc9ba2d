package botconfig

import (
	"fmt"

	"freqctl/internal/pairlist"
)

// CustomSettings are the discrete fields of a from-scratch config. The
// zero value is not a useful config; start from NewCustomSettings and
// override.
type CustomSettings struct {
	TradingMode   string // "spot" or "futures"
	MaxOpenTrades int
	StakeCurrency string
	StakeAmount   float64
	DryRun        bool
	Timeframe     string
	Exchange      string
	EntryTimeout  int // minutes an unfilled entry order survives
	ExitTimeout   int // minutes an unfilled exit order survives

	// Optional overrides, given as percentages (-5 means -5%).
	StoplossPercent   *float64
	MinimalROIPercent *float64

	// FreqAI enables the ML-assist block when non-nil.
	FreqAI *FreqAISettings
}

// NewCustomSettings returns the default settings: a conservative dry-run
// spot configuration on binance.
func NewCustomSettings() CustomSettings {
	return CustomSettings{
		TradingMode:   "spot",
		MaxOpenTrades: 5,
		StakeCurrency: "USDT",
		StakeAmount:   200,
		DryRun:        true,
		Timeframe:     "5m",
		Exchange:      "binance",
		EntryTimeout:  10,
		ExitTimeout:   30,
	}
}

// FreqAISettings are the tunable parts of the FreqAI block.
type FreqAISettings struct {
	TrainPeriodDays    int
	BacktestPeriodDays int
	LiveRetrainHours   int
	ModelType          string // "LightGBM" or "CatBoost"
}

// NewFreqAISettings returns the default training windows and model.
func NewFreqAISettings() FreqAISettings {
	return FreqAISettings{
		TrainPeriodDays:    30,
		BacktestPeriodDays: 7,
		LiveRetrainHours:   24,
		ModelType:          "LightGBM",
	}
}

func buildCustomConfig(settings CustomSettings, opts Options, pairs *pairlist.Pairlist) map[string]interface{} {
	fillSettingsDefaults(&settings)

	blacklist := pairs.Blacklist
	if blacklist == nil {
		blacklist = []string{}
	}

	cfg := map[string]interface{}{
		"$schema":                    "https://schema.freqtrade.io/schema.json",
		"trading_mode":               settings.TradingMode,
		"max_open_trades":            settings.MaxOpenTrades,
		"stake_currency":             settings.StakeCurrency,
		"stake_amount":               settings.StakeAmount,
		"tradable_balance_ratio":     0.99,
		"fiat_display_currency":      "USD",
		"dry_run":                    settings.DryRun,
		"timeframe":                  settings.Timeframe,
		"dry_run_wallet":             1000,
		"cancel_open_orders_on_exit": true,
		"bot_name":                   opts.ContainerName,
		"unfilledtimeout": map[string]interface{}{
			"entry": settings.EntryTimeout,
			"exit":  settings.ExitTimeout,
		},
		"exchange": map[string]interface{}{
			"name":              settings.Exchange,
			"key":               "",
			"secret":            "",
			"ccxt_config":       map[string]interface{}{},
			"ccxt_async_config": map[string]interface{}{},
			"pair_whitelist":    pairs.Whitelist,
			"pair_blacklist":    blacklist,
		},
		"entry_pricing": map[string]interface{}{
			"price_side":         "same",
			"use_order_book":     true,
			"order_book_top":     1,
			"price_last_balance": 0.0,
			"check_depth_of_market": map[string]interface{}{
				"enabled":           false,
				"bids_to_ask_delta": 1,
			},
		},
		"exit_pricing": map[string]interface{}{
			"price_side":     "same",
			"use_order_book": true,
			"order_book_top": 1,
		},
		"pairlists": []interface{}{
			map[string]interface{}{"method": "StaticPairList"},
		},
		"protections":        defaultProtections(),
		"strategy":           opts.Strategy,
		"strategy_path":      "user_data/strategies/",
		"db_url":             fmt.Sprintf("sqlite:///tradesv3_%s.sqlite", opts.ContainerName),
		"initial_state":      "running",
		"force_entry_enable": false,
		"internals": map[string]interface{}{
			"process_throttle_secs": 5,
		},
	}

	if settings.TradingMode == "futures" {
		cfg["margin_mode"] = "isolated"
	}
	if settings.StoplossPercent != nil {
		cfg["stoploss"] = *settings.StoplossPercent / 100
	}
	if settings.MinimalROIPercent != nil {
		cfg["minimal_roi"] = map[string]interface{}{
			"0": *settings.MinimalROIPercent / 100,
		}
	}
	if settings.FreqAI != nil {
		cfg["freqai"] = freqAIBlock(*settings.FreqAI, pairs.Whitelist, opts.ContainerName)
	}

	applyAPIServer(cfg, opts.ContainerName)
	return cfg
}

func fillSettingsDefaults(s *CustomSettings) {
	defaults := NewCustomSettings()
	if s.TradingMode == "" {
		s.TradingMode = defaults.TradingMode
	}
	if s.MaxOpenTrades == 0 {
		s.MaxOpenTrades = defaults.MaxOpenTrades
	}
	if s.StakeCurrency == "" {
		s.StakeCurrency = defaults.StakeCurrency
	}
	if s.StakeAmount == 0 {
		s.StakeAmount = defaults.StakeAmount
	}
	if s.Timeframe == "" {
		s.Timeframe = defaults.Timeframe
	}
	if s.Exchange == "" {
		s.Exchange = defaults.Exchange
	}
	if s.EntryTimeout == 0 {
		s.EntryTimeout = defaults.EntryTimeout
	}
	if s.ExitTimeout == 0 {
		s.ExitTimeout = defaults.ExitTimeout
	}
}

func freqAIBlock(settings FreqAISettings, whitelist []string, containerName string) map[string]interface{} {
	defaults := NewFreqAISettings()
	if settings.TrainPeriodDays == 0 {
		settings.TrainPeriodDays = defaults.TrainPeriodDays
	}
	if settings.BacktestPeriodDays == 0 {
		settings.BacktestPeriodDays = defaults.BacktestPeriodDays
	}
	if settings.LiveRetrainHours == 0 {
		settings.LiveRetrainHours = defaults.LiveRetrainHours
	}
	if settings.ModelType == "" {
		settings.ModelType = defaults.ModelType
	}

	return map[string]interface{}{
		"enabled":              true,
		"purge_old_models":     2,
		"train_period_days":    settings.TrainPeriodDays,
		"backtest_period_days": settings.BacktestPeriodDays,
		"live_retrain_hours":   settings.LiveRetrainHours,
		"expiration_hours":     1,
		"identifier":           "freqai_" + containerName,
		"feature_parameters": map[string]interface{}{
			"include_timeframes":           []string{"5m", "15m", "4h"},
			"include_corr_pairlist":        correlationPairs(whitelist),
			"label_period_candles":         24,
			"include_shifted_candles":      2,
			"DI_threshold":                 0.9,
			"weight_factor":                0.9,
			"principal_component_analysis": false,
			"use_SVM_to_remove_outliers":   true,
			"svm_params": map[string]interface{}{
				"shuffle": true,
				"nu":      0.1,
			},
			"use_DBSCAN_to_remove_outliers": false,
			"indicator_max_period_candles":  20,
			"indicator_periods_candles":     []int{10, 20},
		},
		"data_split_parameters": map[string]interface{}{
			"test_size": 0.33,
			"shuffle":   false,
		},
		"model_training_parameters": modelTrainingParams(settings.ModelType),
	}
}

func modelTrainingParams(modelType string) map[string]interface{} {
	params := map[string]interface{}{
		"n_estimators":  800,
		"learning_rate": 0.02,
		"task_type":     "CPU",
	}
	// CatBoost reads thread_count; -1 means every available core.
	if modelType == "CatBoost" {
		params["thread_count"] = -1
	}
	return params
}

func defaultProtections() []interface{} {
	return []interface{}{
		map[string]interface{}{
			"method":                "CooldownPeriod",
			"stop_duration_candles": 5,
		},
		map[string]interface{}{
			"method":                  "MaxDrawdown",
			"lookback_period_candles": 24,
			"trade_limit":             20,
			"stop_duration_candles":   4,
			"max_allowed_drawdown":    0.2,
		},
		map[string]interface{}{
			"method":                  "StoplossGuard",
			"lookback_period_candles": 24,
			"trade_limit":             4,
			"stop_duration_candles":   2,
			"only_per_pair":           false,
		},
		map[string]interface{}{
			"method":                  "LowProfitPairs",
			"lookback_period_candles": 6,
			"trade_limit":             2,
			"stop_duration_candles":   60,
			"required_profit":         0.02,
		},
	}
}
