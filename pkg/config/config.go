package config

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const weightEpsilon = 1e-6

// Asset is one catalog entry. Pair is the Binance symbol (e.g. BTCUSDT);
// assets without a tradable pair carry an empty Pair and are skipped by the
// generator, assets without a futures listing set Futures to false and get
// no sentiment requests.
type Asset struct {
	Symbol   string `yaml:"symbol"`
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
	Pair     string `yaml:"pair"`
	Futures  bool   `yaml:"futures"`
}

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
	Binance struct {
		SpotURL        string        `yaml:"spot_url"`
		FuturesURL     string        `yaml:"futures_url"`
		RequestTimeout time.Duration `yaml:"request_timeout"`
		MaxAttempts    int           `yaml:"max_attempts"`
		BackoffBase    time.Duration `yaml:"backoff_base"`
		BackoffMax     time.Duration `yaml:"backoff_max"`
		// Shared request budget across every fetch in the process.
		RequestsPerSec float64 `yaml:"requests_per_sec"`
		Burst          int     `yaml:"burst"`
	} `yaml:"binance"`
	Generator struct {
		Interval   time.Duration `yaml:"interval"`
		Workers    int           `yaml:"workers"`
		Lookback   int           `yaml:"lookback"`
		RunOnStart bool          `yaml:"run_on_start"`
	} `yaml:"generator"`
	Indicators struct {
		RSIPeriod       int     `yaml:"rsi_period"`
		EMAFast         int     `yaml:"ema_fast"`
		EMASlow         int     `yaml:"ema_slow"`
		EMATrend        int     `yaml:"ema_trend"`
		MACDFast        int     `yaml:"macd_fast"`
		MACDSlow        int     `yaml:"macd_slow"`
		MACDSignal      int     `yaml:"macd_signal"`
		BollingerPeriod int     `yaml:"bollinger_period"`
		BollingerStdDev float64 `yaml:"bollinger_std_dev"`
		VolumePeriod    int     `yaml:"volume_period"`
	} `yaml:"indicators"`
	Weights struct {
		RSI         float64 `yaml:"rsi"`
		EMA         float64 `yaml:"ema"`
		MACD        float64 `yaml:"macd"`
		Bollinger   float64 `yaml:"bollinger"`
		Volume      float64 `yaml:"volume"`
		Sentiment   float64 `yaml:"sentiment"`
		Liquidation float64 `yaml:"liquidation"`
	} `yaml:"weights"`
	Thresholds struct {
		Lean   float64 `yaml:"lean"`
		Clear  float64 `yaml:"clear"`
		Strong float64 `yaml:"strong"`
	} `yaml:"thresholds"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		MaxAttempts  int      `yaml:"max_attempts"`
	} `yaml:"kafka"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Prefix   string `yaml:"prefix"`
	} `yaml:"redis"`
	Assets []Asset `yaml:"assets"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("MOONLANDER_PORT"); v != "" {
		var port int
		if _, err := fmt.Sscanf(v, "%d", &port); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
		c.Kafka.Enabled = true
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		host, port := v, 6379
		if i := strings.LastIndex(v, ":"); i > 0 {
			host = v[:i]
			fmt.Sscanf(v[i+1:], "%d", &port)
		}
		c.Redis.Host, c.Redis.Port = host, port
		c.Redis.Enabled = true
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Binance.SpotURL == "" {
		c.Binance.SpotURL = "https://api.binance.com"
	}
	if c.Binance.FuturesURL == "" {
		c.Binance.FuturesURL = "https://fapi.binance.com"
	}
	if c.Binance.RequestTimeout == 0 {
		c.Binance.RequestTimeout = 10 * time.Second
	}
	if c.Binance.MaxAttempts == 0 {
		c.Binance.MaxAttempts = 3
	}
	if c.Binance.BackoffBase == 0 {
		c.Binance.BackoffBase = 250 * time.Millisecond
	}
	if c.Binance.BackoffMax == 0 {
		c.Binance.BackoffMax = 5 * time.Second
	}
	if c.Binance.RequestsPerSec == 0 {
		c.Binance.RequestsPerSec = 15
	}
	if c.Binance.Burst == 0 {
		c.Binance.Burst = 5
	}
	if c.Generator.Interval == 0 {
		c.Generator.Interval = 15 * time.Minute
	}
	if c.Generator.Workers == 0 {
		c.Generator.Workers = 8
	}
	if c.Generator.Lookback == 0 {
		c.Generator.Lookback = 100
	}
	if c.Indicators.RSIPeriod == 0 {
		c.Indicators.RSIPeriod = 14
	}
	if c.Indicators.EMAFast == 0 {
		c.Indicators.EMAFast = 9
	}
	if c.Indicators.EMASlow == 0 {
		c.Indicators.EMASlow = 21
	}
	if c.Indicators.EMATrend == 0 {
		c.Indicators.EMATrend = 50
	}
	if c.Indicators.MACDFast == 0 {
		c.Indicators.MACDFast = 12
	}
	if c.Indicators.MACDSlow == 0 {
		c.Indicators.MACDSlow = 26
	}
	if c.Indicators.MACDSignal == 0 {
		c.Indicators.MACDSignal = 9
	}
	if c.Indicators.BollingerPeriod == 0 {
		c.Indicators.BollingerPeriod = 20
	}
	if c.Indicators.BollingerStdDev == 0 {
		c.Indicators.BollingerStdDev = 2
	}
	if c.Indicators.VolumePeriod == 0 {
		c.Indicators.VolumePeriod = 20
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stdout"
	}
	if c.Redis.Prefix == "" {
		c.Redis.Prefix = "moonlander"
	}
}

// Validate checks the configuration. Any violation here is fatal: the
// process must not start scoring with broken weights or thresholds.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if len(c.Assets) == 0 {
		return fmt.Errorf("assets cannot be empty")
	}

	seen := make(map[string]bool, len(c.Assets))
	for i, a := range c.Assets {
		if a.Symbol == "" {
			return fmt.Errorf("assets[%d]: symbol is required", i)
		}
		if seen[a.Symbol] {
			return fmt.Errorf("assets[%d]: duplicate symbol %q", i, a.Symbol)
		}
		seen[a.Symbol] = true
	}

	sum := c.Weights.RSI + c.Weights.EMA + c.Weights.MACD +
		c.Weights.Bollinger + c.Weights.Volume + c.Weights.Sentiment +
		c.Weights.Liquidation
	if math.Abs(sum-1.0) > weightEpsilon {
		return fmt.Errorf("factor weights must sum to 1.0, got %.6f", sum)
	}
	for _, w := range []float64{
		c.Weights.RSI, c.Weights.EMA, c.Weights.MACD,
		c.Weights.Bollinger, c.Weights.Volume, c.Weights.Sentiment,
		c.Weights.Liquidation,
	} {
		if w < 0 {
			return fmt.Errorf("factor weights must be non-negative")
		}
	}

	t := c.Thresholds
	if !(0 < t.Lean && t.Lean < t.Clear && t.Clear < t.Strong) {
		return fmt.Errorf("thresholds must satisfy 0 < lean < clear < strong, got %.2f/%.2f/%.2f",
			t.Lean, t.Clear, t.Strong)
	}

	if c.Binance.RequestsPerSec <= 0 || c.Binance.Burst <= 0 {
		return fmt.Errorf("binance rate budget must be positive")
	}
	if c.Generator.Workers <= 0 {
		return fmt.Errorf("generator.workers must be positive")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers required when kafka is enabled")
	}
	return nil
}
