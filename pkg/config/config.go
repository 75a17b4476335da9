package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development" validate:"required"`
	Log         struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
		Format string `yaml:"format" default:"console" validate:"oneof=json console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"log"`
	Paths struct {
		DataDir     string `yaml:"data_dir" default:"data" validate:"required"`
		OutputDir   string `yaml:"output_dir" default:"output" validate:"required"`
		TemplateDir string `yaml:"template_dir"`
	} `yaml:"paths"`
	Server struct {
		Host            string        `yaml:"host" default:"0.0.0.0"`
		Port            int           `yaml:"port" default:"8000" validate:"min=1,max=65535"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Report struct {
		TimeZone string `yaml:"time_zone" default:"America/New_York"`
		Limits   Limits `yaml:"limits"`
	} `yaml:"report"`
	Finnhub struct {
		APIKey  string        `yaml:"api_key"`
		BaseURL string        `yaml:"base_url" default:"https://finnhub.io/api/v1" validate:"url"`
		Timeout time.Duration `yaml:"timeout" default:"15s"`
	} `yaml:"finnhub"`
	Yahoo struct {
		BaseURL         string        `yaml:"base_url" default:"https://query2.finance.yahoo.com" validate:"url"`
		CookieURL       string        `yaml:"cookie_url" default:"https://fc.yahoo.com" validate:"omitempty,url"`
		Timeout         time.Duration `yaml:"timeout" default:"15s"`
		RequestsPerSec  float64       `yaml:"requests_per_sec" default:"4"`
		CacheTTL        time.Duration `yaml:"cache_ttl" default:"10m"`
		IndexSymbols    []string      `yaml:"index_symbols" default:"[\"SPY\",\"QQQ\",\"IWM\",\"DIA\",\"^VIX\"]"`
		OptionsSymbols  []string      `yaml:"options_symbols" default:"[\"AAPL\",\"MSFT\",\"NVDA\",\"TSLA\",\"AMZN\",\"META\",\"GOOGL\",\"AMD\",\"NFLX\",\"COIN\",\"PLTR\",\"SOFI\",\"NIO\",\"BABA\",\"GME\",\"AMC\",\"BA\",\"DIS\",\"INTC\",\"MU\",\"PYPL\",\"SQ\",\"SHOP\",\"UBER\",\"RIVN\",\"LCID\",\"F\",\"GM\",\"JPM\",\"BAC\",\"XOM\",\"CVX\",\"PFE\",\"MRNA\",\"JNJ\",\"UNH\",\"V\",\"MA\",\"WMT\",\"TGT\"]"`
		WatchedSymbols  []string      `yaml:"watched_symbols" default:"[\"AAPL\",\"MSFT\",\"NVDA\",\"TSLA\",\"AMZN\",\"META\",\"GOOGL\",\"AMD\",\"NFLX\",\"COIN\",\"PLTR\",\"NIO\",\"BABA\",\"BA\",\"DIS\",\"INTC\",\"MU\",\"PYPL\",\"SQ\",\"SHOP\",\"UBER\",\"JPM\",\"BAC\",\"XOM\",\"CVX\",\"PFE\",\"JNJ\",\"UNH\",\"V\",\"MA\",\"WMT\"]"`
		StockInfoSymbol []string      `yaml:"stock_info_symbols" default:"[\"AAPL\",\"MSFT\",\"NVDA\",\"TSLA\",\"AMZN\",\"META\",\"GOOGL\",\"AMD\",\"NFLX\",\"COIN\",\"PLTR\",\"NIO\",\"BABA\",\"BA\",\"DIS\",\"INTC\",\"MU\",\"PYPL\",\"SQ\",\"SHOP\",\"UBER\",\"JPM\",\"BAC\",\"GS\",\"XOM\",\"CVX\",\"PFE\",\"JNJ\",\"UNH\",\"V\",\"MA\",\"WMT\",\"SPY\",\"QQQ\",\"IWM\",\"DIA\",\"^VIX\"]"`
	} `yaml:"yahoo"`
	Calendar struct {
		URL       string        `yaml:"url" default:"https://www.investing.com/economic-calendar/" validate:"url"`
		Country   string        `yaml:"country" default:"US"`
		MaxEvents int           `yaml:"max_events" default:"30"`
		Timeout   time.Duration `yaml:"timeout" default:"10s"`
	} `yaml:"calendar"`
	Enricher struct {
		Provider  string        `yaml:"provider" default:"anthropic" validate:"oneof=anthropic command none"`
		APIKey    string        `yaml:"api_key"`
		Model     string        `yaml:"model" default:"claude-sonnet-4-20250514"`
		MaxTokens int           `yaml:"max_tokens" default:"4096"`
		Command   []string      `yaml:"command"`
		Timeout   time.Duration `yaml:"timeout" default:"120s"`
	} `yaml:"enricher"`
	Cache struct {
		MemoryMaxSize int `yaml:"memory_max_size" default:"2000"`
		Redis         struct {
			Enabled  bool   `yaml:"enabled"`
			Host     string `yaml:"host" default:"localhost"`
			Port     int    `yaml:"port" default:"6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix" default:"dailyfin"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Kafka struct {
		Enabled      bool          `yaml:"enabled"`
		Brokers      []string      `yaml:"brokers"`
		Topic        string        `yaml:"topic" default:"dailyfin.snapshots"`
		RequiredAcks int           `yaml:"required_acks" default:"-1"`
		Compression  string        `yaml:"compression" default:"gzip"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Enabled     bool          `yaml:"enabled"`
		Host        string        `yaml:"host" default:"localhost"`
		Port        int           `yaml:"port" default:"9000"`
		Database    string        `yaml:"database" default:"dailyfin"`
		User        string        `yaml:"user" default:"default"`
		Password    string        `yaml:"password"`
		DialTimeout time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout time.Duration `yaml:"read_timeout" default:"10s"`
	} `yaml:"clickhouse"`
	Scheduler struct {
		Cron          string        `yaml:"cron" default:"30 8 * * 1-5"`
		SourceTimeout time.Duration `yaml:"source_timeout" default:"5m"`
	} `yaml:"scheduler"`
}

// Limits are the windowing and truncation sizes applied when building a report.
type Limits struct {
	CalendarEvents    int `yaml:"calendar_events" default:"10" validate:"min=0"`
	EarningsPerBucket int `yaml:"earnings_per_bucket" default:"10" validate:"min=0"`
	RawRatingChanges  int `yaml:"raw_rating_changes" default:"20" validate:"min=0"`
	RatingGroups      int `yaml:"rating_groups" default:"8" validate:"min=0"`
	TopStocks         int `yaml:"top_stocks" default:"25" validate:"min=0"`
	FallbackHeadlines int `yaml:"fallback_headlines" default:"7" validate:"min=0"`
	HeadlineLength    int `yaml:"headline_length" default:"60" validate:"min=1"`
}

var validate = validator.New()

// Default returns a configuration populated only from struct defaults.
func Default() *Config {
	var c Config
	if err := defaults.Set(&c); err != nil {
		panic(fmt.Sprintf("config defaults: %v", err))
	}
	return &c
}

// Load reads and parses a YAML configuration file. An empty path or a
// missing file yields the defaults.
func Load(path string) (*Config, error) {
	c := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(b, c); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads .env (if present), then the YAML config, then applies
// environment variable overrides.
func LoadWithEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("FINNHUB_API_KEY"); v != "" {
		c.Finnhub.APIKey = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		c.Enricher.APIKey = v
	}
	if v := os.Getenv("ENRICHER_PROVIDER"); v != "" {
		c.Enricher.Provider = v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		c.Paths.DataDir = v
	}
	if v := os.Getenv("OUTPUT_DIR"); v != "" {
		c.Paths.OutputDir = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if c.Enricher.Provider == "command" && len(c.Enricher.Command) == 0 {
		return fmt.Errorf("enricher.command is required for the command provider")
	}
	if _, err := time.LoadLocation(c.Report.TimeZone); err != nil {
		return fmt.Errorf("report.time_zone: %w", err)
	}
	return nil
}

// Location returns the report time zone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Report.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}
