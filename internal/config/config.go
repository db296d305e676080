package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed defaults.yaml
var defaults []byte

const (
	SourceCSV        = "csv"
	SourceMySQL      = "mysql"
	SourceClickHouse = "clickhouse"
)

// ---- Root ----

type Config struct {
	Log        LogConfig       `mapstructure:"log"`
	HTTP       HTTPConfig      `mapstructure:"http"`
	Input      InputConfig     `mapstructure:"input"`
	Output     OutputConfig    `mapstructure:"output"`
	Source     SourceConfig    `mapstructure:"source"`
	MySQL      DatabaseConfig  `mapstructure:"mysql"`
	ClickHouse DatabaseConfig  `mapstructure:"clickhouse"`
	Redis      RedisConfig     `mapstructure:"redis"`
	Kafka      KafkaConfig     `mapstructure:"kafka"`
	RateLimit  RateLimitConfig `mapstructure:"rate_limit"`
}

// ---- Leaf structs ----

type LogConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"` // json | console
}

type HTTPConfig struct {
	Addr         string        `mapstructure:"addr"`
	MaxUploadMB  int           `mapstructure:"max_upload_mb"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	TrustProxy   bool          `mapstructure:"trust_proxy"` // take the client IP from X-Forwarded-For set by a private-network proxy
}

// InputConfig names the export columns.
type InputConfig struct {
	CustomerIDColumn string `mapstructure:"customer_id_column"`
	EmailColumn      string `mapstructure:"email_column"`
	CreatedColumn    string `mapstructure:"created_column"`
	CanceledColumn   string `mapstructure:"canceled_column"`
}

type OutputConfig struct {
	Dir          string `mapstructure:"dir"`
	MonthlyFile  string `mapstructure:"monthly_file"`
	CanceledFile string `mapstructure:"canceled_file"`
	ChartFile    string `mapstructure:"chart_file"`
	ChartWidth   int    `mapstructure:"chart_width"`
	ChartHeight  int    `mapstructure:"chart_height"`
}

type SourceConfig struct {
	Kind  string `mapstructure:"kind"` // csv | mysql | clickhouse
	Query string `mapstructure:"query"`
}

type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idletime"`
	PingTimeout     time.Duration `mapstructure:"ping_timeout"`
}

type RedisConfig struct {
	Addr        string        `mapstructure:"addr"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	ReportTTL   time.Duration `mapstructure:"report_ttl"`
}

type KafkaConfig struct {
	Brokers       []string      `mapstructure:"brokers"`
	CanceledTopic string        `mapstructure:"canceled_topic"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout"`

	BreakerThreshold int           `mapstructure:"breaker_threshold"` // consecutive failures before publishing pauses
	BreakerOpenFor   time.Duration `mapstructure:"breaker_open_for"`
}

type RateLimitConfig struct {
	RPS   int `mapstructure:"rps"`
	Burst int `mapstructure:"burst"`
}

// Load reads embedded defaults, merges user YAML (if path is set), and applies
// env overrides (CHURN_*). A missing or malformed file is an error.
func Load(path string) (Config, error) {
	v := viper.New()

	// embedded defaults
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return Config{}, err
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	// env override (CHURN_HTTP_ADDR, CHURN_SOURCE_KIND, ...)
	v.SetEnvPrefix("CHURN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var errs []string

	switch c.Source.Kind {
	case SourceCSV:
	case SourceMySQL:
		if c.MySQL.DSN == "" {
			errs = append(errs, "mysql.dsn is required when source.kind is mysql")
		}
	case SourceClickHouse:
		if c.ClickHouse.DSN == "" {
			errs = append(errs, "clickhouse.dsn is required when source.kind is clickhouse")
		}
	default:
		errs = append(errs, fmt.Sprintf("invalid source.kind %q: must be one of [csv mysql clickhouse]", c.Source.Kind))
	}
	if c.Source.Kind != SourceCSV && strings.TrimSpace(c.Source.Query) == "" {
		errs = append(errs, "source.query cannot be empty for database sources")
	}

	columns := [][2]string{
		{"customer_id_column", c.Input.CustomerIDColumn},
		{"email_column", c.Input.EmailColumn},
		{"created_column", c.Input.CreatedColumn},
		{"canceled_column", c.Input.CanceledColumn},
	}
	for _, col := range columns {
		if strings.TrimSpace(col[1]) == "" {
			errs = append(errs, fmt.Sprintf("input.%s cannot be empty", col[0]))
		}
	}

	if c.Output.ChartWidth < 200 || c.Output.ChartHeight < 150 {
		errs = append(errs, fmt.Sprintf("invalid chart size %dx%d: must be at least 200x150", c.Output.ChartWidth, c.Output.ChartHeight))
	}
	if c.HTTP.MaxUploadMB < 1 {
		errs = append(errs, fmt.Sprintf("invalid http.max_upload_mb %d: must be at least 1", c.HTTP.MaxUploadMB))
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.CanceledTopic == "" {
		errs = append(errs, "kafka.canceled_topic cannot be empty when brokers are configured")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}
