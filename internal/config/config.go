package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// DefaultProxyBaseURL is the proxy endpoint feed identifiers are appended to.
const DefaultProxyBaseURL = "http://testnet-2.proxy.testnet.seda.xyz/proxy"

// Config holds all configuration for the price feed routine.
type Config struct {
	Proxy   ProxyConfig   `mapstructure:"proxy"`
	Logging LoggingConfig `mapstructure:"logging"`
	Output  OutputConfig  `mapstructure:"output"`
}

// ProxyConfig controls the outbound fetch through the data proxy.
type ProxyConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
	RetryCount   int           `mapstructure:"retry_count"`
	RetryWait    time.Duration `mapstructure:"retry_wait"`
	RetryMaxWait time.Duration `mapstructure:"retry_max_wait"`
	RateLimit    float64       `mapstructure:"rate_limit"` // requests per second, <= 0 disables
	RateBurst    int           `mapstructure:"rate_burst"`
}

// LoggingConfig selects the logrus level and formatter
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// OutputConfig controls how the CLI writes the reported result
type OutputConfig struct {
	Encoding string `mapstructure:"encoding"` // hex or raw
}

// Load reads configuration from defaults, an optional config file and
// PRICEFEED_* environment variables, in increasing order of precedence.
//
// Environment variables use underscores for nesting, for example:
//   - PRICEFEED_PROXY_BASE_URL
//   - PRICEFEED_PROXY_TIMEOUT
//   - PRICEFEED_LOGGING_LEVEL
//   - PRICEFEED_OUTPUT_ENCODING
//
// When configPath is empty, config.yaml is looked up in the working
// directory and $HOME/.pricefeed and silently skipped if absent.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("proxy.base_url", DefaultProxyBaseURL)
	v.SetDefault("proxy.timeout", 10*time.Second)
	v.SetDefault("proxy.retry_count", 3)
	v.SetDefault("proxy.retry_wait", 1*time.Second)
	v.SetDefault("proxy.retry_max_wait", 10*time.Second)
	v.SetDefault("proxy.rate_limit", 4.0)
	v.SetDefault("proxy.rate_burst", 1)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("output.encoding", "hex")

	v.SetEnvPrefix("PRICEFEED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.pricefeed")

		// Missing default config file is fine
		_ = v.ReadInConfig()
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var problems []string

	u, err := url.Parse(c.Proxy.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		problems = append(problems, fmt.Sprintf("proxy.base_url must be an absolute http(s) URL, got %q", c.Proxy.BaseURL))
	}
	if c.Proxy.Timeout < 0 {
		problems = append(problems, "proxy.timeout must not be negative")
	}
	if c.Proxy.RetryCount < 0 {
		problems = append(problems, "proxy.retry_count must not be negative")
	}
	if c.Proxy.RateLimit > 0 && c.Proxy.RateBurst < 1 {
		problems = append(problems, "proxy.rate_burst must be at least 1 when rate limiting is enabled")
	}
	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		problems = append(problems, fmt.Sprintf("logging.level %q is not a valid level", c.Logging.Level))
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		problems = append(problems, fmt.Sprintf("logging.format must be text or json, got %q", c.Logging.Format))
	}
	if c.Output.Encoding != "hex" && c.Output.Encoding != "raw" {
		problems = append(problems, fmt.Sprintf("output.encoding must be hex or raw, got %q", c.Output.Encoding))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
