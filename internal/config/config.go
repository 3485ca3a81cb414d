// config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/text/currency"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port           string   `yaml:"port"`
	Store          string   `yaml:"store"`
	MongoURI       string   `yaml:"mongo_uri"`
	MongoDBName    string   `yaml:"mongo_db_name"`
	RabbitURL      string   `yaml:"rabbit_url"`
	RabbitExchange string   `yaml:"rabbit_exchange"`
	JWTSecret      string   `yaml:"jwt_secret"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	LogLevel       string   `yaml:"log_level"`
	LogFormat      string   `yaml:"log_format"`
	Currency       string   `yaml:"currency"`

	// Lifecycle policies. Both default to the permissive behavior.
	StrictTransitions   bool `yaml:"strict_status_transitions"`
	CashRequiresPayment bool `yaml:"cash_requires_payment"`
}

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

func defaults() Config {
	return Config{
		Port:           "5000",
		Store:          StoreMongo,
		MongoURI:       "mongodb://localhost:27017",
		MongoDBName:    "quickeats",
		RabbitExchange: "order_events",
		AllowedOrigins: []string{"http://localhost:3000"},
		LogLevel:       "info",
		LogFormat:      "json",
		Currency:       "INR",
	}
}

// Load builds the config from, in increasing priority: defaults, the YAML
// file named by CONFIG_FILE, a .env file, and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("godotenv.Load: %w", err)
	}

	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.Store = getEnv("STORE", cfg.Store)
	cfg.MongoURI = getEnv("MONGO_URI", cfg.MongoURI)
	cfg.MongoDBName = getEnv("MONGO_DB_NAME", cfg.MongoDBName)
	cfg.RabbitURL = getEnv("RABBIT_URL", cfg.RabbitURL)
	cfg.RabbitExchange = getEnv("RABBIT_EXCHANGE", cfg.RabbitExchange)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)
	cfg.Currency = strings.ToUpper(getEnv("CURRENCY", cfg.Currency))

	if v, ok := os.LookupEnv("ALLOWED_ORIGINS"); ok {
		cfg.AllowedOrigins = splitList(v)
	}

	var err error
	if cfg.StrictTransitions, err = getBool("STRICT_STATUS_TRANSITIONS", cfg.StrictTransitions); err != nil {
		return nil, err
	}
	if cfg.CashRequiresPayment, err = getBool("CASH_REQUIRES_PAYMENT", cfg.CashRequiresPayment); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.Store != StoreMongo && c.Store != StoreMemory {
		return fmt.Errorf("unknown store %q", c.Store)
	}
	if c.Store == StoreMongo && c.MongoURI == "" {
		return errors.New("MONGO_URI is required for the mongo store")
	}
	if _, err := currency.ParseISO(c.Currency); err != nil {
		return fmt.Errorf("currency[%s] is not valid: %w", c.Currency, err)
	}
	return nil
}

// CurrencyUnit is only valid after Validate succeeded.
func (c *Config) CurrencyUnit() currency.Unit {
	return currency.MustParseISO(c.Currency)
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getBool(key string, fallback bool) (bool, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
