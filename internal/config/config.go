package config

import (
	"encoding/pem"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// ErrMissingValue is wrapped by Load for every required variable that is unset.
var ErrMissingValue = errors.New("missing required configuration value")

// Config is built once at startup and treated as read-only afterwards.
type Config struct {
	Google      GoogleConfig
	MercadoPago MercadoPagoConfig
	URLs        RedirectURLs
	Kafka       KafkaConfig

	AppPort     int      `env:"PORT"`
	LogLevel    string   `env:"LOG_LEVEL"`
	LogFormat   string   `env:"LOG_FORMAT"`
	LogFile     string   `env:"LOG_FILE"`
	CORSOrigins []string `env:"CORS_ALLOWED_ORIGINS"`
}

type GoogleConfig struct {
	ServiceAccountEmail string `env:"GOOGLE_SERVICE_ACCOUNT_EMAIL"`
	PrivateKey          string `env:"GOOGLE_PRIVATE_KEY"`
	ProductsSheetID     string `env:"PLANILHA_PRODUTOS_ID"`
	OrdersSheetID       string `env:"PLANILHA_PEDIDOS_ID"`
}

type MercadoPagoConfig struct {
	AccessToken   string `env:"MP_ACCESS_TOKEN"`
	WebhookSecret string `env:"MP_WEBHOOK_SECRET"`
}

// RedirectURLs are the frontend pages the checkout returns to.
type RedirectURLs struct {
	Success string `env:"FRONTEND_URL_SUCESSO"`
	Failure string `env:"FRONTEND_URL_FALHA"`
	Pending string `env:"FRONTEND_URL_PENDENTE"`
}

// KafkaConfig enables the payment notification publisher when Host is set.
type KafkaConfig struct {
	Host  string `env:"KAFKA_HOST"`
	Topic string `env:"KAFKA_TOPIC"`
}

// Brokers splits Host on commas.
func (k KafkaConfig) Brokers() []string {
	return splitList(k.Host)
}

// Load reads envFile (when non-empty and present) into the process environment
// and builds a Config from it. A missing env file is not an error: in
// production the variables come from the platform.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	config := &Config{
		Google: GoogleConfig{
			ServiceAccountEmail: getEnvAsString("GOOGLE_SERVICE_ACCOUNT_EMAIL", ""),
			PrivateKey:          unescapeNewlines(getEnvAsString("GOOGLE_PRIVATE_KEY", "")),
			ProductsSheetID:     getEnvAsString("PLANILHA_PRODUTOS_ID", ""),
			OrdersSheetID:       getEnvAsString("PLANILHA_PEDIDOS_ID", ""),
		},
		MercadoPago: MercadoPagoConfig{
			AccessToken:   getEnvAsString("MP_ACCESS_TOKEN", ""),
			WebhookSecret: getEnvAsString("MP_WEBHOOK_SECRET", ""),
		},
		URLs: RedirectURLs{
			Success: getEnvAsString("FRONTEND_URL_SUCESSO", ""),
			Failure: getEnvAsString("FRONTEND_URL_FALHA", ""),
			Pending: getEnvAsString("FRONTEND_URL_PENDENTE", ""),
		},
		Kafka: KafkaConfig{
			Host:  getEnvAsString("KAFKA_HOST", ""),
			Topic: getEnvAsString("KAFKA_TOPIC", "payments.notifications"),
		},
		AppPort:     getEnvAsInt("PORT", 3000),
		LogLevel:    getEnvAsString("LOG_LEVEL", "info"),
		LogFormat:   getEnvAsString("LOG_FORMAT", "console"),
		LogFile:     getEnvAsString("LOG_FILE", ""),
		CORSOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate reports every missing or malformed value at once.
func (c *Config) Validate() error {
	var errs []error

	required := []struct {
		key   string
		value string
	}{
		{"GOOGLE_SERVICE_ACCOUNT_EMAIL", c.Google.ServiceAccountEmail},
		{"GOOGLE_PRIVATE_KEY", c.Google.PrivateKey},
		{"PLANILHA_PRODUTOS_ID", c.Google.ProductsSheetID},
		{"MP_ACCESS_TOKEN", c.MercadoPago.AccessToken},
		{"MP_WEBHOOK_SECRET", c.MercadoPago.WebhookSecret},
		{"FRONTEND_URL_SUCESSO", c.URLs.Success},
		{"FRONTEND_URL_FALHA", c.URLs.Failure},
		{"FRONTEND_URL_PENDENTE", c.URLs.Pending},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, fmt.Errorf("%w: %s", ErrMissingValue, r.key))
		}
	}

	if c.Google.PrivateKey != "" {
		if block, _ := pem.Decode([]byte(c.Google.PrivateKey)); block == nil {
			errs = append(errs, errors.New("GOOGLE_PRIVATE_KEY is not a PEM encoded key"))
		}
	}
	if c.AppPort <= 0 || c.AppPort > 65535 {
		errs = append(errs, fmt.Errorf("PORT out of range: %d", c.AppPort))
	}

	return errors.Join(errs...)
}

// unescapeNewlines turns the literal "\n" sequences platforms use for
// multi-line secrets back into newlines.
func unescapeNewlines(value string) string {
	return strings.ReplaceAll(value, `\n`, "\n")
}

func getEnvAsString(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	values := splitList(os.Getenv(key))
	if len(values) == 0 {
		return defaultValue
	}
	return values
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
