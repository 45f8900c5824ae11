package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Payment modes. "upi" shows a QR and waits for a screenshot + admin
// approval; "link" sends a hosted payment link and waits for the webhook.
const (
	PaymentModeUPI  = "upi"
	PaymentModeLink = "link"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Bot      BotConfig
	Agency   AgencyConfig
	Payment  PaymentConfig
	Pricing  PricingConfig
	Dispatch DispatchConfig
	Poller   PollerConfig
}

type ServerConfig struct {
	Port int
	Env  string // "development", "production"
}

type DatabaseConfig struct {
	Host    string
	Port    string
	Name    string
	User    string
	Pass    string
	Charset string
}

type RedisConfig struct {
	Addr string
	Pass string
	DB   int
}

type BotConfig struct {
	Token      string
	WebhookURL string
	UpdateMode string // "auto", "polling", "webhook"
	AdminIDs   []string
}

type AgencyConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

type PaymentConfig struct {
	Mode     string // upi or link
	UPIID    string
	Payee    string
	ProofDir string
	Razorpay RazorpayConfig
}

type RazorpayConfig struct {
	KeyID         string
	KeySecret     string
	WebhookSecret string
}

type PricingConfig struct {
	Mode          string  // "factor" or "percent"
	DefaultMargin float64 // 1.4 in factor mode, 40 in percent mode
}

type DispatchConfig struct {
	SweepInterval time.Duration
}

type PollerConfig struct {
	Interval time.Duration
}

// Load reads configuration from .env file and environment variables.
// Missing required keys make startup fail outright.
func Load() (*Config, error) {
	// Load .env file (ignore error if missing)
	_ = godotenv.Load()

	viper.AutomaticEnv()

	viper.SetDefault("APP_PORT", 8080)
	viper.SetDefault("APP_ENV", "production")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "3306")
	viper.SetDefault("DB_CHARSET", "utf8mb4")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("AGENCY_BASE_URL", "https://nilidon.com/api/v2")
	viper.SetDefault("AGENCY_TIMEOUT", "15s")
	viper.SetDefault("PAYMENT_MODE", PaymentModeUPI)
	viper.SetDefault("PAYMENT_PROOF_DIR", "payment_proofs")
	viper.SetDefault("UPI_PAYEE_NAME", "AUTOSOCI")
	viper.SetDefault("PRICING_MODE", "percent")
	viper.SetDefault("PRICING_DEFAULT_MARGIN", 40.0)
	viper.SetDefault("DISPATCH_SWEEP_INTERVAL", "5m")
	viper.SetDefault("POLL_INTERVAL", "5m")

	cfg := &Config{
		Server: ServerConfig{
			Port: viper.GetInt("APP_PORT"),
			Env:  viper.GetString("APP_ENV"),
		},
		Database: DatabaseConfig{
			Host:    viper.GetString("DB_HOST"),
			Port:    viper.GetString("DB_PORT"),
			Name:    viper.GetString("DB_NAME"),
			User:    viper.GetString("DB_USER"),
			Pass:    viper.GetString("DB_PASS"),
			Charset: viper.GetString("DB_CHARSET"),
		},
		Redis: RedisConfig{
			Addr: viper.GetString("REDIS_ADDR"),
			Pass: viper.GetString("REDIS_PASS"),
			DB:   viper.GetInt("REDIS_DB"),
		},
		Bot: BotConfig{
			Token:      viper.GetString("BOT_TOKEN"),
			WebhookURL: viper.GetString("BOT_WEBHOOK_URL"),
			UpdateMode: viper.GetString("BOT_UPDATE_MODE"),
			AdminIDs:   splitIDs(viper.GetString("ADMIN_IDS")),
		},
		Agency: AgencyConfig{
			APIKey:  viper.GetString("AGENCY_API_KEY"),
			BaseURL: viper.GetString("AGENCY_BASE_URL"),
			Timeout: viper.GetDuration("AGENCY_TIMEOUT"),
		},
		Payment: PaymentConfig{
			Mode:     strings.ToLower(viper.GetString("PAYMENT_MODE")),
			UPIID:    viper.GetString("UPI_ID"),
			Payee:    viper.GetString("UPI_PAYEE_NAME"),
			ProofDir: viper.GetString("PAYMENT_PROOF_DIR"),
			Razorpay: RazorpayConfig{
				KeyID:         viper.GetString("RAZORPAY_KEY_ID"),
				KeySecret:     viper.GetString("RAZORPAY_KEY_SECRET"),
				WebhookSecret: viper.GetString("RAZORPAY_WEBHOOK_SECRET"),
			},
		},
		Pricing: PricingConfig{
			Mode:          strings.ToLower(viper.GetString("PRICING_MODE")),
			DefaultMargin: viper.GetFloat64("PRICING_DEFAULT_MARGIN"),
		},
		Dispatch: DispatchConfig{
			SweepInterval: viper.GetDuration("DISPATCH_SWEEP_INTERVAL"),
		},
		Poller: PollerConfig{
			Interval: viper.GetDuration("POLL_INTERVAL"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var missing []string

	if c.Bot.Token == "" {
		missing = append(missing, "BOT_TOKEN")
	}
	if len(c.Bot.AdminIDs) == 0 {
		missing = append(missing, "ADMIN_IDS")
	}
	if c.Agency.APIKey == "" {
		missing = append(missing, "AGENCY_API_KEY")
	}
	if c.Database.Name == "" {
		missing = append(missing, "DB_NAME")
	}

	switch c.Payment.Mode {
	case PaymentModeUPI:
		if c.Payment.UPIID == "" {
			missing = append(missing, "UPI_ID")
		}
	case PaymentModeLink:
		if c.Payment.Razorpay.KeyID == "" {
			missing = append(missing, "RAZORPAY_KEY_ID")
		}
		if c.Payment.Razorpay.KeySecret == "" {
			missing = append(missing, "RAZORPAY_KEY_SECRET")
		}
		if c.Payment.Razorpay.WebhookSecret == "" {
			missing = append(missing, "RAZORPAY_WEBHOOK_SECRET")
		}
	default:
		return fmt.Errorf("PAYMENT_MODE must be %q or %q, got %q", PaymentModeUPI, PaymentModeLink, c.Payment.Mode)
	}

	if c.Pricing.Mode != "factor" && c.Pricing.Mode != "percent" {
		return fmt.Errorf("PRICING_MODE must be \"factor\" or \"percent\", got %q", c.Pricing.Mode)
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

func splitIDs(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if id := strings.TrimSpace(part); id != "" {
			out = append(out, id)
		}
	}
	return out
}

// DSN returns the MySQL DSN string for GORM.
func (d *DatabaseConfig) DSN() string {
	return d.User + ":" + d.Pass + "@tcp(" + d.Host + ":" + d.Port + ")/" + d.Name + "?charset=" + d.Charset + "&parseTime=True&loc=Local"
}
