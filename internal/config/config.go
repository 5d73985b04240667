package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/flexprice/milkbill/internal/types"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Server     ServerConfig     `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Billing    BillingConfig    `validate:"required"`
	Layout     LayoutConfig     `validate:"required"`
	Cache      CacheConfig
	S3         S3Config
	Sentry     SentryConfig
}

type DeploymentConfig struct {
	Mode types.RunMode `validate:"required"`
}

type ServerConfig struct {
	Address string `validate:"required"`
	// PDFRatePerSecond limits document generation per client IP, 0 disables it
	PDFRatePerSecond float64 `mapstructure:"pdf_rate_per_second" validate:"gte=0"`
	PDFRateBurst     int     `mapstructure:"pdf_rate_burst" validate:"gte=0"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

// BillingConfig holds the defaults applied to every batch unless the caller
// overrides them
type BillingConfig struct {
	CompanyName   string                `mapstructure:"company_name" validate:"required"`
	BillingPeriod string                `mapstructure:"billing_period" validate:"required"`
	PricePerLiter float64               `mapstructure:"price_per_liter" validate:"gte=0"`
	Mode          types.AggregationMode `mapstructure:"mode" validate:"required"`
	ErrorPolicy   types.ErrorPolicy     `mapstructure:"error_policy" validate:"required"`
	Rounding      types.RoundingMode    `mapstructure:"rounding" validate:"required"`
	ParseWorkers  int                   `mapstructure:"parse_workers" validate:"gte=1"`
	MaxDaySlots   int                   `mapstructure:"max_day_slots" validate:"gte=1"`
}

type LayoutConfig struct {
	Rows      int                   `mapstructure:"rows" validate:"gte=1"`
	Cols      int                   `mapstructure:"cols" validate:"gte=1"`
	Margin    float64               `mapstructure:"margin" validate:"gte=0"`
	PaperSize string                `mapstructure:"paper_size" validate:"required"`
	Summary   types.SummaryStrategy `mapstructure:"summary" validate:"required"`
}

type CacheConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	DocumentTTL time.Duration `mapstructure:"document_ttl"`
}

type S3Config struct {
	Enabled               bool   `mapstructure:"enabled"`
	Region                string `mapstructure:"region"`
	Bucket                string `mapstructure:"bucket" validate:"required_if=Enabled true"`
	KeyPrefix             string `mapstructure:"key_prefix"`
	PresignExpiryDuration string `mapstructure:"presign_expiry_duration"`
	MaxUploadAttempts     uint64 `mapstructure:"max_upload_attempts"`
}

type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn" validate:"required_if=Enabled true"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

func NewConfig() (*Configuration, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/milkbill")

	setDefaults(v)

	v.SetEnvPrefix("MILKBILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	// Read config file if exists
	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
		fmt.Printf("No config file found, using defaults and environment\n")
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	d := GetDefaultConfig()
	v.SetDefault("deployment.mode", d.Deployment.Mode)
	v.SetDefault("server.address", d.Server.Address)
	v.SetDefault("server.pdf_rate_per_second", d.Server.PDFRatePerSecond)
	v.SetDefault("server.pdf_rate_burst", d.Server.PDFRateBurst)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("billing.company_name", d.Billing.CompanyName)
	v.SetDefault("billing.billing_period", d.Billing.BillingPeriod)
	v.SetDefault("billing.price_per_liter", d.Billing.PricePerLiter)
	v.SetDefault("billing.mode", d.Billing.Mode)
	v.SetDefault("billing.error_policy", d.Billing.ErrorPolicy)
	v.SetDefault("billing.rounding", d.Billing.Rounding)
	v.SetDefault("billing.parse_workers", d.Billing.ParseWorkers)
	v.SetDefault("billing.max_day_slots", d.Billing.MaxDaySlots)
	v.SetDefault("layout.rows", d.Layout.Rows)
	v.SetDefault("layout.cols", d.Layout.Cols)
	v.SetDefault("layout.margin", d.Layout.Margin)
	v.SetDefault("layout.paper_size", d.Layout.PaperSize)
	v.SetDefault("layout.summary", d.Layout.Summary)
	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.document_ttl", d.Cache.DocumentTTL)
	v.SetDefault("s3.presign_expiry_duration", d.S3.PresignExpiryDuration)
	v.SetDefault("s3.max_upload_attempts", d.S3.MaxUploadAttempts)
	v.SetDefault("sentry.sample_rate", d.Sentry.SampleRate)
}

func (c Configuration) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}
	for _, check := range []func() error{
		c.Deployment.Mode.Validate,
		c.Logging.Level.Validate,
		c.Billing.Mode.Validate,
		c.Billing.ErrorPolicy.Validate,
		c.Billing.Rounding.Validate,
		c.Layout.Summary.Validate,
	} {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

// GetDefaultConfig returns the configuration used when nothing is set.
// It is also what the CLI and the tests start from.
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server: ServerConfig{
			Address:          ":10000",
			PDFRatePerSecond: 5,
			PDFRateBurst:     10,
		},
		Logging: LoggingConfig{Level: types.LogLevelInfo},
		Billing: BillingConfig{
			CompanyName:   "Yousaf Meo",
			BillingPeriod: "August - 2024",
			PricePerLiter: 220,
			Mode:          types.AggregationModeExpansion,
			ErrorPolicy:   types.ErrorPolicyAbort,
			Rounding:      types.RoundingModeHalfUp,
			ParseWorkers:  1,
			MaxDaySlots:   366,
		},
		Layout: LayoutConfig{
			Rows:      2,
			Cols:      3,
			Margin:    20,
			PaperSize: "A4",
			Summary:   types.SummaryStrategySplit,
		},
		Cache: CacheConfig{Enabled: true, DocumentTTL: 30 * time.Minute},
		S3: S3Config{
			PresignExpiryDuration: "30m",
			MaxUploadAttempts:     3,
		},
		Sentry: SentryConfig{SampleRate: 0.2},
	}
}
