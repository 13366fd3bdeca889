package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env      string
	Port     string
	Database string
	RedisURL string

	JWTSecret string

	// Razorpay credentials. KeyID/KeySecret authenticate the orders API;
	// WebhookSecret signs inbound webhook bodies.
	RazorpayKeyID         string
	RazorpayKeySecret     string
	RazorpayWebhookSecret string

	Fast2SMSAPIKey   string
	SendinblueAPIKey string // Brevo transactional email key
	MailFrom         string

	ReceiptDir    string
	ReceiptPrefix string

	DonationMinAmount float64
	DonationMaxAmount float64

	PendingMaxAge   time.Duration
	CleanupInterval time.Duration

	FrontendURLEndsWith string
	DevPassword         string
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	port := viper.GetString("PORT")
	if port == "" {
		port = "8080"
	}
	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	return &Config{
		Env:      env,
		Port:     port,
		Database: viper.GetString("DATABASE_URL"),
		RedisURL: viper.GetString("REDIS_URL"),

		JWTSecret: viper.GetString("JWT_SECRET"),

		RazorpayKeyID:         viper.GetString("RAZORPAY_KEY_ID"),
		RazorpayKeySecret:     viper.GetString("RAZORPAY_KEY_SECRET"),
		RazorpayWebhookSecret: viper.GetString("RAZORPAY_WEBHOOK_SECRET"),

		Fast2SMSAPIKey:   viper.GetString("FAST2SMS_API_KEY"),
		SendinblueAPIKey: viper.GetString("SENDINBLUE_API_KEY"),
		MailFrom:         viper.GetString("MAIL_FROM"),

		ReceiptDir:    stringOr(viper.GetString("RECEIPT_DIR"), "./receipts"),
		ReceiptPrefix: stringOr(viper.GetString("RECEIPT_PREFIX"), "SVT"),

		DonationMinAmount: floatOr(viper.GetFloat64("DONATION_MIN_AMOUNT"), 1),
		DonationMaxAmount: floatOr(viper.GetFloat64("DONATION_MAX_AMOUNT"), 1000000),

		PendingMaxAge:   time.Duration(intOr(viper.GetInt("PENDING_MAX_AGE_HOURS"), 24)) * time.Hour,
		CleanupInterval: time.Duration(intOr(viper.GetInt("CLEANUP_INTERVAL_MINUTES"), 60)) * time.Minute,

		FrontendURLEndsWith: viper.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:         viper.GetString("DEV_PASSWORD"),
	}, nil
}

func stringOr(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func floatOr(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

func intOr(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
