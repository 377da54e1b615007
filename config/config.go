package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultEnv      = "production"
	DefaultLogLevel = "info"

	// MaxExpireDays is the longest lifetime SigV4 accepts for X-Amz-Expires.
	MaxExpireDays = 7
)

type Config struct {
	Env      string
	LogLevel string

	AWSConfig      *AWSConfig
	NotifierConfig *NotifierConfig
}

type AWSConfig struct {
	Region string
}

type NotifierConfig struct {
	SecretID   string
	ExpireDays int
	WebhookURL string

	rawExpire string
}

// LoadConfig reads the process environment. Call Validate before using the result.
func LoadConfig() Config {
	rawExpire := strings.TrimSpace(os.Getenv("EXPIRE"))
	expireDays, _ := strconv.Atoi(rawExpire)

	return Config{
		Env:      getEnv("ENV", DefaultEnv),
		LogLevel: getEnv("LOG_LEVEL", DefaultLogLevel),
		AWSConfig: &AWSConfig{
			Region: os.Getenv("AWS_REGION"),
		},
		NotifierConfig: &NotifierConfig{
			SecretID:   os.Getenv("SECRET"),
			ExpireDays: expireDays,
			WebhookURL: os.Getenv("INCOMING_WEBHOOK_URL"),
			rawExpire:  rawExpire,
		},
	}
}

func (c Config) Validate() error {
	if c.NotifierConfig == nil {
		return errors.New("notifier config is missing")
	}
	return c.NotifierConfig.Validate()
}

func (c *NotifierConfig) Validate() error {
	if c.SecretID == "" {
		return errors.New("SECRET is required")
	}
	if c.rawExpire == "" && c.ExpireDays == 0 {
		return errors.New("EXPIRE is required")
	}
	if c.rawExpire != "" {
		if _, err := strconv.Atoi(c.rawExpire); err != nil {
			return fmt.Errorf("EXPIRE must be an integer number of days: %q", c.rawExpire)
		}
	}
	if c.ExpireDays <= 0 {
		return fmt.Errorf("EXPIRE must be positive, got %d", c.ExpireDays)
	}
	if c.ExpireDays > MaxExpireDays {
		return fmt.Errorf("EXPIRE must be at most %d days, got %d", MaxExpireDays, c.ExpireDays)
	}
	if c.WebhookURL == "" {
		return errors.New("INCOMING_WEBHOOK_URL is required")
	}
	u, err := url.Parse(c.WebhookURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("INCOMING_WEBHOOK_URL must be an absolute http(s) URL: %q", c.WebhookURL)
	}
	return nil
}

// LinkTTL is the presigned link lifetime: EXPIRE days of 86400 seconds each.
func (c *NotifierConfig) LinkTTL() time.Duration {
	return time.Duration(c.ExpireDays) * 24 * time.Hour
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
