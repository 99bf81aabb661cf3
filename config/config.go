// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

var (
	configPath     = pflag.String("config", ".", "Directory containing config.toml")
	validLogLevels = []string{"debug", "info", "warn", "error", "fatal"}
	validEnvs      = []string{"development", "production", "test"}
	validDrivers   = []string{"sqlite", "postgres"}
)

type Config struct {
	App       App
	Host      Host
	Security  Security
	Database  Database
	Mail      Mail
	AWS       AWS
	Turnstile Turnstile
	Cleanup   Cleanup
}

type App struct {
	Env      string
	LogLevel string
}

type Host struct {
	Port        int
	CORS        []string
	FrontendURL string
}

type Security struct {
	JWTSecret         string
	TokenTTL          time.Duration
	PasswordMinLength int
	RateLimit         int
}

type Database struct {
	Driver string
	DSN    string
}

type Mail struct {
	Host     string
	Port     int
	Sender   string
	Password string
}

// Enabled reports whether outgoing mail is configured. Without it mails
// are only logged.
func (m Mail) Enabled() bool {
	return m.Host != "" && m.Sender != ""
}

type AWS struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
}

type Turnstile struct {
	Enabled bool
	Secret  string
}

type Cleanup struct {
	Interval time.Duration
}

func genSecret() string {
	b := make([]byte, 64)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that.
func Setup() (*Config, error) {
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(*configPath)

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(v.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file, %w", err)
		}
	}

	cfg, err := Load(v.GetViper())
	if err != nil {
		return nil, err
	}

	if cfg.Security.JWTSecret == "" {
		fmt.Println("WARNING: You haven't set a JWT secret, so it has been generated for you. Please set it as an environment variable or in the config.toml file.\nYour random JWT secret:\n\n" + genSecret() + "\n\nPaste it into your config.toml file.")
		os.Exit(0)
	}

	return cfg, nil
}

// Load binds environment variables and defaults on vp and builds a
// validated Config from it. Setup calls it with the global viper.
func Load(vp *v.Viper) (*Config, error) {
	//
	// ENVS
	//
	vp.BindEnv("app.env", "APP_ENV")
	vp.BindEnv("app.log_level", "APP_LOG_LEVEL")

	vp.BindEnv("host.port", "HOST_PORT")
	vp.BindEnv("host.cors", "HOST_CORS")
	vp.BindEnv("host.frontend_url", "HOST_FRONTEND_URL")

	vp.BindEnv("security.jwt_secret", "SECURITY_JWT_SECRET")
	vp.BindEnv("security.token_ttl", "SECURITY_TOKEN_TTL")
	vp.BindEnv("security.password_min_length", "SECURITY_PASSWORD_MIN_LENGTH")
	vp.BindEnv("security.rate_limit", "SECURITY_RATE_LIMIT")

	vp.BindEnv("database.driver", "DATABASE_DRIVER")
	vp.BindEnv("database.dsn", "DATABASE_DSN")

	vp.BindEnv("mail.host", "MAIL_HOST")
	vp.BindEnv("mail.port", "MAIL_PORT")
	vp.BindEnv("mail.sender", "MAIL_SENDER_ADDRESS")
	vp.BindEnv("mail.password", "MAIL_PASSWORD")

	vp.BindEnv("aws.region", "AWS_REGION")
	vp.BindEnv("aws.bucket", "AWS_S3_BUCKET_NAME")
	vp.BindEnv("aws.access_key_id", "AWS_ACCESS_KEY_ID")
	vp.BindEnv("aws.secret_access_key", "AWS_SECRET_ACCESS_KEY")
	vp.BindEnv("aws.endpoint", "AWS_ENDPOINT")

	vp.BindEnv("turnstile.enabled", "TURNSTILE_ENABLED")
	vp.BindEnv("turnstile.secret", "TURNSTILE_SECRET_TOKEN")

	vp.BindEnv("cleanup.interval", "CLEANUP_INTERVAL")

	//
	// Defaults
	//
	vp.SetDefault("app.env", "development")
	vp.SetDefault("app.log_level", "info")

	vp.SetDefault("host.port", 3000)
	vp.SetDefault("host.cors", []string{"http://localhost:5173"})
	vp.SetDefault("host.frontend_url", "http://localhost:3000")

	vp.SetDefault("security.token_ttl", "168h")
	vp.SetDefault("security.password_min_length", 6)
	vp.SetDefault("security.rate_limit", 20)

	vp.SetDefault("database.driver", "sqlite")

	vp.SetDefault("mail.port", 587)

	vp.SetDefault("turnstile.enabled", false)

	vp.SetDefault("cleanup.interval", "1h")

	cfg := &Config{
		App: App{
			Env:      vp.GetString("app.env"),
			LogLevel: vp.GetString("app.log_level"),
		},
		Host: Host{
			Port:        vp.GetInt("host.port"),
			CORS:        splitList(vp.GetStringSlice("host.cors")),
			FrontendURL: strings.TrimRight(vp.GetString("host.frontend_url"), "/"),
		},
		Security: Security{
			JWTSecret:         vp.GetString("security.jwt_secret"),
			TokenTTL:          vp.GetDuration("security.token_ttl"),
			PasswordMinLength: vp.GetInt("security.password_min_length"),
			RateLimit:         vp.GetInt("security.rate_limit"),
		},
		Database: Database{
			Driver: vp.GetString("database.driver"),
			DSN:    vp.GetString("database.dsn"),
		},
		Mail: Mail{
			Host:     vp.GetString("mail.host"),
			Port:     vp.GetInt("mail.port"),
			Sender:   vp.GetString("mail.sender"),
			Password: vp.GetString("mail.password"),
		},
		AWS: AWS{
			Region:          vp.GetString("aws.region"),
			Bucket:          vp.GetString("aws.bucket"),
			AccessKeyID:     vp.GetString("aws.access_key_id"),
			SecretAccessKey: vp.GetString("aws.secret_access_key"),
			Endpoint:        vp.GetString("aws.endpoint"),
		},
		Turnstile: Turnstile{
			Enabled: vp.GetBool("turnstile.enabled"),
			Secret:  vp.GetString("turnstile.secret"),
		},
		Cleanup: Cleanup{
			Interval: vp.GetDuration("cleanup.interval"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if !slices.Contains(validEnvs, c.App.Env) {
		return errors.New("invalid app environment provided")
	}

	if !slices.Contains(validLogLevels, c.App.LogLevel) {
		return errors.New("invalid log level provided")
	}

	if c.Host.Port <= 0 {
		return errors.New("invalid port provided")
	}

	if c.Host.FrontendURL == "" {
		return errors.New("host.frontend_url can't be empty")
	}

	if c.Security.TokenTTL <= 0 {
		return errors.New("security.token_ttl must be bigger than 0")
	}

	if c.Security.PasswordMinLength < 1 {
		return errors.New("security.password_min_length must be at least 1")
	}

	if c.Security.RateLimit <= 0 {
		return errors.New("security.rate_limit must be bigger than 0")
	}

	if !slices.Contains(validDrivers, c.Database.Driver) {
		return errors.New("invalid database driver provided")
	}

	if c.Database.Driver == "postgres" && c.Database.DSN == "" {
		return errors.New("database.dsn is required for postgres")
	}

	if c.AWS.Bucket == "" {
		return errors.New("bucket can't be empty")
	}

	if c.AWS.Region == "" {
		return errors.New("aws region can't be empty")
	}

	if c.Mail.Host != "" && c.Mail.Sender == "" {
		return errors.New("mail.sender is required when mail.host is set")
	}

	if c.Turnstile.Enabled && c.Turnstile.Secret == "" {
		return errors.New("turnstile secret token is missing")
	}

	if c.Cleanup.Interval <= 0 {
		return errors.New("cleanup.interval must be bigger than 0")
	}

	return nil
}

// HOST_CORS is a comma separated list when it comes from the environment
func splitList(in []string) []string {
	var out []string
	for _, s := range in {
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}

	return out
}
