package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/immobiligb/immobili-api/internal/logger"
)

const (
	defaultListenAddr    = "localhost:8002"
	defaultLoggingLevel  = logger.LevelInfo
	defaultEnvironment   = logger.EnvProduction
	defaultTokenTTLHours = 168 // one week
	defaultRateLimitRPM  = 60
)

type Config struct {
	// Default logging level
	LogLevel string

	// Address on which the API will be served
	ListenAddr string

	// Database to connect to (read-only listings dataset)
	DatabaseDSN string

	// Secret key used to sign bearer tokens (symmetric, HS256)
	SecretKey string

	// Issued token lifetime in hours
	TokenTTLHours int

	// The single service-account credential accepted on login.
	// Password may be plaintext or a bcrypt hash.
	APIUsername string
	APIPassword string

	// Requests allowed per client IP per minute
	RateLimitRPM int

	// Environment
	Environment string
}

func NewConfig() *Config {
	return &Config{
		LogLevel:      defaultLoggingLevel,
		ListenAddr:    defaultListenAddr,
		TokenTTLHours: defaultTokenTTLHours,
		RateLimitRPM:  defaultRateLimitRPM,
		Environment:   defaultEnvironment,
	}
}

// Load variable from '.env' file (should be located at working directory)
func (c *Config) LoadDotEnv(getwd func() (string, error)) error {
	wd, err := getwd()
	if err != nil {
		return err
	}

	envMap, err := godotenv.Read(filepath.Join(wd, ".env"))

	switch {
	case err == nil:
		c.LoadEnv(func(key string) string {
			return envMap[key]
		})
		return nil
	case errors.Is(err, os.ErrNotExist):
		return nil
	default:
		return err
	}
}

func (c *Config) LoadEnv(getenv func(string) string) {
	// Set option to value if it not empty
	setString := func(o *string) func(value string) {
		return func(value string) {
			if value != "" {
				*o = value
			}
		}
	}
	setInt := func(o *int) func(value string) {
		return func(value string) {
			if parsed, err := strconv.Atoi(value); err == nil {
				*o = parsed
			}
		}
	}

	envMap := map[string]func(string){
		"RUN_ADDRESS":          setString(&c.ListenAddr),
		"DATABASE_URI":         setString(&c.DatabaseDSN),
		"JWT_SECRET":           setString(&c.SecretKey),
		"JWT_EXPIRATION_HOURS": setInt(&c.TokenTTLHours),
		"API_USERNAME":         setString(&c.APIUsername),
		"API_PASSWORD":         setString(&c.APIPassword),
		"RATE_LIMIT_RPM":       setInt(&c.RateLimitRPM),
		"LOG_LEVEL":            setString(&c.LogLevel),
		"ENVIRONMENT":          setString(&c.Environment),
	}

	for key, parseFn := range envMap {
		parseFn(getenv(key))
	}
}

func (c *Config) ParseFlags(args []string) error {
	fs := pflag.NewFlagSet("immobiliapi", pflag.ContinueOnError)

	fs.StringVarP(&c.ListenAddr, "address", "a", c.ListenAddr, "Server listen address")
	fs.StringVarP(&c.DatabaseDSN, "database", "d", c.DatabaseDSN, "Database connection string")
	fs.StringVarP(&c.SecretKey, "secret-key", "s", c.SecretKey, "Secret key to sign tokens")
	fs.IntVar(&c.TokenTTLHours, "token-ttl-hours", c.TokenTTLHours, "Issued token lifetime in hours")
	fs.StringVarP(&c.APIUsername, "api-username", "u", c.APIUsername, "Service account username")
	fs.StringVarP(&c.APIPassword, "api-password", "p", c.APIPassword, "Service account password (plaintext or bcrypt hash)")
	fs.IntVar(&c.RateLimitRPM, "rate-limit", c.RateLimitRPM, "Requests per minute allowed per client IP")
	fs.StringVarP(&c.LogLevel, "log-level", "l", c.LogLevel, "Logging level (debug, info, warn, error)")
	fs.StringVarP(&c.Environment, "environment", "e", c.Environment, "Environment (dev, prod)")

	return fs.Parse(args)
}

// Validate required options that have no sane defaults
func (c *Config) Validate() error {
	required := map[string]string{
		"database DSN": c.DatabaseDSN,
		"secret key":   c.SecretKey,
		"API username": c.APIUsername,
		"API password": c.APIPassword,
	}

	for name, value := range required {
		if value == "" {
			return fmt.Errorf("%s must be set", name)
		}
	}

	if c.TokenTTLHours < 1 {
		return errors.New("token TTL must be at least one hour")
	}
	if c.RateLimitRPM < 1 {
		return errors.New("rate limit must be at least one request per minute")
	}

	return nil
}
