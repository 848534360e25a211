package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/filesapi/auth/internal/logger"
)

const (
	defaultListenAddr      = "localhost:8000"
	defaultLoggingLevel    = logger.LevelInfo
	defaultEnvironment     = logger.EnvProduction
	defaultSigningAlg      = "HS256"
	defaultBcryptCost      = 12
	defaultAccessTokenTTL  = 10 * time.Minute
	defaultRefreshTokenTTL = 24 * time.Hour
)

type Config struct {
	// Default logging level
	LogLevel string

	// Environment (dev, prod)
	Environment string

	// Address on which the service will be run
	ListenAddr string

	// Database to connect to
	DatabaseDSN string

	// Independent secrets for the two token kinds
	// Both are required: the process must not start without them
	AccessSecret  string
	RefreshSecret string

	// JWT signing algorithm, fixed per deployment
	SigningAlg string

	// Password hash work factor
	BcryptCost int

	// Token lifetimes
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

func NewConfig() *Config {
	return &Config{
		LogLevel:        defaultLoggingLevel,
		Environment:     defaultEnvironment,
		ListenAddr:      defaultListenAddr,
		SigningAlg:      defaultSigningAlg,
		BcryptCost:      defaultBcryptCost,
		AccessTokenTTL:  defaultAccessTokenTTL,
		RefreshTokenTTL: defaultRefreshTokenTTL,
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
		return c.LoadEnv(func(key string) string {
			return envMap[key]
		})
	case errors.Is(err, os.ErrNotExist):
		return nil
	default:
		return err
	}
}

func (c *Config) LoadEnv(getenv func(string) string) error {
	// Set option to value if it not empty
	setString := func(o *string) func(value string) error {
		return func(value string) error {
			if value != "" {
				*o = value
			}
			return nil
		}
	}
	setInt := func(o *int) func(value string) error {
		return func(value string) error {
			if value == "" {
				return nil
			}
			parsed, err := strconv.Atoi(value)
			if err != nil {
				return err
			}
			*o = parsed
			return nil
		}
	}
	setDuration := func(o *time.Duration) func(value string) error {
		return func(value string) error {
			if value == "" {
				return nil
			}
			parsed, err := time.ParseDuration(value)
			if err != nil {
				return err
			}
			*o = parsed
			return nil
		}
	}

	envMap := map[string]func(string) error{
		"RUN_ADDRESS":       setString(&c.ListenAddr),
		"DATABASE_URI":      setString(&c.DatabaseDSN),
		"LOG_LEVEL":         setString(&c.LogLevel),
		"ENVIRONMENT":       setString(&c.Environment),
		"ACCESS_SECRET":     setString(&c.AccessSecret),
		"REFRESH_SECRET":    setString(&c.RefreshSecret),
		"SIGNING_ALG":       setString(&c.SigningAlg),
		"BCRYPT_COST":       setInt(&c.BcryptCost),
		"ACCESS_TOKEN_TTL":  setDuration(&c.AccessTokenTTL),
		"REFRESH_TOKEN_TTL": setDuration(&c.RefreshTokenTTL),
	}

	for key, parseFn := range envMap {
		if err := parseFn(getenv(key)); err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}
	}

	return nil
}

func (c *Config) ParseFlags(args []string) error {
	fs := pflag.NewFlagSet("authd", pflag.ContinueOnError)

	fs.StringVarP(&c.ListenAddr, "address", "a", c.ListenAddr, "Server listen address")
	fs.StringVarP(&c.DatabaseDSN, "database", "d", c.DatabaseDSN, "Database connection string")
	fs.StringVarP(&c.LogLevel, "log-level", "l", c.LogLevel, "Logging level (debug, info, warn, error)")
	fs.StringVarP(&c.Environment, "environment", "e", c.Environment, "Environment (dev, prod)")
	fs.StringVar(&c.AccessSecret, "access-secret", c.AccessSecret, "Secret to sign access tokens")
	fs.StringVar(&c.RefreshSecret, "refresh-secret", c.RefreshSecret, "Secret to sign refresh tokens")
	fs.StringVar(&c.SigningAlg, "alg", c.SigningAlg, "JWT signing algorithm")
	fs.IntVar(&c.BcryptCost, "bcrypt-cost", c.BcryptCost, "Password hash work factor")
	fs.DurationVar(&c.AccessTokenTTL, "access-ttl", c.AccessTokenTTL, "Access token lifetime")
	fs.DurationVar(&c.RefreshTokenTTL, "refresh-ttl", c.RefreshTokenTTL, "Refresh token lifetime")

	return fs.Parse(args)
}

// Validate checks the fatal startup conditions
func (c *Config) Validate() error {
	if c.AccessSecret == "" {
		return errors.New("access secret is required")
	}
	if c.RefreshSecret == "" {
		return errors.New("refresh secret is required")
	}
	if c.DatabaseDSN == "" {
		return errors.New("database DSN is required")
	}
	return nil
}
