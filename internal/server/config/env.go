package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvConfig lists the environment variables the server understands. PORT,
// DATABASE_URL and JWT_SECRET keep the names used by existing deployments.
type EnvConfig struct {
	Port                        string        `env:"PORT"`
	HTTPAddr                    string        `env:"HTTP_ADDR"`
	DatabaseDSN                 string        `env:"DATABASE_URL"`
	SecretKey                   string        `env:"JWT_SECRET"`
	AccessTokenValidityDuration time.Duration `env:"ACCESS_TOKEN_TTL"`
	DatabaseTimeout             time.Duration `env:"DB_TIMEOUT"`
	ShutdownTimeout             time.Duration `env:"SHUTDOWN_TIMEOUT"`
	HashWorkers                 int           `env:"HASH_WORKERS"`
	Argon2MemoryKiB             uint32        `env:"ARGON2_MEMORY_KIB"`
	Argon2Iterations            uint32        `env:"ARGON2_ITERATIONS"`
	Argon2Parallelism           uint8         `env:"ARGON2_PARALLELISM"`
	LogLevel                    string        `env:"LOG_LEVEL"`
}

// parseEnv loads the optional dotenv file (variables already present in the
// process environment win) and overlays set environment variables on config.
func parseEnv(config *Config, dotenvPath string) error {
	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil {
			return fmt.Errorf("load env file %s: %w", dotenvPath, err)
		}
	}

	var c EnvConfig
	if err := env.Parse(&c); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}

	if c.Port != "" {
		config.EndpointAddrHTTP = ":" + strings.TrimPrefix(c.Port, ":")
	}
	setString(&config.EndpointAddrHTTP, c.HTTPAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.LogLevel, c.LogLevel)

	setNonZero(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration)
	setNonZero(&config.DatabaseTimeout, c.DatabaseTimeout)
	setNonZero(&config.ShutdownTimeout, c.ShutdownTimeout)
	setNonZero(&config.HashWorkers, c.HashWorkers)
	setNonZero(&config.Argon2MemoryKiB, c.Argon2MemoryKiB)
	setNonZero(&config.Argon2Iterations, c.Argon2Iterations)
	setNonZero(&config.Argon2Parallelism, c.Argon2Parallelism)

	return nil
}
