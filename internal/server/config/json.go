package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/bookmarker/internal/timex"
)

// JsonConfig is the on-disk shape of the JSON configuration file. Durations
// use timex.Duration so both "15m" and integer nanoseconds are accepted.
// Fields left out of the file keep their current value.
type JsonConfig struct {
	EndpointAddrHTTP            string          `json:"endpoint_addr_http"`
	DatabaseDSN                 string          `json:"database_dsn"`
	SecretKey                   string          `json:"secret_key"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration"`
	DatabaseTimeout             *timex.Duration `json:"database_timeout"`
	ShutdownTimeout             *timex.Duration `json:"shutdown_timeout"`
	HashWorkers                 int             `json:"hash_workers"`
	Argon2MemoryKiB             uint32          `json:"argon2_memory_kib"`
	Argon2Iterations            uint32          `json:"argon2_iterations"`
	Argon2Parallelism           uint8           `json:"argon2_parallelism"`
	LogLevel                    string          `json:"log_level"`
}

// parseJson loads configuration values from the JSON file at path into
// config. An empty path means no file was requested.
func parseJson(config *Config, path string) error {
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.LogLevel, c.LogLevel)

	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.DatabaseTimeout != nil {
		config.DatabaseTimeout = c.DatabaseTimeout.Duration
	}
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}

	setNonZero(&config.HashWorkers, c.HashWorkers)
	setNonZero(&config.Argon2MemoryKiB, c.Argon2MemoryKiB)
	setNonZero(&config.Argon2Iterations, c.Argon2Iterations)
	setNonZero(&config.Argon2Parallelism, c.Argon2Parallelism)

	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setNonZero[T comparable](dst *T, v T) {
	var zero T
	if v != zero {
		*dst = v
	}
}
