// Copyright 2025 Certen Protocol
//
// Package config loads the Crypto Adapter's init-time parameters from
// the process environment, the way the wider Certen stack loads its own
// service configuration.

package config

import (
	"errors"
	"os"
	"strconv"
)

// Config holds the Crypto Adapter's init-time parameters.
type Config struct {
	// UsePQCrypto requests the post-quantum primitive layer (Kyber-shaped
	// KEM, Falcon-shaped signature). The adapter has no classical-only
	// fallback and uses the post-quantum primitives whether or not this is
	// set; Validate requires it whenever UseHybrid is set.
	UsePQCrypto bool

	// UseHybrid makes every signature key the adapter issues also carry a
	// classical BLS12-381 keypair, so SignMessage adds a BLS12-381
	// signature over the same digest and VerifySignature requires both to
	// verify. The signature inside a signed ZK proof stays post-quantum
	// only.
	UseHybrid bool

	// KeyStoragePath is where long-lived keys would be persisted. This
	// package validates the path but does not itself perform persistence
	// — key storage format is an external, opaque concern.
	KeyStoragePath string

	// LogLevel controls the verbosity of the adapter's logger.
	LogLevel string
}

// DefaultConfig returns the configuration used when no environment
// overrides are present.
func DefaultConfig() *Config {
	return &Config{
		UsePQCrypto:    true,
		UseHybrid:      false,
		KeyStoragePath: "",
		LogLevel:       "info",
	}
}

// Load builds a Config from environment variables, falling back to
// DefaultConfig's values for anything unset.
func Load() (*Config, error) {
	d := DefaultConfig()

	cfg := &Config{
		UsePQCrypto:    getEnvBool("HYDRA_USE_PQ_CRYPTO", d.UsePQCrypto),
		UseHybrid:      getEnvBool("HYDRA_USE_HYBRID", d.UseHybrid),
		KeyStoragePath: getEnv("HYDRA_KEY_STORAGE_PATH", d.KeyStoragePath),
		LogLevel:       getEnv("HYDRA_LOG_LEVEL", d.LogLevel),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the adapter cannot initialize with.
func (c *Config) Validate() error {
	if !c.UsePQCrypto && c.UseHybrid {
		return errors.New("config: use_hybrid requires use_pq_crypto (hybrid mode augments the PQ signature, it does not replace it)")
	}

	if c.KeyStoragePath != "" {
		dir := parentDir(c.KeyStoragePath)
		if dir != "" && dir != "." {
			if info, err := os.Stat(dir); err != nil || !info.IsDir() {
				return errors.New("config: key_storage_path's parent directory does not exist: " + dir)
			}
		}
	}

	return nil
}

func parentDir(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[:i]
		}
	}
	return ""
}

// getEnv returns the value of the named environment variable, or
// defaultValue if it is unset or empty.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool parses the named environment variable as a bool, or returns
// defaultValue if it is unset or unparsable.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
