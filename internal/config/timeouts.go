package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds the tunable waits and retry limits of a deployment.
// These values can be customized via environment variables.
type Timeouts struct {
	SettleVault       time.Duration // First poll interval while waiting for a new vault to become reachable
	SettleRBAC        time.Duration // First poll interval while waiting for a vault grant to propagate
	SettleDeadline    time.Duration // Upper bound for each propagation wait
	SecretRetryDelay  time.Duration // Fixed delay between secret write attempts
	SecretMaxAttempts int           // Total secret write attempts
	Analysis          time.Duration // Ceiling for the batch analysis call
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - VISIONDEPLOY_SETTLE_VAULT (default: 10s)
//   - VISIONDEPLOY_SETTLE_RBAC (default: 15s)
//   - VISIONDEPLOY_SETTLE_DEADLINE (default: 2m)
//   - VISIONDEPLOY_SECRET_RETRY_DELAY (default: 10s)
//   - VISIONDEPLOY_SECRET_MAX_ATTEMPTS (default: 3)
//   - VISIONDEPLOY_TIMEOUT_ANALYSIS (default: 15m)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		SettleVault:       parseDuration("VISIONDEPLOY_SETTLE_VAULT", 10*time.Second),
		SettleRBAC:        parseDuration("VISIONDEPLOY_SETTLE_RBAC", 15*time.Second),
		SettleDeadline:    parseDuration("VISIONDEPLOY_SETTLE_DEADLINE", 2*time.Minute),
		SecretRetryDelay:  parseDuration("VISIONDEPLOY_SECRET_RETRY_DELAY", 10*time.Second),
		SecretMaxAttempts: parseInt("VISIONDEPLOY_SECRET_MAX_ATTEMPTS", 3),
		Analysis:          parseDuration("VISIONDEPLOY_TIMEOUT_ANALYSIS", 15*time.Minute),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil || d < 0 {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}

	return i
}
