package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadTimeouts_Defaults(t *testing.T) {
	clearTimeoutEnvVars(t)

	timeouts := LoadTimeouts()

	if timeouts.SettleVault != 10*time.Second {
		t.Errorf("Expected SettleVault default 10s, got %v", timeouts.SettleVault)
	}
	if timeouts.SettleRBAC != 15*time.Second {
		t.Errorf("Expected SettleRBAC default 15s, got %v", timeouts.SettleRBAC)
	}
	if timeouts.SettleDeadline != 2*time.Minute {
		t.Errorf("Expected SettleDeadline default 2m, got %v", timeouts.SettleDeadline)
	}
	if timeouts.SecretRetryDelay != 10*time.Second {
		t.Errorf("Expected SecretRetryDelay default 10s, got %v", timeouts.SecretRetryDelay)
	}
	if timeouts.SecretMaxAttempts != 3 {
		t.Errorf("Expected SecretMaxAttempts default 3, got %d", timeouts.SecretMaxAttempts)
	}
	if timeouts.Analysis != 15*time.Minute {
		t.Errorf("Expected Analysis default 15m, got %v", timeouts.Analysis)
	}
}

func TestLoadTimeouts_EnvVars(t *testing.T) {
	clearTimeoutEnvVars(t)

	t.Setenv("VISIONDEPLOY_SETTLE_VAULT", "5s")
	t.Setenv("VISIONDEPLOY_SETTLE_RBAC", "20s")
	t.Setenv("VISIONDEPLOY_SETTLE_DEADLINE", "5m")
	t.Setenv("VISIONDEPLOY_SECRET_RETRY_DELAY", "1s")
	t.Setenv("VISIONDEPLOY_SECRET_MAX_ATTEMPTS", "7")
	t.Setenv("VISIONDEPLOY_TIMEOUT_ANALYSIS", "30m")

	timeouts := LoadTimeouts()

	if timeouts.SettleVault != 5*time.Second {
		t.Errorf("Expected SettleVault 5s, got %v", timeouts.SettleVault)
	}
	if timeouts.SettleRBAC != 20*time.Second {
		t.Errorf("Expected SettleRBAC 20s, got %v", timeouts.SettleRBAC)
	}
	if timeouts.SettleDeadline != 5*time.Minute {
		t.Errorf("Expected SettleDeadline 5m, got %v", timeouts.SettleDeadline)
	}
	if timeouts.SecretRetryDelay != time.Second {
		t.Errorf("Expected SecretRetryDelay 1s, got %v", timeouts.SecretRetryDelay)
	}
	if timeouts.SecretMaxAttempts != 7 {
		t.Errorf("Expected SecretMaxAttempts 7, got %d", timeouts.SecretMaxAttempts)
	}
	if timeouts.Analysis != 30*time.Minute {
		t.Errorf("Expected Analysis 30m, got %v", timeouts.Analysis)
	}
}

func TestLoadTimeouts_InvalidValues(t *testing.T) {
	clearTimeoutEnvVars(t)

	t.Setenv("VISIONDEPLOY_SETTLE_VAULT", "soon")
	t.Setenv("VISIONDEPLOY_SETTLE_DEADLINE", "-1m")
	t.Setenv("VISIONDEPLOY_SECRET_MAX_ATTEMPTS", "zero")
	t.Setenv("VISIONDEPLOY_TIMEOUT_ANALYSIS", "15")

	timeouts := LoadTimeouts()

	if timeouts.SettleVault != 10*time.Second {
		t.Errorf("Expected SettleVault to fall back to 10s, got %v", timeouts.SettleVault)
	}
	if timeouts.SettleDeadline != 2*time.Minute {
		t.Errorf("Expected SettleDeadline to fall back to 2m, got %v", timeouts.SettleDeadline)
	}
	if timeouts.SecretMaxAttempts != 3 {
		t.Errorf("Expected SecretMaxAttempts to fall back to 3, got %d", timeouts.SecretMaxAttempts)
	}
	if timeouts.Analysis != 15*time.Minute {
		t.Errorf("Expected Analysis to fall back to 15m, got %v", timeouts.Analysis)
	}
}

func TestParseInt_NonPositive(t *testing.T) {
	t.Setenv("VISIONDEPLOY_TEST_INT", "0")
	if got := parseInt("VISIONDEPLOY_TEST_INT", 4); got != 4 {
		t.Errorf("Expected fallback 4, got %d", got)
	}
}

func clearTimeoutEnvVars(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"VISIONDEPLOY_SETTLE_VAULT",
		"VISIONDEPLOY_SETTLE_RBAC",
		"VISIONDEPLOY_SETTLE_DEADLINE",
		"VISIONDEPLOY_SECRET_RETRY_DELAY",
		"VISIONDEPLOY_SECRET_MAX_ATTEMPTS",
		"VISIONDEPLOY_TIMEOUT_ANALYSIS",
	} {
		t.Setenv(name, "")
		_ = os.Unsetenv(name)
	}
}
