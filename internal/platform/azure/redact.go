package azure

import "strings"

const redacted = "***"

// sensitiveFlags take a secret as their next argument.
var sensitiveFlags = map[string]bool{
	"--value":              true,
	"--connection-string":  true,
	"--registry-password":  true,
	"--logs-workspace-key": true,
}

// sensitiveEnv are substrings of env var names whose values are masked.
var sensitiveEnv = []string{"SECRET", "PASSWORD", "CONNECTION"}

// RedactArgs returns a copy of args with secret values replaced.
func RedactArgs(args []string) []string {
	out := make([]string, len(args))
	copy(out, args)
	for i := 0; i < len(out); i++ {
		if sensitiveFlags[out[i]] && i+1 < len(out) {
			out[i+1] = redacted
			i++
			continue
		}
		if name, _, ok := strings.Cut(out[i], "="); ok && !strings.HasPrefix(out[i], "-") {
			if isSensitiveEnv(name) {
				out[i] = name + "=" + redacted
			}
		}
	}
	return out
}

// CommandLine renders name and args for logging with secrets redacted.
func CommandLine(name string, args []string) string {
	return strings.Join(append([]string{name}, RedactArgs(args)...), " ")
}

func isSensitiveEnv(name string) bool {
	upper := strings.ToUpper(name)
	if strings.HasSuffix(upper, "KEY") {
		return true
	}
	for _, marker := range sensitiveEnv {
		if strings.Contains(upper, marker) {
			return true
		}
	}
	return false
}
