package secrets

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"
)

// fileKeys maps secret names to the keys used in the local file.
var fileKeys = map[string]string{
	StorageConnectionString: "storage_connection_string",
	VisionEndpoint:          "vision_endpoint",
	VisionKey:               "vision_key",
}

const fileHeader = `# Azure AI Image Analyzer Credentials
# Generated automatically by visiondeploy
# DO NOT COMMIT THIS FILE TO VERSION CONTROL

`

const fileFooter = `
# Usage:
# export CREDENTIAL_METHOD="local"
`

// Encode renders the bundle in the local key=value format.
func Encode(b Bundle) []byte {
	var buf bytes.Buffer
	buf.WriteString(fileHeader)
	for _, name := range Order {
		fmt.Fprintf(&buf, "%s=%s\n", fileKeys[name], b[name])
	}
	buf.WriteString(fileFooter)
	return buf.Bytes()
}

// Parse reads the local key=value format. Blank lines and lines starting
// with # are ignored. Every required key must be present.
func Parse(data []byte) (Bundle, error) {
	byKey := make(map[string]string, len(fileKeys))
	for name, key := range fileKeys {
		byKey[key] = name
	}

	b := Bundle{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("line %d: expected key=value", lineNo)
		}
		key = strings.TrimSpace(key)
		if name, known := byKey[key]; known {
			b[name] = strings.TrimSpace(value)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read credentials: %w", err)
	}

	var missing []string
	for _, name := range Order {
		if b[name] == "" {
			missing = append(missing, fileKeys[name])
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("credentials file missing keys: %s", strings.Join(missing, ", "))
	}
	return b, nil
}

// WriteFile writes the bundle to path with owner-only permissions.
func WriteFile(path string, b Bundle) error {
	if err := os.WriteFile(path, Encode(b), 0o600); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}
	// WriteFile keeps the mode of an existing file
	if err := os.Chmod(path, 0o600); err != nil {
		return fmt.Errorf("failed to restrict credentials file: %w", err)
	}
	return nil
}

// ReadFile reads a bundle written by WriteFile.
func ReadFile(path string) (Bundle, error) {
	// #nosec G304 - path is operator-supplied
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}
	return Parse(data)
}
