package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"
)

// Load reads the deployment document at path. When the file does not exist
// the default document is written to path and returned.
func Load(path string) (Document, error) {
	doc, err := Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		doc = Default()
		if err := Save(path, doc); err != nil {
			return nil, err
		}
		return doc, nil
	}
	return doc, err
}

// Read reads the deployment document at path without creating it. A missing
// file is reported as a *ConfigError wrapping fs.ErrNotExist.
func Read(path string) (Document, error) {
	// #nosec G304 - path is operator-supplied
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}

	doc, err := Parse(data)
	if err != nil {
		var cfgErr *ConfigError
		if errors.As(err, &cfgErr) {
			cfgErr.Path = path
			return nil, cfgErr
		}
		return nil, &ConfigError{Path: path, Err: err}
	}
	return doc, nil
}

// ReadOrDefault reads the document at path, falling back to the in-memory
// default when the file does not exist. Nothing is written.
func ReadOrDefault(path string) (Document, error) {
	doc, err := Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return doc, err
}

// Parse decodes a document from JSON. Comments and trailing commas are
// accepted. Required sections are validated.
func Parse(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(jsonc.ToJSON(data), &doc); err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("malformed JSON: %w", err)}
	}
	if doc == nil {
		return nil, &ConfigError{Err: errors.New("document must be a JSON object")}
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// Save writes doc to path as 2-space indented JSON. The file is written to a
// temporary sibling and renamed into place.
func Save(path string, doc Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to set config permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace config: %w", err)
	}
	return nil
}
