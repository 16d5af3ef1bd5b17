package config

import "fmt"

// ConfigError reports a deployment document that cannot be read, parsed, or
// is missing a required section.
type ConfigError struct {
	Path    string
	Section string
	Err     error
}

func (e *ConfigError) Error() string {
	switch {
	case e.Section != "" && e.Err != nil:
		return fmt.Sprintf("config %s: section %q: %v", e.Path, e.Section, e.Err)
	case e.Section != "":
		return fmt.Sprintf("config %s: missing required section %q", e.Path, e.Section)
	default:
		return fmt.Sprintf("config %s: %v", e.Path, e.Err)
	}
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
