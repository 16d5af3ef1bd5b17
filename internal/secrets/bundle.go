package secrets

import (
	"fmt"
	"sort"
)

// Secret names as stored in the key vault.
const (
	StorageConnectionString = "storage-connection-string"
	VisionEndpoint          = "vision-endpoint"
	VisionKey               = "vision-key"
)

// Order is the fixed order in which secrets are written.
var Order = []string{StorageConnectionString, VisionEndpoint, VisionKey}

// Bundle maps secret name to value.
type Bundle map[string]string

// Entry is one secret of a bundle.
type Entry struct {
	Name  string
	Value string
}

// NewBundle builds the bundle of a base-resource deployment.
func NewBundle(connectionString, endpoint, key string) Bundle {
	return Bundle{
		StorageConnectionString: connectionString,
		VisionEndpoint:          endpoint,
		VisionKey:               key,
	}
}

// Entries returns the known secrets in write order, followed by any others
// sorted by name.
func (b Bundle) Entries() []Entry {
	out := make([]Entry, 0, len(b))
	seen := make(map[string]bool, len(Order))
	for _, name := range Order {
		seen[name] = true
		if v, ok := b[name]; ok {
			out = append(out, Entry{Name: name, Value: v})
		}
	}
	var extra []string
	for name := range b {
		if !seen[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		out = append(out, Entry{Name: name, Value: b[name]})
	}
	return out
}

// Validate checks that every required secret is present and non-empty.
func (b Bundle) Validate() error {
	var missing []string
	for _, name := range Order {
		if b[name] == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing secrets: %v", missing)
	}
	return nil
}
