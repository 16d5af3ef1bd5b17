package naming

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

// DefaultSuffixLength is the length of the per-run random suffix.
const DefaultSuffixLength = 6

const suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Fixed prefixes for the container-phase resources. These are not part of
// the naming convention in the deployment document.
const (
	RegistryPrefix    = "aianalyzerregistry"
	EnvironmentPrefix = "ai-analyzer-env-"
	AppPrefix         = "ai-analyzer-app-"
	LogsPrefix        = "ai-analyzer-logs-"
)

// Role identifies the logical role of a named resource.
type Role string

const (
	RoleStorage     Role = "storage"
	RoleVision      Role = "vision"
	RoleVault       Role = "vault"
	RoleRegistry    Role = "registry"
	RoleEnvironment Role = "environment"
	RoleApp         Role = "app"
	RoleLogs        Role = "logs"
)

// Convention holds the user-configurable name prefixes.
type Convention struct {
	StoragePrefix  string `json:"storage_prefix" mapstructure:"storage_prefix"`
	VisionPrefix   string `json:"vision_prefix" mapstructure:"vision_prefix"`
	KeyVaultPrefix string `json:"keyvault_prefix" mapstructure:"keyvault_prefix"`
}

// DefaultConvention returns the prefixes written to a new deployment document.
func DefaultConvention() Convention {
	return Convention{
		StoragePrefix:  "aianalyzer",
		VisionPrefix:   "ai-vision",
		KeyVaultPrefix: "ai-kv",
	}
}

// NameSet is the full set of resource names for one deployment.
// Every name shares the same suffix.
type NameSet struct {
	Suffix      string
	Storage     string
	Vision      string
	Vault       string
	Registry    string
	Environment string
	App         string
	Logs        string
}

// Get returns the name for the given role.
func (n NameSet) Get(role Role) string {
	switch role {
	case RoleStorage:
		return n.Storage
	case RoleVision:
		return n.Vision
	case RoleVault:
		return n.Vault
	case RoleRegistry:
		return n.Registry
	case RoleEnvironment:
		return n.Environment
	case RoleApp:
		return n.App
	case RoleLogs:
		return n.Logs
	}
	return ""
}

// BaseNames returns the names recorded by the base-resource deployment,
// keyed the way they appear in deployment_info.resource_names.
func (n NameSet) BaseNames() map[string]string {
	return map[string]string{
		"storage_account": n.Storage,
		"ai_vision":       n.Vision,
		"key_vault":       n.Vault,
	}
}

// GenerateSuffix returns a random string of lowercase letters and digits.
func GenerateSuffix(length int) string {
	if length <= 0 {
		length = DefaultSuffixLength
	}
	max := big.NewInt(int64(len(suffixAlphabet)))
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand does not fail on supported platforms
			panic(fmt.Sprintf("naming: reading random source: %v", err))
		}
		b[i] = suffixAlphabet[n.Int64()]
	}
	return string(b)
}

// GenerateNames derives every resource name from the convention and suffix.
// The result depends only on its inputs.
func GenerateNames(c Convention, suffix string) (NameSet, error) {
	if suffix == "" {
		return NameSet{}, fmt.Errorf("suffix must not be empty")
	}

	names := NameSet{
		Suffix:      suffix,
		Storage:     c.StoragePrefix + suffix,
		Vision:      fmt.Sprintf("%s-%s", c.VisionPrefix, suffix),
		Vault:       fmt.Sprintf("%s-%s", c.KeyVaultPrefix, suffix),
		Registry:    RegistryPrefix + suffix,
		Environment: EnvironmentPrefix + suffix,
		App:         AppPrefix + suffix,
		Logs:        LogsPrefix + suffix,
	}

	if err := names.Validate(); err != nil {
		return NameSet{}, err
	}
	return names, nil
}

// ExtractSuffix recovers the shared suffix from a name generated with prefix.
// If name does not carry the prefix, a fresh suffix is generated and ok is false.
func ExtractSuffix(name, prefix string, length int) (suffix string, ok bool) {
	if prefix != "" && strings.HasPrefix(name, prefix) && len(name) > len(prefix) {
		return name[len(prefix):], true
	}
	return GenerateSuffix(length), false
}

type rule struct {
	pattern *regexp.Regexp
	min     int
	max     int
	desc    string
}

var rules = map[Role]rule{
	RoleStorage:     {regexp.MustCompile(`^[a-z0-9]+$`), 3, 24, "lowercase letters and digits"},
	RoleVision:      {regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]*$`), 2, 64, "letters, digits and hyphens"},
	RoleVault:       {regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9-]*[a-zA-Z0-9]$`), 3, 24, "letters, digits and hyphens, starting with a letter"},
	RoleRegistry:    {regexp.MustCompile(`^[a-zA-Z0-9]+$`), 5, 50, "letters and digits"},
	RoleEnvironment: {regexp.MustCompile(`^[a-z][a-z0-9-]*[a-z0-9]$`), 2, 32, "lowercase letters, digits and hyphens, starting with a letter"},
	RoleApp:         {regexp.MustCompile(`^[a-z][a-z0-9-]*[a-z0-9]$`), 2, 32, "lowercase letters, digits and hyphens, starting with a letter"},
	RoleLogs:        {regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]*[a-zA-Z0-9]$`), 4, 63, "letters, digits and hyphens"},
}

var roleOrder = []Role{RoleStorage, RoleVision, RoleVault, RoleRegistry, RoleEnvironment, RoleApp, RoleLogs}

// Validate checks every name against the charset and length rules of its resource type.
func (n NameSet) Validate() error {
	for _, role := range roleOrder {
		if err := ValidateName(role, n.Get(role)); err != nil {
			return err
		}
	}
	return nil
}

// ValidateName checks a single name against the rules for role.
func ValidateName(role Role, name string) error {
	r, ok := rules[role]
	if !ok {
		return fmt.Errorf("unknown resource role %q", role)
	}
	if len(name) < r.min || len(name) > r.max {
		return fmt.Errorf("%s name %q must be %d-%d characters, got %d", role, name, r.min, r.max, len(name))
	}
	if !r.pattern.MatchString(name) {
		return fmt.Errorf("%s name %q may only contain %s", role, name, r.desc)
	}
	if strings.Contains(name, "--") {
		return fmt.Errorf("%s name %q must not contain consecutive hyphens", role, name)
	}
	return nil
}
