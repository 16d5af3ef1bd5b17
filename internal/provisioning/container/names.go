package container

import (
	"fmt"

	"github.com/imamik/visiondeploy/internal/config"
	"github.com/imamik/visiondeploy/internal/provisioning"
	"github.com/imamik/visiondeploy/internal/util/naming"
)

// Base describes the base-resource deployment a container deployment builds on.
type Base struct {
	Info          *config.DeploymentInfo
	Names         naming.NameSet
	SuffixMatched bool
}

// LoadBase reads the base deployment from doc and derives the container
// resource names from its suffix. When the suffix cannot be recovered, or
// yields invalid names, a fresh one is generated and SuffixMatched is false.
func LoadBase(doc config.Document) (*Base, error) {
	info, err := doc.DeploymentInfo()
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, &provisioning.PrerequisiteError{
			Check: "base deployment",
			Hint:  "run 'visiondeploy deploy-resources' first",
			Err:   fmt.Errorf("no %s section in deployment document", config.SectionDeploymentInfo),
		}
	}
	convention, err := doc.NamingConvention()
	if err != nil {
		return nil, err
	}

	storage := info.ResourceNames["storage_account"]
	suffix, matched := naming.ExtractSuffix(storage, convention.StoragePrefix, naming.DefaultSuffixLength)

	names, err := naming.GenerateNames(convention, suffix)
	if err != nil && matched {
		matched = false
		names, err = naming.GenerateNames(convention, naming.GenerateSuffix(naming.DefaultSuffixLength))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to derive resource names: %w", err)
	}
	// Recorded names win over derived ones
	if storage != "" {
		names.Storage = storage
	}
	if v := info.ResourceNames["ai_vision"]; v != "" {
		names.Vision = v
	}
	if v := info.ResourceNames["key_vault"]; v != "" {
		names.Vault = v
	}

	return &Base{Info: info, Names: names, SuffixMatched: matched}, nil
}
