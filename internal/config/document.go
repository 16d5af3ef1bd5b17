package config

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/imamik/visiondeploy/internal/util/naming"
)

// Top-level section keys.
const (
	SectionAnalysisSettings    = "analysis_settings"
	SectionContainers          = "containers"
	SectionNamingConvention    = "naming_convention"
	SectionDeploymentInfo      = "deployment_info"
	SectionContainerDeployment = "container_deployment"
)

// RequiredSections must be present in every loaded document.
var RequiredSections = []string{
	SectionAnalysisSettings,
	SectionContainers,
	SectionNamingConvention,
}

// Document is the deployment document. Values are plain JSON values
// (maps, slices, strings, float64, bool, nil).
type Document map[string]any

// AnalysisSettings configures the batch analyzer.
type AnalysisSettings struct {
	TargetKeywords      []string `json:"target_keywords" mapstructure:"target_keywords"`
	ConfidenceThreshold float64  `json:"confidence_threshold" mapstructure:"confidence_threshold"`
	MaxTags             int      `json:"max_tags" mapstructure:"max_tags"`
	Features            []string `json:"features" mapstructure:"features"`
}

// Containers names the blob containers in the storage account.
type Containers struct {
	InputContainer   string `json:"input_container" mapstructure:"input_container"`
	ResultsContainer string `json:"results_container" mapstructure:"results_container"`
}

// DeploymentInfo is written by a successful base-resource deployment.
type DeploymentInfo struct {
	ResourceGroup  string            `json:"resource_group" mapstructure:"resource_group"`
	Location       string            `json:"location" mapstructure:"location"`
	KeyVaultURL    string            `json:"key_vault_url" mapstructure:"key_vault_url"`
	ResourceNames  map[string]string `json:"resource_names" mapstructure:"resource_names"`
	DeploymentDate string            `json:"deployment_date" mapstructure:"deployment_date"`
}

// ContainerDeployment is written by a successful container deployment.
type ContainerDeployment struct {
	RegistryName     string `json:"registry_name" mapstructure:"registry_name"`
	ContainerAppName string `json:"container_app_name" mapstructure:"container_app_name"`
	ContainerEnvName string `json:"container_env_name" mapstructure:"container_env_name"`
	AppURL           string `json:"app_url" mapstructure:"app_url"`
	DeploymentDate   string `json:"deployment_date" mapstructure:"deployment_date"`
	ResourceGroup    string `json:"resource_group" mapstructure:"resource_group"`
	Location         string `json:"location" mapstructure:"location"`
}

// Timestamp formats t the way deployment dates are recorded.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// Default returns the document written when no configuration exists yet.
func Default() Document {
	doc := Document{}
	doc = Update(doc, SectionAnalysisSettings, AnalysisSettings{
		TargetKeywords:      []string{"person", "car", "animal", "building"},
		ConfidenceThreshold: 0.5,
		MaxTags:             10,
		Features:            []string{"caption", "tags", "objects"},
	})
	doc = Update(doc, SectionContainers, Containers{
		InputContainer:   "input-images",
		ResultsContainer: "analysis-results",
	})
	doc = Update(doc, SectionNamingConvention, naming.DefaultConvention())
	return doc
}

// Update returns doc with key set to value. No other key is touched. The
// value is normalized to plain JSON values so it compares equal to the same
// section read back from disk. A nil doc is treated as empty.
func Update(doc Document, key string, value any) Document {
	if doc == nil {
		doc = Document{}
	}
	doc[key] = normalize(value)
	return doc
}

// Has reports whether the section is present and not null.
func (d Document) Has(key string) bool {
	v, ok := d[key]
	return ok && v != nil
}

// Validate checks that every required section is present and is an object.
func (d Document) Validate() error {
	for _, key := range RequiredSections {
		v, ok := d[key]
		if !ok || v == nil {
			return &ConfigError{Section: key}
		}
		if _, isMap := v.(map[string]any); !isMap {
			return &ConfigError{Section: key, Err: fmt.Errorf("expected an object, got %T", v)}
		}
	}
	return nil
}

// AnalysisSettings decodes the analysis_settings section.
func (d Document) AnalysisSettings() (AnalysisSettings, error) {
	var s AnalysisSettings
	err := d.decodeSection(SectionAnalysisSettings, &s)
	return s, err
}

// Containers decodes the containers section.
func (d Document) Containers() (Containers, error) {
	var c Containers
	err := d.decodeSection(SectionContainers, &c)
	return c, err
}

// NamingConvention decodes the naming_convention section.
func (d Document) NamingConvention() (naming.Convention, error) {
	var c naming.Convention
	err := d.decodeSection(SectionNamingConvention, &c)
	return c, err
}

// DeploymentInfo decodes the deployment_info section. It returns nil when the
// base resources have not been deployed.
func (d Document) DeploymentInfo() (*DeploymentInfo, error) {
	if !d.Has(SectionDeploymentInfo) {
		return nil, nil
	}
	var info DeploymentInfo
	if err := d.decodeSection(SectionDeploymentInfo, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// ContainerDeployment decodes the container_deployment section. It returns
// nil when the container app has not been deployed.
func (d Document) ContainerDeployment() (*ContainerDeployment, error) {
	if !d.Has(SectionContainerDeployment) {
		return nil, nil
	}
	var cd ContainerDeployment
	if err := d.decodeSection(SectionContainerDeployment, &cd); err != nil {
		return nil, err
	}
	return &cd, nil
}

func (d Document) decodeSection(key string, out any) error {
	raw, ok := d[key]
	if !ok || raw == nil {
		return &ConfigError{Section: key}
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "mapstructure",
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return &ConfigError{Section: key, Err: err}
	}
	return nil
}

// normalize round-trips v through JSON. Values that cannot be encoded are
// stored as given.
func normalize(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return v
	}
	return out
}
