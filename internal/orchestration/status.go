package orchestration

import (
	"github.com/imamik/visiondeploy/internal/config"
)

// Status summarizes what a deployment document records.
type Status struct {
	ConfigPath          string                      `json:"config_path"`
	Sections            map[string]bool             `json:"sections"`
	DeploymentInfo      *config.DeploymentInfo      `json:"deployment_info,omitempty"`
	ContainerDeployment *config.ContainerDeployment `json:"container_deployment,omitempty"`
	Stage               string                      `json:"stage"`
}

// Stage names reported by Summarize.
const (
	StageNotDeployed       = "not-deployed"
	StageResourcesDeployed = "resources-deployed"
	StageContainerDeployed = "container-deployed"
)

// Summarize reports which sections doc carries and what they record.
func Summarize(path string, doc config.Document) (*Status, error) {
	st := &Status{ConfigPath: path, Sections: make(map[string]bool)}
	for _, key := range []string{
		config.SectionAnalysisSettings,
		config.SectionContainers,
		config.SectionNamingConvention,
		config.SectionDeploymentInfo,
		config.SectionContainerDeployment,
	} {
		st.Sections[key] = doc.Has(key)
	}

	info, err := doc.DeploymentInfo()
	if err != nil {
		return nil, err
	}
	cd, err := doc.ContainerDeployment()
	if err != nil {
		return nil, err
	}
	st.DeploymentInfo = info
	st.ContainerDeployment = cd

	switch {
	case cd != nil:
		st.Stage = StageContainerDeployed
	case info != nil:
		st.Stage = StageResourcesDeployed
	default:
		st.Stage = StageNotDeployed
	}
	return st, nil
}
