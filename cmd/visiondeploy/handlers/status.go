package handlers

import (
	"encoding/json"
	"fmt"
	"sort"

	"sigs.k8s.io/yaml"

	"github.com/imamik/visiondeploy/internal/config"
	"github.com/imamik/visiondeploy/internal/orchestration"
)

// Output formats accepted by Status.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// loadDocument reads the deployment document without creating it (for
// testing injection).
var loadDocument = config.ReadOrDefault

// Status prints what the config file records about the deployment. A
// missing config file reports an undeployed default and is not created.
func Status(configPath, format string) error {
	switch format {
	case "", FormatText, FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("unknown output format %q (use %s, %s or %s)", format, FormatText, FormatJSON, FormatYAML)
	}

	doc, err := loadDocument(configPath)
	if err != nil {
		return err
	}
	st, err := orchestration.Summarize(configPath, doc)
	if err != nil {
		return err
	}

	switch format {
	case "", FormatText:
		printStatus(st)
		return nil
	case FormatJSON:
		data, err := json.MarshalIndent(st, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode status: %w", err)
		}
		_, _ = fmt.Fprintln(stdout, string(data))
		return nil
	default:
		data, err := yaml.Marshal(st)
		if err != nil {
			return fmt.Errorf("failed to encode status: %w", err)
		}
		_, _ = fmt.Fprint(stdout, string(data))
	}
	return nil
}

func printStatus(st *orchestration.Status) {
	_, _ = fmt.Fprintf(stdout, "Config: %s\n", st.ConfigPath)
	_, _ = fmt.Fprintf(stdout, "Stage:  %s\n", st.Stage)

	_, _ = fmt.Fprintln(stdout, "\nSections:")
	keys := make([]string, 0, len(st.Sections))
	for k := range st.Sections {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		mark := "-"
		if st.Sections[k] {
			mark = "+"
		}
		_, _ = fmt.Fprintf(stdout, "  %s %s\n", mark, k)
	}

	if info := st.DeploymentInfo; info != nil {
		_, _ = fmt.Fprintln(stdout, "\nBase resources:")
		_, _ = fmt.Fprintf(stdout, "  Resource group: %s (%s)\n", info.ResourceGroup, info.Location)
		_, _ = fmt.Fprintf(stdout, "  Deployed:       %s\n", info.DeploymentDate)
		_, _ = fmt.Fprintf(stdout, "  Vault URL:      %s\n", info.KeyVaultURL)
		for _, role := range []string{"storage_account", "ai_vision", "key_vault"} {
			_, _ = fmt.Fprintf(stdout, "  %-15s %s\n", role+":", info.ResourceNames[role])
		}
	}
	if cd := st.ContainerDeployment; cd != nil {
		_, _ = fmt.Fprintln(stdout, "\nContainer app:")
		_, _ = fmt.Fprintf(stdout, "  Name:     %s\n", cd.ContainerAppName)
		_, _ = fmt.Fprintf(stdout, "  Registry: %s\n", cd.RegistryName)
		_, _ = fmt.Fprintf(stdout, "  URL:      %s\n", cd.AppURL)
		_, _ = fmt.Fprintf(stdout, "  Deployed: %s\n", cd.DeploymentDate)
	}
}
