package handlers

import (
	"context"
	"fmt"
)

// Analyze triggers a batch analysis in the deployed container app and
// prints the analyzer's reply. The config file is only read.
func Analyze(ctx context.Context, configPath string) error {
	doc, err := loadDocument(configPath)
	if err != nil {
		return err
	}

	s := newSession()
	resp, err := newDeployer(s.runner, s.observer).Analyze(ctx, doc)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if resp.Output != "" {
		_, _ = fmt.Fprintln(stdout, resp.Output)
	}
	return nil
}
