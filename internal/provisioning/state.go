package provisioning

import (
	"fmt"

	"github.com/imamik/visiondeploy/internal/util/naming"
)

// Stage is the progress of a base-resource deployment. Stages only move
// forward, one step at a time.
type Stage int

const (
	StageInit Stage = iota
	StageGroupReady
	StageStorageReady
	StageVisionReady
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageInit:
		return "Init"
	case StageGroupReady:
		return "GroupReady"
	case StageStorageReady:
		return "StorageReady"
	case StageVisionReady:
		return "VisionReady"
	case StageDone:
		return "Done"
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// State holds the shared results of provisioning phases.
// It is progressively populated as each phase completes and is passed
// to subsequent phases that need earlier results.
type State struct {
	Names naming.NameSet
	Stage Stage

	SubscriptionID string

	// Signed-in operator, cached by the login check
	PrincipalID  string
	PrincipalUPN string

	// Base resources
	StorageConnectionString string
	VisionEndpoint          string
	VisionKey               string
	VaultURL                string

	// Container deployment
	LoginServer         string
	Image               string
	WorkspaceID         string
	WorkspaceKey        string
	AppURL              string
	WorkloadPrincipalID string
}

// NewState creates an empty provisioning state for the given names.
func NewState(names naming.NameSet) *State {
	return &State{Names: names, Stage: StageInit}
}

// Advance moves the state to the next stage. Skipping or repeating a stage
// is an error.
func (s *State) Advance(to Stage) error {
	if to != s.Stage+1 {
		return fmt.Errorf("invalid stage transition %s -> %s", s.Stage, to)
	}
	s.Stage = to
	return nil
}
