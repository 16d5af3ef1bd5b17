package resources

import (
	"fmt"

	"github.com/imamik/visiondeploy/internal/platform/azure"
	"github.com/imamik/visiondeploy/internal/provisioning"
)

// VisionService holds the access details of a vision account.
type VisionService struct {
	Endpoint string
	Key      string
}

// CreateVisionService creates the vision account and reads its endpoint and
// primary key.
func CreateVisionService(ctx *provisioning.Context, name string) (*VisionService, error) {
	provisioning.LogResourceCreating(ctx.Observer, phase, "vision service", name)
	if _, err := ctx.Run(azure.VisionCreate(name, ctx.ResourceGroup, ctx.Location), azure.RunOptions{CaptureJSON: true}); err != nil {
		provisioning.LogResourceFailed(ctx.Observer, phase, "vision service", name, err)
		return nil, fmt.Errorf("failed to create vision service %s: %w", name, err)
	}

	endpoint, err := ctx.Query(azure.VisionEndpoint(name, ctx.ResourceGroup))
	if err != nil {
		return nil, fmt.Errorf("failed to read endpoint of %s: %w", name, err)
	}
	key, err := ctx.Query(azure.VisionKey(name, ctx.ResourceGroup))
	if err != nil {
		return nil, fmt.Errorf("failed to read key of %s: %w", name, err)
	}

	provisioning.LogResourceCreated(ctx.Observer, phase, "vision service", name)
	return &VisionService{Endpoint: endpoint, Key: key}, nil
}
