package testing

import (
	"maps"

	"github.com/imamik/visiondeploy/internal/config"
	"github.com/imamik/visiondeploy/internal/util/naming"
)

// DocumentBuilder provides a fluent interface for constructing deployment
// documents. Each method returns a new builder (immutable) for chaining.
type DocumentBuilder struct {
	doc config.Document
}

// NewDocumentBuilder creates a builder seeded with the default document.
func NewDocumentBuilder() *DocumentBuilder {
	return &DocumentBuilder{doc: config.Default()}
}

// WithContainers sets the blob container names.
func (b *DocumentBuilder) WithContainers(input, results string) *DocumentBuilder {
	return b.WithSection(config.SectionContainers, config.Containers{
		InputContainer:   input,
		ResultsContainer: results,
	})
}

// WithNamingConvention sets the resource name prefixes.
func (b *DocumentBuilder) WithNamingConvention(c naming.Convention) *DocumentBuilder {
	return b.WithSection(config.SectionNamingConvention, c)
}

// WithDeploymentInfo records a finished base-resource deployment.
func (b *DocumentBuilder) WithDeploymentInfo(info config.DeploymentInfo) *DocumentBuilder {
	return b.WithSection(config.SectionDeploymentInfo, info)
}

// WithBaseDeployment records a base-resource deployment whose names use suffix.
func (b *DocumentBuilder) WithBaseDeployment(group, location, suffix string) *DocumentBuilder {
	names, err := naming.GenerateNames(naming.DefaultConvention(), suffix)
	if err != nil {
		panic(err)
	}
	return b.WithDeploymentInfo(config.DeploymentInfo{
		ResourceGroup:  group,
		Location:       location,
		KeyVaultURL:    "https://" + names.Vault + ".vault.azure.net/",
		ResourceNames:  names.BaseNames(),
		DeploymentDate: "2024-01-01T00:00:00Z",
	})
}

// WithSection sets an arbitrary top-level section.
func (b *DocumentBuilder) WithSection(key string, value any) *DocumentBuilder {
	nb := b.clone()
	nb.doc = config.Update(nb.doc, key, value)
	return nb
}

// Without removes a top-level section.
func (b *DocumentBuilder) Without(key string) *DocumentBuilder {
	nb := b.clone()
	delete(nb.doc, key)
	return nb
}

// Build returns a copy of the document.
func (b *DocumentBuilder) Build() config.Document {
	return maps.Clone(b.doc)
}

func (b *DocumentBuilder) clone() *DocumentBuilder {
	return &DocumentBuilder{doc: maps.Clone(b.doc)}
}
