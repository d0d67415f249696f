package arm

import (
	"encoding/json"
	"io"
)

const (
	// Schema identifies the resource-group deployment template format.
	Schema = "https://schema.management.azure.com/schemas/2019-04-01/deploymentTemplate.json#"

	ContentVersion = "1.0.0.0"
)

type (
	// Template is the deployment document consumed verbatim by the downstream
	// deployment engine. Expressions embedded in it (resourceId, parameters)
	// are resolved at deploy time, never here.
	Template struct {
		Schema         string               `json:"$schema"`
		ContentVersion string               `json:"contentVersion"`
		Parameters     map[string]Parameter `json:"parameters"`
		Resources      []*Resource          `json:"resources"`
	}

	Parameter struct {
		Type         string `json:"type"`
		DefaultValue any    `json:"defaultValue,omitempty"`
	}

	// Resource is the rendered envelope common to every resource entry.
	// Properties carries the per-kind projection struct.
	Resource struct {
		Type       string            `json:"type"`
		APIVersion string            `json:"apiVersion"`
		Name       string            `json:"name"`
		Location   string            `json:"location,omitempty"`
		Kind       string            `json:"kind,omitempty"`
		Tags       map[string]string `json:"tags,omitempty"`
		Sku        any               `json:"sku,omitempty"`
		DependsOn  []string          `json:"dependsOn,omitempty"`
		Properties any               `json:"properties"`
	}
)

func NewTemplate() *Template {
	return &Template{
		Schema:         Schema,
		ContentVersion: ContentVersion,
		Parameters:     map[string]Parameter{},
	}
}

// WriteTo serializes the template with stable two-space indentation. Output is
// deterministic for a given template: encoding/json orders map keys.
func (t *Template) WriteTo(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(t)
}
