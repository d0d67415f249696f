package core

import (
	"fmt"
	"regexp"
	"strings"
)

// ResourceName names a resource within its type and parent scope. It is
// validated at construction and immutable afterwards.
type ResourceName string

var resourceNamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._\-]*$`)

const maxResourceNameLength = 80

func NewResourceName(name string) (ResourceName, error) {
	if name == "" {
		return "", fmt.Errorf("resource name must not be empty")
	}
	if len(name) > maxResourceNameLength {
		return "", fmt.Errorf("resource name '%s' exceeds %d characters", name, maxResourceNameLength)
	}
	if !resourceNamePattern.MatchString(name) {
		return "", fmt.Errorf("invalid resource name '%s' (must match %s)", name, resourceNamePattern)
	}
	return ResourceName(name), nil
}

func (n ResourceName) String() string {
	return string(n)
}

// ResourceType pairs an ARM type name with the API version the projection is
// written against. Values come from the provider registry and never change
// after init.
type ResourceType struct {
	Name       string
	APIVersion string
}

// ResourceId identifies a resource by type and qualified name path. The path
// carries every ancestor segment, e.g. account/database/container for a
// third-level child. The path used here must exactly match the nesting used
// when rendering the resource's own name, or deployment breaks.
type ResourceId struct {
	Type ResourceType
	Path []ResourceName
}

func NewResourceId(t ResourceType, path ...ResourceName) ResourceId {
	return ResourceId{Type: t, Path: path}
}

func (id ResourceId) IsZero() bool {
	return id.Type == ResourceType{} && len(id.Path) == 0
}

// Name renders the slash-joined ARM resource name.
func (id ResourceId) Name() string {
	segments := make([]string, len(id.Path))
	for i, p := range id.Path {
		segments[i] = string(p)
	}
	return strings.Join(segments, "/")
}

// String is the stable key form used for map lookups and logging.
func (id ResourceId) String() string {
	return id.Type.Name + ":" + id.Name()
}

// Expression renders the resourceId(...) indirection understood by the
// deployment engine. It is never resolved locally.
func (id ResourceId) Expression() string {
	var sb strings.Builder
	sb.WriteString("[resourceId('")
	sb.WriteString(id.Type.Name)
	sb.WriteString("'")
	for _, segment := range id.Path {
		sb.WriteString(", '")
		sb.WriteString(string(segment))
		sb.WriteString("'")
	}
	sb.WriteString(")]")
	return sb.String()
}
