package core

import "github.com/armatureproject/armature/pkg/arm"

type (
	// Resource is the capability shared by every resource record: it knows its
	// own identity and how to project itself into the wire envelope. Render
	// must not populate dependsOn; the deployment fills it from References
	// during linking.
	Resource interface {
		Id() ResourceId
		References() []ResourceId
		Render() (*arm.Resource, error)
	}

	// GeneratedParameter is a deployment parameter fabricated by a builder,
	// such as an admin password placeholder.
	GeneratedParameter struct {
		Name      string
		Parameter arm.Parameter
	}

	// BuildResult is everything one builder evaluation yields: the primary
	// resource first, auxiliary resources after it, plus generated parameters.
	BuildResult struct {
		Resources  []Resource
		Parameters []GeneratedParameter
	}

	// Builder validates and defaults its accumulated configuration, then
	// yields records. A failed build yields nothing partial.
	Builder interface {
		Build() (BuildResult, error)
	}
)
