package input

import (
	"fmt"
	"io"

	"github.com/armatureproject/armature/pkg/core"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type (
	// Manifest is the YAML surface the CLI compiles: an ordered list of
	// resource entries, each carrying a kind-specific spec.
	Manifest struct {
		Resources []Entry `yaml:"resources"`
	}

	Entry struct {
		Kind string         `yaml:"kind"`
		Name string         `yaml:"name"`
		Spec map[string]any `yaml:"spec"`
	}
)

const (
	KindVmScaleSet     = "vm-scale-set"
	KindCosmosAccount  = "cosmos-account"
	KindVirtualNetwork = "virtual-network"
)

func ReadManifest(r io.Reader) (*Manifest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, errors.Wrap(err, "decoding manifest")
	}
	if len(m.Resources) == 0 {
		return nil, fmt.Errorf("manifest declares no resources")
	}
	return &m, nil
}

// Builders projects every manifest entry into its builder. Unknown kinds and
// malformed specs fail naming the offending entry.
func (m *Manifest) Builders() ([]core.Builder, error) {
	builders := make([]core.Builder, 0, len(m.Resources))
	for i, entry := range m.Resources {
		if entry.Name == "" {
			return nil, fmt.Errorf("resource %d (%s): name is required", i, entry.Kind)
		}
		var (
			b   core.Builder
			err error
		)
		switch entry.Kind {
		case KindVmScaleSet:
			b, err = vmScaleSetBuilder(entry)
		case KindCosmosAccount:
			b, err = cosmosAccountBuilder(entry)
		case KindVirtualNetwork:
			b, err = virtualNetworkBuilder(entry)
		default:
			return nil, fmt.Errorf("resource %s: unknown kind %q", entry.Name, entry.Kind)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "resource %s", entry.Name)
		}
		builders = append(builders, b)
	}
	return builders, nil
}

// decodeSpec decodes an entry's spec map strictly: unused keys are errors so
// typos surface instead of silently dropping configuration.
func decodeSpec(entry Entry, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      out,
		ErrorUnused: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(entry.Spec); err != nil {
		return errors.Wrap(err, "decoding spec")
	}
	return nil
}
