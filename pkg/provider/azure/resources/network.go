package resources

import (
	"github.com/armatureproject/armature/pkg/arm"
	"github.com/armatureproject/armature/pkg/core"
	"github.com/armatureproject/armature/pkg/provider/azure"
	"github.com/pkg/errors"
)

const (
	DefaultAddressSpace = "10.0.0.0/16"
	DefaultSubnetPrefix = "10.0.0.0/24"
)

type (
	VirtualNetwork struct {
		Name         core.ResourceName
		Location     string
		AddressSpace []string
		Subnets      []Subnet
		Tags         map[string]string
	}

	Subnet struct {
		Name          core.ResourceName
		AddressPrefix string
	}
)

func (vnet *VirtualNetwork) Id() core.ResourceId {
	return core.NewResourceId(azure.VirtualNetworks, vnet.Name)
}

func (vnet *VirtualNetwork) References() []core.ResourceId {
	return nil
}

// SubnetId constructs the identity of one of this network's subnets. The path
// nests under the vnet so the rendered expression resolves the child resource.
func (vnet *VirtualNetwork) SubnetId(subnet core.ResourceName) core.ResourceId {
	return core.NewResourceId(azure.Subnets, vnet.Name, subnet)
}

type (
	virtualNetworkProperties struct {
		AddressSpace addressSpace  `json:"addressSpace"`
		Subnets      []subnetEntry `json:"subnets"`
	}

	addressSpace struct {
		AddressPrefixes []string `json:"addressPrefixes"`
	}

	subnetEntry struct {
		Name       string           `json:"name"`
		Properties subnetProperties `json:"properties"`
	}

	subnetProperties struct {
		AddressPrefix string `json:"addressPrefix"`
	}
)

func (vnet *VirtualNetwork) Render() (*arm.Resource, error) {
	if len(vnet.Subnets) == 0 {
		return nil, errors.Errorf("virtual network %s has no subnets", vnet.Name)
	}
	prefixes := vnet.AddressSpace
	if len(prefixes) == 0 {
		prefixes = []string{DefaultAddressSpace}
	}
	subnets := make([]subnetEntry, len(vnet.Subnets))
	for i, s := range vnet.Subnets {
		prefix := s.AddressPrefix
		if prefix == "" {
			prefix = DefaultSubnetPrefix
		}
		subnets[i] = subnetEntry{
			Name:       s.Name.String(),
			Properties: subnetProperties{AddressPrefix: prefix},
		}
	}
	return &arm.Resource{
		Type:       azure.VirtualNetworks.Name,
		APIVersion: azure.VirtualNetworks.APIVersion,
		Name:       vnet.Id().Name(),
		Location:   vnet.Location,
		Tags:       vnet.Tags,
		Properties: virtualNetworkProperties{
			AddressSpace: addressSpace{AddressPrefixes: prefixes},
			Subnets:      subnets,
		},
	}, nil
}
