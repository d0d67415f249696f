package resources

import (
	"fmt"

	"github.com/armatureproject/armature/pkg/arm"
	"github.com/armatureproject/armature/pkg/core"
)

// VirtualNetworkBuilder builds a vnet directly, for topologies where the
// network is declared rather than fabricated by a scale-set build.
type VirtualNetworkBuilder struct {
	name         string
	location     string
	addressSpace []string
	subnets      []Subnet
	tags         map[string]string
}

func NewVirtualNetwork(name string) *VirtualNetworkBuilder {
	return &VirtualNetworkBuilder{
		name:     name,
		location: arm.ResourceGroupLocation,
	}
}

func (b *VirtualNetworkBuilder) Location(location string) *VirtualNetworkBuilder {
	b.location = location
	return b
}

func (b *VirtualNetworkBuilder) AddressSpace(prefixes ...string) *VirtualNetworkBuilder {
	b.addressSpace = append(b.addressSpace, prefixes...)
	return b
}

func (b *VirtualNetworkBuilder) AddSubnet(name, prefix string) *VirtualNetworkBuilder {
	b.subnets = append(b.subnets, Subnet{Name: core.ResourceName(name), AddressPrefix: prefix})
	return b
}

func (b *VirtualNetworkBuilder) Tag(key, value string) *VirtualNetworkBuilder {
	if b.tags == nil {
		b.tags = map[string]string{}
	}
	b.tags[key] = value
	return b
}

func (b *VirtualNetworkBuilder) Build() (core.BuildResult, error) {
	name, err := core.NewResourceName(b.name)
	if err != nil {
		return core.BuildResult{}, fmt.Errorf("virtual network: %w", err)
	}
	if len(b.subnets) == 0 {
		return core.BuildResult{}, fmt.Errorf("virtual network %s: at least one subnet is required", name)
	}
	subnets := make([]Subnet, len(b.subnets))
	for i, s := range b.subnets {
		subnetName, err := core.NewResourceName(s.Name.String())
		if err != nil {
			return core.BuildResult{}, fmt.Errorf("virtual network %s: subnet: %w", name, err)
		}
		subnets[i] = Subnet{Name: subnetName, AddressPrefix: s.AddressPrefix}
	}
	vnet := &VirtualNetwork{
		Name:         name,
		Location:     b.location,
		AddressSpace: b.addressSpace,
		Subnets:      subnets,
		Tags:         b.tags,
	}
	return core.BuildResult{Resources: []core.Resource{vnet}}, nil
}
