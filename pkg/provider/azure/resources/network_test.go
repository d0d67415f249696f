package resources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_VirtualNetworkBuild(t *testing.T) {
	t.Run("defaults applied on render", func(t *testing.T) {
		assert := assert.New(t)
		result, err := NewVirtualNetwork("app-net").
			AddSubnet("workers", "").
			Build()
		require.NoError(t, err)
		require.Len(t, result.Resources, 1)

		rendered, err := result.Resources[0].Render()
		require.NoError(t, err)
		assert.Equal("Microsoft.Network/virtualNetworks", rendered.Type)
		assert.Equal("app-net", rendered.Name)
		assert.Equal("[resourceGroup().location]", rendered.Location)

		props := rendered.Properties.(virtualNetworkProperties)
		assert.Equal([]string{DefaultAddressSpace}, props.AddressSpace.AddressPrefixes)
		require.Len(t, props.Subnets, 1)
		assert.Equal("workers", props.Subnets[0].Name)
		assert.Equal(DefaultSubnetPrefix, props.Subnets[0].Properties.AddressPrefix)
	})

	t.Run("explicit address space and subnets", func(t *testing.T) {
		assert := assert.New(t)
		result, err := NewVirtualNetwork("app-net").
			Location("westeurope").
			AddressSpace("10.1.0.0/16").
			AddSubnet("frontend", "10.1.0.0/24").
			AddSubnet("backend", "10.1.1.0/24").
			Build()
		require.NoError(t, err)

		rendered, err := result.Resources[0].Render()
		require.NoError(t, err)
		assert.Equal("westeurope", rendered.Location)

		props := rendered.Properties.(virtualNetworkProperties)
		assert.Equal([]string{"10.1.0.0/16"}, props.AddressSpace.AddressPrefixes)
		require.Len(t, props.Subnets, 2)
		assert.Equal("frontend", props.Subnets[0].Name)
		assert.Equal("10.1.1.0/24", props.Subnets[1].Properties.AddressPrefix)
	})

	t.Run("subnet required", func(t *testing.T) {
		_, err := NewVirtualNetwork("app-net").Build()
		if assert.Error(t, err) {
			assert.Contains(t, err.Error(), "subnet")
		}
	})

	t.Run("invalid names rejected", func(t *testing.T) {
		_, err := NewVirtualNetwork("-app-net").AddSubnet("workers", "").Build()
		assert.Error(t, err)

		_, err = NewVirtualNetwork("app-net").AddSubnet("bad subnet", "").Build()
		assert.Error(t, err)
	})
}

func Test_SubnetId(t *testing.T) {
	vnet := &VirtualNetwork{Name: "app-net", Subnets: []Subnet{{Name: "workers"}}}
	id := vnet.SubnetId("workers")
	assert.Equal(t,
		"[resourceId('Microsoft.Network/virtualNetworks/subnets', 'app-net', 'workers')]",
		id.Expression())
}
