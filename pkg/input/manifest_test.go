package input

import (
	"bytes"
	"strings"
	"testing"

	"github.com/armatureproject/armature/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ReadManifest(t *testing.T) {
	t.Run("reads entries in order", func(t *testing.T) {
		m, err := ReadManifest(strings.NewReader(`
resources:
  - kind: virtual-network
    name: app-net
    spec:
      subnets:
        - name: workers
  - kind: cosmos-account
    name: shop
`))
		require.NoError(t, err)
		require.Len(t, m.Resources, 2)
		assert.Equal(t, "app-net", m.Resources[0].Name)
		assert.Equal(t, KindCosmosAccount, m.Resources[1].Kind)
	})

	t.Run("unknown top-level keys rejected", func(t *testing.T) {
		_, err := ReadManifest(strings.NewReader("resourcez: []\n"))
		assert.Error(t, err)
	})

	t.Run("empty manifest rejected", func(t *testing.T) {
		_, err := ReadManifest(strings.NewReader("resources: []\n"))
		if assert.Error(t, err) {
			assert.Contains(t, err.Error(), "no resources")
		}
	})
}

func Test_Builders(t *testing.T) {
	t.Run("unknown kind", func(t *testing.T) {
		m := &Manifest{Resources: []Entry{{Kind: "load-balancer", Name: "lb"}}}
		_, err := m.Builders()
		if assert.Error(t, err) {
			assert.Contains(t, err.Error(), `unknown kind "load-balancer"`)
		}
	})

	t.Run("name required", func(t *testing.T) {
		m := &Manifest{Resources: []Entry{{Kind: KindVmScaleSet}}}
		_, err := m.Builders()
		if assert.Error(t, err) {
			assert.Contains(t, err.Error(), "name is required")
		}
	})

	t.Run("unknown spec keys rejected", func(t *testing.T) {
		m := &Manifest{Resources: []Entry{{
			Kind: KindVmScaleSet,
			Name: "workers",
			Spec: map[string]any{"capcity": 3},
		}}}
		_, err := m.Builders()
		if assert.Error(t, err) {
			assert.Contains(t, err.Error(), "capcity")
		}
	})

	t.Run("linked subnet requires both halves", func(t *testing.T) {
		m := &Manifest{Resources: []Entry{{
			Kind: KindVmScaleSet,
			Name: "workers",
			Spec: map[string]any{"link_to_vnet": "app-net"},
		}}}
		_, err := m.Builders()
		if assert.Error(t, err) {
			assert.Contains(t, err.Error(), "link_to_subnet")
		}
	})
}

func Test_ManifestToTemplate(t *testing.T) {
	assert := assert.New(t)
	m, err := ReadManifest(strings.NewReader(`
resources:
  - kind: vm-scale-set
    name: workers
    spec:
      location: westeurope
      capacity: 3
      ssh_keys:
        - ssh-rsa AAAA
  - kind: cosmos-account
    name: shop
    spec:
      location: westeurope
      consistency:
        level: bounded-staleness
        staleness_prefix: 100
        interval_seconds: 300
      databases:
        - name: inventory
          containers:
            - name: orders
              partition_key: ["/customerId"]
`))
	require.NoError(t, err)

	builders, err := m.Builders()
	require.NoError(t, err)
	require.Len(t, builders, 2)

	d := core.NewDeployment()
	for _, b := range builders {
		require.NoError(t, d.AddBuilt(b))
	}
	template, err := d.Render()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, template.WriteTo(&buf))
	out := buf.String()

	// scale set plus its fabricated vnet, account, database, container
	require.Len(t, template.Resources, 5)
	assert.Contains(out, `"Microsoft.Compute/virtualMachineScaleSets"`)
	assert.Contains(out, `"workers-vnet"`)
	assert.Contains(out, `"[resourceId('Microsoft.Network/virtualNetworks', 'workers-vnet')]"`)
	assert.Contains(out, `"maxStalenessPrefix": 100`)
	assert.Contains(out, `"shop/inventory/orders"`)
	assert.NotContains(out, "password-for-", "ssh auth must not generate a password parameter")
}
