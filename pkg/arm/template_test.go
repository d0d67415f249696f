package arm

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_TemplateWriteTo(t *testing.T) {
	assert := assert.New(t)

	template := NewTemplate()
	template.Parameters["password-for-app"] = Parameter{Type: "securestring"}
	template.Resources = append(template.Resources, &Resource{
		Type:       "Microsoft.Network/virtualNetworks",
		APIVersion: "2023-04-01",
		Name:       "app-vnet",
		Location:   "[resourceGroup().location]",
		Properties: map[string]any{"addressSpace": map[string]any{"addressPrefixes": []string{"10.0.0.0/16"}}},
	})

	var buf bytes.Buffer
	require.NoError(t, template.WriteTo(&buf))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(Schema, decoded["$schema"])
	assert.Equal(ContentVersion, decoded["contentVersion"])

	params := decoded["parameters"].(map[string]any)
	assert.Contains(params, "password-for-app")
	param := params["password-for-app"].(map[string]any)
	assert.Equal("securestring", param["type"])
	assert.NotContains(param, "defaultValue")

	resources := decoded["resources"].([]any)
	require.Len(t, resources, 1)
	entry := resources[0].(map[string]any)
	assert.Equal("app-vnet", entry["name"])
	assert.NotContains(entry, "dependsOn")
	assert.NotContains(entry, "tags")
}

func Test_Expressions(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("[parameters('password-for-app')]", Parameters("password-for-app"))
}
