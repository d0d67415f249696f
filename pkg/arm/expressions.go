package arm

import "fmt"

// ResourceGroupLocation defers the location choice to the resource group the
// template is deployed into.
const ResourceGroupLocation = "[resourceGroup().location]"

// Parameters builds the indirection expression for a template parameter.
func Parameters(name string) string {
	return fmt.Sprintf("[parameters('%s')]", name)
}
