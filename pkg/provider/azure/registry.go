package azure

import "github.com/armatureproject/armature/pkg/core"

// Provider is the namespace resources in this package register under.
const Provider = "azure"

// Resource types and the API versions their projections are written against.
// The table is static: initialized once, never mutated after init.
var (
	VirtualMachineScaleSets = core.ResourceType{Name: "Microsoft.Compute/virtualMachineScaleSets", APIVersion: "2023-09-01"}
	VirtualNetworks         = core.ResourceType{Name: "Microsoft.Network/virtualNetworks", APIVersion: "2023-04-01"}
	Subnets                 = core.ResourceType{Name: "Microsoft.Network/virtualNetworks/subnets", APIVersion: "2023-04-01"}

	DatabaseAccounts = core.ResourceType{Name: "Microsoft.DocumentDB/databaseAccounts", APIVersion: "2021-04-15"}

	SqlDatabases  = core.ResourceType{Name: "Microsoft.DocumentDB/databaseAccounts/sqlDatabases", APIVersion: "2021-04-15"}
	SqlContainers = core.ResourceType{Name: "Microsoft.DocumentDB/databaseAccounts/sqlDatabases/containers", APIVersion: "2021-04-15"}

	MongoDatabases   = core.ResourceType{Name: "Microsoft.DocumentDB/databaseAccounts/mongodbDatabases", APIVersion: "2021-04-15"}
	MongoCollections = core.ResourceType{Name: "Microsoft.DocumentDB/databaseAccounts/mongodbDatabases/collections", APIVersion: "2021-04-15"}

	GremlinDatabases = core.ResourceType{Name: "Microsoft.DocumentDB/databaseAccounts/gremlinDatabases", APIVersion: "2021-04-15"}
	GremlinGraphs    = core.ResourceType{Name: "Microsoft.DocumentDB/databaseAccounts/gremlinDatabases/graphs", APIVersion: "2021-04-15"}
)

var typesByName map[string]core.ResourceType

func init() {
	all := []core.ResourceType{
		VirtualMachineScaleSets,
		VirtualNetworks,
		Subnets,
		DatabaseAccounts,
		SqlDatabases,
		SqlContainers,
		MongoDatabases,
		MongoCollections,
		GremlinDatabases,
		GremlinGraphs,
	}
	typesByName = make(map[string]core.ResourceType, len(all))
	for _, t := range all {
		typesByName[t.Name] = t
	}
}

// LookupType resolves an ARM type name against the registry.
func LookupType(name string) (core.ResourceType, bool) {
	t, ok := typesByName[name]
	return t, ok
}
