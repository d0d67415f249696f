package resources

import (
	"testing"

	"github.com/armatureproject/armature/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildAccount(t *testing.T, b *DatabaseAccountBuilder) (core.BuildResult, *DatabaseAccount) {
	t.Helper()
	result, err := b.Build()
	require.NoError(t, err)
	require.NotEmpty(t, result.Resources)
	account, ok := result.Resources[0].(*DatabaseAccount)
	require.True(t, ok, "first resource must be the account")
	return result, account
}

func accountProps(t *testing.T, account *DatabaseAccount) databaseAccountProperties {
	t.Helper()
	rendered, err := account.Render()
	require.NoError(t, err)
	return rendered.Properties.(databaseAccountProperties)
}

func Test_DatabaseAccountConsistency(t *testing.T) {
	t.Run("bounded staleness emits both fields", func(t *testing.T) {
		assert := assert.New(t)
		_, account := buildAccount(t, NewDatabaseAccount("shop").
			Location("westeurope").
			Consistency(BoundedStaleness{MaxStalenessPrefix: 100, MaxIntervalInSeconds: 300}))
		props := accountProps(t, account)
		assert.Equal("BoundedStaleness", props.ConsistencyPolicy.DefaultConsistencyLevel)
		require.NotNil(t, props.ConsistencyPolicy.MaxStalenessPrefix)
		assert.EqualValues(100, *props.ConsistencyPolicy.MaxStalenessPrefix)
		require.NotNil(t, props.ConsistencyPolicy.MaxIntervalInSeconds)
		assert.Equal(300, *props.ConsistencyPolicy.MaxIntervalInSeconds)
	})

	for _, tt := range []struct {
		policy ConsistencyPolicy
		level  string
	}{
		{policy: Session{}, level: "Session"},
		{policy: Eventual{}, level: "Eventual"},
		{policy: ConsistentPrefix{}, level: "ConsistentPrefix"},
		{policy: Strong{}, level: "Strong"},
	} {
		t.Run(tt.level, func(t *testing.T) {
			_, account := buildAccount(t, NewDatabaseAccount("shop").
				Location("westeurope").
				Consistency(tt.policy))
			props := accountProps(t, account)
			assert.Equal(t, tt.level, props.ConsistencyPolicy.DefaultConsistencyLevel)
			assert.Nil(t, props.ConsistencyPolicy.MaxStalenessPrefix)
			assert.Nil(t, props.ConsistencyPolicy.MaxIntervalInSeconds)
		})
	}

	t.Run("staleness bounds validated", func(t *testing.T) {
		_, err := NewDatabaseAccount("shop").
			Consistency(BoundedStaleness{MaxStalenessPrefix: 1, MaxIntervalInSeconds: 1}).
			Build()
		if assert.Error(t, err) {
			assert.Contains(t, err.Error(), "staleness prefix")
			assert.Contains(t, err.Error(), "staleness interval")
		}
	})
}

func Test_DatabaseAccountLocations(t *testing.T) {
	t.Run("no failover omits locations", func(t *testing.T) {
		_, account := buildAccount(t, NewDatabaseAccount("shop").Location("westeurope"))
		props := accountProps(t, account)
		assert.Nil(t, props.Locations)
		assert.Nil(t, props.EnableAutomaticFailover)
		assert.Nil(t, props.EnableMultipleWriteLocations)
	})

	t.Run("serverless forces explicit primary", func(t *testing.T) {
		assert := assert.New(t)
		_, account := buildAccount(t, NewDatabaseAccount("shop").
			Location("westeurope").
			Serverless())
		props := accountProps(t, account)
		require.Len(t, props.Locations, 1)
		assert.Equal("westeurope", props.Locations[0].LocationName)
		assert.Equal(0, props.Locations[0].FailoverPriority)
		assert.Contains(props.Capabilities, capability{Name: "EnableServerless"})
	})

	t.Run("gremlin forces explicit primary", func(t *testing.T) {
		assert := assert.New(t)
		_, account := buildAccount(t, NewDatabaseAccount("shop").
			Location("westeurope").
			Kind(Gremlin))
		props := accountProps(t, account)
		require.Len(t, props.Locations, 1)
		assert.Equal("westeurope", props.Locations[0].LocationName)
		assert.Contains(props.Capabilities, capability{Name: "EnableGremlin"})
	})

	t.Run("serverless gremlin carries both capabilities", func(t *testing.T) {
		_, account := buildAccount(t, NewDatabaseAccount("shop").
			Location("westeurope").
			Kind(Gremlin).
			Serverless())
		props := accountProps(t, account)
		assert.Equal(t, []capability{{Name: "EnableServerless"}, {Name: "EnableGremlin"}}, props.Capabilities)
	})

	t.Run("auto failover orders regions", func(t *testing.T) {
		assert := assert.New(t)
		_, account := buildAccount(t, NewDatabaseAccount("shop").
			Location("westeurope").
			Failover(AutoFailover{Secondary: "northeurope"}))
		props := accountProps(t, account)
		require.Len(t, props.Locations, 2)
		assert.Equal("westeurope", props.Locations[0].LocationName)
		assert.Equal(0, props.Locations[0].FailoverPriority)
		assert.Equal("northeurope", props.Locations[1].LocationName)
		assert.Equal(1, props.Locations[1].FailoverPriority)
		require.NotNil(t, props.EnableAutomaticFailover)
		assert.True(*props.EnableAutomaticFailover)
		assert.Nil(props.EnableMultipleWriteLocations)
	})

	t.Run("multi master enables multiple write locations", func(t *testing.T) {
		assert := assert.New(t)
		_, account := buildAccount(t, NewDatabaseAccount("shop").
			Location("westeurope").
			Failover(MultiMaster{Secondary: "northeurope"}))
		props := accountProps(t, account)
		require.Len(t, props.Locations, 2)
		require.NotNil(t, props.EnableMultipleWriteLocations)
		assert.True(*props.EnableMultipleWriteLocations)
		assert.Nil(props.EnableAutomaticFailover)
	})

	t.Run("failover without secondary rejected", func(t *testing.T) {
		_, err := NewDatabaseAccount("shop").Failover(AutoFailover{}).Build()
		assert.Error(t, err)
	})
}

func Test_DatabaseAccountRender(t *testing.T) {
	assert := assert.New(t)
	_, account := buildAccount(t, NewDatabaseAccount("Shop-Data").
		Location("westeurope").
		FreeTier().
		DisablePublicNetworkAccess().
		Tag("env", "test"))

	rendered, err := account.Render()
	require.NoError(t, err)
	assert.Equal("shop-data", rendered.Name, "account names are lowercased")
	assert.Equal("GlobalDocumentDB", rendered.Kind)
	assert.Equal("test", rendered.Tags["env"])

	props := rendered.Properties.(databaseAccountProperties)
	assert.Equal("Standard", props.DatabaseAccountOfferType)
	assert.Equal("Disabled", props.PublicNetworkAccess)
	assert.True(props.EnableFreeTier)
}

func Test_MongoAccountKind(t *testing.T) {
	_, account := buildAccount(t, NewDatabaseAccount("shop").Kind(Mongo))
	rendered, err := account.Render()
	require.NoError(t, err)
	assert.Equal(t, "MongoDB", rendered.Kind)
}

func Test_DatabaseChildren(t *testing.T) {
	assert := assert.New(t)
	d := core.NewDeployment()
	err := d.AddBuilt(NewDatabaseAccount("shop").
		Location("westeurope").
		AddDatabase(NewDatabase("inventory").
			Throughput(Provisioned{Units: 400}).
			AddContainer(NewContainer("orders").
				PartitionKey(PartitionHash, "/customerId").
				UniqueKey("/orderId").
				ExcludeIndex("/blob/*"))))
	require.NoError(t, err)

	template, err := d.Render()
	require.NoError(t, err)
	require.Len(t, template.Resources, 3)

	account := template.Resources[0]
	db := template.Resources[1]
	container := template.Resources[2]

	assert.Equal("Microsoft.DocumentDB/databaseAccounts/sqlDatabases", db.Type)
	assert.Equal("shop/inventory", db.Name)
	assert.Equal([]string{"[resourceId('Microsoft.DocumentDB/databaseAccounts', 'shop')]"}, db.DependsOn)

	dbProps := db.Properties.(databaseProperties)
	assert.Equal("inventory", dbProps.Resource.Id)
	require.NotNil(t, dbProps.Options)
	assert.Equal(400, dbProps.Options.Throughput)

	assert.Equal("Microsoft.DocumentDB/databaseAccounts/sqlDatabases/containers", container.Type)
	assert.Equal("shop/inventory/orders", container.Name)
	assert.Equal([]string{"[resourceId('Microsoft.DocumentDB/databaseAccounts/sqlDatabases', 'shop', 'inventory')]"}, container.DependsOn)
	assert.Empty(account.DependsOn)

	containerProps := container.Properties.(containerProperties)
	resource := containerProps.Resource
	assert.Equal("orders", resource.Id)
	require.NotNil(t, resource.PartitionKey)
	assert.Equal([]string{"/customerId"}, resource.PartitionKey.Paths)
	assert.Equal("Hash", resource.PartitionKey.Kind)
	require.NotNil(t, resource.IndexingPolicy)
	assert.Equal("consistent", resource.IndexingPolicy.IndexingMode)
	assert.Equal([]excludedPathSpec{{Path: "/blob/*"}}, resource.IndexingPolicy.ExcludedPaths)
	require.NotNil(t, resource.UniqueKeyPolicy)
	assert.Equal([]uniqueKeySpec{{Paths: []string{"/orderId"}}}, resource.UniqueKeyPolicy.UniqueKeys)
}

func Test_GremlinGraphTypes(t *testing.T) {
	assert := assert.New(t)
	result, _ := buildAccount(t, NewDatabaseAccount("graphs").
		Location("westeurope").
		Kind(Gremlin).
		AddDatabase(NewDatabase("social").
			AddContainer(NewContainer("people").PartitionKey(PartitionHash, "/id"))))

	require.Len(t, result.Resources, 3)
	assert.Equal("Microsoft.DocumentDB/databaseAccounts/gremlinDatabases", result.Resources[1].Id().Type.Name)
	assert.Equal("Microsoft.DocumentDB/databaseAccounts/gremlinDatabases/graphs", result.Resources[2].Id().Type.Name)
}

func Test_MongoCollectionShardKey(t *testing.T) {
	assert := assert.New(t)
	result, _ := buildAccount(t, NewDatabaseAccount("docs").
		Kind(Mongo).
		AddDatabase(NewDatabase("app").
			AddContainer(NewContainer("events").PartitionKey(PartitionHash, "/tenantId"))))

	require.Len(t, result.Resources, 3)
	collection := result.Resources[2]
	assert.Equal("Microsoft.DocumentDB/databaseAccounts/mongodbDatabases/collections", collection.Id().Type.Name)

	rendered, err := collection.Render()
	require.NoError(t, err)
	resource := rendered.Properties.(containerProperties).Resource
	assert.Equal(map[string]string{"/tenantId": "Hash"}, resource.ShardKey)
	assert.Nil(resource.PartitionKey)
	assert.Nil(resource.IndexingPolicy)
}

func Test_ServerlessThroughputConflict(t *testing.T) {
	_, err := NewDatabaseAccount("shop").
		Serverless().
		AddDatabase(NewDatabase("inventory").Throughput(Provisioned{Units: 400})).
		Build()
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "serverless")
	}
}

func Test_ContainerValidation(t *testing.T) {
	t.Run("partition key required", func(t *testing.T) {
		_, err := NewDatabaseAccount("shop").
			AddDatabase(NewDatabase("inventory").AddContainer(NewContainer("orders"))).
			Build()
		if assert.Error(t, err) {
			assert.Contains(t, err.Error(), "partition key")
		}
	})

	t.Run("throughput floor", func(t *testing.T) {
		_, err := NewDatabaseAccount("shop").
			AddDatabase(NewDatabase("inventory").Throughput(Provisioned{Units: 100})).
			Build()
		if assert.Error(t, err) {
			assert.Contains(t, err.Error(), "400")
		}
	})

	t.Run("name too short after sanitization", func(t *testing.T) {
		_, err := NewDatabaseAccount("!!").Build()
		assert.Error(t, err)
	})
}
