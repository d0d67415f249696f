package resources

import (
	"github.com/armatureproject/armature/pkg/arm"
	"github.com/armatureproject/armature/pkg/core"
	"github.com/armatureproject/armature/pkg/provider/azure"
)

// databaseType and containerType pick the resource-type family matching the
// account kind. The families have different API shapes but the same builder
// surface.
func databaseType(kind DatabaseKind) core.ResourceType {
	switch kind {
	case Mongo:
		return azure.MongoDatabases
	case Gremlin:
		return azure.GremlinDatabases
	}
	return azure.SqlDatabases
}

func containerType(kind DatabaseKind) core.ResourceType {
	switch kind {
	case Mongo:
		return azure.MongoCollections
	case Gremlin:
		return azure.GremlinGraphs
	}
	return azure.SqlContainers
}

type PartitionKeyKind string

const (
	PartitionHash  PartitionKeyKind = "Hash"
	PartitionRange PartitionKeyKind = "Range"
)

type IndexKind string

const (
	IndexHash    IndexKind = "Hash"
	IndexRange   IndexKind = "Range"
	IndexSpatial IndexKind = "Spatial"
)

type IndexDataType string

const (
	IndexString IndexDataType = "String"
	IndexNumber IndexDataType = "Number"
)

type (
	PartitionKey struct {
		Paths []string
		Kind  PartitionKeyKind
	}

	PathIndex struct {
		Kind     IndexKind
		DataType IndexDataType
	}

	IncludedPath struct {
		Path    string
		Indexes []PathIndex
	}

	IndexingPolicy struct {
		Included []IncludedPath
		Excluded []string
	}

	UniqueKeyPolicy struct {
		Keys [][]string
	}
)

// Database is a database child of an account. Its qualified path nests under
// the account so the rendered name and any child references line up.
type Database struct {
	Name       core.ResourceName
	Account    core.ResourceName
	Kind       DatabaseKind
	Throughput Throughput
}

func (db *Database) Id() core.ResourceId {
	return core.NewResourceId(databaseType(db.Kind), db.Account, db.Name)
}

func (db *Database) References() []core.ResourceId {
	return []core.ResourceId{core.NewResourceId(azure.DatabaseAccounts, db.Account)}
}

type (
	databaseProperties struct {
		Resource namedResource      `json:"resource"`
		Options  *throughputOptions `json:"options,omitempty"`
	}

	namedResource struct {
		Id string `json:"id"`
	}

	throughputOptions struct {
		Throughput int `json:"throughput"`
	}
)

func renderThroughput(t Throughput) *throughputOptions {
	if provisioned, ok := t.(Provisioned); ok {
		return &throughputOptions{Throughput: provisioned.Units}
	}
	return nil
}

func (db *Database) Render() (*arm.Resource, error) {
	t := databaseType(db.Kind)
	return &arm.Resource{
		Type:       t.Name,
		APIVersion: t.APIVersion,
		Name:       db.Id().Name(),
		Properties: databaseProperties{
			Resource: namedResource{Id: db.Name.String()},
			Options:  renderThroughput(db.Throughput),
		},
	}, nil
}

// Container is a container, collection, or graph child of a database,
// depending on the account kind.
type Container struct {
	Name         core.ResourceName
	Database     core.ResourceName
	Account      core.ResourceName
	Kind         DatabaseKind
	PartitionKey PartitionKey
	Indexing     IndexingPolicy
	UniqueKeys   UniqueKeyPolicy
	Throughput   Throughput
}

func (c *Container) Id() core.ResourceId {
	return core.NewResourceId(containerType(c.Kind), c.Account, c.Database, c.Name)
}

func (c *Container) References() []core.ResourceId {
	return []core.ResourceId{core.NewResourceId(databaseType(c.Kind), c.Account, c.Database)}
}

type (
	containerProperties struct {
		Resource containerResource  `json:"resource"`
		Options  *throughputOptions `json:"options,omitempty"`
	}

	containerResource struct {
		Id              string               `json:"id"`
		PartitionKey    *partitionKeySpec    `json:"partitionKey,omitempty"`
		IndexingPolicy  *indexingPolicySpec  `json:"indexingPolicy,omitempty"`
		UniqueKeyPolicy *uniqueKeyPolicySpec `json:"uniqueKeyPolicy,omitempty"`
		ShardKey        map[string]string    `json:"shardKey,omitempty"`
	}

	partitionKeySpec struct {
		Paths []string `json:"paths"`
		Kind  string   `json:"kind"`
	}

	indexingPolicySpec struct {
		IndexingMode  string             `json:"indexingMode"`
		IncludedPaths []includedPathSpec `json:"includedPaths"`
		ExcludedPaths []excludedPathSpec `json:"excludedPaths"`
	}

	includedPathSpec struct {
		Path    string          `json:"path"`
		Indexes []pathIndexSpec `json:"indexes,omitempty"`
	}

	pathIndexSpec struct {
		Kind     string `json:"kind"`
		DataType string `json:"dataType"`
	}

	excludedPathSpec struct {
		Path string `json:"path"`
	}

	uniqueKeyPolicySpec struct {
		UniqueKeys []uniqueKeySpec `json:"uniqueKeys"`
	}

	uniqueKeySpec struct {
		Paths []string `json:"paths"`
	}
)

func (c *Container) Render() (*arm.Resource, error) {
	t := containerType(c.Kind)
	resource := containerResource{Id: c.Name.String()}

	if c.Kind == Mongo {
		// Mongo collections take a shard key map instead of a partition key
		// spec and have no server-side indexing policy surface here.
		if len(c.PartitionKey.Paths) > 0 {
			resource.ShardKey = map[string]string{}
			for _, path := range c.PartitionKey.Paths {
				resource.ShardKey[path] = string(c.PartitionKey.Kind)
			}
		}
	} else {
		if len(c.PartitionKey.Paths) > 0 {
			resource.PartitionKey = &partitionKeySpec{
				Paths: c.PartitionKey.Paths,
				Kind:  string(c.PartitionKey.Kind),
			}
		}
		resource.IndexingPolicy = c.renderIndexing()
		if len(c.UniqueKeys.Keys) > 0 {
			policy := &uniqueKeyPolicySpec{}
			for _, paths := range c.UniqueKeys.Keys {
				policy.UniqueKeys = append(policy.UniqueKeys, uniqueKeySpec{Paths: paths})
			}
			resource.UniqueKeyPolicy = policy
		}
	}

	return &arm.Resource{
		Type:       t.Name,
		APIVersion: t.APIVersion,
		Name:       c.Id().Name(),
		Properties: containerProperties{
			Resource: resource,
			Options:  renderThroughput(c.Throughput),
		},
	}, nil
}

// renderIndexing always forces consistent mode; lazy indexing is not a thing
// this projection emits.
func (c *Container) renderIndexing() *indexingPolicySpec {
	spec := &indexingPolicySpec{
		IndexingMode:  "consistent",
		IncludedPaths: []includedPathSpec{},
		ExcludedPaths: []excludedPathSpec{},
	}
	for _, included := range c.Indexing.Included {
		entry := includedPathSpec{Path: included.Path}
		for _, index := range included.Indexes {
			entry.Indexes = append(entry.Indexes, pathIndexSpec{
				Kind:     string(index.Kind),
				DataType: string(index.DataType),
			})
		}
		spec.IncludedPaths = append(spec.IncludedPaths, entry)
	}
	for _, excluded := range c.Indexing.Excluded {
		spec.ExcludedPaths = append(spec.ExcludedPaths, excludedPathSpec{Path: excluded})
	}
	return spec
}
