package resources

import (
	"fmt"
	"strings"

	"github.com/armatureproject/armature/pkg/arm"
	"github.com/armatureproject/armature/pkg/core"
	sanitize "github.com/armatureproject/armature/pkg/sanitization/azure"
	"go.uber.org/multierr"
)

// Staleness bounds accepted for BoundedStaleness consistency.
const (
	minStalenessPrefix   = 10
	maxStalenessPrefix   = 2147483647
	minStalenessInterval = 5
	maxStalenessInterval = 86400
)

// DatabaseAccountBuilder accumulates an account plus its databases and
// containers, and yields them as one ordered output on Build.
type DatabaseAccountBuilder struct {
	name                string
	location            string
	consistency         ConsistencyPolicy
	failover            FailoverPolicy
	kind                DatabaseKind
	publicNetworkAccess bool
	freeTier            bool
	serverless          bool
	tags                map[string]string
	databases           []*DatabaseBuilder
}

func NewDatabaseAccount(name string) *DatabaseAccountBuilder {
	return &DatabaseAccountBuilder{
		name:                name,
		location:            arm.ResourceGroupLocation,
		consistency:         Session{},
		failover:            NoFailover{},
		kind:                Document,
		publicNetworkAccess: true,
	}
}

func (b *DatabaseAccountBuilder) Location(location string) *DatabaseAccountBuilder {
	b.location = location
	return b
}

func (b *DatabaseAccountBuilder) Consistency(policy ConsistencyPolicy) *DatabaseAccountBuilder {
	b.consistency = policy
	return b
}

func (b *DatabaseAccountBuilder) Failover(policy FailoverPolicy) *DatabaseAccountBuilder {
	b.failover = policy
	return b
}

func (b *DatabaseAccountBuilder) Kind(kind DatabaseKind) *DatabaseAccountBuilder {
	b.kind = kind
	return b
}

func (b *DatabaseAccountBuilder) DisablePublicNetworkAccess() *DatabaseAccountBuilder {
	b.publicNetworkAccess = false
	return b
}

func (b *DatabaseAccountBuilder) FreeTier() *DatabaseAccountBuilder {
	b.freeTier = true
	return b
}

func (b *DatabaseAccountBuilder) Serverless() *DatabaseAccountBuilder {
	b.serverless = true
	return b
}

func (b *DatabaseAccountBuilder) Tag(key, value string) *DatabaseAccountBuilder {
	if b.tags == nil {
		b.tags = map[string]string{}
	}
	b.tags[key] = value
	return b
}

func (b *DatabaseAccountBuilder) AddDatabase(db *DatabaseBuilder) *DatabaseAccountBuilder {
	b.databases = append(b.databases, db)
	return b
}

func (b *DatabaseAccountBuilder) Build() (core.BuildResult, error) {
	sanitized := sanitize.DatabaseAccountSanitizer.Apply(strings.ToLower(b.name))
	if len(sanitized) < 3 {
		return core.BuildResult{}, fmt.Errorf("database account: name '%s' is too short after sanitization", b.name)
	}
	name, err := core.NewResourceName(sanitized)
	if err != nil {
		return core.BuildResult{}, fmt.Errorf("database account: %w", err)
	}

	var verr error
	if staleness, ok := b.consistency.(BoundedStaleness); ok {
		if staleness.MaxStalenessPrefix < minStalenessPrefix || staleness.MaxStalenessPrefix > maxStalenessPrefix {
			verr = multierr.Append(verr, fmt.Errorf(
				"database account %s: staleness prefix %d outside [%d, %d]",
				name, staleness.MaxStalenessPrefix, minStalenessPrefix, int64(maxStalenessPrefix)))
		}
		if staleness.MaxIntervalInSeconds < minStalenessInterval || staleness.MaxIntervalInSeconds > maxStalenessInterval {
			verr = multierr.Append(verr, fmt.Errorf(
				"database account %s: staleness interval %ds outside [%ds, %ds]",
				name, staleness.MaxIntervalInSeconds, minStalenessInterval, maxStalenessInterval))
		}
	}
	switch policy := b.failover.(type) {
	case AutoFailover:
		if policy.Secondary == "" {
			verr = multierr.Append(verr, fmt.Errorf("database account %s: auto failover requires a secondary region", name))
		}
	case MultiMaster:
		if policy.Secondary == "" {
			verr = multierr.Append(verr, fmt.Errorf("database account %s: multi master requires a secondary region", name))
		}
	}

	account := &DatabaseAccount{
		Name:                name,
		Location:            b.location,
		Consistency:         b.consistency,
		Failover:            b.failover,
		Kind:                b.kind,
		PublicNetworkAccess: b.publicNetworkAccess,
		FreeTier:            b.freeTier,
		Serverless:          b.serverless,
		Tags:                b.tags,
	}
	result := core.BuildResult{Resources: []core.Resource{account}}

	for _, db := range b.databases {
		children, err := db.build(account)
		if err != nil {
			verr = multierr.Append(verr, err)
			continue
		}
		result.Resources = append(result.Resources, children...)
	}
	if verr != nil {
		return core.BuildResult{}, verr
	}
	return result, nil
}

// DatabaseBuilder configures one database and its containers. Kind and parent
// naming come from the owning account at build time.
type DatabaseBuilder struct {
	name       string
	throughput Throughput
	containers []*ContainerBuilder
}

func NewDatabase(name string) *DatabaseBuilder {
	return &DatabaseBuilder{name: name}
}

func (b *DatabaseBuilder) Throughput(t Throughput) *DatabaseBuilder {
	b.throughput = t
	return b
}

func (b *DatabaseBuilder) AddContainer(c *ContainerBuilder) *DatabaseBuilder {
	b.containers = append(b.containers, c)
	return b
}

func (b *DatabaseBuilder) build(account *DatabaseAccount) ([]core.Resource, error) {
	name, err := core.NewResourceName(b.name)
	if err != nil {
		return nil, fmt.Errorf("database account %s: database: %w", account.Name, err)
	}
	if err := validateThroughput(account, b.throughput); err != nil {
		return nil, fmt.Errorf("database %s/%s: %w", account.Name, name, err)
	}

	db := &Database{
		Name:       name,
		Account:    account.Name,
		Kind:       account.Kind,
		Throughput: b.throughput,
	}
	resources := []core.Resource{db}
	for _, c := range b.containers {
		container, err := c.build(account, db)
		if err != nil {
			return nil, err
		}
		resources = append(resources, container)
	}
	return resources, nil
}

// ContainerBuilder configures a container, collection, or graph.
type ContainerBuilder struct {
	name          string
	partitionKey  PartitionKey
	includedPaths []IncludedPath
	excludedPaths []string
	uniqueKeys    [][]string
	throughput    Throughput
}

func NewContainer(name string) *ContainerBuilder {
	return &ContainerBuilder{name: name}
}

func (b *ContainerBuilder) PartitionKey(kind PartitionKeyKind, paths ...string) *ContainerBuilder {
	b.partitionKey = PartitionKey{Paths: paths, Kind: kind}
	return b
}

func (b *ContainerBuilder) IncludeIndex(path string, indexes ...PathIndex) *ContainerBuilder {
	b.includedPaths = append(b.includedPaths, IncludedPath{Path: path, Indexes: indexes})
	return b
}

func (b *ContainerBuilder) ExcludeIndex(path string) *ContainerBuilder {
	b.excludedPaths = append(b.excludedPaths, path)
	return b
}

func (b *ContainerBuilder) UniqueKey(paths ...string) *ContainerBuilder {
	b.uniqueKeys = append(b.uniqueKeys, paths)
	return b
}

func (b *ContainerBuilder) Throughput(t Throughput) *ContainerBuilder {
	b.throughput = t
	return b
}

func (b *ContainerBuilder) build(account *DatabaseAccount, db *Database) (core.Resource, error) {
	name, err := core.NewResourceName(b.name)
	if err != nil {
		return nil, fmt.Errorf("database %s/%s: container: %w", account.Name, db.Name, err)
	}
	if len(b.partitionKey.Paths) == 0 {
		return nil, fmt.Errorf("container %s/%s/%s: a partition key is required", account.Name, db.Name, name)
	}
	if err := validateThroughput(account, b.throughput); err != nil {
		return nil, fmt.Errorf("container %s/%s/%s: %w", account.Name, db.Name, name, err)
	}

	return &Container{
		Name:         name,
		Database:     db.Name,
		Account:      account.Name,
		Kind:         account.Kind,
		PartitionKey: b.partitionKey,
		Indexing: IndexingPolicy{
			Included: b.includedPaths,
			Excluded: b.excludedPaths,
		},
		UniqueKeys: UniqueKeyPolicy{Keys: b.uniqueKeys},
		Throughput: b.throughput,
	}, nil
}

// validateThroughput rejects provisioned throughput on serverless accounts;
// the two billing modes are mutually exclusive.
func validateThroughput(account *DatabaseAccount, t Throughput) error {
	provisioned, ok := t.(Provisioned)
	if !ok {
		return nil
	}
	if account.Serverless {
		return fmt.Errorf("provisioned throughput conflicts with a serverless account")
	}
	if provisioned.Units < 400 {
		return fmt.Errorf("provisioned throughput %d below the 400 RU/s floor", provisioned.Units)
	}
	return nil
}
