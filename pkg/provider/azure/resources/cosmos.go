package resources

import (
	"fmt"

	"github.com/armatureproject/armature/pkg/arm"
	"github.com/armatureproject/armature/pkg/core"
	"github.com/armatureproject/armature/pkg/provider/azure"
)

type DatabaseKind int

const (
	Document DatabaseKind = iota
	Mongo
	Gremlin
)

func (k DatabaseKind) String() string {
	switch k {
	case Document:
		return "Document"
	case Mongo:
		return "Mongo"
	case Gremlin:
		return "Gremlin"
	}
	return fmt.Sprintf("DatabaseKind(%d)", int(k))
}

type (
	// ConsistencyPolicy is the account's read/write ordering guarantee.
	ConsistencyPolicy interface {
		isConsistencyPolicy()
	}

	Session          struct{}
	Eventual         struct{}
	ConsistentPrefix struct{}
	Strong           struct{}

	BoundedStaleness struct {
		MaxStalenessPrefix   int64
		MaxIntervalInSeconds int
	}
)

func (Session) isConsistencyPolicy() {}
func (Eventual) isConsistencyPolicy() {}
func (ConsistentPrefix) isConsistencyPolicy() {}
func (Strong) isConsistencyPolicy() {}
func (BoundedStaleness) isConsistencyPolicy() {}

type (
	// FailoverPolicy is the account's secondary-region behavior.
	FailoverPolicy interface {
		isFailoverPolicy()
	}

	NoFailover struct{}

	AutoFailover struct {
		Secondary string
	}

	MultiMaster struct {
		Secondary string
	}
)

func (NoFailover) isFailoverPolicy() {}
func (AutoFailover) isFailoverPolicy() {}
func (MultiMaster) isFailoverPolicy() {}

type (
	// Throughput is the billing mode for a database or container.
	Throughput interface {
		isThroughput()
	}

	Provisioned struct {
		Units int
	}

	Serverless struct{}
)

func (Provisioned) isThroughput() {}
func (Serverless) isThroughput() {}

// DatabaseAccount is the fully-derived account record.
type DatabaseAccount struct {
	Name                core.ResourceName
	Location            string
	Consistency         ConsistencyPolicy
	Failover            FailoverPolicy
	Kind                DatabaseKind
	PublicNetworkAccess bool
	FreeTier            bool
	Serverless          bool
	Tags                map[string]string
}

func (a *DatabaseAccount) Id() core.ResourceId {
	return core.NewResourceId(azure.DatabaseAccounts, a.Name)
}

func (a *DatabaseAccount) References() []core.ResourceId {
	return nil
}

type (
	databaseAccountProperties struct {
		ConsistencyPolicy            consistencyPolicy `json:"consistencyPolicy"`
		DatabaseAccountOfferType     string            `json:"databaseAccountOfferType"`
		EnableAutomaticFailover      *bool             `json:"enableAutomaticFailover,omitempty"`
		EnableMultipleWriteLocations *bool             `json:"enableMultipleWriteLocations,omitempty"`
		Locations                    []accountLocation `json:"locations,omitempty"`
		PublicNetworkAccess          string            `json:"publicNetworkAccess"`
		EnableFreeTier               bool              `json:"enableFreeTier"`
		Capabilities                 []capability      `json:"capabilities,omitempty"`
	}

	consistencyPolicy struct {
		DefaultConsistencyLevel string `json:"defaultConsistencyLevel"`
		MaxStalenessPrefix      *int64 `json:"maxStalenessPrefix,omitempty"`
		MaxIntervalInSeconds    *int   `json:"maxIntervalInSeconds,omitempty"`
	}

	accountLocation struct {
		LocationName     string `json:"locationName"`
		FailoverPriority int    `json:"failoverPriority"`
	}

	capability struct {
		Name string `json:"name"`
	}
)

// FailoverLocations is the ordered location list derived from the failover
// variant: empty for NoFailover, primary-then-secondary otherwise.
func (a *DatabaseAccount) FailoverLocations() []accountLocation {
	var secondary string
	switch policy := a.Failover.(type) {
	case NoFailover:
		return nil
	case AutoFailover:
		secondary = policy.Secondary
	case MultiMaster:
		secondary = policy.Secondary
	default:
		return nil
	}
	return []accountLocation{
		{LocationName: a.Location, FailoverPriority: 0},
		{LocationName: secondary, FailoverPriority: 1},
	}
}

func (a *DatabaseAccount) renderConsistency() consistencyPolicy {
	switch policy := a.Consistency.(type) {
	case Session:
		return consistencyPolicy{DefaultConsistencyLevel: "Session"}
	case Eventual:
		return consistencyPolicy{DefaultConsistencyLevel: "Eventual"}
	case ConsistentPrefix:
		return consistencyPolicy{DefaultConsistencyLevel: "ConsistentPrefix"}
	case Strong:
		return consistencyPolicy{DefaultConsistencyLevel: "Strong"}
	case BoundedStaleness:
		return consistencyPolicy{
			DefaultConsistencyLevel: "BoundedStaleness",
			MaxStalenessPrefix:      &policy.MaxStalenessPrefix,
			MaxIntervalInSeconds:    &policy.MaxIntervalInSeconds,
		}
	}
	return consistencyPolicy{DefaultConsistencyLevel: "Session"}
}

func (a *DatabaseAccount) Render() (*arm.Resource, error) {
	props := databaseAccountProperties{
		ConsistencyPolicy:        a.renderConsistency(),
		DatabaseAccountOfferType: "Standard",
		PublicNetworkAccess:      "Enabled",
		EnableFreeTier:           a.FreeTier,
	}
	if !a.PublicNetworkAccess {
		props.PublicNetworkAccess = "Disabled"
	}

	switch a.Failover.(type) {
	case AutoFailover:
		t := true
		props.EnableAutomaticFailover = &t
	case MultiMaster:
		t := true
		props.EnableMultipleWriteLocations = &t
	}

	// Serverless and Gremlin accounts fail to provision without an explicit
	// locations list, even with no failover configured.
	props.Locations = a.FailoverLocations()
	if len(props.Locations) == 0 && (a.Serverless || a.Kind == Gremlin) {
		props.Locations = []accountLocation{{LocationName: a.Location, FailoverPriority: 0}}
	}

	if a.Serverless {
		props.Capabilities = append(props.Capabilities, capability{Name: "EnableServerless"})
	}
	if a.Kind == Gremlin {
		props.Capabilities = append(props.Capabilities, capability{Name: "EnableGremlin"})
	}

	kind := "GlobalDocumentDB"
	if a.Kind == Mongo {
		kind = "MongoDB"
	}

	return &arm.Resource{
		Type:       azure.DatabaseAccounts.Name,
		APIVersion: azure.DatabaseAccounts.APIVersion,
		Name:       a.Id().Name(),
		Location:   a.Location,
		Kind:       kind,
		Tags:       a.Tags,
		Properties: props,
	}, nil
}
