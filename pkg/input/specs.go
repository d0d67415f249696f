package input

import (
	"fmt"
	"time"

	"github.com/armatureproject/armature/pkg/core"
	"github.com/armatureproject/armature/pkg/provider/azure/resources"
)

type (
	VmScaleSetSpec struct {
		Location             string            `mapstructure:"location"`
		Capacity             *int              `mapstructure:"capacity"`
		Os                   string            `mapstructure:"os"`
		Size                 string            `mapstructure:"size"`
		AdminUsername        string            `mapstructure:"admin_username"`
		Diagnostics          bool              `mapstructure:"diagnostics"`
		SshKeys              []string          `mapstructure:"ssh_keys"`
		Vnet                 string            `mapstructure:"link_to_vnet"`
		Subnet               string            `mapstructure:"link_to_subnet"`
		UpgradeMode          string            `mapstructure:"upgrade_mode"`
		OsUpgradeAutomatic   bool              `mapstructure:"osupgrade_automatic"`
		OsUpgradeRolling     bool              `mapstructure:"osupgrade_rolling_upgrade"`
		ScaleInRule          string            `mapstructure:"scale_in_policy"`
		ScaleInForceDeletion bool              `mapstructure:"scale_in_force_deletion"`
		RepairsGracePeriod   string            `mapstructure:"automatic_repair_enabled_after"`
		HealthExtension      *HealthSpec       `mapstructure:"health_extension"`
		Tags                 map[string]string `mapstructure:"tags"`
	}

	HealthSpec struct {
		Protocol string `mapstructure:"protocol"`
		Port     int    `mapstructure:"port"`
		Path     string `mapstructure:"path"`
	}
)

func vmScaleSetBuilder(entry Entry) (core.Builder, error) {
	var spec VmScaleSetSpec
	if err := decodeSpec(entry, &spec); err != nil {
		return nil, err
	}

	profile := resources.VmProfile{
		Size:               spec.Size,
		AdminUsername:      spec.AdminUsername,
		DiagnosticsEnabled: spec.Diagnostics,
	}
	switch spec.Os {
	case "", "linux":
		profile.Os = resources.Linux
	case "windows":
		profile.Os = resources.Windows
	default:
		return nil, fmt.Errorf("unknown os %q", spec.Os)
	}
	if len(spec.SshKeys) > 0 {
		profile.Auth = resources.SshAuthentication{PublicKeys: spec.SshKeys}
	}
	if spec.Vnet != "" || spec.Subnet != "" {
		if spec.Vnet == "" || spec.Subnet == "" {
			return nil, fmt.Errorf("link_to_vnet and link_to_subnet must be set together")
		}
		profile.Subnet = resources.SubnetLink{
			Vnet:   core.ResourceName(spec.Vnet),
			Subnet: core.ResourceName(spec.Subnet),
		}
	}

	b := resources.NewVmScaleSet(entry.Name).VmProfile(profile)
	if spec.Location != "" {
		b.Location(spec.Location)
	}
	if spec.Capacity != nil {
		b.Capacity(*spec.Capacity)
	}
	switch spec.UpgradeMode {
	case "":
	case "manual":
		b.UpgradeMode(resources.ManualUpgrade)
	case "automatic":
		b.UpgradeMode(resources.AutomaticUpgrade)
	case "rolling":
		b.UpgradeMode(resources.RollingUpgrade)
	default:
		return nil, fmt.Errorf("unknown upgrade mode %q", spec.UpgradeMode)
	}
	if spec.OsUpgradeAutomatic {
		b.OsUpgradeAutomatic(true)
	}
	if spec.OsUpgradeRolling {
		b.OsUpgradeRollingUpgrade()
	}
	switch spec.ScaleInRule {
	case "":
	case "default":
		b.ScaleInRule(resources.ScaleInDefault)
	case "oldest-vm":
		b.ScaleInRule(resources.ScaleInOldestVM)
	case "newest-vm":
		b.ScaleInRule(resources.ScaleInNewestVM)
	default:
		return nil, fmt.Errorf("unknown scale-in policy %q", spec.ScaleInRule)
	}
	if spec.ScaleInForceDeletion {
		b.ScaleInForceDeletion()
	}
	if spec.RepairsGracePeriod != "" {
		grace, err := time.ParseDuration(spec.RepairsGracePeriod)
		if err != nil {
			return nil, fmt.Errorf("invalid automatic_repair_enabled_after: %w", err)
		}
		b.AutomaticRepairsAfter(grace)
	}
	if spec.HealthExtension != nil {
		b.AddExtensions(resources.ApplicationHealthExtension{
			Protocol:    resources.HealthProtocol(spec.HealthExtension.Protocol),
			Port:        spec.HealthExtension.Port,
			RequestPath: spec.HealthExtension.Path,
		})
	}
	for key, value := range spec.Tags {
		b.Tag(key, value)
	}
	return b, nil
}

type (
	CosmosAccountSpec struct {
		Location            string            `mapstructure:"location"`
		Kind                string            `mapstructure:"kind"`
		Consistency         *ConsistencySpec  `mapstructure:"consistency"`
		Failover            *FailoverSpec     `mapstructure:"failover"`
		PublicNetworkAccess *bool             `mapstructure:"public_network_access"`
		FreeTier            bool              `mapstructure:"free_tier"`
		Serverless          bool              `mapstructure:"serverless"`
		Tags                map[string]string `mapstructure:"tags"`
		Databases           []DatabaseSpec    `mapstructure:"databases"`
	}

	ConsistencySpec struct {
		Level           string `mapstructure:"level"`
		StalenessPrefix int64  `mapstructure:"staleness_prefix"`
		IntervalSeconds int    `mapstructure:"interval_seconds"`
	}

	FailoverSpec struct {
		Mode      string `mapstructure:"mode"`
		Secondary string `mapstructure:"secondary"`
	}

	DatabaseSpec struct {
		Name       string          `mapstructure:"name"`
		Throughput *int            `mapstructure:"throughput"`
		Containers []ContainerSpec `mapstructure:"containers"`
	}

	ContainerSpec struct {
		Name          string     `mapstructure:"name"`
		PartitionKey  []string   `mapstructure:"partition_key"`
		PartitionKind string     `mapstructure:"partition_kind"`
		UniqueKeys    [][]string `mapstructure:"unique_keys"`
		ExcludedPaths []string   `mapstructure:"excluded_paths"`
		Throughput    *int       `mapstructure:"throughput"`
	}
)

func cosmosAccountBuilder(entry Entry) (core.Builder, error) {
	var spec CosmosAccountSpec
	if err := decodeSpec(entry, &spec); err != nil {
		return nil, err
	}

	b := resources.NewDatabaseAccount(entry.Name)
	if spec.Location != "" {
		b.Location(spec.Location)
	}
	switch spec.Kind {
	case "", "document":
	case "mongo":
		b.Kind(resources.Mongo)
	case "gremlin":
		b.Kind(resources.Gremlin)
	default:
		return nil, fmt.Errorf("unknown database kind %q", spec.Kind)
	}
	if spec.Consistency != nil {
		switch spec.Consistency.Level {
		case "", "session":
			b.Consistency(resources.Session{})
		case "eventual":
			b.Consistency(resources.Eventual{})
		case "consistent-prefix":
			b.Consistency(resources.ConsistentPrefix{})
		case "strong":
			b.Consistency(resources.Strong{})
		case "bounded-staleness":
			b.Consistency(resources.BoundedStaleness{
				MaxStalenessPrefix:   spec.Consistency.StalenessPrefix,
				MaxIntervalInSeconds: spec.Consistency.IntervalSeconds,
			})
		default:
			return nil, fmt.Errorf("unknown consistency level %q", spec.Consistency.Level)
		}
	}
	if spec.Failover != nil {
		switch spec.Failover.Mode {
		case "", "none":
			b.Failover(resources.NoFailover{})
		case "auto":
			b.Failover(resources.AutoFailover{Secondary: spec.Failover.Secondary})
		case "multi-master":
			b.Failover(resources.MultiMaster{Secondary: spec.Failover.Secondary})
		default:
			return nil, fmt.Errorf("unknown failover mode %q", spec.Failover.Mode)
		}
	}
	if spec.PublicNetworkAccess != nil && !*spec.PublicNetworkAccess {
		b.DisablePublicNetworkAccess()
	}
	if spec.FreeTier {
		b.FreeTier()
	}
	if spec.Serverless {
		b.Serverless()
	}
	for key, value := range spec.Tags {
		b.Tag(key, value)
	}

	for _, db := range spec.Databases {
		dbb := resources.NewDatabase(db.Name)
		if db.Throughput != nil {
			dbb.Throughput(resources.Provisioned{Units: *db.Throughput})
		}
		for _, c := range db.Containers {
			cb := resources.NewContainer(c.Name)
			kind := resources.PartitionHash
			switch c.PartitionKind {
			case "", "hash":
			case "range":
				kind = resources.PartitionRange
			default:
				return nil, fmt.Errorf("unknown partition kind %q", c.PartitionKind)
			}
			cb.PartitionKey(kind, c.PartitionKey...)
			for _, key := range c.UniqueKeys {
				cb.UniqueKey(key...)
			}
			for _, path := range c.ExcludedPaths {
				cb.ExcludeIndex(path)
			}
			if c.Throughput != nil {
				cb.Throughput(resources.Provisioned{Units: *c.Throughput})
			}
			dbb.AddContainer(cb)
		}
		b.AddDatabase(dbb)
	}
	return b, nil
}

type VirtualNetworkSpec struct {
	Location     string            `mapstructure:"location"`
	AddressSpace []string          `mapstructure:"address_space"`
	Subnets      []SubnetSpec      `mapstructure:"subnets"`
	Tags         map[string]string `mapstructure:"tags"`
}

type SubnetSpec struct {
	Name   string `mapstructure:"name"`
	Prefix string `mapstructure:"prefix"`
}

func virtualNetworkBuilder(entry Entry) (core.Builder, error) {
	var spec VirtualNetworkSpec
	if err := decodeSpec(entry, &spec); err != nil {
		return nil, err
	}
	b := resources.NewVirtualNetwork(entry.Name)
	if spec.Location != "" {
		b.Location(spec.Location)
	}
	b.AddressSpace(spec.AddressSpace...)
	for _, subnet := range spec.Subnets {
		b.AddSubnet(subnet.Name, subnet.Prefix)
	}
	for key, value := range spec.Tags {
		b.Tag(key, value)
	}
	return b, nil
}
