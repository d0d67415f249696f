package resources

import (
	"fmt"
	"time"

	"github.com/armatureproject/armature/pkg/arm"
	"github.com/armatureproject/armature/pkg/core"
	"github.com/armatureproject/armature/pkg/provider/azure"
	sanitize "github.com/armatureproject/armature/pkg/sanitization/azure"
	"go.uber.org/multierr"
)

const (
	DefaultVmSize        = "Standard_DS1_v2"
	DefaultAdminUsername = "azureuser"
)

var (
	DefaultLinuxImage = ImageReference{
		Publisher: "Canonical",
		Offer:     "0001-com-ubuntu-server-jammy",
		Sku:       "22_04-lts-gen2",
		Version:   "latest",
	}
	DefaultWindowsImage = ImageReference{
		Publisher: "MicrosoftWindowsServer",
		Offer:     "WindowsServer",
		Sku:       "2022-datacenter-azure-edition",
		Version:   "latest",
	}
)

// VmScaleSetBuilder accumulates scale-set configuration and yields the scale
// set plus any auxiliary resources on Build. Every setter overrides a default;
// Build validates the whole accumulated state at once.
type VmScaleSetBuilder struct {
	name                 string
	location             string
	capacity             *int
	profile              *VmProfile
	upgradeMode          UpgradeMode
	osUpgradeAutomatic   bool
	osUpgradeRollback    bool
	osUpgradeUseRolling  bool
	scaleInRule          ScaleInRule
	scaleInForceDeletion bool
	repairsGracePeriod   *time.Duration
	extensions           []Extension
	tags                 map[string]string
}

func NewVmScaleSet(name string) *VmScaleSetBuilder {
	return &VmScaleSetBuilder{
		name:        name,
		location:    arm.ResourceGroupLocation,
		upgradeMode: AutomaticUpgrade,
		scaleInRule: ScaleInDefault,
	}
}

func (b *VmScaleSetBuilder) Location(location string) *VmScaleSetBuilder {
	b.location = location
	return b
}

func (b *VmScaleSetBuilder) Capacity(n int) *VmScaleSetBuilder {
	b.capacity = &n
	return b
}

func (b *VmScaleSetBuilder) VmProfile(profile VmProfile) *VmScaleSetBuilder {
	b.profile = &profile
	return b
}

func (b *VmScaleSetBuilder) UpgradeMode(mode UpgradeMode) *VmScaleSetBuilder {
	b.upgradeMode = mode
	return b
}

// OsUpgradeAutomatic enables the automatic-OS-upgrade sub-policy. Only valid
// under Automatic or Rolling upgrade modes.
func (b *VmScaleSetBuilder) OsUpgradeAutomatic(rollback bool) *VmScaleSetBuilder {
	b.osUpgradeAutomatic = true
	b.osUpgradeRollback = rollback
	return b
}

// OsUpgradeRollingUpgrade makes OS upgrades follow the rolling-upgrade
// policy. Requires Rolling upgrade mode.
func (b *VmScaleSetBuilder) OsUpgradeRollingUpgrade() *VmScaleSetBuilder {
	b.osUpgradeUseRolling = true
	return b
}

func (b *VmScaleSetBuilder) ScaleInRule(rule ScaleInRule) *VmScaleSetBuilder {
	b.scaleInRule = rule
	return b
}

func (b *VmScaleSetBuilder) ScaleInForceDeletion() *VmScaleSetBuilder {
	b.scaleInForceDeletion = true
	return b
}

// AutomaticRepairsAfter enables the automatic-repairs policy with the given
// grace period.
func (b *VmScaleSetBuilder) AutomaticRepairsAfter(grace time.Duration) *VmScaleSetBuilder {
	b.repairsGracePeriod = &grace
	return b
}

func (b *VmScaleSetBuilder) AddExtensions(exts ...Extension) *VmScaleSetBuilder {
	b.extensions = append(b.extensions, exts...)
	return b
}

func (b *VmScaleSetBuilder) Tag(key, value string) *VmScaleSetBuilder {
	if b.tags == nil {
		b.tags = map[string]string{}
	}
	b.tags[key] = value
	return b
}

func (b *VmScaleSetBuilder) Build() (core.BuildResult, error) {
	name, err := core.NewResourceName(b.name)
	if err != nil {
		return core.BuildResult{}, fmt.Errorf("vm scale set: %w", err)
	}
	if b.profile == nil {
		return core.BuildResult{}, fmt.Errorf("vm scale set %s: vm profile is required", name)
	}

	var verr error
	if b.capacity != nil && *b.capacity < 0 {
		verr = multierr.Append(verr, fmt.Errorf("vm scale set %s: capacity %d must not be negative", name, *b.capacity))
	}
	if b.osUpgradeAutomatic && b.upgradeMode == ManualUpgrade {
		verr = multierr.Append(verr, fmt.Errorf("vm scale set %s: automatic OS upgrade is not supported under Manual upgrade mode", name))
	}
	if b.osUpgradeUseRolling && b.upgradeMode != RollingUpgrade {
		verr = multierr.Append(verr, fmt.Errorf("vm scale set %s: rolling OS upgrade requires Rolling upgrade mode, not %s", name, b.upgradeMode))
	}
	if b.scaleInForceDeletion && b.upgradeMode != RollingUpgrade {
		verr = multierr.Append(verr, fmt.Errorf("vm scale set %s: scale-in force deletion requires Rolling upgrade mode, not %s", name, b.upgradeMode))
	}
	if b.repairsGracePeriod != nil && *b.repairsGracePeriod < time.Second {
		verr = multierr.Append(verr, fmt.Errorf("vm scale set %s: repairs grace period %s must be at least one second", name, *b.repairsGracePeriod))
	}
	for _, ext := range b.extensions {
		if err := ext.validate(); err != nil {
			verr = multierr.Append(verr, fmt.Errorf("vm scale set %s: %w", name, err))
		}
	}

	profile := b.defaultedProfile(name)
	if _, ok := profile.Auth.(SshAuthentication); ok && profile.Os == Windows {
		verr = multierr.Append(verr, fmt.Errorf("vm scale set %s: ssh authentication is not supported on Windows", name))
	}
	if !profile.Subnet.IsZero() {
		// Linked names never touch NewResourceName on their way in, so check
		// them here before they reach a resourceId expression.
		if _, err := core.NewResourceName(profile.Subnet.Vnet.String()); err != nil {
			verr = multierr.Append(verr, fmt.Errorf("vm scale set %s: linked vnet: %w", name, err))
		}
		if _, err := core.NewResourceName(profile.Subnet.Subnet.String()); err != nil {
			verr = multierr.Append(verr, fmt.Errorf("vm scale set %s: linked subnet: %w", name, err))
		}
	}
	if verr != nil {
		return core.BuildResult{}, verr
	}

	scaleSet := &VmScaleSet{
		Name:     name,
		Location: b.location,
		Capacity: b.capacity,
		Profile:  profile,
		Upgrade: UpgradePolicy{
			Mode:                b.upgradeMode,
			OsUpgradeAutomatic:  b.osUpgradeAutomatic,
			OsUpgradeRollback:   b.osUpgradeRollback,
			OsUpgradeUseRolling: b.osUpgradeUseRolling,
		},
		ScaleIn: ScaleInPolicy{
			Rule:          b.scaleInRule,
			ForceDeletion: b.scaleInForceDeletion,
		},
		Extensions: b.extensions,
		Tags:       b.tags,
	}
	if b.repairsGracePeriod != nil {
		scaleSet.Repairs = &AutomaticRepairsPolicy{
			Enabled:     true,
			GracePeriod: isoDuration(*b.repairsGracePeriod),
		}
	}

	result := core.BuildResult{Resources: []core.Resource{scaleSet}}

	if profile.Subnet.IsZero() {
		// No linked network: fabricate a companion vnet and wire the scale
		// set to its default subnet.
		vnetName, err := core.NewResourceName(fmt.Sprintf("%s-vnet", name))
		if err != nil {
			return core.BuildResult{}, fmt.Errorf("vm scale set %s: %w", name, err)
		}
		subnetName, err := core.NewResourceName(fmt.Sprintf("%s-subnet", name))
		if err != nil {
			return core.BuildResult{}, fmt.Errorf("vm scale set %s: %w", name, err)
		}
		vnet := &VirtualNetwork{
			Name:     vnetName,
			Location: b.location,
			Subnets:  []Subnet{{Name: subnetName}},
		}
		scaleSet.SubnetId = vnet.SubnetId(subnetName)
		scaleSet.deps = append(scaleSet.deps, vnet.Id())
		result.Resources = append(result.Resources, vnet)
	} else {
		// Linked networks live outside this template: reference the subnet
		// without a dependency edge.
		scaleSet.SubnetId = core.NewResourceId(azure.Subnets, profile.Subnet.Vnet, profile.Subnet.Subnet)
	}

	if auth, ok := profile.Auth.(PasswordAuthentication); ok {
		if auth.Secret == "" {
			paramName := fmt.Sprintf("password-for-%s", name)
			scaleSet.AdminPassword = arm.Parameters(paramName)
			result.Parameters = append(result.Parameters, core.GeneratedParameter{
				Name:      paramName,
				Parameter: arm.Parameter{Type: "securestring"},
			})
		} else {
			scaleSet.AdminPassword = auth.Secret
		}
	}

	return result, nil
}

func (b *VmScaleSetBuilder) defaultedProfile(name core.ResourceName) VmProfile {
	profile := *b.profile
	if profile.Size == "" {
		profile.Size = DefaultVmSize
	}
	if profile.Image == (ImageReference{}) {
		profile.Image = DefaultLinuxImage
		if profile.Os == Windows {
			profile.Image = DefaultWindowsImage
		}
	}
	if profile.Disk.Caching == "" {
		profile.Disk.Caching = "ReadWrite"
	}
	if profile.Disk.StorageAccountType == "" {
		profile.Disk.StorageAccountType = "Standard_LRS"
	}
	if profile.AdminUsername == "" {
		profile.AdminUsername = DefaultAdminUsername
	}
	if profile.Auth == nil {
		profile.Auth = PasswordAuthentication{}
	}
	if profile.ComputerNamePrefix == "" {
		prefix := name.String()
		if profile.Os == Windows {
			profile.ComputerNamePrefix = sanitize.WindowsComputerNamePrefixSanitizer.Apply(prefix)
		} else {
			profile.ComputerNamePrefix = sanitize.LinuxComputerNamePrefixSanitizer.Apply(prefix)
		}
	}
	return profile
}

// isoDuration renders a duration as the ISO 8601 form the repairs policy
// expects, to seconds precision.
func isoDuration(d time.Duration) string {
	total := int(d.Seconds())
	minutes := total / 60
	seconds := total % 60
	switch {
	case seconds == 0 && minutes == 0:
		return "PT0S"
	case seconds == 0:
		return fmt.Sprintf("PT%dM", minutes)
	case minutes == 0:
		return fmt.Sprintf("PT%dS", seconds)
	}
	return fmt.Sprintf("PT%dM%dS", minutes, seconds)
}
