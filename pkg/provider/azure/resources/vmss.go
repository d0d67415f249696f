package resources

import (
	"fmt"

	"github.com/armatureproject/armature/pkg/arm"
	"github.com/armatureproject/armature/pkg/core"
	"github.com/armatureproject/armature/pkg/provider/azure"
)

type OsType int

const (
	Linux OsType = iota
	Windows
)

func (os OsType) String() string {
	switch os {
	case Linux:
		return "Linux"
	case Windows:
		return "Windows"
	}
	return fmt.Sprintf("OsType(%d)", int(os))
}

type UpgradeMode string

const (
	ManualUpgrade    UpgradeMode = "Manual"
	AutomaticUpgrade UpgradeMode = "Automatic"
	RollingUpgrade   UpgradeMode = "Rolling"
)

type ScaleInRule string

const (
	ScaleInDefault  ScaleInRule = "Default"
	ScaleInOldestVM ScaleInRule = "OldestVM"
	ScaleInNewestVM ScaleInRule = "NewestVM"
)

type (
	// Authentication is the admin credential variant for a VM profile.
	Authentication interface {
		isAuthentication()
	}

	// PasswordAuthentication with an empty Secret makes the builder emit a
	// securestring parameter and wire adminPassword to it; a non-empty Secret
	// is used verbatim and is expected to be an expression, never a literal.
	PasswordAuthentication struct {
		Secret string
	}

	SshAuthentication struct {
		PublicKeys []string
	}
)

func (PasswordAuthentication) isAuthentication() {}
func (SshAuthentication) isAuthentication() {}

type (
	ImageReference struct {
		Publisher string
		Offer     string
		Sku       string
		Version   string
	}

	OsDisk struct {
		Caching            string
		StorageAccountType string
	}

	// SubnetLink names an existing subnet outside this template. The zero
	// value means no link, which makes the builder fabricate a vnet.
	SubnetLink struct {
		Vnet   core.ResourceName
		Subnet core.ResourceName
	}

	VmProfile struct {
		Os                 OsType
		Size               string
		Image              ImageReference
		Disk               OsDisk
		AdminUsername      string
		Auth               Authentication
		ComputerNamePrefix string
		DiagnosticsEnabled bool
		Subnet             SubnetLink
	}
)

func (l SubnetLink) IsZero() bool {
	return l == SubnetLink{}
}

type (
	UpgradePolicy struct {
		Mode                UpgradeMode
		OsUpgradeAutomatic  bool
		OsUpgradeRollback   bool
		OsUpgradeUseRolling bool
	}

	ScaleInPolicy struct {
		Rule          ScaleInRule
		ForceDeletion bool
	}

	AutomaticRepairsPolicy struct {
		Enabled     bool
		GracePeriod string // ISO 8601 duration, e.g. PT10M
	}
)

// VmScaleSet is the fully-derived record: every field is resolved by the
// builder before projection, including the subnet identity and the admin
// password expression.
type VmScaleSet struct {
	Name          core.ResourceName
	Location      string
	Capacity      *int
	Profile       VmProfile
	Upgrade       UpgradePolicy
	ScaleIn       ScaleInPolicy
	Repairs       *AutomaticRepairsPolicy
	Extensions    []Extension
	Tags          map[string]string
	SubnetId      core.ResourceId
	AdminPassword string // expression, empty under ssh auth

	// deps carries the identities of template-managed resources this scale
	// set must wait on, e.g. an auto-created vnet.
	deps []core.ResourceId
}

func (s *VmScaleSet) Id() core.ResourceId {
	return core.NewResourceId(azure.VirtualMachineScaleSets, s.Name)
}

func (s *VmScaleSet) References() []core.ResourceId {
	return s.deps
}

type (
	vmScaleSetSku struct {
		Name     string `json:"name"`
		Capacity *int   `json:"capacity,omitempty"`
	}

	vmScaleSetProperties struct {
		UpgradePolicy          upgradePolicy           `json:"upgradePolicy"`
		ScaleInPolicy          scaleInPolicy           `json:"scaleInPolicy"`
		AutomaticRepairsPolicy *automaticRepairsPolicy `json:"automaticRepairsPolicy,omitempty"`
		VirtualMachineProfile  virtualMachineProfile   `json:"virtualMachineProfile"`
	}

	upgradePolicy struct {
		Mode                     string                    `json:"mode"`
		AutomaticOSUpgradePolicy *automaticOSUpgradePolicy `json:"automaticOSUpgradePolicy,omitempty"`
	}

	automaticOSUpgradePolicy struct {
		EnableAutomaticOSUpgrade bool `json:"enableAutomaticOSUpgrade"`
		DisableAutomaticRollback bool `json:"disableAutomaticRollback"`
		UseRollingUpgradePolicy  bool `json:"useRollingUpgradePolicy"`
	}

	scaleInPolicy struct {
		Rules         []string `json:"rules"`
		ForceDeletion bool     `json:"forceDeletion"`
	}

	automaticRepairsPolicy struct {
		Enabled     bool   `json:"enabled"`
		GracePeriod string `json:"gracePeriod"`
	}

	virtualMachineProfile struct {
		OsProfile          osProfile           `json:"osProfile"`
		StorageProfile     storageProfile      `json:"storageProfile"`
		NetworkProfile     networkProfile      `json:"networkProfile"`
		DiagnosticsProfile *diagnosticsProfile `json:"diagnosticsProfile,omitempty"`
		ExtensionProfile   *extensionProfile   `json:"extensionProfile,omitempty"`
	}

	osProfile struct {
		ComputerNamePrefix string              `json:"computerNamePrefix"`
		AdminUsername      string              `json:"adminUsername"`
		AdminPassword      string              `json:"adminPassword,omitempty"`
		LinuxConfiguration *linuxConfiguration `json:"linuxConfiguration,omitempty"`
	}

	linuxConfiguration struct {
		DisablePasswordAuthentication bool              `json:"disablePasswordAuthentication"`
		Ssh                           *sshConfiguration `json:"ssh,omitempty"`
	}

	sshConfiguration struct {
		PublicKeys []sshPublicKey `json:"publicKeys"`
	}

	sshPublicKey struct {
		Path    string `json:"path"`
		KeyData string `json:"keyData"`
	}

	storageProfile struct {
		ImageReference imageReference `json:"imageReference"`
		OsDisk         osDisk         `json:"osDisk"`
	}

	imageReference struct {
		Publisher string `json:"publisher"`
		Offer     string `json:"offer"`
		Sku       string `json:"sku"`
		Version   string `json:"version"`
	}

	osDisk struct {
		Caching      string      `json:"caching"`
		CreateOption string      `json:"createOption"`
		ManagedDisk  managedDisk `json:"managedDisk"`
	}

	managedDisk struct {
		StorageAccountType string `json:"storageAccountType"`
	}

	networkProfile struct {
		NetworkInterfaceConfigurations []nicConfiguration `json:"networkInterfaceConfigurations"`
	}

	nicConfiguration struct {
		Name       string        `json:"name"`
		Properties nicProperties `json:"properties"`
	}

	nicProperties struct {
		Primary          bool              `json:"primary"`
		IpConfigurations []ipConfiguration `json:"ipConfigurations"`
	}

	ipConfiguration struct {
		Name       string                    `json:"name"`
		Properties ipConfigurationProperties `json:"properties"`
	}

	ipConfigurationProperties struct {
		Subnet subnetRef `json:"subnet"`
	}

	subnetRef struct {
		Id string `json:"id"`
	}

	diagnosticsProfile struct {
		BootDiagnostics bootDiagnostics `json:"bootDiagnostics"`
	}

	bootDiagnostics struct {
		Enabled bool `json:"enabled"`
	}

	extensionProfile struct {
		Extensions []extensionEntry `json:"extensions"`
	}

	extensionEntry struct {
		Name       string              `json:"name"`
		Properties extensionProperties `json:"properties"`
	}

	extensionProperties struct {
		Publisher               string `json:"publisher"`
		Type                    string `json:"type"`
		TypeHandlerVersion      string `json:"typeHandlerVersion"`
		AutoUpgradeMinorVersion bool   `json:"autoUpgradeMinorVersion"`
		Settings                any    `json:"settings,omitempty"`
	}
)

func (s *VmScaleSet) Render() (*arm.Resource, error) {
	policy := upgradePolicy{Mode: string(s.Upgrade.Mode)}
	if s.Upgrade.OsUpgradeAutomatic || s.Upgrade.OsUpgradeUseRolling {
		policy.AutomaticOSUpgradePolicy = &automaticOSUpgradePolicy{
			EnableAutomaticOSUpgrade: s.Upgrade.OsUpgradeAutomatic,
			DisableAutomaticRollback: !s.Upgrade.OsUpgradeRollback,
			UseRollingUpgradePolicy:  s.Upgrade.OsUpgradeUseRolling,
		}
	}

	profile, err := s.renderProfile()
	if err != nil {
		return nil, err
	}

	var repairs *automaticRepairsPolicy
	if s.Repairs != nil {
		repairs = &automaticRepairsPolicy{Enabled: s.Repairs.Enabled, GracePeriod: s.Repairs.GracePeriod}
	}

	return &arm.Resource{
		Type:       azure.VirtualMachineScaleSets.Name,
		APIVersion: azure.VirtualMachineScaleSets.APIVersion,
		Name:       s.Id().Name(),
		Location:   s.Location,
		Tags:       s.Tags,
		Sku: vmScaleSetSku{
			Name:     s.Profile.Size,
			Capacity: s.Capacity,
		},
		Properties: vmScaleSetProperties{
			UpgradePolicy: policy,
			ScaleInPolicy: scaleInPolicy{
				Rules:         []string{string(s.ScaleIn.Rule)},
				ForceDeletion: s.ScaleIn.ForceDeletion,
			},
			AutomaticRepairsPolicy: repairs,
			VirtualMachineProfile:  *profile,
		},
	}, nil
}

func (s *VmScaleSet) renderProfile() (*virtualMachineProfile, error) {
	os := osProfile{
		ComputerNamePrefix: s.Profile.ComputerNamePrefix,
		AdminUsername:      s.Profile.AdminUsername,
	}
	switch auth := s.Profile.Auth.(type) {
	case PasswordAuthentication:
		os.AdminPassword = s.AdminPassword
	case SshAuthentication:
		keys := make([]sshPublicKey, len(auth.PublicKeys))
		for i, key := range auth.PublicKeys {
			keys[i] = sshPublicKey{
				Path:    fmt.Sprintf("/home/%s/.ssh/authorized_keys", s.Profile.AdminUsername),
				KeyData: key,
			}
		}
		os.LinuxConfiguration = &linuxConfiguration{
			DisablePasswordAuthentication: true,
			Ssh:                           &sshConfiguration{PublicKeys: keys},
		}
	default:
		return nil, fmt.Errorf("vm scale set %s: unsupported authentication variant %T", s.Name, s.Profile.Auth)
	}

	profile := &virtualMachineProfile{
		OsProfile: os,
		StorageProfile: storageProfile{
			ImageReference: imageReference(s.Profile.Image),
			OsDisk: osDisk{
				Caching:      s.Profile.Disk.Caching,
				CreateOption: "FromImage",
				ManagedDisk:  managedDisk{StorageAccountType: s.Profile.Disk.StorageAccountType},
			},
		},
		NetworkProfile: networkProfile{
			NetworkInterfaceConfigurations: []nicConfiguration{{
				Name: fmt.Sprintf("%s-nic", s.Name),
				Properties: nicProperties{
					Primary: true,
					IpConfigurations: []ipConfiguration{{
						Name: fmt.Sprintf("%s-ipconfig", s.Name),
						Properties: ipConfigurationProperties{
							Subnet: subnetRef{Id: s.SubnetId.Expression()},
						},
					}},
				},
			}},
		},
	}
	if s.Profile.DiagnosticsEnabled {
		profile.DiagnosticsProfile = &diagnosticsProfile{BootDiagnostics: bootDiagnostics{Enabled: true}}
	}
	if len(s.Extensions) > 0 {
		entries := make([]extensionEntry, len(s.Extensions))
		for i, ext := range s.Extensions {
			entry, err := ext.render(s.Profile.Os)
			if err != nil {
				return nil, fmt.Errorf("vm scale set %s: %w", s.Name, err)
			}
			entries[i] = entry
		}
		profile.ExtensionProfile = &extensionProfile{Extensions: entries}
	}
	return profile, nil
}
