package resources

import (
	"fmt"
)

type HealthProtocol string

const (
	HealthHttp  HealthProtocol = "http"
	HealthHttps HealthProtocol = "https"
	HealthTcp   HealthProtocol = "tcp"
)

type (
	// Extension is a scale-set extension appended under the VM profile. Each
	// variant validates its own fields and picks the handler matching the
	// profile's OS.
	Extension interface {
		ExtensionName() string
		validate() error
		render(os OsType) (extensionEntry, error)
	}

	ApplicationHealthExtension struct {
		Protocol    HealthProtocol
		Port        int
		RequestPath string
	}
)

func (ext ApplicationHealthExtension) ExtensionName() string {
	return "HealthExtension"
}

func (ext ApplicationHealthExtension) validate() error {
	if ext.Port < 1 || ext.Port > 65535 {
		return fmt.Errorf("health extension port %d out of range", ext.Port)
	}
	switch ext.Protocol {
	case HealthHttp, HealthHttps:
		if ext.RequestPath == "" {
			return fmt.Errorf("health extension with %s protocol requires a request path", ext.Protocol)
		}
	case HealthTcp:
	default:
		return fmt.Errorf("unknown health extension protocol %q", ext.Protocol)
	}
	return nil
}

type healthExtensionSettings struct {
	Protocol    string `json:"protocol"`
	Port        int    `json:"port"`
	RequestPath string `json:"requestPath,omitempty"`
}

func (ext ApplicationHealthExtension) render(os OsType) (extensionEntry, error) {
	handler := "ApplicationHealthLinux"
	if os == Windows {
		handler = "ApplicationHealthWindows"
	}
	return extensionEntry{
		Name: ext.ExtensionName(),
		Properties: extensionProperties{
			Publisher:               "Microsoft.ManagedServices",
			Type:                    handler,
			TypeHandlerVersion:      "1.0",
			AutoUpgradeMinorVersion: true,
			Settings: healthExtensionSettings{
				Protocol:    string(ext.Protocol),
				Port:        ext.Port,
				RequestPath: ext.RequestPath,
			},
		},
	}, nil
}
