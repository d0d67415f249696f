package azure

import (
	"regexp"

	"github.com/armatureproject/armature/pkg/sanitization"
)

// Computer-name prefixes cannot contain most punctuation and are capped at 9
// characters on Windows and 58 on Linux.
var (
	WindowsComputerNamePrefixSanitizer = sanitization.NewSanitizer(
		[]sanitization.Rule{
			{
				Pattern:     regexp.MustCompile(`[^a-zA-Z0-9\-]`),
				Replacement: "",
			},
			// must not consist solely of digits
			{
				Pattern:     regexp.MustCompile(`^(\d+)$`),
				Replacement: "vm$1",
			},
		}, 9)

	LinuxComputerNamePrefixSanitizer = sanitization.NewSanitizer(
		[]sanitization.Rule{
			{
				Pattern:     regexp.MustCompile(`[^a-zA-Z0-9\-]`),
				Replacement: "",
			},
		}, 58)
)
