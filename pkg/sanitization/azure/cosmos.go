package azure

import (
	"regexp"

	"github.com/armatureproject/armature/pkg/sanitization"
)

// DatabaseAccountSanitizer shapes a name into the lowercase
// alphanumeric-and-hyphen form account names require (3-44 characters).
// Callers lowercase the input first; regexp rules cannot.
var DatabaseAccountSanitizer = sanitization.NewSanitizer(
	[]sanitization.Rule{
		{
			Pattern:     regexp.MustCompile(`[^a-z0-9\-]`),
			Replacement: "",
		},
		// must not start or end with a hyphen
		{
			Pattern:     regexp.MustCompile(`^-+`),
			Replacement: "",
		},
		{
			Pattern:     regexp.MustCompile(`-+$`),
			Replacement: "",
		},
	}, 44)
