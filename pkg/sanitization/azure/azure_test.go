package azure

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_WindowsComputerNamePrefixSanitizer(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "strips punctuation", in: "my_app.web", want: "myappweb"},
		{name: "truncates to nine", in: "a-very-long-name", want: "a-very-lo"},
		{name: "digits only gains prefix", in: "12345", want: "vm12345"},
		{name: "hyphens kept", in: "web-1", want: "web-1"},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WindowsComputerNamePrefixSanitizer.Apply(tt.in))
		})
	}
}

func Test_LinuxComputerNamePrefixSanitizer(t *testing.T) {
	assert.Equal(t, "myappweb", LinuxComputerNamePrefixSanitizer.Apply("my_app.web"))

	long := strings.Repeat("a", 80)
	assert.Len(t, LinuxComputerNamePrefixSanitizer.Apply(long), 58)
}

func Test_DatabaseAccountSanitizer(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "strips invalid runes", in: "shop_data.2024", want: "shopdata2024"},
		{name: "trims leading hyphens", in: "--shop", want: "shop"},
		{name: "trims trailing hyphens", in: "shop--", want: "shop"},
		{name: "truncates to 44", in: strings.Repeat("a", 60), want: strings.Repeat("a", 44)},
		{name: "no trailing hyphen after truncation", in: strings.Repeat("a", 43) + "-bbb", want: strings.Repeat("a", 43)},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DatabaseAccountSanitizer.Apply(tt.in))
		})
	}
}
