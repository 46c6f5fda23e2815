// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package platform

import (
	"net"
	"net/netip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/telekom/switch-dns/pkg/dnsconf"
)

const testResolvConf = `# Generated by hand
# second comment line
search example.com
nameserver 192.168.1.1
nameserver fd00::1
options edns0
`

func newTestResolvConf(t *testing.T, content string) *ResolvConf {
	t.Helper()
	path := filepath.Join(t.TempDir(), "resolv.conf")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	r := NewResolvConf(path)
	r.lookup = func(name string) (*net.Interface, error) {
		if name != "eth0" {
			return nil, dnsconf.ErrInterfaceNotFound
		}
		return &net.Interface{Name: name}, nil
	}
	return r
}

func TestResolvConf_Servers(t *testing.T) {
	r := newTestResolvConf(t, testResolvConf)

	got, err := r.Servers(t.Context(), "eth0", dnsconf.IPv4)
	require.NoError(t, err)
	assert.Equal(t, []netip.Addr{netip.MustParseAddr("192.168.1.1")}, got)

	got, err = r.Servers(t.Context(), "eth0", dnsconf.IPv6)
	require.NoError(t, err)
	assert.Equal(t, []netip.Addr{netip.MustParseAddr("fd00::1")}, got)

	_, err = r.Servers(t.Context(), "wlan9", dnsconf.IPv4)
	assert.ErrorIs(t, err, dnsconf.ErrInterfaceNotFound)
}

func TestResolvConf_SetServers(t *testing.T) {
	tests := []struct {
		name    string
		family  dnsconf.Family
		servers []netip.Addr
		want    string
	}{
		{
			name:    "replace ipv4 keeps ipv6",
			family:  dnsconf.IPv4,
			servers: []netip.Addr{netip.MustParseAddr("9.9.9.9"), netip.MustParseAddr("149.112.112.112")},
			want: `# Generated by hand
# second comment line
search example.com
nameserver 9.9.9.9
nameserver 149.112.112.112
nameserver fd00::1
options edns0
`,
		},
		{
			name:    "replace ipv6 keeps ipv4 first",
			family:  dnsconf.IPv6,
			servers: []netip.Addr{netip.MustParseAddr("2620:fe::fe")},
			want: `# Generated by hand
# second comment line
search example.com
nameserver 192.168.1.1
nameserver 2620:fe::fe
options edns0
`,
		},
		{
			name:   "remove ipv6",
			family: dnsconf.IPv6,
			want: `# Generated by hand
# second comment line
search example.com
nameserver 192.168.1.1
options edns0
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestResolvConf(t, testResolvConf)

			err := r.SetServers(t.Context(), "eth0", tt.family, tt.servers)
			require.NoError(t, err)

			b, err := os.ReadFile(r.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(b))

			got, err := r.Servers(t.Context(), "eth0", tt.family)
			require.NoError(t, err)
			assert.Equal(t, tt.servers, got)
		})
	}
}

func TestRewriteNameservers_noNameservers(t *testing.T) {
	content := "# header\nsearch lan\n"
	got := rewriteNameservers([]byte(content), []netip.Addr{netip.MustParseAddr("1.1.1.1")})
	assert.Equal(t, "# header\nnameserver 1.1.1.1\nsearch lan\n", string(got))

	got = rewriteNameservers(nil, []netip.Addr{netip.MustParseAddr("1.1.1.1")})
	assert.Equal(t, "nameserver 1.1.1.1\n", string(got))
}

func TestResolvConfManagerHint(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"systemd-resolved stub", "# This is /run/systemd/resolve/stub-resolv.conf managed by man:systemd-resolved(8).\nnameserver 127.0.0.53\n", BackendResolved},
		{"network manager", "# Generated by NetworkManager\nnameserver 192.168.1.1\n", BackendNetworkManager},
		{"resolvconf", "# Dynamic resolv.conf(5) file for glibc resolver(3) generated by resolvconf(8)\n", BackendResolvConf},
		{"hand written", "nameserver 1.1.1.1\n# NetworkManager\n", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolvConfManagerHint(strings.NewReader(tt.content)))
		})
	}
}
