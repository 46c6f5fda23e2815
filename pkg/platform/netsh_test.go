// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package platform

import (
	"context"
	"errors"
	"net"
	"net/netip"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/telekom/switch-dns/pkg/dnsconf"
)

const netshStatic = `
Configuration for interface "Wi-Fi"
    Statically Configured DNS Servers:    1.1.1.1
                                          1.0.0.1
    Register with which suffix:           Primary only

`

const netshStaticIPv6 = `
Configuration for interface "Wi-Fi"
    Statically Configured DNS Servers:    2606:4700:4700::1111
                                          2606:4700:4700::1001
    Register with which suffix:           Primary only

`

const netshDHCP = `
Configuration for interface "Wi-Fi"
    DNS servers configured through DHCP:  192.168.1.1
    Register with which suffix:           Primary only

`

const netshNone = `
Configuration for interface "Wi-Fi"
    Statically Configured DNS Servers:    None
    Register with which suffix:           Primary only

`

func TestParseNetshServers(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want []netip.Addr
	}{
		{
			name: "static ipv4",
			out:  netshStatic,
			want: []netip.Addr{netip.MustParseAddr("1.1.1.1"), netip.MustParseAddr("1.0.0.1")},
		},
		{
			name: "static ipv6",
			out:  netshStaticIPv6,
			want: []netip.Addr{netip.MustParseAddr("2606:4700:4700::1111"), netip.MustParseAddr("2606:4700:4700::1001")},
		},
		{
			name: "dhcp servers are automatic",
			out:  netshDHCP,
			want: nil,
		},
		{
			name: "no servers",
			out:  netshNone,
			want: nil,
		},
		{
			name: "empty output",
			out:  "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseNetshServers([]byte(tt.out)))
		})
	}
}

type recordedRun struct {
	calls   []string
	outputs map[string]string
	errs    map[string]error
}

func (r *recordedRun) run(_ context.Context, name string, args ...string) ([]byte, error) {
	call := name + " " + strings.Join(args, " ")
	r.calls = append(r.calls, call)
	for prefix, err := range r.errs {
		if strings.HasPrefix(call, prefix) {
			return []byte(r.outputs[prefix]), err
		}
	}
	for prefix, out := range r.outputs {
		if strings.HasPrefix(call, prefix) {
			return []byte(out), nil
		}
	}
	return nil, nil
}

func newTestNetsh(r *recordedRun) *Netsh {
	return &Netsh{
		run: r.run,
		lookup: func(name string) (*net.Interface, error) {
			if name != "Wi-Fi" {
				return nil, dnsconf.ErrInterfaceNotFound
			}
			return &net.Interface{Name: name}, nil
		},
	}
}

func TestNetsh_Servers(t *testing.T) {
	r := &recordedRun{outputs: map[string]string{"netsh interface ipv4 show": netshStatic}}
	n := newTestNetsh(r)

	got, err := n.Servers(t.Context(), "Wi-Fi", dnsconf.IPv4)
	require.NoError(t, err)
	assert.Equal(t, []netip.Addr{netip.MustParseAddr("1.1.1.1"), netip.MustParseAddr("1.0.0.1")}, got)
	assert.Equal(t, []string{"netsh interface ipv4 show dnsservers name=Wi-Fi"}, r.calls)

	_, err = n.Servers(t.Context(), "Ethernet 7", dnsconf.IPv4)
	assert.ErrorIs(t, err, dnsconf.ErrInterfaceNotFound)
}

func TestNetsh_SetServers(t *testing.T) {
	tests := []struct {
		name    string
		family  dnsconf.Family
		servers []netip.Addr
		want    []string
	}{
		{
			name:    "primary and reserve",
			family:  dnsconf.IPv4,
			servers: []netip.Addr{netip.MustParseAddr("9.9.9.9"), netip.MustParseAddr("149.112.112.112")},
			want: []string{
				"netsh interface ipv4 set dnsservers name=Wi-Fi source=static address=9.9.9.9 register=primary validate=no",
				"netsh interface ipv4 add dnsservers name=Wi-Fi address=149.112.112.112 index=2 validate=no",
			},
		},
		{
			name:    "primary only",
			family:  dnsconf.IPv6,
			servers: []netip.Addr{netip.MustParseAddr("2620:fe::fe")},
			want: []string{
				"netsh interface ipv6 set dnsservers name=Wi-Fi source=static address=2620:fe::fe register=primary validate=no",
			},
		},
		{
			name:   "revert to dhcp",
			family: dnsconf.IPv4,
			want: []string{
				"netsh interface ipv4 set dnsservers name=Wi-Fi source=dhcp",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &recordedRun{}
			err := newTestNetsh(r).SetServers(t.Context(), "Wi-Fi", tt.family, tt.servers)
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.calls)
		})
	}
}

func TestNetsh_SetServers_errors(t *testing.T) {
	exitErr := errors.New("exit status 1")
	tests := []struct {
		name    string
		output  string
		wantErr error
	}{
		{"elevation required", "The requested operation requires elevation (Run as administrator).", dnsconf.ErrPrivilege},
		{"unknown interface", "The filename, directory name, or volume label syntax is incorrect.", dnsconf.ErrInterfaceNotFound},
		{"other failure", "The parameter is incorrect.", exitErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &recordedRun{
				outputs: map[string]string{"netsh": tt.output},
				errs:    map[string]error{"netsh": exitErr},
			}
			err := newTestNetsh(r).SetServers(t.Context(), "Wi-Fi", dnsconf.IPv4, []netip.Addr{netip.MustParseAddr("9.9.9.9")})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
