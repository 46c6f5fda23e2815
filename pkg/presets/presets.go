// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package presets

import (
	"fmt"
	"maps"
	"net/netip"
	"slices"
	"strings"

	"github.com/telekom/switch-dns/pkg/dnsconf"
)

// Group is the configuration representation of a named address set.
// Each family holds at most a primary and a reserve server.
type Group struct {
	IPv4 []string `yaml:"ipv4" mapstructure:"ipv4"`
	IPv6 []string `yaml:"ipv6" mapstructure:"ipv6"`
}

// builtin holds the groups every table starts with.
var builtin = map[string]dnsconf.AddressSet{
	"cloudflare": must("1.1.1.1", "1.0.0.1", "2606:4700:4700::1111", "2606:4700:4700::1001"),
	"quad9":      must("9.9.9.9", "149.112.112.112", "2620:fe::fe", "2620:fe::9"),
	"google":     must("8.8.8.8", "8.8.4.4", "2001:4860:4860::8888", "2001:4860:4860::8844"),
	"opendns":    must("208.67.222.222", "208.67.220.220", "2620:119:35::35", "2620:119:53::53"),
	"adguard":    must("94.140.14.14", "94.140.15.15", "2a10:50c0::ad1:ff", "2a10:50c0::ad2:ff"),
}

// Table maps group names to address sets. It is not modified after creation.
type Table struct {
	groups map[string]dnsconf.AddressSet
}

// Builtin returns a table holding only the built-in groups.
func Builtin() *Table {
	return &Table{groups: maps.Clone(builtin)}
}

// New returns a table of the built-in groups extended by custom groups.
// A custom group with the name of a built-in one replaces it.
func New(custom map[string]Group) (*Table, error) {
	t := Builtin()
	for name, g := range custom {
		key := normalize(name)
		if err := validateName(name); err != nil {
			return nil, err
		}
		set, err := g.AddressSet()
		if err != nil {
			return nil, ErrInvalidGroup{Name: name, Reason: err.Error()}
		}
		t.groups[key] = set
	}
	return t, nil
}

// Lookup returns the address set of the named group.
// Names are matched case-insensitively.
func (t *Table) Lookup(name string) (dnsconf.AddressSet, bool) {
	set, ok := t.groups[normalize(name)]
	return set, ok
}

// Names returns the sorted group names.
func (t *Table) Names() []string {
	return slices.Sorted(maps.Keys(t.groups))
}

// AddressSet converts the group into an address set.
func (g Group) AddressSet() (dnsconf.AddressSet, error) {
	var set dnsconf.AddressSet
	for f, raw := range map[dnsconf.Family][]string{dnsconf.IPv4: g.IPv4, dnsconf.IPv6: g.IPv6} {
		if len(raw) > 2 {
			return set, fmt.Errorf("%s holds %d servers, at most 2 are supported", f.Label(), len(raw))
		}
		servers := make([]netip.Addr, 0, len(raw))
		for _, s := range raw {
			addr, err := dnsconf.ParseAddr(f, s)
			if err != nil {
				return set, err
			}
			servers = append(servers, addr)
		}
		set = set.With(f, dnsconf.FromServers(f, servers))
	}
	if set.IsEmpty() {
		return set, fmt.Errorf("group has no servers")
	}
	return set, nil
}

// Validate checks that the group converts into a non-empty address set.
func (g Group) Validate() error {
	_, err := g.AddressSet()
	return err
}

// validateName rejects names that cannot be typed as a single group token
// or that collide with the /curr, /prev and /groups markers.
func validateName(name string) error {
	key := normalize(name)
	switch {
	case key == "":
		return ErrInvalidGroup{Name: name, Reason: "name must not be empty"}
	case strings.HasPrefix(key, "/"):
		return ErrInvalidGroup{Name: name, Reason: "name must not start with '/'"}
	case strings.ContainsAny(key, " \t\n"):
		return ErrInvalidGroup{Name: name, Reason: "name must not contain whitespace"}
	}
	return nil
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func must(v4p, v4s, v6p, v6s string) dnsconf.AddressSet {
	return dnsconf.AddressSet{
		IPv4Primary:   netip.MustParseAddr(v4p),
		IPv4Secondary: netip.MustParseAddr(v4s),
		IPv6Primary:   netip.MustParseAddr(v6p),
		IPv6Secondary: netip.MustParseAddr(v6s),
	}
}
