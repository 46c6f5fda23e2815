// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package dnsconf

import (
	"fmt"
	"net/netip"
	"strconv"
	"strings"
)

// Family is an IP address family of DNS servers.
type Family string

const (
	IPv4 Family = "ipv4"
	IPv6 Family = "ipv6"
)

// Families returns all families in the order they are displayed.
func Families() []Family {
	return []Family{IPv6, IPv4}
}

// ParseFamily parses "ipv4", "ipv6", "4", "6", "v4" and "v6", ignoring case.
func ParseFamily(s string) (Family, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ipv4", "v4", "4":
		return IPv4, nil
	case "ipv6", "v6", "6":
		return IPv6, nil
	default:
		return "", fmt.Errorf("unknown ip version %q, must be ipv4 or ipv6", s)
	}
}

// Label returns the display label of the family, e.g. "IPv4".
func (f Family) Label() string {
	switch f {
	case IPv4:
		return "IPv4"
	case IPv6:
		return "IPv6"
	default:
		return string(f)
	}
}

// Matches reports whether addr belongs to the family.
// IPv4-mapped IPv6 addresses are treated as IPv4.
func (f Family) Matches(addr netip.Addr) bool {
	switch f {
	case IPv4:
		return addr.Unmap().Is4()
	case IPv6:
		return addr.Is6() && !addr.Is4In6()
	default:
		return false
	}
}

// Scope returns the scope covering only f.
func (f Family) Scope() Scope {
	switch f {
	case IPv4:
		return ScopeIPv4
	case IPv6:
		return ScopeIPv6
	default:
		return ""
	}
}

// Scope selects the address families an operation acts on.
type Scope string

const (
	ScopeIPv4 Scope = "ipv4"
	ScopeIPv6 Scope = "ipv6"
	ScopeBoth Scope = "both"
)

// Families returns the families covered by the scope.
func (s Scope) Families() []Family {
	switch s {
	case ScopeIPv4:
		return []Family{IPv4}
	case ScopeIPv6:
		return []Family{IPv6}
	case ScopeBoth:
		return Families()
	default:
		return nil
	}
}

// Includes reports whether the scope covers f.
func (s Scope) Includes(f Family) bool {
	for _, sf := range s.Families() {
		if sf == f {
			return true
		}
	}
	return false
}

// Restrict narrows the scope to the families populated in a.
// The second return value is false if nothing is left.
func (s Scope) Restrict(a AddressSet) (Scope, bool) {
	v4 := s.Includes(IPv4) && a.Has(IPv4)
	v6 := s.Includes(IPv6) && a.Has(IPv6)
	switch {
	case v4 && v6:
		return ScopeBoth, true
	case v4:
		return ScopeIPv4, true
	case v6:
		return ScopeIPv6, true
	default:
		return "", false
	}
}

// AddressSet is the four slot DNS server configuration of an interface.
// A zero netip.Addr marks an absent slot.
type AddressSet struct {
	IPv4Primary   netip.Addr
	IPv4Secondary netip.Addr
	IPv6Primary   netip.Addr
	IPv6Secondary netip.Addr
}

// FamilyServers returns the servers of f in their original order.
// IPv4-mapped IPv6 addresses are returned as IPv4.
func FamilyServers(f Family, servers []netip.Addr) []netip.Addr {
	var list []netip.Addr
	for _, s := range servers {
		if !f.Matches(s) {
			continue
		}
		if f == IPv4 {
			s = s.Unmap()
		}
		list = append(list, s)
	}
	return list
}

// FromServers builds an address set for one family from an ordered server list.
// Servers beyond the second and servers of the other family are ignored.
func FromServers(f Family, servers []netip.Addr) AddressSet {
	var a AddressSet
	pair := append(FamilyServers(f, servers), netip.Addr{}, netip.Addr{})
	a.SetPair(f, pair[0], pair[1])
	return a
}

// Pair returns the primary and secondary slot of f.
func (a AddressSet) Pair(f Family) (primary, secondary netip.Addr) {
	switch f {
	case IPv4:
		return a.IPv4Primary, a.IPv4Secondary
	case IPv6:
		return a.IPv6Primary, a.IPv6Secondary
	default:
		return netip.Addr{}, netip.Addr{}
	}
}

// SetPair overwrites both slots of f.
func (a *AddressSet) SetPair(f Family, primary, secondary netip.Addr) {
	switch f {
	case IPv4:
		a.IPv4Primary, a.IPv4Secondary = primary, secondary
	case IPv6:
		a.IPv6Primary, a.IPv6Secondary = primary, secondary
	}
}

// Slot returns the address at the given tier of f.
func (a AddressSet) Slot(f Family, t Tier) netip.Addr {
	p, s := a.Pair(f)
	switch t {
	case Primary:
		return p
	case Reserve:
		return s
	default:
		return netip.Addr{}
	}
}

// Servers returns the populated slots of f in priority order.
func (a AddressSet) Servers(f Family) []netip.Addr {
	p, s := a.Pair(f)
	var servers []netip.Addr
	for _, addr := range []netip.Addr{p, s} {
		if addr.IsValid() {
			servers = append(servers, addr)
		}
	}
	return servers
}

// Has reports whether any slot of f is populated.
func (a AddressSet) Has(f Family) bool {
	p, s := a.Pair(f)
	return p.IsValid() || s.IsValid()
}

// IsEmpty reports whether no slot is populated.
func (a AddressSet) IsEmpty() bool {
	return !a.Has(IPv4) && !a.Has(IPv6)
}

// With returns a copy of a whose f slots are taken from other.
func (a AddressSet) With(f Family, other AddressSet) AddressSet {
	p, s := other.Pair(f)
	a.SetPair(f, p, s)
	return a
}

// Equal reports whether both sets hold the same addresses in the given scope.
func (a AddressSet) Equal(b AddressSet, scope Scope) bool {
	for _, f := range scope.Families() {
		ap, as := a.Pair(f)
		bp, bs := b.Pair(f)
		if ap != bp || as != bs {
			return false
		}
	}
	return true
}

// Validate checks that every populated slot holds an address of its family.
func (a AddressSet) Validate() error {
	for _, f := range Families() {
		p, s := a.Pair(f)
		for _, addr := range []netip.Addr{p, s} {
			if addr.IsValid() && !f.Matches(addr) {
				return fmt.Errorf("%w: %s is not an %s address", ErrInvalidAddress, addr, f.Label())
			}
		}
		if !p.IsValid() && s.IsValid() {
			return fmt.Errorf("%w: %s reserve server %s set without a primary", ErrInvalidAddress, f.Label(), s)
		}
	}
	return nil
}

// ParseAddr parses s as a DNS server address of family f.
func ParseAddr(f Family, s string) (netip.Addr, error) {
	addr, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil {
		return netip.Addr{}, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	if !f.Matches(addr) {
		return netip.Addr{}, fmt.Errorf("%w: %s is not an %s address", ErrInvalidAddress, addr, f.Label())
	}
	if f == IPv4 {
		addr = addr.Unmap()
	}
	return addr, nil
}

// Tier is the one-based index of a server in a family's list.
type Tier int

const (
	Primary Tier = 1
	Reserve Tier = 2
)

// ParseTier parses "primary", "reserve", "secondary" or a positive index.
func ParseTier(s string) (Tier, error) {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "primary":
		return Primary, nil
	case "reserve", "secondary":
		return Reserve, nil
	default:
		i, err := strconv.Atoi(v)
		if err != nil || i < 1 {
			return 0, fmt.Errorf("tier %q not recognized", s)
		}
		return Tier(i), nil
	}
}

func (t Tier) String() string {
	switch t {
	case Primary:
		return "Primary"
	case Reserve:
		return "Reserve"
	default:
		return fmt.Sprintf("Index %d", int(t))
	}
}
