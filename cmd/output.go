// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"io"
	"net/netip"

	"github.com/telekom/switch-dns/pkg/dnsconf"
	"github.com/telekom/switch-dns/pkg/switcher"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var tiers = []dnsconf.Tier{dnsconf.Primary, dnsconf.Reserve}

// printSet lists the populated slots, IPv6 first:
//
//	IPv6 Primary DNS: 2606:4700:4700::1111
func printSet(w io.Writer, set dnsconf.AddressSet) {
	servers := make(map[dnsconf.Family][]netip.Addr, len(dnsconf.Families()))
	for _, f := range dnsconf.Families() {
		servers[f] = set.Servers(f)
	}
	printServers(w, servers)
}

// printServers lists the servers of each family by their tier, IPv6 first.
// Entries beyond the reserve slot are labelled by their index.
func printServers(w io.Writer, servers map[dnsconf.Family][]netip.Addr) {
	empty := true
	for _, f := range dnsconf.Families() {
		for i, addr := range servers[f] {
			empty = false
			_, _ = fmt.Fprintf(w, "%s %s DNS: %s\n", f.Label(), dnsconf.Tier(i+1), addr)
		}
	}
	if empty {
		_, _ = fmt.Fprintln(w, "No static DNS servers configured")
	}
}

// printGroups lists the group names in title case
func printGroups(w io.Writer, names []string) {
	title := cases.Title(language.Und)
	for _, n := range names {
		_, _ = fmt.Fprintln(w, title.String(n))
	}
}

// printResult reports the slots in the scope of a change, limited to only if given
func printResult(w io.Writer, res switcher.Result, only ...dnsconf.Tier) {
	show := tiers
	if len(only) > 0 {
		show = only
	}
	for _, f := range res.Scope.Families() {
		for _, t := range show {
			prior, want, active := res.Prior.Slot(f, t), res.Requested.Slot(f, t), res.Active.Slot(f, t)
			label := fmt.Sprintf("%s %s DNS", f.Label(), t)
			switch {
			case !want.IsValid() && !prior.IsValid():
				continue
			case want == prior:
				_, _ = fmt.Fprintf(w, "%s already set to %s\n", label, want)
			case !want.IsValid() && !active.IsValid():
				_, _ = fmt.Fprintf(w, "Reverted %s to automatic (was %s)\n", label, prior)
			case want == active:
				_, _ = fmt.Fprintf(w, "Configured %s to %s\n", label, want)
			default:
				_, _ = fmt.Fprintf(w, "%s not set correctly\n", label)
			}
		}
	}
}
