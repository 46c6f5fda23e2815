// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"github.com/telekom/switch-dns/pkg/config"
	"github.com/telekom/switch-dns/pkg/dnsconf"
	"github.com/telekom/switch-dns/pkg/switcher"
)

type setFlags struct {
	ipv4   bool
	ipv6   bool
	group  bool
	single bool
}

// NewCmdSet creates a new set command
func NewCmdSet() *cobra.Command {
	var flags setFlags

	cmd := &cobra.Command{
		Use:   "set [-4|-6|-G] <group|/prev|/curr>\n  set -S <ipv4|ipv6> <tier> <address>",
		Short: "Set DNS servers (requires elevated privileges)",
		Long: "Set the DNS servers of the interface to a group, both families by default.\n" +
			"/prev restores the servers replaced by the last change.\n" +
			"With -S a single server is set; tier is primary, reserve or the index 1 or 2.",
		Args: func(cmd *cobra.Command, args []string) error {
			if flags.single {
				return cobra.ExactArgs(3)(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.single {
				return withSwitcher(runSetSingle(args[0], args[1], args[2]))(cmd, args)
			}
			return withSwitcher(runSet(args[0], flags.scope()))(cmd, args)
		},
	}

	cmd.Flags().BoolVarP(&flags.ipv4, "ipv4", "4", false, "set IPv4 servers only")
	cmd.Flags().BoolVarP(&flags.ipv6, "ipv6", "6", false, "set IPv6 servers only")
	cmd.Flags().BoolVarP(&flags.group, "group", "G", false, "set IPv4 and IPv6 servers (default)")
	cmd.Flags().BoolVarP(&flags.single, "single", "S", false, "set a single DNS server")
	cmd.MarkFlagsMutuallyExclusive("ipv4", "ipv6", "group", "single")

	return cmd
}

func (f setFlags) scope() dnsconf.Scope {
	switch {
	case f.ipv4:
		return dnsconf.ScopeIPv4
	case f.ipv6:
		return dnsconf.ScopeIPv6
	default:
		return dnsconf.ScopeBoth
	}
}

func runSet(token string, scope dnsconf.Scope) runFunc {
	return func(ctx context.Context, cmd *cobra.Command, cfg *config.Config, sw *switcher.Switcher) error {
		res, err := sw.Set(ctx, token, scope)
		report(cmd, cfg, res, err)
		return err
	}
}

func runSetSingle(family, tier, address string) runFunc {
	return func(ctx context.Context, cmd *cobra.Command, cfg *config.Config, sw *switcher.Switcher) error {
		f, err := dnsconf.ParseFamily(family)
		if err != nil {
			return err
		}
		t, err := dnsconf.ParseTier(tier)
		if err != nil {
			return err
		}
		addr, err := dnsconf.ParseAddr(f, address)
		if err != nil {
			return err
		}

		res, err := sw.SetSingle(ctx, f, t, addr)
		report(cmd, cfg, res, err, t)
		return err
	}
}

// report prints the result of a change unless quiet.
// Nothing is printed if the change failed before anything was written.
func report(cmd *cobra.Command, cfg *config.Config, res switcher.Result, err error, only ...dnsconf.Tier) {
	if cfg.Quiet {
		return
	}
	if err == nil || res.Changed || errors.Is(err, dnsconf.ErrNotApplied) {
		printResult(cmd.OutOrStdout(), res, only...)
	}
}
