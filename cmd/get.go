// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/telekom/switch-dns/pkg/config"
	"github.com/telekom/switch-dns/pkg/switcher"
)

// NewCmdGet creates a new get command
func NewCmdGet() *cobra.Command {
	return &cobra.Command{
		Use:   "get [/curr | /prev | /groups | <group>]",
		Short: "Show DNS servers",
		Long: "Show the DNS servers currently set on the interface (/curr, the default),\n" +
			"the ones replaced by the last change (/prev), the names of all groups (/groups)\n" +
			"or the servers of a group.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token := switcher.Current
			if len(args) == 1 {
				token = args[0]
			}
			return withSwitcher(runGet(token))(cmd, args)
		},
	}
}

func runGet(token string) runFunc {
	return func(ctx context.Context, cmd *cobra.Command, _ *config.Config, sw *switcher.Switcher) error {
		out := cmd.OutOrStdout()
		switch strings.ToLower(strings.TrimSpace(token)) {
		case switcher.Current:
			servers, err := sw.Servers(ctx)
			if err != nil {
				return err
			}
			printServers(out, servers)
			return nil
		case switcher.GroupsList:
			printGroups(out, sw.Groups())
			return nil
		case switcher.Previous:
			snap, err := sw.Previous(ctx)
			if err != nil {
				return err
			}
			printSet(out, snap.Addresses)
			_, _ = fmt.Fprintf(out, "Remembered from %s (%s) at %s\n", snap.Interface, snap.Backend, snap.CapturedAt.Local().Format("2006-01-02 15:04:05"))
			return nil
		}

		set, err := sw.Get(ctx, token)
		if err != nil {
			return err
		}
		printSet(out, set)
		return nil
	}
}
