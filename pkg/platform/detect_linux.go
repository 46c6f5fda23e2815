// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

//go:build linux

package platform

import (
	"context"
	"net"
	"os"

	"github.com/telekom/switch-dns/internal/logger"
	"tailscale.com/net/netmon"
)

// detector bundles the availability checks used to pick a backend
type detector struct {
	hint     func() string
	resolved func(ctx context.Context) bool
	nm       func(ctx context.Context) bool
	nmMode   func(ctx context.Context) (string, error)
	fallback func() Configurator
}

var defaultDetector = detector{
	hint: func() string {
		f, err := os.Open(defaultResolvConfPath)
		if err != nil {
			return ""
		}
		defer f.Close()
		return resolvConfManagerHint(f)
	},
	resolved: resolvedAvailable,
	nm:       networkManagerAvailable,
	nmMode:   networkManagerDNSMode,
	fallback: func() Configurator { return NewResolvConf(defaultResolvConfPath) },
}

// Detect returns the configurator of the DNS manager that owns the resolver
// configuration. The resolv.conf header names a candidate which is then
// verified on the system bus. Without a usable manager the file is edited directly.
func Detect(ctx context.Context, iface string) Configurator {
	return defaultDetector.detect(ctx, iface)
}

func (d detector) detect(ctx context.Context, iface string) Configurator {
	log := logger.FromContext(ctx).With("interface", iface)

	hint := d.hint()
	log.DebugContext(ctx, "Detecting DNS backend", "hint", hint)

	switch hint {
	case BackendResolved:
		if d.resolved(ctx) {
			return NewResolved()
		}
		log.WarnContext(ctx, "resolv.conf is managed by systemd-resolved but it is not running, falling back to the file")
		return d.fallback()

	case BackendNetworkManager:
		if !d.nm(ctx) {
			log.WarnContext(ctx, "resolv.conf is managed by NetworkManager but it is not running, falling back to the file")
			return d.fallback()
		}
		mode, err := d.nmMode(ctx)
		if err != nil {
			log.DebugContext(ctx, "Failed to read NetworkManager DNS mode", "error", err)
		}
		if mode == BackendResolved && d.resolved(ctx) {
			log.DebugContext(ctx, "NetworkManager delegates DNS to systemd-resolved")
			return NewResolved()
		}
		return NewNetworkManager()

	default:
		if d.resolved(ctx) {
			return NewResolved()
		}
		if d.nm(ctx) {
			return NewNetworkManager()
		}
		return d.fallback()
	}
}

// DefaultInterface returns the interface owning the default route.
// If that cannot be determined it returns the first non-loopback interface
// with a carrier, then the first one that is up, or "" if there is none.
func DefaultInterface() string {
	return defaultInterface(netmon.DefaultRouteInterface, net.Interfaces)
}

func defaultInterface(route func() (string, error), list func() ([]net.Interface, error)) string {
	if name, err := route(); err == nil && name != "" {
		return name
	}

	ifaces, err := list()
	if err != nil {
		return ""
	}
	up := ""
	for _, i := range ifaces {
		if i.Flags&net.FlagUp == 0 || i.Flags&net.FlagLoopback != 0 {
			continue
		}
		if i.Flags&net.FlagRunning != 0 {
			return i.Name
		}
		if up == "" {
			up = i.Name
		}
	}
	return up
}
