// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

//go:build linux

package platform

import (
	"context"
	"errors"
	"fmt"

	dbus "github.com/godbus/dbus/v5"
	"github.com/telekom/switch-dns/pkg/dnsconf"
)

const (
	dbusPingMethod        = "org.freedesktop.DBus.Peer.Ping"
	dbusGetPropertyMethod = "org.freedesktop.DBus.Properties.Get"

	dbusErrAccessDenied       = "org.freedesktop.DBus.Error.AccessDenied"
	dbusErrAuthRequired       = "org.freedesktop.DBus.Error.InteractiveAuthorizationRequired"
	resolvedErrNoSuchLink     = "org.freedesktop.resolve1.NoSuchLink"
	networkManagerErrNoDevice = "org.freedesktop.NetworkManager.UnknownDevice"
)

func newDBusConfigurator(backend string) (Configurator, bool) {
	switch backend {
	case BackendResolved:
		return NewResolved(), true
	case BackendNetworkManager:
		return NewNetworkManager(), true
	default:
		return nil, false
	}
}

// connectSystemBus opens a private connection to the system bus.
// The caller must close it.
func connectSystemBus(ctx context.Context) (*dbus.Conn, error) {
	conn, err := dbus.ConnectSystemBus(dbus.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("connect to system bus: %w", err)
	}
	return conn, nil
}

// getProperty reads a property with the context bound Properties.Get call.
func getProperty(ctx context.Context, obj dbus.BusObject, iface, property string) (dbus.Variant, error) {
	var v dbus.Variant
	if err := obj.CallWithContext(ctx, dbusGetPropertyMethod, 0, iface, property).Store(&v); err != nil {
		return v, fmt.Errorf("get property %s.%s: %w", iface, property, err)
	}
	return v, nil
}

// ping reports whether the service owning dest answers on the bus.
func ping(ctx context.Context, dest string, path dbus.ObjectPath) bool {
	conn, err := connectSystemBus(ctx)
	if err != nil {
		return false
	}
	defer conn.Close()

	return conn.Object(dest, path).CallWithContext(ctx, dbusPingMethod, 0).Store() == nil
}

// classifyDBusError maps D-Bus error names onto the error kinds.
func classifyDBusError(iface string, err error) error {
	switch dbusErrorName(err) {
	case dbusErrAccessDenied, dbusErrAuthRequired:
		return fmt.Errorf("%w: %w", dnsconf.ErrPrivilege, err)
	case resolvedErrNoSuchLink, networkManagerErrNoDevice:
		return fmt.Errorf("%w: %q", dnsconf.ErrInterfaceNotFound, iface)
	default:
		return err
	}
}

func dbusErrorName(err error) string {
	var derr dbus.Error
	if errors.As(err, &derr) {
		return derr.Name
	}
	var pderr *dbus.Error
	if errors.As(err, &pderr) {
		return pderr.Name
	}
	return ""
}
