// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package switcher

import (
	"context"
	"strings"

	"github.com/telekom/switch-dns/internal/logger"
	"github.com/telekom/switch-dns/pkg/dnsconf"
	"github.com/telekom/switch-dns/pkg/presets"
	"github.com/telekom/switch-dns/pkg/snapshot"
)

const (
	// Current is the token of the configuration active on the interface
	Current = "/curr"
	// Previous is the token of the configuration replaced by the last change
	Previous = "/prev"
	// GroupsList is the token listing the group names
	GroupsList = "/groups"
)

// Resolver turns a group token into an address set. It has no side effects.
type Resolver struct {
	reader  *Reader
	store   snapshot.Store
	presets *presets.Table
}

// NewResolver returns a resolver looking up groups in table.
func NewResolver(reader *Reader, store snapshot.Store, table *presets.Table) *Resolver {
	return &Resolver{reader: reader, store: store, presets: table}
}

// Resolve returns the address set named by token:
// [Current] reads the OS, [Previous] recalls the snapshot and any other token
// is looked up as a group name ignoring case and surrounding whitespace.
func (r *Resolver) Resolve(ctx context.Context, token string) (dnsconf.AddressSet, error) {
	log := logger.FromContext(ctx).With("token", token)

	switch strings.ToLower(strings.TrimSpace(token)) {
	case Current:
		return r.reader.Read(ctx)
	case Previous:
		snap, err := r.Previous(ctx)
		if err != nil {
			return dnsconf.AddressSet{}, err
		}
		return snap.Addresses, nil
	}

	set, ok := r.presets.Lookup(token)
	if !ok {
		log.DebugContext(ctx, "Unknown group")
		return dnsconf.AddressSet{}, dnsconf.ErrUnknownGroup{Token: token}
	}
	return set, nil
}

// Previous returns the remembered snapshot.
func (r *Resolver) Previous(ctx context.Context) (snapshot.Snapshot, error) {
	return r.store.Recall(ctx)
}

// Groups returns the sorted group names.
func (r *Resolver) Groups() []string {
	return r.presets.Names()
}

// isMarker reports whether token names a configuration instead of a group.
func isMarker(token string) bool {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case Current, Previous:
		return true
	default:
		return false
	}
}
