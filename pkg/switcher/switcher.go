// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package switcher

import (
	"context"
	"net/netip"
	"strings"

	"github.com/telekom/switch-dns/internal/logger"
	"github.com/telekom/switch-dns/pkg/dnsconf"
	"github.com/telekom/switch-dns/pkg/platform"
	"github.com/telekom/switch-dns/pkg/presets"
	"github.com/telekom/switch-dns/pkg/snapshot"
)

// Switcher combines the resolver and the applier of one interface.
type Switcher struct {
	reader   *Reader
	resolver *Resolver
	applier  *Applier
}

// New returns a switcher for iface.
func New(c platform.Configurator, iface string, store snapshot.Store, table *presets.Table, opts ...Option) *Switcher {
	reader := NewReader(c, iface)
	return &Switcher{
		reader:   reader,
		resolver: NewResolver(reader, store, table),
		applier:  NewApplier(reader, store, opts...),
	}
}

// Get resolves token without changing anything.
func (s *Switcher) Get(ctx context.Context, token string) (dnsconf.AddressSet, error) {
	return s.resolver.Resolve(ctx, token)
}

// Servers returns every server currently configured, see [Reader.Servers].
func (s *Switcher) Servers(ctx context.Context) (map[dnsconf.Family][]netip.Addr, error) {
	return s.reader.Servers(ctx)
}

// Groups returns the sorted group names.
func (s *Switcher) Groups() []string {
	return s.resolver.Groups()
}

// Previous returns the remembered snapshot.
func (s *Switcher) Previous(ctx context.Context) (snapshot.Snapshot, error) {
	return s.resolver.Previous(ctx)
}

// Set resolves token and applies it. A group only changes the families it has
// servers for; [Previous] and [Current] write every family in scope.
func (s *Switcher) Set(ctx context.Context, token string, scope dnsconf.Scope) (Result, error) {
	log := logger.FromContext(ctx).With("token", token, "scope", scope)

	set, err := s.resolver.Resolve(ctx, token)
	if err != nil {
		return Result{}, err
	}

	if isMarker(token) {
		if strings.EqualFold(strings.TrimSpace(token), Previous) {
			s.warnForeignSnapshot(ctx)
		}
	} else {
		restricted, ok := scope.Restrict(set)
		if !ok {
			return Result{}, ErrNothingToApply{Token: token, Scope: scope}
		}
		scope = restricted
	}

	log.DebugContext(ctx, "Applying DNS servers", "effective_scope", scope)
	return s.applier.apply(ctx, set, scope)
}

// SetSingle changes one slot, see [Applier.ApplySingle].
func (s *Switcher) SetSingle(ctx context.Context, f dnsconf.Family, tier dnsconf.Tier, addr netip.Addr) (Result, error) {
	return s.applier.ApplySingle(ctx, f, tier, addr)
}

func (s *Switcher) warnForeignSnapshot(ctx context.Context) {
	snap, err := s.resolver.Previous(ctx)
	if err != nil {
		return
	}
	if snap.Interface != "" && snap.Interface != s.applier.reader.Interface() {
		logger.FromContext(ctx).WarnContext(ctx, "Restoring DNS servers remembered for another interface",
			"remembered", snap.Interface, "interface", s.applier.reader.Interface())
	}
}
