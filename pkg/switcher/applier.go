// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package switcher

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"time"

	"github.com/telekom/switch-dns/internal/helper"
	"github.com/telekom/switch-dns/internal/logger"
	"github.com/telekom/switch-dns/pkg/dnsconf"
	"github.com/telekom/switch-dns/pkg/platform"
	"github.com/telekom/switch-dns/pkg/snapshot"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/telekom/switch-dns/pkg/switcher"

// DefaultVerifyRetry is used to re-read the OS after a change until it reports the new servers.
var DefaultVerifyRetry = helper.RetryConfig{
	Count: 3,
	Delay: 200 * time.Millisecond,
}

// Recorder observes the outcome of every change.
type Recorder interface {
	ObserveApply(backend string, scope dnsconf.Scope, err error)
}

type nopRecorder struct{}

func (nopRecorder) ObserveApply(string, dnsconf.Scope, error) {}

// Result describes a change of the interface configuration.
type Result struct {
	// Prior is the configuration read right before the change
	Prior dnsconf.AddressSet
	// Requested is the configuration that was written
	Requested dnsconf.AddressSet
	// Active is the configuration the OS reported after the change
	Active dnsconf.AddressSet
	// Scope holds the families that were written
	Scope dnsconf.Scope
	// Changed is false if nothing had to be written
	Changed bool
}

// Applier writes address sets to an interface and remembers the replaced one.
type Applier struct {
	reader   *Reader
	store    snapshot.Store
	elevated func() bool
	verify   helper.RetryConfig
	recorder Recorder
	now      func() time.Time
}

// Option configures an [Applier].
type Option func(*Applier)

// WithElevation replaces the privilege check.
func WithElevation(elevated func() bool) Option {
	return func(a *Applier) {
		a.elevated = elevated
	}
}

// WithVerifyRetry sets how often the OS is re-read until it reports the written servers.
func WithVerifyRetry(rc helper.RetryConfig) Option {
	return func(a *Applier) {
		a.verify = rc
	}
}

// WithRecorder sets the recorder observing every change.
func WithRecorder(r Recorder) Option {
	return func(a *Applier) {
		if r != nil {
			a.recorder = r
		}
	}
}

// NewApplier returns an applier writing through the configurator of reader.
func NewApplier(reader *Reader, store snapshot.Store, opts ...Option) *Applier {
	a := &Applier{
		reader:   reader,
		store:    store,
		elevated: platform.Elevated,
		verify:   DefaultVerifyRetry,
		recorder: nopRecorder{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Apply writes the families of set in scope and returns the configuration
// active afterwards. Each family is written as a whole: its populated slots
// become the static server list and a family without servers is reverted to
// automatic configuration. This holds for every family in scope, including
// one that set leaves empty. Callers that only write populated families
// narrow the scope with [dnsconf.Scope.Restrict] first, as [Switcher.Set]
// does for groups. The configuration read before the change is remembered as the new
// snapshot.
func (a *Applier) Apply(ctx context.Context, set dnsconf.AddressSet, scope dnsconf.Scope) (dnsconf.AddressSet, error) {
	res, err := a.apply(ctx, set, scope)
	return res.Active, err
}

func (a *Applier) apply(ctx context.Context, set dnsconf.AddressSet, scope dnsconf.Scope) (Result, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "Apply", trace.WithAttributes(
		attribute.String("scope", string(scope)),
		attribute.String("interface", a.reader.Interface()),
	))
	defer span.End()

	res, err := a.change(ctx, scope, func(dnsconf.AddressSet) (dnsconf.AddressSet, bool, error) {
		return set, true, nil
	})
	endSpan(span, err)
	return res, err
}

// ApplySingle sets one slot of a family and keeps the other one.
// Only the primary and the reserve tier are supported. Nothing is written if
// the slot already holds addr.
func (a *Applier) ApplySingle(ctx context.Context, f dnsconf.Family, tier dnsconf.Tier, addr netip.Addr) (Result, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "ApplySingle", trace.WithAttributes(
		attribute.String("family", string(f)),
		attribute.String("tier", tier.String()),
		attribute.String("address", addr.String()),
	))
	defer span.End()

	res, err := a.applySingle(ctx, f, tier, addr)
	endSpan(span, err)
	return res, err
}

func (a *Applier) applySingle(ctx context.Context, f dnsconf.Family, tier dnsconf.Tier, addr netip.Addr) (Result, error) {
	if tier != dnsconf.Primary && tier != dnsconf.Reserve {
		return Result{}, dnsconf.ErrUnsupportedTier{Tier: tier}
	}
	if !f.Matches(addr) {
		return Result{}, fmt.Errorf("%w: %s is not an %s address", dnsconf.ErrInvalidAddress, addr, f.Label())
	}
	if f == dnsconf.IPv4 {
		addr = addr.Unmap()
	}

	return a.change(ctx, f.Scope(), func(prior dnsconf.AddressSet) (dnsconf.AddressSet, bool, error) {
		if prior.Slot(f, tier) == addr {
			logger.FromContext(ctx).InfoContext(ctx, "DNS server already set", "family", f, "tier", tier, "address", addr)
			return prior, false, nil
		}

		p, s := prior.Pair(f)
		switch tier {
		case dnsconf.Primary:
			p = addr
			if s == addr {
				s = netip.Addr{}
			}
		case dnsconf.Reserve:
			if !p.IsValid() {
				return prior, false, fmt.Errorf("%w: cannot set %s reserve server without a primary one", dnsconf.ErrInvalidAddress, f.Label())
			}
			if p == addr {
				return prior, false, fmt.Errorf("%w: %s is already the %s primary server", dnsconf.ErrInvalidAddress, addr, f.Label())
			}
			s = addr
		}

		next := prior
		next.SetPair(f, p, s)
		return next, true, nil
	})
}

// target computes the configuration to write from the prior one.
// write is false if nothing has to change.
type target func(prior dnsconf.AddressSet) (next dnsconf.AddressSet, write bool, err error)

// change runs a complete change: privilege check, prior read, per family
// writes, verification and remembering the prior configuration.
func (a *Applier) change(ctx context.Context, scope dnsconf.Scope, next target) (res Result, err error) {
	backend := a.reader.Backend()
	log := logger.FromContext(ctx).With("interface", a.reader.Interface(), "backend", backend, "scope", scope)
	defer func() {
		a.recorder.ObserveApply(backend, scope, err)
	}()

	if len(scope.Families()) == 0 {
		return Result{}, fmt.Errorf("unknown scope %q", scope)
	}
	if !a.elevated() {
		return Result{}, dnsconf.ErrPrivilege
	}

	prior, err := a.reader.Read(ctx)
	if err != nil {
		return Result{}, err
	}
	res = Result{Prior: prior, Active: prior, Scope: scope}

	set, write, err := next(prior)
	if err != nil || !write {
		res.Requested = prior
		return res, err
	}
	res.Requested = set
	if err = set.Validate(); err != nil {
		return res, err
	}

	written := 0
	for _, f := range scope.Families() {
		servers := set.Servers(f)
		log.DebugContext(ctx, "Setting DNS servers", "family", f, "servers", servers)
		if err = a.reader.configurator.SetServers(ctx, a.reader.Interface(), f, servers); err != nil {
			err = fmt.Errorf("failed to set %s DNS servers: %w", f.Label(), err)
			if written > 0 {
				res.Changed = true
				err = errors.Join(err, a.remember(ctx, prior))
			}
			return res, err
		}
		written++
	}
	res.Changed = true

	active, verr := a.verifyActive(ctx, prior, set, scope)
	if active != nil {
		res.Active = *active
	}
	if err = a.remember(ctx, prior); err != nil {
		return res, errors.Join(verr, err)
	}
	if verr != nil {
		log.WarnContext(ctx, "DNS servers not set correctly", "error", verr)
		return res, verr
	}

	log.InfoContext(ctx, "DNS servers set", "prior", prior, "active", res.Active)
	return res, nil
}

// verifyActive re-reads the OS until the families in scope that have servers
// report exactly what was written. Reverted families are not checked, the OS
// may fill them automatically.
func (a *Applier) verifyActive(ctx context.Context, prior, set dnsconf.AddressSet, scope dnsconf.Scope) (*dnsconf.AddressSet, error) {
	want := prior
	var check []dnsconf.Family
	for _, f := range scope.Families() {
		want = want.With(f, set)
		if set.Has(f) {
			check = append(check, f)
		}
	}

	var active *dnsconf.AddressSet
	err := helper.Retry(func(ctx context.Context) error {
		got, err := a.reader.Read(ctx)
		if err != nil {
			return err
		}
		active = &got
		for _, f := range check {
			if !got.Equal(want, f.Scope()) {
				return fmt.Errorf("%w: %s servers are %v instead of %v", dnsconf.ErrNotApplied, f.Label(), got.Servers(f), want.Servers(f))
			}
		}
		return nil
	}, a.verify)(ctx)
	return active, err
}

func (a *Applier) remember(ctx context.Context, prior dnsconf.AddressSet) error {
	err := a.store.Remember(ctx, snapshot.Snapshot{
		Addresses:  prior,
		Interface:  a.reader.Interface(),
		Backend:    a.reader.Backend(),
		CapturedAt: a.now(),
	})
	if err != nil {
		return fmt.Errorf("failed to remember previous DNS servers: %w", err)
	}
	return nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "")
}
