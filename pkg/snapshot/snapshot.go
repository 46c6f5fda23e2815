// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"context"
	"time"

	"github.com/telekom/switch-dns/pkg/dnsconf"
)

// Snapshot is the address set that was active right before the
// most recent successful change.
type Snapshot struct {
	// Addresses is the remembered configuration
	Addresses dnsconf.AddressSet
	// Interface is the network interface the addresses were read from
	Interface string
	// Backend is the name of the OS facility the addresses were read with
	Backend string
	// CapturedAt is the time the addresses were read
	CapturedAt time.Time
}

// Store holds exactly one snapshot.
// A store starts empty and becomes populated with the first Remember;
// there is no way back to empty.
//
//go:generate go tool moq -out store_moq.go . Store
type Store interface {
	// Remember overwrites the stored snapshot.
	Remember(ctx context.Context, s Snapshot) error
	// Recall returns the stored snapshot or [dnsconf.ErrNoSnapshot] if the store is empty.
	Recall(ctx context.Context) (Snapshot, error)
}

var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps the snapshot for the lifetime of the process.
type MemoryStore struct {
	snap *Snapshot
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Remember(_ context.Context, s Snapshot) error {
	m.snap = &s
	return nil
}

func (m *MemoryStore) Recall(_ context.Context) (Snapshot, error) {
	if m.snap == nil {
		return Snapshot{}, dnsconf.ErrNoSnapshot
	}
	return *m.snap, nil
}
