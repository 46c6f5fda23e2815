// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/telekom/switch-dns/pkg/dnsconf"
)

func TestMemoryStore(t *testing.T) {
	ctx := t.Context()
	store := NewMemoryStore()

	_, err := store.Recall(ctx)
	require.ErrorIs(t, err, dnsconf.ErrNoSnapshot, "an empty store must report no snapshot")

	first := Snapshot{
		Addresses: dnsconf.AddressSet{IPv4Primary: netip.MustParseAddr("9.9.9.9")},
		Interface: "eth0",
	}
	require.NoError(t, store.Remember(ctx, first))

	got, err := store.Recall(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, got)

	got, err = store.Recall(ctx)
	require.NoError(t, err, "recall must not clear the snapshot")
	assert.Equal(t, first, got)

	second := Snapshot{
		Addresses:  dnsconf.AddressSet{IPv6Primary: netip.MustParseAddr("2620:fe::fe")},
		Interface:  "eth0",
		CapturedAt: time.Unix(1700000000, 0),
	}
	require.NoError(t, store.Remember(ctx, second))

	got, err = store.Recall(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, got, "remember must overwrite the previous snapshot")
}
