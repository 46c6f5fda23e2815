// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/telekom/switch-dns/pkg/dnsconf"
)

func TestApply_ObserveApply(t *testing.T) {
	registry := prometheus.NewRegistry()
	a := NewApply(registry)
	a.now = func() time.Time { return time.Unix(1700000000, 0) }

	a.ObserveApply("systemd-resolved", dnsconf.ScopeBoth, nil)
	a.ObserveApply("systemd-resolved", dnsconf.ScopeBoth, nil)
	a.ObserveApply("systemd-resolved", dnsconf.ScopeIPv4, fmt.Errorf("denied: %w", dnsconf.ErrPrivilege))

	assert.Equal(t, 2.0, value(t, a.total.WithLabelValues("systemd-resolved", "both", resultSuccess)))
	assert.Equal(t, 1.0, value(t, a.total.WithLabelValues("systemd-resolved", "ipv4", resultPrivilege)))
	assert.Equal(t, 1700000000.0, value(t, a.lastSuccess.WithLabelValues("systemd-resolved")))
}

func TestResultOf(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{err: nil, want: resultSuccess},
		{err: dnsconf.ErrPrivilege, want: resultPrivilege},
		{err: fmt.Errorf("x: %w", dnsconf.ErrInterfaceNotFound), want: resultInterfaceNotFound},
		{err: dnsconf.ErrNotApplied, want: resultNotApplied},
		{err: errors.New("boom"), want: resultError},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, resultOf(tt.err))
		})
	}
}

func value(t *testing.T, c prometheus.Metric) float64 {
	t.Helper()
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if m.GetCounter() != nil {
		return m.GetCounter().GetValue()
	}
	return m.GetGauge().GetValue()
}
