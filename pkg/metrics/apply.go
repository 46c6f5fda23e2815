// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/telekom/switch-dns/pkg/dnsconf"
)

const (
	resultSuccess           = "success"
	resultPrivilege         = "privilege"
	resultInterfaceNotFound = "interface_not_found"
	resultNotApplied        = "not_applied"
	resultError             = "error"

	applyTotalName  = "switchdns_apply_total"
	lastSuccessName = "switchdns_last_success_timestamp_seconds"
)

// Apply holds the metrics of DNS server changes
type Apply struct {
	total       *prometheus.CounterVec
	lastSuccess *prometheus.GaugeVec
	now         func() time.Time
	// observed is set once a change was counted
	observed bool
}

// NewApply creates the change metrics and registers them on registry
func NewApply(registry *prometheus.Registry) *Apply {
	a := &Apply{
		total: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: applyTotalName,
				Help: "Number of DNS server changes by backend, scope and result",
			},
			[]string{"backend", "scope", "result"},
		),
		lastSuccess: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: lastSuccessName,
				Help: "Unix time of the last successful DNS server change",
			},
			[]string{"backend"},
		),
		now: time.Now,
	}
	registry.MustRegister(a.total, a.lastSuccess)
	return a
}

// ObserveApply counts a change and its result
func (a *Apply) ObserveApply(backend string, scope dnsconf.Scope, err error) {
	a.observed = true
	result := resultOf(err)
	a.total.WithLabelValues(backend, string(scope), result).Inc()
	if result == resultSuccess {
		a.lastSuccess.WithLabelValues(backend).Set(float64(a.now().Unix()))
	}
}

// Observed reports whether a change was counted since creation
func (a *Apply) Observed() bool {
	return a.observed
}

// seed continues the metrics of a previous run.
// Counters are increased by their previous value, timestamps are taken over.
func (a *Apply) seed(families map[string]*dto.MetricFamily) {
	for _, m := range families[applyTotalName].GetMetric() {
		l := labelsOf(m)
		if v := m.GetCounter().GetValue(); v > 0 {
			a.total.WithLabelValues(l["backend"], l["scope"], l["result"]).Add(v)
		}
	}
	for _, m := range families[lastSuccessName].GetMetric() {
		a.lastSuccess.WithLabelValues(labelsOf(m)["backend"]).Set(m.GetGauge().GetValue())
	}
}

func labelsOf(m *dto.Metric) map[string]string {
	labels := make(map[string]string, len(m.GetLabel()))
	for _, l := range m.GetLabel() {
		labels[l.GetName()] = l.GetValue()
	}
	return labels
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return resultSuccess
	case errors.Is(err, dnsconf.ErrPrivilege):
		return resultPrivilege
	case errors.Is(err, dnsconf.ErrInterfaceNotFound):
		return resultInterfaceNotFound
	case errors.Is(err, dnsconf.ErrNotApplied):
		return resultNotApplied
	default:
		return resultError
	}
}
