// Copyright (C) 2025 Creditor Corp. Group.
// See LICENSE for copying information.

package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metricsRegistry struct {
	registry          *prometheus.Registry
	mintAttemptsTotal *prometheus.CounterVec
	balanceRefreshes  prometheus.Counter
}

func newMetricsRegistry() *metricsRegistry {
	mints := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "glittrmint_mint_attempts_total",
		Help: "Total number of mint attempts by asset kind and terminal status",
	}, []string{"asset", "status"})

	refreshes := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "glittrmint_balance_refreshes_total",
		Help: "Total number of balance aggregation refreshes",
	})

	r := prometheus.NewRegistry()
	r.MustRegister(mints, refreshes)

	return &metricsRegistry{
		registry:          r,
		mintAttemptsTotal: mints,
		balanceRefreshes:  refreshes,
	}
}

func (m *metricsRegistry) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *metricsRegistry) incMint(asset, status string) {
	m.mintAttemptsTotal.WithLabelValues(asset, status).Inc()
}

func (m *metricsRegistry) incRefresh() {
	m.balanceRefreshes.Inc()
}
