package core

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/repo3d/repo3d/pkg/metrics"
)

type Metrics struct {
	apiResponseTime   *prometheus.HistogramVec
	apiErrorCounter   *prometheus.CounterVec
	treeProcessTime   *prometheus.HistogramVec
	treeNodesTotal    *prometheus.CounterVec
	invitationCounter *prometheus.CounterVec
}

func NewMetrics(ns, system string) *Metrics {
	metrics.SetupMetricsManager(ns, system, prometheus.DefaultRegisterer.(*prometheus.Registry))

	m := &Metrics{
		apiResponseTime:   metrics.NewHistogramVec("api_response_time", []string{"api"}),
		apiErrorCounter:   metrics.NewCounterVec("api_error", []string{"method", "api", "status"}),
		treeProcessTime:   metrics.NewHistogramVec("tree_process_time", []string{"mode"}),
		treeNodesTotal:    metrics.NewCounterVec("tree_nodes_total", []string{"mode"}),
		invitationCounter: metrics.NewCounterVec("invitation_operations", []string{"op"}),
	}

	return m
}

func (m *Metrics) ApiErrorInc(method, api string, status int) {
	m.apiErrorCounter.WithLabelValues(method, api, strconv.Itoa(status)).Inc()
}

func (m *Metrics) ApiResponseTimer(api string) *prometheus.Timer {
	return prometheus.NewTimer(m.apiResponseTime.WithLabelValues(api))
}

// TreeProcessTimer times one flatten run, mode is "sync" or "async".
func (m *Metrics) TreeProcessTimer(mode string) *prometheus.Timer {
	return prometheus.NewTimer(m.treeProcessTime.WithLabelValues(mode))
}

func (m *Metrics) TreeNodesAdd(mode string, nodes int) {
	m.treeNodesTotal.WithLabelValues(mode).Add(float64(nodes))
}

func (m *Metrics) InvitationOpInc(op string) {
	m.invitationCounter.WithLabelValues(op).Inc()
}
