package metrics

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// manager pins the namespace/subsystem pair and registry every vector in the
// process shares. SetupMetricsManager replaces the placeholder before any
// vector is created.
type manager struct {
	namespace string
	system    string
	registry  *prometheus.Registry
}

var active = &manager{
	namespace: "default",
	system:    "default",
	registry:  prometheus.NewRegistry(),
}

func SetupMetricsManager(ns, system string, registry *prometheus.Registry) {
	active = &manager{
		namespace: ns,
		system:    system,
		registry:  registry,
	}
	registry.Register(collectors.NewGoCollector())
}

// FmtFixer rewrites dots and dashes into underscores, prometheus rejects
// both in metric name segments.
func FmtFixer(in string) string {
	in = strings.ReplaceAll(in, ".", "_")
	return strings.ReplaceAll(in, "-", "_")
}

// initVec pre-touches the vector with empty label values so the series
// exists from process start instead of first use.
func initVec(labels []string, touch func(...string)) {
	touch(make([]string, len(labels))...)
}

func NewCounterVec(name string, labels []string) *prometheus.CounterVec {
	vec := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: FmtFixer(active.namespace),
			Subsystem: FmtFixer(active.system),
			Name:      FmtFixer(name),
			Help:      fmt.Sprintf("%s count of /%s/%s", name, active.namespace, active.system),
		},
		labels,
	)
	initVec(labels, func(lvs ...string) { vec.WithLabelValues(lvs...).Add(0) })
	active.registry.Register(vec)
	return vec
}

func NewHistogramVec(name string, labels []string) *prometheus.HistogramVec {
	vec := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: FmtFixer(active.namespace),
			Subsystem: FmtFixer(active.system),
			Name:      FmtFixer(name),
			Help:      fmt.Sprintf("%s duration of /%s/%s", name, active.namespace, active.system),
		},
		labels,
	)
	initVec(labels, func(lvs ...string) { vec.WithLabelValues(lvs...).Observe(0) })
	active.registry.Register(vec)
	return vec
}

func NewGaugeVec(name string, labels []string) *prometheus.GaugeVec {
	vec := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: FmtFixer(active.namespace),
			Subsystem: FmtFixer(active.system),
			Name:      FmtFixer(name),
			Help:      fmt.Sprintf("%s gauge of /%s/%s", name, active.namespace, active.system),
		},
		labels,
	)
	initVec(labels, func(lvs ...string) { vec.WithLabelValues(lvs...).Add(0) })
	active.registry.Register(vec)
	return vec
}

// DefaultExportHandler serves the shared registry, instrumented with its own
// scrape counters.
func DefaultExportHandler() gin.HandlerFunc {
	h := promhttp.InstrumentMetricHandler(
		active.registry, promhttp.HandlerFor(active.registry, promhttp.HandlerOpts{}),
	)
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
