// Package metrics exposes build and sidebar collectors on a private Prometheus registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "wiki_sidebar"

// Result labels for build counters.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Recorder owns the collectors of one process.
type Recorder struct {
	registry      *prometheus.Registry
	builds        *prometheus.CounterVec
	buildDuration prometheus.Histogram
	routes        *prometheus.GaugeVec
	sidebarItems  *prometheus.GaugeVec
	lastBuild     prometheus.Gauge
}

// New registers the collectors on a fresh registry together with the Go and process collectors.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		builds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "builds_total",
			Help:      "Site builds by result",
		}, []string{"result"}),
		buildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Duration of site builds",
			Buckets:   prometheus.DefBuckets,
		}),
		routes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "routes",
			Help:      "Routes known per locale in the last build",
		}, []string{"locale"}),
		sidebarItems: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sidebar_links",
			Help:      "Links in the sidebar per locale in the last build",
		}, []string{"locale"}),
		lastBuild: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_build_timestamp_seconds",
			Help:      "Unix time of the last successful build",
		}),
	}
	r.registry.MustRegister(r.builds, r.buildDuration, r.routes, r.sidebarItems, r.lastBuild)
	r.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return r
}

// ObserveBuild records one build attempt.
func (r *Recorder) ObserveBuild(started time.Time, err error) {
	if r == nil {
		return
	}
	r.buildDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		r.builds.WithLabelValues(ResultFailure).Inc()
		return
	}
	r.builds.WithLabelValues(ResultSuccess).Inc()
	r.lastBuild.SetToCurrentTime()
}

// SetLocale publishes the route and sidebar link counts of a locale.
func (r *Recorder) SetLocale(locale string, routes, links int) {
	if r == nil {
		return
	}
	r.routes.WithLabelValues(locale).Set(float64(routes))
	r.sidebarItems.WithLabelValues(locale).Set(float64(links))
}

// Registry exposes the underlying registry, mainly for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
