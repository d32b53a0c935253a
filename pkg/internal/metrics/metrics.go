// Package metrics exposes render pipeline sensor events as Prometheus metrics.
package metrics

import (
	"time"

	"github.com/joeydtaylor/iqview/pkg/internal/sensor"
	"github.com/joeydtaylor/iqview/pkg/internal/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "iqview"

// Metrics holds the collectors fed by a sensor.
type Metrics struct {
	tileFetches       *prometheus.CounterVec
	tileFetchDuration prometheus.Histogram
	tilesInFlight     prometheus.Gauge
	tileEvictions     prometheus.Counter
	tilesComputed     prometheus.Counter
	tileComputeTime   prometheus.Histogram
	invalidations     *prometheus.CounterVec
	renders           prometheus.Counter
	renderDuration    prometheus.Histogram
	renderMissing     prometheus.Gauge
}

// New registers the collectors with reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		tileFetches: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tile_fetches_total",
				Help:      "Tile fetch attempts by outcome",
			},
			[]string{"result"},
		),
		tileFetchDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tile_fetch_duration_seconds",
			Help:      "Time to fetch and decode one tile",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		tilesInFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tiles_in_flight",
			Help:      "Tile fetches currently running",
		}),
		tileEvictions: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tile_evictions_total",
			Help:      "Tiles evicted from a bounded cache",
		}),
		tilesComputed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tiles_computed_total",
			Help:      "Tiles converted to spectrum rows",
		}),
		tileComputeTime: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tile_compute_duration_seconds",
			Help:      "Time to window, transform and convert one tile",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		invalidations: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fft_cache_invalidations_total",
				Help:      "FFT cache flushes by the parameter that changed",
			},
			[]string{"reason"},
		),
		renders: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Completed render passes",
		}),
		renderDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Render pass latency",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		renderMissing: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "render_missing_tiles",
			Help:      "Tiles missing from the most recent render",
		}),
	}
}

// Sensor returns a sensor whose callbacks update m.
func (m *Metrics) Sensor(options ...types.Option[*sensor.Sensor]) *sensor.Sensor {
	s := sensor.NewSensor(options...)
	s.RegisterOnTileFetchStart(func(types.ComponentMetadata, int) {
		m.tileFetches.WithLabelValues("started").Inc()
		m.tilesInFlight.Inc()
	})
	s.RegisterOnTileFetchSuccess(func(_ types.ComponentMetadata, _ int, _ int, elapsed time.Duration) {
		m.tileFetches.WithLabelValues("success").Inc()
		m.tilesInFlight.Dec()
		m.tileFetchDuration.Observe(elapsed.Seconds())
	})
	s.RegisterOnTileFetchError(func(types.ComponentMetadata, int, error) {
		m.tileFetches.WithLabelValues("error").Inc()
		m.tilesInFlight.Dec()
	})
	s.RegisterOnTileFetchDeclined(func(types.ComponentMetadata, int) {
		m.tileFetches.WithLabelValues("declined").Inc()
	})
	s.RegisterOnTileEvicted(func(types.ComponentMetadata, int) {
		m.tileEvictions.Inc()
	})
	s.RegisterOnTileComputed(func(_ types.ComponentMetadata, _ int, _ int, elapsed time.Duration) {
		m.tilesComputed.Inc()
		m.tileComputeTime.Observe(elapsed.Seconds())
	})
	s.RegisterOnCacheInvalidated(func(_ types.ComponentMetadata, reason string, _ int) {
		m.invalidations.WithLabelValues(reason).Inc()
	})
	s.RegisterOnRenderComplete(func(_ types.ComponentMetadata, _ int, missing int, elapsed time.Duration) {
		m.renders.Inc()
		m.renderDuration.Observe(elapsed.Seconds())
		m.renderMissing.Set(float64(missing))
	})
	return s
}
