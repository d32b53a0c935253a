package builder

import (
	"time"

	"github.com/joeydtaylor/iqview/pkg/internal/metrics"
	"github.com/joeydtaylor/iqview/pkg/internal/sensor"
	"github.com/joeydtaylor/iqview/pkg/internal/types"
	"github.com/prometheus/client_golang/prometheus"
)

type Sensor = sensor.Sensor

// NewSensor creates a sensor for wiring into a spectrogram.
func NewSensor(options ...types.Option[*Sensor]) *Sensor {
	return sensor.NewSensor(options...)
}

// NewMetricsSensor registers the iqview collectors on reg and returns a sensor feeding them.
func NewMetricsSensor(reg prometheus.Registerer, options ...types.Option[*Sensor]) *Sensor {
	return metrics.New(reg).Sensor(options...)
}

// SensorWithLogger adds a logger to the Sensor.
func SensorWithLogger(logger ...types.Logger) types.Option[*Sensor] {
	return sensor.WithLogger(logger...)
}

// SensorWithComponentMetadata adds component metadata overrides.
func SensorWithComponentMetadata(name string, id string) types.Option[*Sensor] {
	return sensor.WithComponentMetadata(name, id)
}

// SensorWithOnTileFetchStartFunc registers a callback for the OnTileFetchStart event.
func SensorWithOnTileFetchStartFunc(callback ...func(c ComponentMetadata, tile int)) types.Option[*Sensor] {
	return sensor.WithOnTileFetchStartFunc(callback...)
}

// SensorWithOnTileFetchSuccessFunc registers a callback for the OnTileFetchSuccess event.
func SensorWithOnTileFetchSuccessFunc(callback ...func(c ComponentMetadata, tile int, samples int, elapsed time.Duration)) types.Option[*Sensor] {
	return sensor.WithOnTileFetchSuccessFunc(callback...)
}

// SensorWithOnTileFetchErrorFunc registers a callback for the OnTileFetchError event.
func SensorWithOnTileFetchErrorFunc(callback ...func(c ComponentMetadata, tile int, err error)) types.Option[*Sensor] {
	return sensor.WithOnTileFetchErrorFunc(callback...)
}

// SensorWithOnTileFetchDeclinedFunc registers a callback for the OnTileFetchDeclined event.
func SensorWithOnTileFetchDeclinedFunc(callback ...func(c ComponentMetadata, tile int)) types.Option[*Sensor] {
	return sensor.WithOnTileFetchDeclinedFunc(callback...)
}

// SensorWithOnTileEvictedFunc registers a callback for the OnTileEvicted event.
func SensorWithOnTileEvictedFunc(callback ...func(c ComponentMetadata, tile int)) types.Option[*Sensor] {
	return sensor.WithOnTileEvictedFunc(callback...)
}

// SensorWithOnTileComputedFunc registers a callback for the OnTileComputed event.
func SensorWithOnTileComputedFunc(callback ...func(c ComponentMetadata, tile int, rows int, elapsed time.Duration)) types.Option[*Sensor] {
	return sensor.WithOnTileComputedFunc(callback...)
}

// SensorWithOnCacheInvalidatedFunc registers a callback for the OnCacheInvalidated event.
func SensorWithOnCacheInvalidatedFunc(callback ...func(c ComponentMetadata, reason string, entries int)) types.Option[*Sensor] {
	return sensor.WithOnCacheInvalidatedFunc(callback...)
}

// SensorWithOnRenderCompleteFunc registers a callback for the OnRenderComplete event.
func SensorWithOnRenderCompleteFunc(callback ...func(c ComponentMetadata, rows int, missing int, elapsed time.Duration)) types.Option[*Sensor] {
	return sensor.WithOnRenderCompleteFunc(callback...)
}
