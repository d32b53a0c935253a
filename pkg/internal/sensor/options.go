// Package sensor provides callback hooks that components invoke as tiles are fetched,
// computed and rendered. Options register callbacks at construction time.
package sensor

import (
	"time"

	"github.com/joeydtaylor/iqview/pkg/internal/types"
)

// WithLogger connects loggers to the sensor.
func WithLogger(logger ...types.Logger) types.Option[*Sensor] {
	return func(s *Sensor) { s.ConnectLogger(logger...) }
}

// WithComponentMetadata overrides the sensor name and id.
func WithComponentMetadata(name, id string) types.Option[*Sensor] {
	return func(s *Sensor) { s.SetComponentMetadata(name, id) }
}

// WithOnTileFetchStartFunc registers callbacks fired when a tile fetch is issued.
func WithOnTileFetchStartFunc(callback ...func(c types.ComponentMetadata, tile int)) types.Option[*Sensor] {
	return func(s *Sensor) { s.RegisterOnTileFetchStart(callback...) }
}

// WithOnTileFetchSuccessFunc registers callbacks fired when a tile's samples land in the cache.
func WithOnTileFetchSuccessFunc(callback ...func(c types.ComponentMetadata, tile int, samples int, elapsed time.Duration)) types.Option[*Sensor] {
	return func(s *Sensor) { s.RegisterOnTileFetchSuccess(callback...) }
}

// WithOnTileFetchErrorFunc registers callbacks fired when a tile fetch fails.
func WithOnTileFetchErrorFunc(callback ...func(c types.ComponentMetadata, tile int, err error)) types.Option[*Sensor] {
	return func(s *Sensor) { s.RegisterOnTileFetchError(callback...) }
}

// WithOnTileFetchDeclinedFunc registers callbacks fired when the in-flight cap rejects a fetch.
func WithOnTileFetchDeclinedFunc(callback ...func(c types.ComponentMetadata, tile int)) types.Option[*Sensor] {
	return func(s *Sensor) { s.RegisterOnTileFetchDeclined(callback...) }
}

// WithOnTileEvictedFunc registers callbacks fired when a bounded tile cache drops a tile.
func WithOnTileEvictedFunc(callback ...func(c types.ComponentMetadata, tile int)) types.Option[*Sensor] {
	return func(s *Sensor) { s.RegisterOnTileEvicted(callback...) }
}

// WithOnTileComputedFunc registers callbacks fired after a tile's spectrum rows are computed.
func WithOnTileComputedFunc(callback ...func(c types.ComponentMetadata, tile int, rows int, elapsed time.Duration)) types.Option[*Sensor] {
	return func(s *Sensor) { s.RegisterOnTileComputed(callback...) }
}

// WithOnCacheInvalidatedFunc registers callbacks fired when the FFT-data cache is cleared.
func WithOnCacheInvalidatedFunc(callback ...func(c types.ComponentMetadata, reason string, entries int)) types.Option[*Sensor] {
	return func(s *Sensor) { s.RegisterOnCacheInvalidated(callback...) }
}

// WithOnRenderCompleteFunc registers callbacks fired at the end of each render pass.
func WithOnRenderCompleteFunc(callback ...func(c types.ComponentMetadata, rows int, missing int, elapsed time.Duration)) types.Option[*Sensor] {
	return func(s *Sensor) { s.RegisterOnRenderComplete(callback...) }
}
