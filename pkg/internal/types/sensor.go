package types

import "time"

// Sensor receives telemetry callbacks from the render pipeline components.
type Sensor interface {
	GetComponentMetadata() ComponentMetadata
	ConnectLogger(...Logger)

	InvokeOnTileFetchStart(c ComponentMetadata, tile int)
	InvokeOnTileFetchSuccess(c ComponentMetadata, tile int, samples int, elapsed time.Duration)
	InvokeOnTileFetchError(c ComponentMetadata, tile int, err error)
	InvokeOnTileFetchDeclined(c ComponentMetadata, tile int)
	InvokeOnTileEvicted(c ComponentMetadata, tile int)
	InvokeOnTileComputed(c ComponentMetadata, tile int, rows int, elapsed time.Duration)
	InvokeOnCacheInvalidated(c ComponentMetadata, reason string, entries int)
	InvokeOnRenderComplete(c ComponentMetadata, rows int, missing int, elapsed time.Duration)
}
