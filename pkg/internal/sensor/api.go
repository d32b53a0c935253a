package sensor

import (
	"time"

	"github.com/joeydtaylor/iqview/pkg/internal/types"
)

// ConnectLogger attaches loggers used for debug traces of sensor activity.
func (s *Sensor) ConnectLogger(logger ...types.Logger) {
	s.loggersLock.Lock()
	defer s.loggersLock.Unlock()
	for _, l := range logger {
		if l != nil {
			s.loggers = append(s.loggers, l)
		}
	}
}

// GetComponentMetadata returns the sensor metadata.
func (s *Sensor) GetComponentMetadata() types.ComponentMetadata {
	s.metadataLock.Lock()
	defer s.metadataLock.Unlock()
	return s.componentMetadata
}

// SetComponentMetadata overrides name and id while preserving the type.
func (s *Sensor) SetComponentMetadata(name string, id string) {
	s.metadataLock.Lock()
	s.componentMetadata.Name = name
	s.componentMetadata.ID = id
	s.metadataLock.Unlock()
}

func (s *Sensor) RegisterOnTileFetchStart(callback ...func(types.ComponentMetadata, int)) {
	s.callbackLock.Lock()
	s.OnTileFetchStart = append(s.OnTileFetchStart, callback...)
	s.callbackLock.Unlock()
}

func (s *Sensor) RegisterOnTileFetchSuccess(callback ...func(types.ComponentMetadata, int, int, time.Duration)) {
	s.callbackLock.Lock()
	s.OnTileFetchSuccess = append(s.OnTileFetchSuccess, callback...)
	s.callbackLock.Unlock()
}

func (s *Sensor) RegisterOnTileFetchError(callback ...func(types.ComponentMetadata, int, error)) {
	s.callbackLock.Lock()
	s.OnTileFetchError = append(s.OnTileFetchError, callback...)
	s.callbackLock.Unlock()
}

func (s *Sensor) RegisterOnTileFetchDeclined(callback ...func(types.ComponentMetadata, int)) {
	s.callbackLock.Lock()
	s.OnTileFetchDeclined = append(s.OnTileFetchDeclined, callback...)
	s.callbackLock.Unlock()
}

func (s *Sensor) RegisterOnTileEvicted(callback ...func(types.ComponentMetadata, int)) {
	s.callbackLock.Lock()
	s.OnTileEvicted = append(s.OnTileEvicted, callback...)
	s.callbackLock.Unlock()
}

func (s *Sensor) RegisterOnTileComputed(callback ...func(types.ComponentMetadata, int, int, time.Duration)) {
	s.callbackLock.Lock()
	s.OnTileComputed = append(s.OnTileComputed, callback...)
	s.callbackLock.Unlock()
}

func (s *Sensor) RegisterOnCacheInvalidated(callback ...func(types.ComponentMetadata, string, int)) {
	s.callbackLock.Lock()
	s.OnCacheInvalidated = append(s.OnCacheInvalidated, callback...)
	s.callbackLock.Unlock()
}

func (s *Sensor) RegisterOnRenderComplete(callback ...func(types.ComponentMetadata, int, int, time.Duration)) {
	s.callbackLock.Lock()
	s.OnRenderComplete = append(s.OnRenderComplete, callback...)
	s.callbackLock.Unlock()
}

func (s *Sensor) InvokeOnTileFetchStart(c types.ComponentMetadata, tile int) {
	s.callbackLock.RLock()
	defer s.callbackLock.RUnlock()
	for _, cb := range s.OnTileFetchStart {
		cb(c, tile)
	}
	s.NotifyLoggers(types.DebugLevel, "Tile fetch started", "component", c, "event", "TileFetchStart", "tile", tile)
}

func (s *Sensor) InvokeOnTileFetchSuccess(c types.ComponentMetadata, tile int, samples int, elapsed time.Duration) {
	s.callbackLock.RLock()
	defer s.callbackLock.RUnlock()
	for _, cb := range s.OnTileFetchSuccess {
		cb(c, tile, samples, elapsed)
	}
	s.NotifyLoggers(types.DebugLevel, "Tile fetch completed", "component", c, "event", "TileFetchSuccess", "tile", tile, "samples", samples, "elapsed", elapsed)
}

func (s *Sensor) InvokeOnTileFetchError(c types.ComponentMetadata, tile int, err error) {
	s.callbackLock.RLock()
	defer s.callbackLock.RUnlock()
	for _, cb := range s.OnTileFetchError {
		cb(c, tile, err)
	}
	s.NotifyLoggers(types.DebugLevel, "Tile fetch failed", "component", c, "event", "TileFetchError", "tile", tile, "error", err)
}

func (s *Sensor) InvokeOnTileFetchDeclined(c types.ComponentMetadata, tile int) {
	s.callbackLock.RLock()
	defer s.callbackLock.RUnlock()
	for _, cb := range s.OnTileFetchDeclined {
		cb(c, tile)
	}
}

func (s *Sensor) InvokeOnTileEvicted(c types.ComponentMetadata, tile int) {
	s.callbackLock.RLock()
	defer s.callbackLock.RUnlock()
	for _, cb := range s.OnTileEvicted {
		cb(c, tile)
	}
}

func (s *Sensor) InvokeOnTileComputed(c types.ComponentMetadata, tile int, rows int, elapsed time.Duration) {
	s.callbackLock.RLock()
	defer s.callbackLock.RUnlock()
	for _, cb := range s.OnTileComputed {
		cb(c, tile, rows, elapsed)
	}
}

func (s *Sensor) InvokeOnCacheInvalidated(c types.ComponentMetadata, reason string, entries int) {
	s.callbackLock.RLock()
	defer s.callbackLock.RUnlock()
	for _, cb := range s.OnCacheInvalidated {
		cb(c, reason, entries)
	}
	s.NotifyLoggers(types.DebugLevel, "FFT cache invalidated", "component", c, "event", "CacheInvalidated", "reason", reason, "entries", entries)
}

func (s *Sensor) InvokeOnRenderComplete(c types.ComponentMetadata, rows int, missing int, elapsed time.Duration) {
	s.callbackLock.RLock()
	defer s.callbackLock.RUnlock()
	for _, cb := range s.OnRenderComplete {
		cb(c, rows, missing, elapsed)
	}
}
