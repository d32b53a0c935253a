package tilecache

import (
	"time"

	"github.com/joeydtaylor/iqview/pkg/internal/types"
)

// NotifyLoggers emits a log entry to all configured loggers.
func (c *Coordinator) NotifyLoggers(level types.LogLevel, msg string, keysAndValues ...interface{}) {
	for _, logger := range c.snapshotLoggers() {
		if logger.GetLevel() > level {
			continue
		}
		switch level {
		case types.DebugLevel:
			logger.Debug(msg, keysAndValues...)
		case types.InfoLevel:
			logger.Info(msg, keysAndValues...)
		case types.WarnLevel:
			logger.Warn(msg, keysAndValues...)
		case types.ErrorLevel:
			logger.Error(msg, keysAndValues...)
		case types.DPanicLevel:
			logger.DPanic(msg, keysAndValues...)
		case types.PanicLevel:
			logger.Panic(msg, keysAndValues...)
		case types.FatalLevel:
			logger.Fatal(msg, keysAndValues...)
		}
	}
}

func (c *Coordinator) notifyFetchStart(t int) {
	metadata := c.snapshotMetadata()
	for _, s := range c.snapshotSensors() {
		s.InvokeOnTileFetchStart(metadata, t)
	}
}

func (c *Coordinator) notifyFetchSuccess(t int, samples int, elapsed time.Duration) {
	metadata := c.snapshotMetadata()
	for _, s := range c.snapshotSensors() {
		s.InvokeOnTileFetchSuccess(metadata, t, samples, elapsed)
	}
	c.NotifyLoggers(types.DebugLevel, "fetch: tile ready", "component", metadata, "event", "TileFetchSuccess", "tile", t, "samples", samples, "elapsed", elapsed)
}

func (c *Coordinator) notifyFetchError(t int, err error) {
	metadata := c.snapshotMetadata()
	for _, s := range c.snapshotSensors() {
		s.InvokeOnTileFetchError(metadata, t, err)
	}
	c.NotifyLoggers(types.WarnLevel, "fetch: tile fetch failed", "component", metadata, "event", "TileFetchError", "tile", t, "error", err)
}

func (c *Coordinator) notifyFetchDeclined(t int) {
	metadata := c.snapshotMetadata()
	for _, s := range c.snapshotSensors() {
		s.InvokeOnTileFetchDeclined(metadata, t)
	}
	c.NotifyLoggers(types.DebugLevel, "RequestFetch: in-flight cap reached", "component", metadata, "event", "TileFetchDeclined", "tile", t)
}

func (c *Coordinator) notifyEvicted(tiles []int) {
	if len(tiles) == 0 {
		return
	}
	metadata := c.snapshotMetadata()
	for _, s := range c.snapshotSensors() {
		for _, t := range tiles {
			s.InvokeOnTileEvicted(metadata, t)
		}
	}
	c.NotifyLoggers(types.DebugLevel, "insert: evicted tiles", "component", metadata, "event", "TileEvicted", "tiles", tiles)
}
