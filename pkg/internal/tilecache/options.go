package tilecache

import "github.com/joeydtaylor/iqview/pkg/internal/types"

// WithMaxInFlight caps concurrent fetches. Requests beyond the cap are declined, not queued.
func WithMaxInFlight(n int) types.Option[*Coordinator] {
	return func(c *Coordinator) {
		if n > 0 {
			c.maxInFlight = int64(n)
		}
	}
}

// WithMaxTiles bounds the cache to n tiles with least-recently-used eviction. Zero keeps the
// cache unbounded.
func WithMaxTiles(n int) types.Option[*Coordinator] {
	return func(c *Coordinator) {
		if n >= 0 {
			c.maxTiles = n
		}
	}
}

// WithTileSize sets the tile size in IQ samples.
func WithTileSize(n int) types.Option[*Coordinator] {
	return func(c *Coordinator) {
		if n > 0 {
			c.tileSize = n
		}
	}
}

// WithBytesPerIQSample sets the on-disk size of one complex sample, used to derive byte ranges.
func WithBytesPerIQSample(n int) types.Option[*Coordinator] {
	return func(c *Coordinator) {
		if n > 0 {
			c.bytesPerIQSample = int64(n)
		}
	}
}

// WithReadyBuffer sets the capacity of the Ready channel.
func WithReadyBuffer(n int) types.Option[*Coordinator] {
	return func(c *Coordinator) {
		if n > 0 {
			c.readyBuffer = n
		}
	}
}

func WithLogger(logger ...types.Logger) types.Option[*Coordinator] {
	return func(c *Coordinator) {
		c.ConnectLogger(logger...)
	}
}

func WithSensor(sensor ...types.Sensor) types.Option[*Coordinator] {
	return func(c *Coordinator) {
		c.ConnectSensor(sensor...)
	}
}

// WithComponentMetadata sets the coordinator name and id.
func WithComponentMetadata(name string, id string) types.Option[*Coordinator] {
	return func(c *Coordinator) {
		c.SetComponentMetadata(name, id)
	}
}
