package tilecache

import "github.com/joeydtaylor/iqview/pkg/internal/types"

// GetComponentMetadata returns the coordinator metadata.
func (c *Coordinator) GetComponentMetadata() types.ComponentMetadata {
	return c.snapshotMetadata()
}

// TileSize returns the tile size in IQ samples.
func (c *Coordinator) TileSize() int { return c.tileSize }

// TotalIQSamples returns the recording length in IQ samples.
func (c *Coordinator) TotalIQSamples() int64 { return c.totalIQSamples }

// TileCount returns the number of tiles, counting a short last tile.
func (c *Coordinator) TileCount() int {
	ts := int64(c.tileSize)
	return int((c.totalIQSamples + ts - 1) / ts)
}

// Len returns the number of cached tiles.
func (c *Coordinator) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.len()
}

// InFlight returns the number of fetches currently running.
func (c *Coordinator) InFlight() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.inFlight)
}

// Ready delivers the index of every tile inserted by a completed fetch. Sends never block; when
// the buffer is full the event is dropped and the next render still sees the tile. The channel
// is closed by Close.
func (c *Coordinator) Ready() <-chan int { return c.ready }

func (c *Coordinator) snapshotMetadata() types.ComponentMetadata {
	c.configLock.Lock()
	defer c.configLock.Unlock()
	return c.componentMetadata
}

func (c *Coordinator) snapshotLoggers() []types.Logger {
	c.configLock.Lock()
	defer c.configLock.Unlock()
	return append([]types.Logger(nil), c.loggers...)
}

func (c *Coordinator) snapshotSensors() []types.Sensor {
	c.configLock.Lock()
	defer c.configLock.Unlock()
	return append([]types.Sensor(nil), c.sensors...)
}
