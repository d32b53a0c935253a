package tilecache

import (
	"fmt"
	"time"

	"github.com/joeydtaylor/iqview/pkg/internal/types"
)

// GetTiles splits indices into cached buffers and the indices still missing, in request order.
// It never blocks on a fetch.
func (c *Coordinator) GetTiles(indices []int) (map[int][]float32, []int) {
	available := make(map[int][]float32, len(indices))
	missing := make([]int, 0)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return available, append(missing, indices...)
	}
	for _, t := range indices {
		if samples, ok := c.store.get(t); ok {
			available[t] = samples
			continue
		}
		missing = append(missing, t)
	}
	return available, missing
}

// Contains reports whether tile t is cached without touching its recency.
func (c *Coordinator) Contains(t int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed && c.store.contains(t)
}

// ByteRange returns the byte offset and length of tile t. The length is clamped to the end of the
// recording; ok is false for tiles outside it.
func (c *Coordinator) ByteRange(t int) (offset, count int64, ok bool) {
	if t < 0 {
		return 0, 0, false
	}
	first := int64(t) * int64(c.tileSize)
	if first >= c.totalIQSamples {
		return 0, 0, false
	}
	samples := int64(c.tileSize)
	if remaining := c.totalIQSamples - first; remaining < samples {
		samples = remaining
	}
	return first * c.bytesPerIQSample, samples * c.bytesPerIQSample, true
}

// RequestFetch schedules a fetch for tile t unless it is cached, already in flight, outside the
// recording, or the in-flight cap is reached. A declined tile is simply requested again on a
// later render.
func (c *Coordinator) RequestFetch(t int) FetchStatus {
	offset, count, ok := c.ByteRange(t)
	if !ok {
		return FetchOutOfRange
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return FetchClosed
	}
	if c.store.contains(t) {
		c.mu.Unlock()
		return FetchCached
	}
	if _, busy := c.inFlight[t]; busy {
		c.mu.Unlock()
		return FetchInFlight
	}
	if !c.sem.TryAcquire(1) {
		c.mu.Unlock()
		c.notifyFetchDeclined(t)
		return FetchDeclined
	}
	c.inFlight[t] = struct{}{}
	c.wg.Add(1)
	c.mu.Unlock()

	go c.fetch(t, offset, count)
	return FetchStarted
}

// RequestFetchAll calls RequestFetch for every index and returns how many fetches started.
func (c *Coordinator) RequestFetchAll(indices []int) int {
	started := 0
	for _, t := range indices {
		if c.RequestFetch(t) == FetchStarted {
			started++
		}
	}
	return started
}

// Insert stores samples for tile t as if a fetch had completed. Existing entries are kept.
func (c *Coordinator) Insert(t int, samples []float32) error {
	if _, _, ok := c.ByteRange(t); !ok {
		return fmt.Errorf("tilecache: tile %d outside recording of %d samples", t, c.totalIQSamples)
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return types.ErrClosed
	}
	inserted := c.insertLocked(t, samples)
	evicted := c.takeEvictedLocked()
	c.mu.Unlock()

	c.notifyEvicted(evicted)
	if inserted {
		c.publishReady(t)
	}
	return nil
}

// Close cancels in-flight fetches, waits for them to return, drops every cached tile and closes
// the Ready channel.
func (c *Coordinator) Close() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()

		c.cancel()
		c.wg.Wait()

		c.mu.Lock()
		dropped := c.store.len()
		c.store.purge()
		c.evicted = nil
		c.mu.Unlock()

		close(c.ready)
		c.NotifyLoggers(types.InfoLevel, "Close: coordinator closed", "component", c.snapshotMetadata(), "dropped_tiles", dropped)
	})
}

func (c *Coordinator) fetch(t int, offset, count int64) {
	defer c.wg.Done()
	defer c.sem.Release(1)

	c.notifyFetchStart(t)
	start := time.Now()
	samples, err := c.source.FetchTileSamples(c.ctx, t, offset, count)
	elapsed := time.Since(start)

	c.mu.Lock()
	delete(c.inFlight, t)
	if c.closed {
		c.mu.Unlock()
		return
	}
	if err != nil {
		c.mu.Unlock()
		c.notifyFetchError(t, &types.TileFetchError{Tile: t, Err: err})
		return
	}
	inserted := c.insertLocked(t, samples)
	evicted := c.takeEvictedLocked()
	c.mu.Unlock()

	c.notifyEvicted(evicted)
	c.notifyFetchSuccess(t, len(samples)/2, elapsed)
	if inserted {
		c.publishReady(t)
	}
}

func (c *Coordinator) insertLocked(t int, samples []float32) bool {
	if c.store.contains(t) {
		return false
	}
	c.store.add(t, samples)
	return true
}

func (c *Coordinator) takeEvictedLocked() []int {
	if len(c.evicted) == 0 {
		return nil
	}
	out := c.evicted
	c.evicted = nil
	return out
}

func (c *Coordinator) publishReady(t int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.ready <- t:
	default:
	}
}
