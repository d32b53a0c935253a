// Package tilecache owns the mapping from tile index to fetched IQ samples. It reports which
// requested tiles are cached without blocking and schedules asynchronous fetches for the rest,
// capped by a fixed number of in-flight requests.
package tilecache

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/joeydtaylor/iqview/pkg/internal/types"
	"golang.org/x/sync/semaphore"
)

const (
	DefaultMaxInFlight      = 8
	DefaultBytesPerIQSample = 8
	defaultReadyBuffer      = 64
)

// FetchStatus is the outcome of RequestFetch.
type FetchStatus int

const (
	FetchStarted FetchStatus = iota
	FetchCached
	FetchInFlight
	FetchDeclined
	FetchOutOfRange
	FetchClosed
)

func (s FetchStatus) String() string {
	switch s {
	case FetchStarted:
		return "started"
	case FetchCached:
		return "cached"
	case FetchInFlight:
		return "in_flight"
	case FetchDeclined:
		return "declined"
	case FetchOutOfRange:
		return "out_of_range"
	case FetchClosed:
		return "closed"
	}
	return "unknown"
}

// Coordinator caches tiles for one recording and coordinates their fetches.
type Coordinator struct {
	componentMetadata types.ComponentMetadata
	ctx               context.Context
	cancel            context.CancelFunc

	source           types.TileSource
	totalIQSamples   int64
	tileSize         int
	bytesPerIQSample int64
	maxInFlight      int64
	maxTiles         int
	readyBuffer      int

	mu       sync.Mutex
	store    tileStore
	inFlight map[int]struct{}
	evicted  []int
	closed   bool

	sem       *semaphore.Weighted
	ready     chan int
	wg        sync.WaitGroup
	closeOnce sync.Once

	loggers    []types.Logger
	sensors    []types.Sensor
	configLock sync.Mutex
}

// NewCoordinator returns a coordinator fetching from source. Fetches run on a context derived
// from ctx and are only cancelled by Close or by ctx itself.
func NewCoordinator(ctx context.Context, source types.TileSource, totalIQSamples int64, options ...types.Option[*Coordinator]) *Coordinator {
	ctx, cancel := context.WithCancel(ctx)
	c := &Coordinator{
		componentMetadata: types.ComponentMetadata{
			ID:   uuid.NewString(),
			Type: "TILE_COORDINATOR",
		},
		ctx:              ctx,
		cancel:           cancel,
		source:           source,
		totalIQSamples:   totalIQSamples,
		tileSize:         types.DefaultTileSize,
		bytesPerIQSample: DefaultBytesPerIQSample,
		maxInFlight:      DefaultMaxInFlight,
		readyBuffer:      defaultReadyBuffer,
		inFlight:         make(map[int]struct{}),
	}

	for _, option := range options {
		option(c)
	}

	c.sem = semaphore.NewWeighted(c.maxInFlight)
	c.ready = make(chan int, c.readyBuffer)
	c.store = c.newStore()

	c.NotifyLoggers(types.DebugLevel, "NewCoordinator: created",
		"component", c.snapshotMetadata(),
		"tile_size", c.tileSize,
		"total_iq_samples", c.totalIQSamples,
		"max_in_flight", c.maxInFlight,
		"max_tiles", c.maxTiles,
	)
	return c
}

func (c *Coordinator) newStore() tileStore {
	if c.maxTiles <= 0 {
		return newMapStore()
	}
	s, err := newLRUStore(c.maxTiles, func(t int) { c.evicted = append(c.evicted, t) })
	if err != nil {
		c.NotifyLoggers(types.WarnLevel, "NewCoordinator: falling back to unbounded cache",
			"component", c.snapshotMetadata(), "error", err)
		return newMapStore()
	}
	return s
}
