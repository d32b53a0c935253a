package sensor

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/joeydtaylor/iqview/pkg/internal/types"
)

// Sensor provides callback hooks for render pipeline telemetry.
type Sensor struct {
	componentMetadata types.ComponentMetadata
	metadataLock      sync.Mutex

	callbackLock sync.RWMutex

	OnTileFetchStart    []func(types.ComponentMetadata, int)
	OnTileFetchSuccess  []func(types.ComponentMetadata, int, int, time.Duration)
	OnTileFetchError    []func(types.ComponentMetadata, int, error)
	OnTileFetchDeclined []func(types.ComponentMetadata, int)
	OnTileEvicted       []func(types.ComponentMetadata, int)
	OnTileComputed      []func(types.ComponentMetadata, int, int, time.Duration)
	OnCacheInvalidated  []func(types.ComponentMetadata, string, int)
	OnRenderComplete    []func(types.ComponentMetadata, int, int, time.Duration)

	loggers     []types.Logger
	loggersLock sync.Mutex
}

// NewSensor creates a sensor with the supplied options applied.
func NewSensor(options ...types.Option[*Sensor]) *Sensor {
	s := &Sensor{
		componentMetadata: types.ComponentMetadata{
			ID:   uuid.NewString(),
			Type: "SENSOR",
		},
	}
	for _, option := range options {
		option(s)
	}
	return s
}
