package types

// ComponentMetadata defines the essential identifying information for components within the system.
// It is attached to every log line and sensor callback so events can be traced back to the
// spectrogram view, coordinator or source that produced them.
type ComponentMetadata struct {
	ID   string // Unique identifier for the component.
	Type string // Type of the component, e.g. "TILE_COORDINATOR".
	Name string // Human-readable name for the component.
}

// Option defines a configuration option function applicable to any component T.
type Option[T any] func(T)
