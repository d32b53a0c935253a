package tilecache

import "github.com/joeydtaylor/iqview/pkg/internal/types"

// ConnectLogger attaches loggers to the coordinator.
func (c *Coordinator) ConnectLogger(loggers ...types.Logger) {
	c.configLock.Lock()
	for _, l := range loggers {
		if l != nil {
			c.loggers = append(c.loggers, l)
		}
	}
	c.configLock.Unlock()
}

// ConnectSensor registers sensors for fetch and cache events.
func (c *Coordinator) ConnectSensor(sensors ...types.Sensor) {
	c.configLock.Lock()
	added := make([]types.Sensor, 0, len(sensors))
	for _, s := range sensors {
		if s != nil {
			c.sensors = append(c.sensors, s)
			added = append(added, s)
		}
	}
	c.configLock.Unlock()

	component := c.snapshotMetadata()
	for _, s := range added {
		c.NotifyLoggers(types.DebugLevel, "ConnectSensor: connected sensor", "component", component, "sensor", s.GetComponentMetadata())
	}
}

// SetComponentMetadata overrides name and id while preserving the type.
func (c *Coordinator) SetComponentMetadata(name string, id string) {
	c.configLock.Lock()
	c.componentMetadata.Name = name
	c.componentMetadata.ID = id
	c.configLock.Unlock()
}
