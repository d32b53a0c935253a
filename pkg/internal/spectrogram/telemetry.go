package spectrogram

import (
	"time"

	"github.com/joeydtaylor/iqview/pkg/internal/types"
)

// ConnectLogger attaches loggers. Loggers connected after New are not seen by the coordinator.
func (s *Spectrogram) ConnectLogger(loggers ...types.Logger) {
	s.configLock.Lock()
	defer s.configLock.Unlock()
	for _, l := range loggers {
		if l != nil {
			s.loggers = append(s.loggers, l)
		}
	}
}

// ConnectSensor registers sensors for compute, invalidation and render events.
func (s *Spectrogram) ConnectSensor(sensors ...types.Sensor) {
	s.configLock.Lock()
	defer s.configLock.Unlock()
	for _, sn := range sensors {
		if sn != nil {
			s.sensors = append(s.sensors, sn)
		}
	}
}

// SetComponentMetadata overrides name and id while preserving the type.
func (s *Spectrogram) SetComponentMetadata(name string, id string) {
	s.configLock.Lock()
	s.componentMetadata.Name = name
	s.componentMetadata.ID = id
	s.configLock.Unlock()
}

// NotifyLoggers emits a log entry to all configured loggers.
func (s *Spectrogram) NotifyLoggers(level types.LogLevel, msg string, keysAndValues ...interface{}) {
	for _, logger := range s.snapshotLoggers() {
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
		default:
			logger.Error(msg, keysAndValues...)
		}
	}
}

func (s *Spectrogram) notifyTileComputed(t int, rows int, elapsed time.Duration) {
	metadata := s.snapshotMetadata()
	for _, sn := range s.snapshotSensors() {
		sn.InvokeOnTileComputed(metadata, t, rows, elapsed)
	}
}

func (s *Spectrogram) notifyCacheInvalidated(reason string, entries int) {
	metadata := s.snapshotMetadata()
	for _, sn := range s.snapshotSensors() {
		sn.InvokeOnCacheInvalidated(metadata, reason, entries)
	}
	s.NotifyLoggers(types.DebugLevel, "Render: fft cache invalidated", "component", metadata, "event", "CacheInvalidated", "reason", reason, "entries", entries)
}

func (s *Spectrogram) notifyRenderComplete(rows, missing int, elapsed time.Duration) {
	metadata := s.snapshotMetadata()
	for _, sn := range s.snapshotSensors() {
		sn.InvokeOnRenderComplete(metadata, rows, missing, elapsed)
	}
	s.NotifyLoggers(types.DebugLevel, "Render: complete", "component", metadata, "event", "RenderComplete", "rows", rows, "missing", missing, "elapsed", elapsed)
}
