package sensor_test

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/joeydtaylor/iqview/pkg/internal/internallogger"
	"github.com/joeydtaylor/iqview/pkg/internal/sensor"
	"github.com/joeydtaylor/iqview/pkg/internal/types"
)

func TestSensor_InvokesRegisteredCallbacks(t *testing.T) {
	var starts, successes, failures, declined, evicted, computed, invalidated, renders int32
	var lastErr error

	s := sensor.NewSensor(
		sensor.WithLogger(internallogger.NewLogger(internallogger.LoggerWithLevel("error"))),
		sensor.WithOnTileFetchStartFunc(func(types.ComponentMetadata, int) { atomic.AddInt32(&starts, 1) }),
		sensor.WithOnTileFetchSuccessFunc(func(_ types.ComponentMetadata, _ int, samples int, _ time.Duration) {
			atomic.AddInt32(&successes, int32(samples))
		}),
		sensor.WithOnTileFetchErrorFunc(func(_ types.ComponentMetadata, _ int, err error) {
			atomic.AddInt32(&failures, 1)
			lastErr = err
		}),
		sensor.WithOnTileFetchDeclinedFunc(func(types.ComponentMetadata, int) { atomic.AddInt32(&declined, 1) }),
		sensor.WithOnTileEvictedFunc(func(types.ComponentMetadata, int) { atomic.AddInt32(&evicted, 1) }),
		sensor.WithOnTileComputedFunc(func(types.ComponentMetadata, int, int, time.Duration) { atomic.AddInt32(&computed, 1) }),
		sensor.WithOnCacheInvalidatedFunc(func(_ types.ComponentMetadata, reason string, _ int) {
			if reason == "fft_size" {
				atomic.AddInt32(&invalidated, 1)
			}
		}),
		sensor.WithOnRenderCompleteFunc(func(types.ComponentMetadata, int, int, time.Duration) { atomic.AddInt32(&renders, 1) }),
	)

	meta := types.ComponentMetadata{ID: "coord", Type: "TILE_COORDINATOR"}
	boom := errors.New("boom")

	s.InvokeOnTileFetchStart(meta, 1)
	s.InvokeOnTileFetchSuccess(meta, 1, 64, time.Millisecond)
	s.InvokeOnTileFetchError(meta, 2, boom)
	s.InvokeOnTileFetchDeclined(meta, 3)
	s.InvokeOnTileEvicted(meta, 0)
	s.InvokeOnTileComputed(meta, 1, 4, time.Millisecond)
	s.InvokeOnCacheInvalidated(meta, "fft_size", 3)
	s.InvokeOnRenderComplete(meta, 16, 0, time.Millisecond)

	checks := map[string]int32{
		"starts": starts, "successes": successes, "failures": failures, "declined": declined,
		"evicted": evicted, "computed": computed, "invalidated": invalidated, "renders": renders,
	}
	want := map[string]int32{
		"starts": 1, "successes": 64, "failures": 1, "declined": 1,
		"evicted": 1, "computed": 1, "invalidated": 1, "renders": 1,
	}
	for k, v := range want {
		if checks[k] != v {
			t.Fatalf("%s: expected %d, got %d", k, v, checks[k])
		}
	}
	if !errors.Is(lastErr, boom) {
		t.Fatalf("expected error to be passed through, got %v", lastErr)
	}
}

func TestSensor_ComponentMetadata(t *testing.T) {
	s := sensor.NewSensor(sensor.WithComponentMetadata("metrics", "sensor-1"))
	meta := s.GetComponentMetadata()
	if meta.Name != "metrics" || meta.ID != "sensor-1" || meta.Type != "SENSOR" {
		t.Fatalf("unexpected metadata: %+v", meta)
	}
}
