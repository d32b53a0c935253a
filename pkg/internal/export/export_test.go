package export_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joeydtaylor/iqview/pkg/internal/export"
	"github.com/joeydtaylor/iqview/pkg/internal/spectrogram"
	"github.com/joeydtaylor/iqview/pkg/internal/types"
)

const (
	testTile = 1024
	testFFT  = 256
)

// toneSource peaks above 0 dB so bins that clamp to 0 dB never outrank it.
var toneSource = types.TileSourceFunc(func(ctx context.Context, t int, off, count int64) ([]float32, error) {
	n := int(count / 8)
	out := make([]float32, 2*n)
	for i := 0; i < n; i++ {
		phase := 2 * math.Pi * float64(20*i) / testFFT
		out[2*i] = float32(10 * math.Cos(phase))
		out[2*i+1] = float32(10 * math.Sin(phase))
	}
	return out, nil
})

func newSpectrogram(t *testing.T, src types.TileSource) *spectrogram.Spectrogram {
	t.Helper()
	s, err := spectrogram.New(context.Background(), src,
		types.RecordingInfo{TotalIQSamples: 4 * testTile, SampleRate: 1e6, DataType: "cf32_le"},
		spectrogram.WithTileSize(testTile))
	if err != nil {
		t.Fatalf("spectrogram.New: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func view() types.ViewportState {
	return types.ViewportState{
		FFTSize:           testFFT,
		MagnitudeMin:      -60,
		MagnitudeMax:      0,
		Window:            types.Hanning,
		ColorMap:          types.Gray,
		ZoomLevel:         1,
		HandleTop:         0,
		SpectrogramHeight: 16,
	}
}

func TestWrite_WaitsForTilesAndWritesEveryRow(t *testing.T) {
	s := newSpectrogram(t, toneSource)

	var buf bytes.Buffer
	sum, err := export.Write(context.Background(), s, view(), &buf, export.WithWait(2*time.Second), export.WithCompression("zstd"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if sum.Rows != 16 || sum.SkippedRows != 0 || len(sum.MissingTiles) != 0 {
		t.Fatalf("unexpected summary %+v", sum)
	}
	if sum.Bytes != buf.Len() {
		t.Fatalf("summary bytes %d, buffer %d", sum.Bytes, buf.Len())
	}

	rows, err := export.Read(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(rows) != 16 {
		t.Fatalf("expected 16 rows, got %d", len(rows))
	}
	last := rows[15]
	if last.SampleOffset != 15*testFFT || last.Tile != 3 || last.Window != "hanning" {
		t.Fatalf("unexpected last row %+v", last)
	}
	if math.Abs(last.TimeOffset-float64(15*testFFT)/1e6) > 1e-12 {
		t.Fatalf("unexpected time offset %v", last.TimeOffset)
	}
	if len(last.MagnitudesDB) != testFFT {
		t.Fatalf("expected %d bins, got %d", testFFT, len(last.MagnitudesDB))
	}
	peak := 0
	for i, v := range last.MagnitudesDB {
		if v > last.MagnitudesDB[peak] {
			peak = i
		}
	}
	if peak != testFFT/2+20 {
		t.Fatalf("expected peak at bin %d, got %d", testFFT/2+20, peak)
	}
}

func TestWrite_SkipsMissingRowsWithoutWait(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	src := types.TileSourceFunc(func(ctx context.Context, _ int, _, _ int64) ([]float32, error) {
		select {
		case <-block:
		case <-ctx.Done():
		}
		return nil, errors.New("unavailable")
	})
	s := newSpectrogram(t, src)

	var buf bytes.Buffer
	sum, err := export.Write(context.Background(), s, view(), &buf)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if sum.Rows != 0 || sum.SkippedRows != 16 || len(sum.MissingTiles) != 4 {
		t.Fatalf("unexpected summary %+v", sum)
	}
}

type fakePut struct {
	bucket, key, ct string
	body            []byte
	err             error
}

func (f *fakePut) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.bucket = aws.ToString(in.Bucket)
	f.key = aws.ToString(in.Key)
	f.ct = aws.ToString(in.ContentType)
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestUpload(t *testing.T) {
	s := newSpectrogram(t, toneSource)
	put := &fakePut{}
	sum, err := export.Upload(context.Background(), put, "captures", "run1/rows.parquet", s, view(), export.WithWait(2*time.Second))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if put.bucket != "captures" || put.key != "run1/rows.parquet" || put.ct != "application/parquet" {
		t.Fatalf("unexpected put %+v", put)
	}
	if len(put.body) != sum.Bytes || sum.Rows != 16 {
		t.Fatalf("body %d bytes, summary %+v", len(put.body), sum)
	}

	put.err = errors.New("denied")
	if _, err := export.Upload(context.Background(), put, "captures", "k", s, view()); err == nil {
		t.Fatalf("expected upload error")
	}
}
