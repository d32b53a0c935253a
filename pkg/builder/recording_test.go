package builder_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joeydtaylor/iqview/pkg/builder"
)

const testMeta = `{
  "global": {"core:datatype": "ci8", "core:sample_rate": 1000000, "core:version": "1.0.0"},
  "captures": [{"core:sample_start": 0, "core:frequency": 433920000}],
  "annotations": [{"core:sample_start": 0, "core:sample_count": 256, "core:label": "preamble"}]
}`

// toneData returns n ci8 samples of a tone at bin 16 of a 256-point FFT.
func toneData(n int) []byte {
	out := make([]byte, 2*n)
	for i := 0; i < n; i++ {
		phase := 2 * math.Pi * float64(16*i) / 256
		out[2*i] = byte(int8(100 * math.Cos(phase)))
		out[2*i+1] = byte(int8(100 * math.Sin(phase)))
	}
	return out
}

func testConfig() *builder.Config {
	cfg := builder.DefaultConfig()
	cfg.Render.TileSize = 1024
	cfg.Render.Defaults.FFTSize = 256
	cfg.Render.Defaults.Height = 16
	return cfg
}

func renderComplete(t *testing.T, rec *builder.Recording, cfg *builder.Config) builder.RenderResult {
	t.Helper()
	view, err := cfg.Render.Defaults.Viewport(cfg.Render.TileSize)
	if err != nil {
		t.Fatalf("Viewport: %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for {
		res, err := rec.Spectrogram.RenderAndFetch(context.Background(), view)
		if err != nil {
			t.Fatalf("RenderAndFetch: %v", err)
		}
		if len(res.MissingTiles) == 0 {
			return res
		}
		if time.Now().After(deadline) {
			t.Fatalf("tiles still missing: %v", res.MissingTiles)
		}
		select {
		case <-rec.Spectrogram.Ready():
		case <-time.After(20 * time.Millisecond):
		}
	}
}

func TestOpenRecording_File(t *testing.T) {
	dir := t.TempDir()
	meta := filepath.Join(dir, "cap.sigmf-meta")
	if err := os.WriteFile(meta, []byte(testMeta), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "cap.sigmf-data"), toneData(4096), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := testConfig()
	cfg.Recording.MetaPath = meta
	rec, err := builder.OpenRecording(context.Background(), cfg)
	if err != nil {
		t.Fatalf("OpenRecording: %v", err)
	}
	defer rec.Close()

	if rec.Info.TotalIQSamples != 4096 || rec.Info.CenterFrequency != 433.92e6 || rec.Info.DataType != "ci8" {
		t.Fatalf("unexpected info %+v", rec.Info)
	}
	if len(rec.Annotations) != 1 || rec.Annotations[0].Label != "preamble" {
		t.Fatalf("unexpected annotations %+v", rec.Annotations)
	}
	res := renderComplete(t, rec, cfg)
	if res.Width != 256 || res.Height != 16 {
		t.Fatalf("unexpected raster %dx%d", res.Width, res.Height)
	}
}

func TestOpenRecording_MissingMetadata(t *testing.T) {
	cfg := testConfig()
	if _, err := builder.OpenRecording(context.Background(), cfg); err == nil {
		t.Fatalf("expected error without any recording location")
	}
	cfg.Recording.MetaPath = filepath.Join(t.TempDir(), "nope.sigmf-meta")
	if _, err := builder.OpenRecording(context.Background(), cfg); err == nil {
		t.Fatalf("expected error for missing metadata file")
	}
}

func TestOpenRecording_HTTP(t *testing.T) {
	data := toneData(4096)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rec/cap.sigmf-meta":
			_, _ = w.Write([]byte(testMeta))
		case "/rec/cap.sigmf-data":
			http.ServeContent(w, r, "cap.sigmf-data", time.Time{}, bytes.NewReader(data))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.Recording.HTTPURL = srv.URL + "/rec/cap.sigmf-data"
	rec, err := builder.OpenRecording(context.Background(), cfg, builder.RecordingWithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("OpenRecording: %v", err)
	}
	defer rec.Close()
	if rec.Info.TotalIQSamples != 4096 {
		t.Fatalf("unexpected total %d", rec.Info.TotalIQSamples)
	}
	renderComplete(t, rec, cfg)
}

type fakeS3 struct {
	objects map[string][]byte
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	obj, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	if rng := aws.ToString(in.Range); rng != "" {
		var start, end int
		if _, err := fmt.Sscanf(rng, "bytes=%d-%d", &start, &end); err != nil {
			return nil, err
		}
		if end >= len(obj) {
			end = len(obj) - 1
		}
		obj = obj[start : end+1]
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(obj))}, nil
}

func (f *fakeS3) HeadObject(ctx context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	obj, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, errors.New("NotFound")
	}
	return &s3.HeadObjectOutput{ContentLength: aws.Int64(int64(len(obj)))}, nil
}

func TestOpenRecording_S3(t *testing.T) {
	cli := &fakeS3{objects: map[string][]byte{
		"caps/cap.sigmf-meta": []byte(testMeta),
		"caps/cap.sigmf-data": toneData(2048),
	}}
	cfg := testConfig()
	cfg.Recording.S3 = builder.S3Config{Bucket: "recordings", Key: "caps/cap.sigmf-data"}

	rec, err := builder.OpenRecording(context.Background(), cfg, builder.RecordingWithS3Client(cli))
	if err != nil {
		t.Fatalf("OpenRecording: %v", err)
	}
	defer rec.Close()
	if rec.Info.TotalIQSamples != 2048 {
		t.Fatalf("unexpected total %d", rec.Info.TotalIQSamples)
	}
	renderComplete(t, rec, cfg)

	cfg.Recording.S3.Key = "caps/other.sigmf-data"
	if _, err := builder.OpenRecording(context.Background(), cfg, builder.RecordingWithS3Client(cli)); err == nil || !strings.Contains(err.Error(), "metadata") {
		t.Fatalf("expected metadata fetch error, got %v", err)
	}
}
