package builder_test

import (
	"bytes"
	"context"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joeydtaylor/iqview/pkg/builder"
)

func openToneRecording(t *testing.T) (*builder.Recording, *builder.Config) {
	t.Helper()
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
	t.Cleanup(func() { _ = rec.Close() })
	return rec, cfg
}

func TestEncodePNG_RoundTripsRenderSize(t *testing.T) {
	rec, cfg := openToneRecording(t)
	res := renderComplete(t, rec, cfg)

	var buf bytes.Buffer
	if err := builder.EncodePNG(&buf, res.Image, res.Width); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != res.Width || b.Dy() != res.Height {
		t.Fatalf("image %dx%d, want %dx%d", b.Dx(), b.Dy(), res.Width, res.Height)
	}
}

func TestParseViewport_OverridesDefaults(t *testing.T) {
	cfg := testConfig()
	defaults, err := cfg.Render.Defaults.Viewport(cfg.Render.TileSize)
	if err != nil {
		t.Fatalf("Viewport: %v", err)
	}
	vs, err := builder.ParseViewport(url.Values{"fftSize": {"512"}}, defaults)
	if err != nil {
		t.Fatalf("ParseViewport: %v", err)
	}
	if vs.FFTSize != 512 || vs.SpectrogramHeight != defaults.SpectrogramHeight {
		t.Fatalf("unexpected viewport %+v", vs)
	}
}

func TestNewRenderServer_ServesRender(t *testing.T) {
	rec, cfg := openToneRecording(t)
	renderComplete(t, rec, cfg)
	defaults, err := cfg.Render.Defaults.Viewport(cfg.Render.TileSize)
	if err != nil {
		t.Fatalf("Viewport: %v", err)
	}

	srv := builder.NewRenderServer(rec.Spectrogram, defaults,
		builder.RenderServerWithAnnotations(rec.Annotations),
		builder.RenderServerWithPollInterval(10*time.Millisecond),
	)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/render")
	if err != nil {
		t.Fatalf("GET /render: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if got := resp.Header.Get("X-Missing-Tiles"); got != "" {
		t.Fatalf("X-Missing-Tiles = %q, want empty", got)
	}
	if _, err := png.Decode(resp.Body); err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
}

func TestExportParquet_WritesRows(t *testing.T) {
	rec, cfg := openToneRecording(t)
	view, err := cfg.Render.Defaults.Viewport(cfg.Render.TileSize)
	if err != nil {
		t.Fatalf("Viewport: %v", err)
	}

	var buf bytes.Buffer
	sum, err := builder.ExportParquet(context.Background(), rec.Spectrogram, view, &buf,
		builder.ExportWithCompression("zstd"),
		builder.ExportWithWait(2*time.Second),
	)
	if err != nil {
		t.Fatalf("ExportParquet: %v", err)
	}
	if sum.Rows == 0 || sum.SkippedRows != 0 {
		t.Fatalf("summary %+v", sum)
	}
	rows, err := builder.ReadParquetExport(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadParquetExport: %v", err)
	}
	if len(rows) != sum.Rows {
		t.Fatalf("read %d rows, wrote %d", len(rows), sum.Rows)
	}
}
