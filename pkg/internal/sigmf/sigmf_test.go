package sigmf_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joeydtaylor/iqview/pkg/internal/sigmf"
	"github.com/joeydtaylor/iqview/pkg/internal/types"
)

const sampleMeta = `{
  "global": {
    "core:datatype": "ci16_le",
    "core:sample_rate": 2000000,
    "core:version": "1.0.0",
    "core:hw": "rtl-sdr"
  },
  "captures": [{"core:sample_start": 0, "core:frequency": 915000000}],
  "annotations": [
    {"core:sample_start": 100, "core:sample_count": 50, "core:freq_lower_edge": 914500000,
     "core:freq_upper_edge": 915500000, "core:label": "burst"}
  ]
}`

func TestParse(t *testing.T) {
	m, err := sigmf.Parse(strings.NewReader(sampleMeta))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	info, err := m.RecordingInfo(4 * 10000)
	if err != nil {
		t.Fatalf("RecordingInfo: %v", err)
	}
	want := types.RecordingInfo{TotalIQSamples: 10000, SampleRate: 2e6, CenterFrequency: 915e6, DataType: "ci16_le"}
	if info != want {
		t.Fatalf("expected %+v, got %+v", want, info)
	}
	anns := m.RenderAnnotations()
	if len(anns) != 1 || anns[0].Label != "burst" || anns[0].SampleCount != 50 || anns[0].FreqUpperEdge != 915.5e6 {
		t.Fatalf("unexpected annotations %+v", anns)
	}
}

func TestParse_Errors(t *testing.T) {
	if _, err := sigmf.Parse(strings.NewReader("{")); err == nil {
		t.Fatalf("expected decode error")
	}
	bad := strings.Replace(sampleMeta, "ci16_le", "rf32_le", 1)
	if _, err := sigmf.Parse(strings.NewReader(bad)); !errors.Is(err, types.ErrUnknownDataType) {
		t.Fatalf("expected ErrUnknownDataType, got %v", err)
	}
}

func TestLoadAndDataPath(t *testing.T) {
	dir := t.TempDir()
	meta := filepath.Join(dir, "capture.sigmf-meta")
	if err := os.WriteFile(meta, []byte(sampleMeta), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	m, err := sigmf.Load(meta)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.CenterFrequency() != 915e6 {
		t.Fatalf("unexpected centre frequency %v", m.CenterFrequency())
	}
	if got := sigmf.DataPath(meta); got != filepath.Join(dir, "capture.sigmf-data") {
		t.Fatalf("unexpected data path %s", got)
	}
	if got := sigmf.MetaPath("caps/capture.sigmf-data"); got != "caps/capture.sigmf-meta" {
		t.Fatalf("unexpected meta path %s", got)
	}
	if _, err := sigmf.Load(filepath.Join(dir, "missing.sigmf-meta")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
