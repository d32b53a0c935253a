package tilesource_test

import (
	"bytes"
	"context"
	"encoding/binary"
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
	"github.com/joeydtaylor/iqview/pkg/internal/tilesource"
	"github.com/joeydtaylor/iqview/pkg/internal/types"
)

func TestParseDataType(t *testing.T) {
	cases := map[string]int{
		"ci8": 2, "cu8": 2, "ci16_le": 4, "cu16_le": 4, "CI16_BE": 4,
		"ci32_le": 8, "cu32_le": 8, "cf32_le": 8, "cf64_le": 16,
	}
	for name, bps := range cases {
		dt, err := tilesource.ParseDataType(name)
		if err != nil {
			t.Fatalf("ParseDataType(%q): %v", name, err)
		}
		if dt.BytesPerIQSample() != bps {
			t.Fatalf("%s: expected %d bytes per sample, got %d", name, bps, dt.BytesPerIQSample())
		}
	}
	for _, bad := range []string{"", "rf32_le", "ci64_le", "cf16_le", "ci16", "cx8", "cf32_xx"} {
		if _, err := tilesource.ParseDataType(bad); !errors.Is(err, types.ErrUnknownDataType) {
			t.Fatalf("%q: expected ErrUnknownDataType, got %v", bad, err)
		}
	}
}

func TestDecode(t *testing.T) {
	le := binary.LittleEndian
	f32 := make([]byte, 8)
	le.PutUint32(f32, math.Float32bits(0.25))
	le.PutUint32(f32[4:], math.Float32bits(-0.5))

	f64 := make([]byte, 16)
	le.PutUint64(f64, math.Float64bits(0.75))
	le.PutUint64(f64[8:], math.Float64bits(-1))

	i16 := make([]byte, 4)
	le.PutUint16(i16, uint16(0x4000))
	v := int16(-32768)
	le.PutUint16(i16[2:], uint16(v))

	u16be := []byte{0x80, 0x00, 0xC0, 0x00}

	i32 := make([]byte, 8)
	le.PutUint32(i32, uint32(1<<30))
	n := int32(-1 << 30)
	le.PutUint32(i32[4:], uint32(n))

	u32 := make([]byte, 8)
	le.PutUint32(u32, 1<<31)
	le.PutUint32(u32[4:], 0)

	cases := []struct {
		dt   string
		raw  []byte
		want []float32
	}{
		{"cf32_le", f32, []float32{0.25, -0.5}},
		{"cf64_le", f64, []float32{0.75, -1}},
		{"ci8", []byte{64, 0xC0, 0x7f}, []float32{0.5, -0.5}},
		{"cu8", []byte{192, 64}, []float32{0.5, -0.5}},
		{"ci16_le", i16, []float32{0.5, -1}},
		{"cu16_be", u16be, []float32{0, 0.5}},
		{"ci32_le", i32, []float32{0.5, -0.5}},
		{"cu32_le", u32, []float32{0, -1}},
	}
	for _, tc := range cases {
		dt, err := tilesource.ParseDataType(tc.dt)
		if err != nil {
			t.Fatalf("%s: %v", tc.dt, err)
		}
		got := dt.Decode(tc.raw)
		if len(got) != len(tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.dt, tc.want, got)
		}
		for i := range got {
			if math.Abs(float64(got[i]-tc.want[i])) > 1e-7 {
				t.Fatalf("%s: expected %v, got %v", tc.dt, tc.want, got)
			}
		}
	}
}

func writeCI8(t *testing.T, samples int) (string, []byte) {
	t.Helper()
	raw := make([]byte, 2*samples)
	for i := range raw {
		raw[i] = byte(i % 256)
	}
	path := filepath.Join(t.TempDir(), "rec.sigmf-data")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path, raw
}

func TestFileReader_RangesAndEOF(t *testing.T) {
	path, raw := writeCI8(t, 100)
	r, err := tilesource.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer r.Close()
	if r.Size() != 200 {
		t.Fatalf("expected size 200, got %d", r.Size())
	}

	got, err := r.ReadRange(context.Background(), 10, 20)
	if err != nil || !bytes.Equal(got, raw[10:30]) {
		t.Fatalf("unexpected range %v err %v", got, err)
	}
	got, err = r.ReadRange(context.Background(), 190, 64)
	if err != nil || !bytes.Equal(got, raw[190:]) {
		t.Fatalf("expected clamped tail, got %d bytes err %v", len(got), err)
	}
	got, err = r.ReadRange(context.Background(), 500, 10)
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty read past EOF, got %d bytes err %v", len(got), err)
	}
	if _, err := tilesource.OpenFile(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatalf("expected error opening missing file")
	}
}

func TestSource_DecodesAndPreprocesses(t *testing.T) {
	path, _ := writeCI8(t, 64)
	r, err := tilesource.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer r.Close()
	dt, _ := tilesource.ParseDataType("ci8")

	calls := 0
	src := tilesource.New(r, dt, tilesource.WithPreprocessor(func(s []float32) []float32 {
		calls++
		for i := range s {
			s[i] *= 2
		}
		return s
	}))
	samples, err := src.FetchTileSamples(context.Background(), 1, 32, 32)
	if err != nil {
		t.Fatalf("FetchTileSamples: %v", err)
	}
	if len(samples) != 32 || calls != 1 {
		t.Fatalf("expected 32 values and one preprocessor call, got %d values %d calls", len(samples), calls)
	}
	if want := float32(32) / 128 * 2; samples[0] != want {
		t.Fatalf("expected first value %v, got %v", want, samples[0])
	}
}

func TestHTTPReader(t *testing.T) {
	content := []byte(strings.Repeat("0123456789", 10))
	ranged := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.ServeContent(w, r, "rec.sigmf-data", time.Time{}, bytes.NewReader(content))
	}))
	defer ranged.Close()
	plain := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(content)
	}))
	defer plain.Close()
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer broken.Close()

	for _, url := range []string{ranged.URL, plain.URL} {
		r := tilesource.NewHTTPReader(url, tilesource.WithTimeout(time.Second), tilesource.WithHeader("X-Test", "1"))
		got, err := r.ReadRange(context.Background(), 15, 10)
		if err != nil || !bytes.Equal(got, content[15:25]) {
			t.Fatalf("%s: unexpected range %q err %v", url, got, err)
		}
		got, err = r.ReadRange(context.Background(), 95, 10)
		if err != nil || !bytes.Equal(got, content[95:]) {
			t.Fatalf("%s: unexpected tail %q err %v", url, got, err)
		}
	}

	r := tilesource.NewHTTPReader(ranged.URL)
	size, err := r.Size(context.Background())
	if err != nil || size != int64(len(content)) {
		t.Fatalf("Size: %d err %v", size, err)
	}
	whole, err := r.ReadAll(context.Background())
	if err != nil || !bytes.Equal(whole, content) {
		t.Fatalf("ReadAll: %d bytes err %v", len(whole), err)
	}

	_, err = tilesource.NewHTTPReader(broken.URL).ReadRange(context.Background(), 0, 10)
	var he *tilesource.HTTPError
	if !errors.As(err, &he) || he.StatusCode != http.StatusForbidden {
		t.Fatalf("expected HTTPError 403, got %v", err)
	}
}

type fakeS3 struct {
	data      []byte
	lastRange string
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if aws.ToString(in.Bucket) != "recordings" || aws.ToString(in.Key) != "capture.sigmf-data" {
		return nil, errors.New("NoSuchKey")
	}
	f.lastRange = aws.ToString(in.Range)
	if f.lastRange == "" {
		return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(f.data))}, nil
	}
	var start, end int
	if _, err := fmt.Sscanf(f.lastRange, "bytes=%d-%d", &start, &end); err != nil {
		return nil, err
	}
	if end >= len(f.data) {
		end = len(f.data) - 1
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(f.data[start : end+1]))}, nil
}

func (f *fakeS3) HeadObject(ctx context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	return &s3.HeadObjectOutput{ContentLength: aws.Int64(int64(len(f.data)))}, nil
}

func TestS3Reader(t *testing.T) {
	f := &fakeS3{data: []byte(strings.Repeat("abcdefgh", 8))}
	r := tilesource.NewS3Reader(f, "recordings", "capture.sigmf-data")
	got, err := r.ReadRange(context.Background(), 8, 16)
	if err != nil {
		t.Fatalf("ReadRange: %v", err)
	}
	if f.lastRange != "bytes=8-23" {
		t.Fatalf("unexpected Range header %q", f.lastRange)
	}
	if !bytes.Equal(got, f.data[8:24]) {
		t.Fatalf("unexpected bytes %q", got)
	}

	size, err := tilesource.S3ObjectSize(context.Background(), f, "recordings", "capture.sigmf-data")
	if err != nil || size != 64 {
		t.Fatalf("expected size 64, got %d err %v", size, err)
	}

	whole, err := tilesource.S3ReadObject(context.Background(), f, "recordings", "capture.sigmf-data")
	if err != nil || !bytes.Equal(whole, f.data) {
		t.Fatalf("S3ReadObject: %d bytes err %v", len(whole), err)
	}

	if _, err := tilesource.NewS3Reader(f, "recordings", "other").ReadRange(context.Background(), 0, 4); err == nil {
		t.Fatalf("expected error for missing key")
	}
	if _, err := tilesource.NewS3Reader(nil, "", "").ReadRange(context.Background(), 0, 4); err == nil {
		t.Fatalf("expected error for unconfigured reader")
	}
}
