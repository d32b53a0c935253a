// Package sigmf reads the parts of a SigMF metadata file the renderer needs: the sample format,
// sample rate, centre frequency and annotations.
package sigmf

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joeydtaylor/iqview/pkg/internal/tilesource"
	"github.com/joeydtaylor/iqview/pkg/internal/types"
)

const (
	MetaExtension = ".sigmf-meta"
	DataExtension = ".sigmf-data"
)

type Global struct {
	DataType    string  `json:"core:datatype"`
	SampleRate  float64 `json:"core:sample_rate"`
	Version     string  `json:"core:version"`
	Description string  `json:"core:description,omitempty"`
	Author      string  `json:"core:author,omitempty"`
	Hardware    string  `json:"core:hw,omitempty"`
}

type Capture struct {
	SampleStart int64   `json:"core:sample_start"`
	Frequency   float64 `json:"core:frequency"`
	DateTime    string  `json:"core:datetime,omitempty"`
}

type Annotation struct {
	SampleStart   int64   `json:"core:sample_start"`
	SampleCount   int64   `json:"core:sample_count"`
	FreqLowerEdge float64 `json:"core:freq_lower_edge,omitempty"`
	FreqUpperEdge float64 `json:"core:freq_upper_edge,omitempty"`
	Label         string  `json:"core:label,omitempty"`
	Comment       string  `json:"core:comment,omitempty"`
}

// Metadata is a decoded .sigmf-meta document. Unknown fields are ignored.
type Metadata struct {
	Global      Global       `json:"global"`
	Captures    []Capture    `json:"captures"`
	Annotations []Annotation `json:"annotations"`
}

// Parse decodes a metadata document and checks that its datatype is one the decoder handles.
func Parse(r io.Reader) (*Metadata, error) {
	var m Metadata
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("sigmf: decode metadata: %w", err)
	}
	if _, err := tilesource.ParseDataType(m.Global.DataType); err != nil {
		return nil, fmt.Errorf("sigmf: %w", err)
	}
	return &m, nil
}

// Load reads and parses a .sigmf-meta file.
func Load(path string) (*Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sigmf: open %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// DataPath returns the data file that pairs with a metadata path.
func DataPath(metaPath string) string {
	return strings.TrimSuffix(metaPath, MetaExtension) + DataExtension
}

// DataType returns the parsed sample format.
func (m *Metadata) DataType() (tilesource.DataType, error) {
	return tilesource.ParseDataType(m.Global.DataType)
}

// CenterFrequency is the frequency of the first capture segment, or 0 when there is none.
func (m *Metadata) CenterFrequency() float64 {
	if len(m.Captures) == 0 {
		return 0
	}
	return m.Captures[0].Frequency
}

// RecordingInfo derives the render metadata for a data file of dataBytes bytes.
func (m *Metadata) RecordingInfo(dataBytes int64) (types.RecordingInfo, error) {
	dt, err := m.DataType()
	if err != nil {
		return types.RecordingInfo{}, err
	}
	if dataBytes < 0 {
		return types.RecordingInfo{}, fmt.Errorf("sigmf: negative data size %d", dataBytes)
	}
	return types.RecordingInfo{
		TotalIQSamples:  dataBytes / int64(dt.BytesPerIQSample()),
		SampleRate:      m.Global.SampleRate,
		CenterFrequency: m.CenterFrequency(),
		DataType:        dt.String(),
	}, nil
}

// RenderAnnotations converts the document's annotations for overlay placement.
func (m *Metadata) RenderAnnotations() []types.Annotation {
	out := make([]types.Annotation, 0, len(m.Annotations))
	for _, a := range m.Annotations {
		out = append(out, types.Annotation{
			SampleStart:   a.SampleStart,
			SampleCount:   a.SampleCount,
			FreqLowerEdge: a.FreqLowerEdge,
			FreqUpperEdge: a.FreqUpperEdge,
			Label:         a.Label,
		})
	}
	return out
}

// MetaPath returns the metadata file that pairs with a data path or object key.
func MetaPath(dataPath string) string {
	return strings.TrimSuffix(dataPath, DataExtension) + MetaExtension
}
