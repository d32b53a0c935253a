package tilesource

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/joeydtaylor/iqview/pkg/internal/types"
)

// DataType is a parsed complex SigMF core:datatype such as "ci16_le" or "cf32_le".
type DataType struct {
	name      string
	kind      byte // 'i', 'u' or 'f'
	bits      int
	bigEndian bool
}

// ParseDataType accepts complex integer and float SigMF datatypes. Real-valued types are
// rejected since the pipeline needs I and Q.
func ParseDataType(s string) (DataType, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	body, endian, _ := strings.Cut(name, "_")
	if len(body) < 3 || body[0] != 'c' {
		return DataType{}, fmt.Errorf("%w: %q", types.ErrUnknownDataType, s)
	}
	dt := DataType{name: name, kind: body[1]}
	switch body[2:] {
	case "8":
		dt.bits = 8
	case "16":
		dt.bits = 16
	case "32":
		dt.bits = 32
	case "64":
		dt.bits = 64
	default:
		return DataType{}, fmt.Errorf("%w: %q", types.ErrUnknownDataType, s)
	}

	switch dt.kind {
	case 'i', 'u':
		if dt.bits == 64 {
			return DataType{}, fmt.Errorf("%w: %q", types.ErrUnknownDataType, s)
		}
	case 'f':
		if dt.bits != 32 && dt.bits != 64 {
			return DataType{}, fmt.Errorf("%w: %q", types.ErrUnknownDataType, s)
		}
	default:
		return DataType{}, fmt.Errorf("%w: %q", types.ErrUnknownDataType, s)
	}

	switch endian {
	case "", "le":
		if endian == "" && dt.bits != 8 {
			return DataType{}, fmt.Errorf("%w: %q needs an endianness suffix", types.ErrUnknownDataType, s)
		}
	case "be":
		dt.bigEndian = true
	default:
		return DataType{}, fmt.Errorf("%w: %q", types.ErrUnknownDataType, s)
	}
	return dt, nil
}

func (d DataType) String() string { return d.name }

// BytesPerIQSample is the on-disk size of one complex sample.
func (d DataType) BytesPerIQSample() int { return 2 * d.bits / 8 }

// Decode converts raw bytes to interleaved float32 I/Q values. Integers are scaled to [-1, 1);
// unsigned types are re-centred first. A trailing partial sample is ignored.
func (d DataType) Decode(raw []byte) []float32 {
	width := d.bits / 8
	n := (len(raw) / d.BytesPerIQSample()) * 2
	out := make([]float32, n)
	var order binary.ByteOrder = binary.LittleEndian
	if d.bigEndian {
		order = binary.BigEndian
	}

	for i := 0; i < n; i++ {
		b := raw[i*width : (i+1)*width]
		switch {
		case d.kind == 'f' && d.bits == 32:
			out[i] = math.Float32frombits(order.Uint32(b))
		case d.kind == 'f':
			out[i] = float32(math.Float64frombits(order.Uint64(b)))
		case d.bits == 8 && d.kind == 'i':
			out[i] = float32(int8(b[0])) / 128
		case d.bits == 8:
			out[i] = (float32(b[0]) - 128) / 128
		case d.bits == 16 && d.kind == 'i':
			out[i] = float32(int16(order.Uint16(b))) / 32768
		case d.bits == 16:
			out[i] = (float32(order.Uint16(b)) - 32768) / 32768
		case d.kind == 'i':
			out[i] = float32(float64(int32(order.Uint32(b))) / 2147483648)
		default:
			out[i] = float32((float64(order.Uint32(b)) - 2147483648) / 2147483648)
		}
	}
	return out
}
