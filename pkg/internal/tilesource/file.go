package tilesource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

// FileReader reads ranges from a local file with ReadAt, so concurrent fetches share one handle.
type FileReader struct {
	f    *os.File
	size int64
}

// OpenFile opens path for range reads.
func OpenFile(path string) (*FileReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("tilesource: open %s: %w", path, err)
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("tilesource: stat %s: %w", path, err)
	}
	return &FileReader{f: f, size: st.Size()}, nil
}

// Size returns the file length in bytes.
func (r *FileReader) Size() int64 { return r.size }

// ReadRange reads up to count bytes at offset. Reads past EOF are shortened.
func (r *FileReader) ReadRange(ctx context.Context, offset, count int64) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 || count < 0 {
		return nil, fmt.Errorf("tilesource: invalid range offset=%d count=%d", offset, count)
	}
	if offset >= r.size {
		return []byte{}, nil
	}
	if offset+count > r.size {
		count = r.size - offset
	}
	buf := make([]byte, count)
	n, err := r.f.ReadAt(buf, offset)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return buf[:n], nil
}

// Close releases the file handle.
func (r *FileReader) Close() error { return r.f.Close() }
