package tilesource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

const defaultHTTPTimeout = 30 * time.Second

// HTTPError describes a failed range request.
type HTTPError struct {
	StatusCode int
	Err        error
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (status %d): %v", e.Message, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

func (e *HTTPError) Unwrap() error { return e.Err }

// HTTPReader issues Range requests against a URL. Servers that ignore Range and answer 200 are
// tolerated by discarding the bytes before offset.
type HTTPReader struct {
	url     string
	client  *http.Client
	headers map[string]string
	timeout time.Duration
}

// HTTPOption configures an HTTPReader.
type HTTPOption func(*HTTPReader)

// WithHTTPClient sets the client used for requests.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(r *HTTPReader) {
		if c != nil {
			r.client = c
		}
	}
}

// WithHeader adds a request header, e.g. Authorization.
func WithHeader(key, value string) HTTPOption {
	return func(r *HTTPReader) { r.headers[key] = value }
}

// WithTimeout bounds each range request.
func WithTimeout(d time.Duration) HTTPOption {
	return func(r *HTTPReader) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// NewHTTPReader returns a reader for url.
func NewHTTPReader(url string, opts ...HTTPOption) *HTTPReader {
	r := &HTTPReader{
		url:     url,
		client:  http.DefaultClient,
		headers: make(map[string]string),
		timeout: defaultHTTPTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ReadRange fetches bytes [offset, offset+count).
func (r *HTTPReader) ReadRange(ctx context.Context, offset, count int64) ([]byte, error) {
	if count <= 0 {
		return []byte{}, nil
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return nil, &HTTPError{Err: err, Message: "failed to create range request"}
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("Range", "bytes="+strconv.FormatInt(offset, 10)+"-"+strconv.FormatInt(offset+count-1, 10))

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, &HTTPError{Err: err, Message: "range request failed"}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusPartialContent:
		return io.ReadAll(io.LimitReader(resp.Body, count))
	case http.StatusOK:
		if _, err := io.CopyN(io.Discard, resp.Body, offset); err != nil {
			if err == io.EOF {
				return []byte{}, nil
			}
			return nil, &HTTPError{StatusCode: resp.StatusCode, Err: err, Message: "skipping to range start failed"}
		}
		return io.ReadAll(io.LimitReader(resp.Body, count))
	case http.StatusRequestedRangeNotSatisfiable:
		return []byte{}, nil
	default:
		return nil, &HTTPError{StatusCode: resp.StatusCode, Message: "range request returned non-success status"}
	}
}

// Size returns the Content-Length reported by a HEAD request.
func (r *HTTPReader) Size(ctx context.Context) (int64, error) {
	resp, err := r.do(ctx, http.MethodHead)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, &HTTPError{StatusCode: resp.StatusCode, Message: "size request returned non-success status"}
	}
	if resp.ContentLength < 0 {
		return 0, &HTTPError{StatusCode: resp.StatusCode, Message: "server did not report a content length"}
	}
	return resp.ContentLength, nil
}

// ReadAll fetches the whole resource. It is used for small documents such as SigMF metadata.
func (r *HTTPReader) ReadAll(ctx context.Context) ([]byte, error) {
	resp, err := r.do(ctx, http.MethodGet)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Message: "request returned non-success status"}
	}
	return io.ReadAll(resp.Body)
}

func (r *HTTPReader) do(ctx context.Context, method string) (*http.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	req, err := http.NewRequestWithContext(ctx, method, r.url, nil)
	if err != nil {
		cancel()
		return nil, &HTTPError{Err: err, Message: "failed to create request"}
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		cancel()
		return nil, &HTTPError{Err: err, Message: "request failed"}
	}
	resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}
