package renderserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/joeydtaylor/iqview/pkg/internal/colormap"
	"github.com/joeydtaylor/iqview/pkg/internal/types"
)

// ParseViewport overlays query parameters on defaults.
func ParseViewport(q url.Values, defaults types.ViewportState) (types.ViewportState, error) {
	v := defaults
	var err error
	if s := q.Get("handleTop"); s != "" {
		if v.HandleTop, err = strconv.ParseFloat(s, 64); err != nil {
			return v, fmt.Errorf("handleTop: %w", err)
		}
	}
	if s := q.Get("fftSize"); s != "" {
		if v.FFTSize, err = strconv.Atoi(s); err != nil {
			return v, fmt.Errorf("fftSize: %w", err)
		}
	}
	if s := q.Get("zoom"); s != "" {
		if v.ZoomLevel, err = strconv.Atoi(s); err != nil {
			return v, fmt.Errorf("zoom: %w", err)
		}
	}
	if s := q.Get("height"); s != "" {
		if v.SpectrogramHeight, err = strconv.Atoi(s); err != nil {
			return v, fmt.Errorf("height: %w", err)
		}
	}
	if s := q.Get("min"); s != "" {
		if v.MagnitudeMin, err = strconv.ParseFloat(s, 64); err != nil {
			return v, fmt.Errorf("min: %w", err)
		}
	}
	if s := q.Get("max"); s != "" {
		if v.MagnitudeMax, err = strconv.ParseFloat(s, 64); err != nil {
			return v, fmt.Errorf("max: %w", err)
		}
	}
	if s := q.Get("window"); s != "" {
		if v.Window, err = types.ParseWindowFunction(s); err != nil {
			return v, err
		}
	}
	if s := q.Get("colormap"); s != "" {
		if v.ColorMap, err = types.ParseColorMapID(s); err != nil {
			return v, err
		}
	}
	return v, nil
}

func (s *Server) viewFromRequest(w http.ResponseWriter, r *http.Request) (types.ViewportState, bool) {
	view, err := ParseViewport(r.URL.Query(), s.defaults)
	if err == nil {
		err = s.spec.Validate(view)
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return view, false
	}
	return view, true
}

func setResultHeaders(h http.Header, res types.RenderResult) {
	h.Set("X-Missing-Tiles", joinInts(res.MissingTiles))
	h.Set("X-Lower-Tile", strconv.FormatFloat(res.Tiles.Lower, 'f', -1, 64))
	h.Set("X-Upper-Tile", strconv.FormatFloat(res.Tiles.Upper, 'f', -1, 64))
	h.Set("X-Width", strconv.Itoa(res.Width))
	h.Set("X-Height", strconv.Itoa(res.Height))
	h.Set("Cache-Control", "no-store")
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	view, ok := s.viewFromRequest(w, r)
	if !ok {
		return
	}
	res, err := s.spec.RenderAndFetch(r.Context(), view)
	if err != nil {
		s.renderFailed(w, err)
		return
	}
	var buf bytes.Buffer
	if res.Height > 0 {
		if err := colormap.EncodePNG(&buf, res.Image, res.Width); err != nil {
			s.renderFailed(w, err)
			return
		}
	}
	setResultHeaders(w.Header(), res)
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleRaster(w http.ResponseWriter, r *http.Request) {
	view, ok := s.viewFromRequest(w, r)
	if !ok {
		return
	}
	res, err := s.spec.RenderAndFetch(r.Context(), view)
	if err != nil {
		s.renderFailed(w, err)
		return
	}
	setResultHeaders(w.Header(), res)
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(res.Image)
}

func (s *Server) handleAnnotations(w http.ResponseWriter, r *http.Request) {
	view, ok := s.viewFromRequest(w, r)
	if !ok {
		return
	}
	type placed struct {
		types.PixelRect
		Label string `json:"label,omitempty"`
	}
	out := make([]placed, 0, len(s.annotations))
	for _, a := range s.annotations {
		rect := s.spec.AnnotationRect(a, view)
		if rect.Visible {
			out = append(out, placed{PixelRect: rect, Label: a.Label})
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

func (s *Server) renderFailed(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, types.ErrClosed) {
		status = http.StatusServiceUnavailable
	}
	s.NotifyLoggers(types.ErrorLevel, "render failed", "component", s.componentMetadata, "error", err)
	http.Error(w, err.Error(), status)
}

func joinInts(v []int) string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}
