package renderserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/joeydtaylor/iqview/pkg/internal/colormap"
	"github.com/joeydtaylor/iqview/pkg/internal/types"
	"nhooyr.io/websocket"
)

// Frame is the text message sent ahead of each binary PNG frame.
type Frame struct {
	Seq          int     `json:"seq"`
	Width        int     `json:"width"`
	Height       int     `json:"height"`
	LowerTile    float64 `json:"lowerTile"`
	UpperTile    float64 `json:"upperTile"`
	MissingTiles []int   `json:"missingTiles"`
	Complete     bool    `json:"complete"`
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	view, ok := s.viewFromRequest(w, r)
	if !ok {
		return
	}
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		return
	}
	defer func() { _ = conn.Close(websocket.StatusNormalClosure, "stream closed") }()

	ctx, cancel := context.WithTimeout(r.Context(), s.progressTimeout)
	defer cancel()
	ctx = conn.CloseRead(ctx)

	if err := s.stream(ctx, conn, view); err != nil {
		s.NotifyLoggers(types.DebugLevel, "handleWS: stream ended", "component", s.componentMetadata, "error", err)
	}
}

// stream sends one frame now and another each time a tile arrives, until nothing is missing.
func (s *Server) stream(ctx context.Context, conn *websocket.Conn, view types.ViewportState) error {
	ready, unsubscribe := s.hub.subscribe()
	defer unsubscribe()

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	seq := 0
	lastMissing := -1
	for {
		res, err := s.spec.RenderAndFetch(ctx, view)
		if err != nil {
			_ = conn.Close(websocket.StatusInternalError, "render failed")
			return err
		}
		if len(res.MissingTiles) != lastMissing {
			if err := s.sendFrame(ctx, conn, seq, res); err != nil {
				return err
			}
			seq++
			lastMissing = len(res.MissingTiles)
		}
		if len(res.MissingTiles) == 0 {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-ready:
			if !ok {
				return types.ErrClosed
			}
		case <-ticker.C:
		}
	}
}

func (s *Server) sendFrame(ctx context.Context, conn *websocket.Conn, seq int, res types.RenderResult) error {
	hdr, err := json.Marshal(Frame{
		Seq:          seq,
		Width:        res.Width,
		Height:       res.Height,
		LowerTile:    res.Tiles.Lower,
		UpperTile:    res.Tiles.Upper,
		MissingTiles: res.MissingTiles,
		Complete:     len(res.MissingTiles) == 0,
	})
	if err != nil {
		return err
	}
	if err := conn.Write(ctx, websocket.MessageText, hdr); err != nil {
		return err
	}
	var buf bytes.Buffer
	if res.Height > 0 {
		if err := colormap.EncodePNG(&buf, res.Image, res.Width); err != nil {
			return err
		}
	}
	return conn.Write(ctx, websocket.MessageBinary, buf.Bytes())
}
