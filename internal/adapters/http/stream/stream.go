// Package stream serves live credit scores over WebSocket: one scoring
// pass per inbound feature update, one result per pass.
package stream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/incluscore/incluscore/internal/domain/feature"
	"github.com/incluscore/incluscore/internal/domain/scoring"
	"github.com/incluscore/incluscore/internal/domain/types"
	"github.com/incluscore/incluscore/pkg/logger"
	"github.com/incluscore/incluscore/pkg/metrics"
)

// Connection tuning constants.
const (
	defaultBufferBytes = 4096
	writeTimeout       = 10 * time.Second
)

// Scorer runs the pure scoring pipeline for stream updates.
type Scorer interface {
	Score(ctx context.Context, v feature.Vector) (types.ScoreResult, error)
	Ready() bool
}

// Handler upgrades /ws/{user_id} requests and serves score updates.
type Handler struct {
	scorer   Scorer
	upgrader websocket.Upgrader
	logger   logger.Logger
}

// Option applies a configuration option to the Handler.
type Option func(*Handler)

// WithBufferSize sets the websocket read/write buffer size in bytes.
func WithBufferSize(bytes int) Option {
	return func(h *Handler) {
		if bytes > 0 {
			h.upgrader.ReadBufferSize = bytes
			h.upgrader.WriteBufferSize = bytes
		}
	}
}

// WithLogger sets a custom logger for the handler.
func WithLogger(l logger.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// NewHandler creates a stream handler backed by the given scorer.
func NewHandler(scorer Scorer, opts ...Option) *Handler {
	h := &Handler{
		scorer: scorer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  defaultBufferBytes,
			WriteBufferSize: defaultBufferBytes,
			// The browser dashboard connects cross-origin in demos.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = logger.Get().Named("stream")
	}
	return h
}

// Register attaches the websocket route to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/ws/", h.HandleWS)
}

// streamError mirrors the HTTP error envelope on the socket.
type streamError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HandleWS handles GET /ws/{user_id} upgrade requests.
func (h *Handler) HandleWS(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimPrefix(r.URL.Path, "/ws/")
	if userID == "" || strings.Contains(userID, "/") {
		http.NotFound(w, r)
		return
	}
	if !h.scorer.Ready() {
		http.Error(w, "model unavailable", http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		h.logger.Warn(r.Context(), "websocket upgrade failed", logger.Error(err))
		return
	}

	metrics.StreamConnectionOpened()
	defer metrics.StreamConnectionClosed()

	h.serve(r.Context(), conn, userID)
}

// serve runs one connection: a read loop scoring each update, and a writer
// goroutine draining the latest-wins feed.
func (h *Handler) serve(ctx context.Context, conn *websocket.Conn, userID string) {
	feed := NewFeed()
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for v := range feed.Updates() {
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(v); err != nil {
				h.logger.Debug(ctx, "stream write failed",
					logger.String("userID", userID),
					logger.Error(err),
				)
				return
			}
		}
	}()

	h.readLoop(ctx, conn, userID, feed)

	feed.Close()
	<-writerDone
	_ = conn.Close()
}

// readLoop scores each inbound feature update until the client disconnects.
func (h *Handler) readLoop(ctx context.Context, conn *websocket.Conn, userID string, feed *Feed) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Debug(ctx, "stream closed unexpectedly",
					logger.String("userID", userID),
					logger.Error(err),
				)
			}
			return
		}

		var v feature.Vector
		if err := json.Unmarshal(data, &v); err != nil {
			feed.Offer(streamError{Code: "bad_request", Message: err.Error()})
			continue
		}

		result, err := h.scorer.Score(ctx, v)
		if err != nil {
			code := "validation_error"
			if errors.Is(err, scoring.ErrModelNotReady) {
				code = "model_unavailable"
			}
			feed.Offer(streamError{Code: code, Message: err.Error()})
			continue
		}

		metrics.RecordStreamMessage()
		feed.Offer(result)
	}
}
