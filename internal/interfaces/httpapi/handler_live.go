package httpapi

import (
	"context"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"github.com/riskibarqy/livebaz/internal/usecase"
)

const (
	streamWriteWait  = 10 * time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = streamPongWait * 9 / 10
)

var streamUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origins are already filtered by the CORS layer for browsers that send one.
	CheckOrigin: func(*http.Request) bool { return true },
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// LiveScores answers with the flat {success, data, total} body rather than the envelope.
func (h *Handler) LiveScores(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LiveScores")
	defer span.End()

	if h.services.LiveScores == nil {
		writeLiveScoresError(ctx, w, notConfigured("live scores"))
		return
	}

	scores, err := h.services.LiveScores.Live(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "live scores failed", "error", err)
		writeLiveScoresError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, scores)
}

// LiveScoresStream pushes the live list on connect and then whenever it changes.
func (h *Handler) LiveScoresStream(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LiveScoresStream")
	defer span.End()

	if h.services.LiveScores == nil {
		writeError(ctx, w, notConfigured("live scores"))
		return
	}

	conn, err := streamUpgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WarnContext(ctx, "websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go h.drainStream(ctx, cancel, conn)

	poll := time.NewTicker(h.streamInterval)
	defer poll.Stop()
	ping := time.NewTicker(streamPingPeriod)
	defer ping.Stop()

	var (
		last usecase.LiveScores
		sent bool
	)
	push := func() bool {
		scores, err := h.services.LiveScores.Live(ctx)
		if err != nil {
			// Keep the socket open; the next tick may succeed.
			h.logger.WarnContext(ctx, "live scores stream fetch failed", "error", err)
			return true
		}
		if sent && usecase.LiveScoresEqual(last, scores) {
			return true
		}
		payload, err := sonic.Marshal(scores)
		if err != nil {
			h.logger.ErrorContext(ctx, "encode live scores failed", "error", err)
			return false
		}
		_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return false
		}
		last, sent = scores, true
		return true
	}

	if !push() {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-poll.C:
			if !push() {
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// drainStream reads control frames until the peer leaves, then cancels the writer loop.
func (h *Handler) drainStream(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn) {
	defer cancel()

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(streamPongWait))
	})
	for {
		if ctx.Err() != nil {
			return
		}
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Handler) Diagnostics(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Diagnostics")
	defer span.End()

	if h.services.Diagnostics == nil {
		writeError(ctx, w, notConfigured("diagnostics"))
		return
	}

	writeJSON(ctx, w, http.StatusOK, h.services.Diagnostics.Check(ctx))
}
