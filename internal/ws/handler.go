// Package ws streams a player's mailbox over a websocket, as an alternative
// to polling /updates.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/Thechi2000/were-legends/internal/apperr"
	"github.com/Thechi2000/were-legends/internal/hub"
	"github.com/Thechi2000/were-legends/internal/mailbox"
	"github.com/Thechi2000/were-legends/internal/session"
	"github.com/Thechi2000/were-legends/internal/types"
)

const writeTimeout = 3 * time.Second

// Handler authenticates with ?token= (browsers cannot set headers on a
// websocket upgrade) or the usual bearer header, then pushes every drain of
// the caller's mailbox as one frame. The client never needs to send.
func Handler(h *hub.Hub, iss *session.Issuer, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := r.URL.Query().Get("token")
		if raw == "" {
			raw, _ = session.FromHeader(r.Header.Get("Authorization"))
		}
		sess, err := iss.Verify(raw)
		if err != nil {
			apperr.Write(w, apperr.ErrUnauthorized)
			return
		}
		mb, ok := h.Mailbox(sess.Name)
		if !ok {
			apperr.Write(w, apperr.ErrNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			log.Debug("websocket accept failed", zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		// CloseRead handles pings and cancels ctx once the peer goes away.
		ctx := conn.CloseRead(r.Context())
		log.Debug("stream opened", zap.String("player", sess.Name))

		err = stream(ctx, conn, mb)
		switch websocket.CloseStatus(err) {
		case websocket.StatusNormalClosure, websocket.StatusGoingAway:
			err = nil
		}
		if err != nil && ctx.Err() == nil {
			log.Warn("stream closed", zap.String("player", sess.Name), zap.Error(err))
		}
	}
}

func stream(ctx context.Context, conn *websocket.Conn, mb *mailbox.Mailbox) error {
	for {
		if pending := mb.Drain(); len(pending) > 0 {
			if err := writeFrame(ctx, conn, types.ServerMessage{Type: types.FrameDirectives, Directives: pending}); err != nil {
				return err
			}
		}
		select {
		case <-mb.Ready():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func writeFrame(ctx context.Context, conn *websocket.Conn, msg types.ServerMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, payload)
}
