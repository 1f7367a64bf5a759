package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/pixil98/go-realm/internal/events"
	"github.com/pixil98/go-realm/internal/handlers"
	"github.com/pixil98/go-realm/internal/messaging"
	"github.com/pixil98/go-realm/internal/session"
)

// outboundBuffer bounds per-connection fan-in; a client that cannot drain its
// own feed loses frames rather than stalling the publishers.
const outboundBuffer = 64

// serve owns one authenticated connection from handshake to teardown. All
// websocket writes happen on this goroutine; the reader goroutine only reads.
func (g *Gateway) serve(ctx context.Context, conn *websocket.Conn, token string) {
	defer conn.Close()

	sess, err := g.gate.Authenticate(ctx, token)
	if err != nil {
		slog.Info("rejecting connection", "error", err)
		msg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "authentication failed")
		_ = conn.WriteMessage(websocket.CloseMessage, msg)
		return
	}

	connID := uuid.NewString()
	if err := g.registry.Register(connID, sess); err != nil {
		slog.Warn("registering session", "playerId", sess.ID(), "error", err)
		msg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "session conflict")
		_ = conn.WriteMessage(websocket.CloseMessage, msg)
		return
	}

	outbound := make(chan []byte, outboundBuffer)
	unsubscribe, err := g.broker.Subscribe(messaging.PlayerSubject(sess.ID()), func(data []byte) {
		select {
		case outbound <- data:
		default:
			slog.Warn("dropping frame for slow client", "playerId", sess.ID())
		}
	})
	if err != nil {
		slog.Error("subscribing player subject", "playerId", sess.ID(), "error", err)
		_ = g.registry.Unregister(connID)
		return
	}

	slog.Info("player connected", "playerId", sess.ID(), "username", sess.Username())

	init := g.handler.OnConnect(ctx, sess)
	if err := conn.WriteMessage(websocket.TextMessage, init); err != nil {
		g.teardown(ctx, connID, sess, unsubscribe)
		return
	}

	inbound := make(chan events.Envelope)
	readDone := make(chan struct{})
	quit := make(chan struct{})
	defer close(quit)
	go g.readLoop(conn, sess, inbound, readDone, quit)

	for {
		select {
		case <-ctx.Done():
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
			_ = conn.WriteMessage(websocket.CloseMessage, msg)
			g.teardown(ctx, connID, sess, unsubscribe)
			return

		case frame := <-outbound:
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				g.teardown(ctx, connID, sess, unsubscribe)
				return
			}

		case <-readDone:
			g.teardown(ctx, connID, sess, unsubscribe)
			return

		case env := <-inbound:
			if err := g.dispatch(ctx, sess, env); err != nil {
				g.writeError(conn, sess, env.Type, err)
			}
		}
	}
}

// readLoop feeds decoded envelopes to the session loop. A read error or an
// explicit disconnect event ends the connection; quit unblocks a pending send
// when the session loop exits first.
func (g *Gateway) readLoop(conn *websocket.Conn, sess *session.PlayerSession, inbound chan<- events.Envelope, done chan<- struct{}, quit <-chan struct{}) {
	defer close(done)
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}

		env, err := events.Decode(payload)
		if err != nil {
			slog.Debug("discarding malformed frame", "playerId", sess.ID(), "error", err)
			continue
		}
		if env.Type == events.Disconnect {
			return
		}

		select {
		case inbound <- env:
		case <-quit:
			return
		}
	}
}

// dispatch runs one handler with panic containment: a panicking handler costs
// the event, never the connection or the process.
func (g *Gateway) dispatch(ctx context.Context, sess *session.PlayerSession, env events.Envelope) (err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("handler panic", "event", env.Type, "playerId", sess.ID(), "panic", r)
			err = fmt.Errorf("handling %s: panic: %v", env.Type, r)
		}
	}()
	return g.handler.Dispatch(ctx, sess, env)
}

// writeError answers the initiating client. User errors carry their message;
// anything else is logged and masked.
func (g *Gateway) writeError(conn *websocket.Conn, sess *session.PlayerSession, eventType string, err error) {
	message := "An error occurred"
	var uerr *handlers.UserError
	if errors.As(err, &uerr) {
		message = uerr.Message
	} else {
		slog.Error("handling event", "event", eventType, "playerId", sess.ID(), "error", err)
	}

	frame, encErr := events.Encode(events.Error, events.ErrorPayload{Message: message})
	if encErr != nil {
		return
	}
	_ = conn.WriteMessage(websocket.TextMessage, frame)
}

func (g *Gateway) teardown(ctx context.Context, connID string, sess *session.PlayerSession, unsubscribe func()) {
	unsubscribe()
	if err := g.registry.Unregister(connID); err != nil {
		slog.Warn("unregistering session", "playerId", sess.ID(), "error", err)
	}
	g.handler.OnDisconnect(ctx, sess)
	slog.Info("player disconnected", "playerId", sess.ID())
}
