// Package gateway terminates client websockets. Each connection is
// authenticated, registered, subscribed to its player subject, and driven by
// a per-connection loop that keeps one event in flight at a time.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pixil98/go-realm/internal/auth"
	"github.com/pixil98/go-realm/internal/handlers"
	"github.com/pixil98/go-realm/internal/session"
	"github.com/pixil98/go-realm/internal/storage"
)

const shutdownGrace = 5 * time.Second

// Broker is the subscription half of the message fabric a connection needs.
type Broker interface {
	Subscribe(subject string, handler func(data []byte)) (func(), error)
}

type Gateway struct {
	port     uint16
	gate     *auth.Gate
	tokens   *auth.Tokens
	players  storage.PlayerStore
	registry *session.Registry
	handler  *handlers.Handler
	broker   Broker

	upgrader websocket.Upgrader
}

func NewGateway(port uint16, gate *auth.Gate, tokens *auth.Tokens, players storage.PlayerStore, registry *session.Registry, handler *handlers.Handler, broker Broker) *Gateway {
	return &Gateway{
		port:     port,
		gate:     gate,
		tokens:   tokens,
		players:  players,
		registry: registry,
		handler:  handler,
		broker:   broker,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Start serves the websocket and login endpoints until the context is
// canceled, then drains connections through the context each of them holds.
func (g *Gateway) Start(ctx context.Context) error {
	// Connections outlive individual requests; they share a context that is
	// canceled only when the gateway shuts down.
	connCtx, cancelConns := context.WithCancel(context.Background())
	defer cancelConns()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		g.handleWS(connCtx, w, r)
	})
	mux.Handle("/login", newLoginHandler(g.players, g.tokens))

	svr := &http.Server{
		Addr:    fmt.Sprintf(":%d", g.port),
		Handler: mux,
	}

	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
			defer cancel()
			_ = svr.Shutdown(shutdownCtx)
			cancelConns()
		case <-done:
		}
	}()

	err := svr.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		if errors.Is(err, syscall.EADDRINUSE) {
			return fmt.Errorf("port %d is already in use (another server running?)", g.port)
		}
		return fmt.Errorf("serving websocket gateway on port %d: %w", g.port, err)
	}
	return nil
}

func (g *Gateway) handleWS(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")

	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	g.serve(ctx, conn, token)
}
