package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pixil98/go-realm/internal/auth"
	"github.com/pixil98/go-realm/internal/events"
	"github.com/pixil98/go-realm/internal/game"
	"github.com/pixil98/go-realm/internal/handlers"
	"github.com/pixil98/go-realm/internal/messaging"
	"github.com/pixil98/go-realm/internal/session"
	"github.com/pixil98/go-realm/internal/storage"
	"github.com/pixil98/go-realm/internal/world"
	"github.com/pixil98/go-testutil"
)

// loopbackBroker implements both Publisher and Broker in memory, delivering
// publishes straight to matching subscriptions.
type loopbackBroker struct {
	mu   sync.Mutex
	subs map[string][]func([]byte)
}

func newLoopbackBroker() *loopbackBroker {
	return &loopbackBroker{subs: map[string][]func([]byte){}}
}

func (b *loopbackBroker) Publish(subject string, data []byte) error {
	b.mu.Lock()
	subs := append([]func([]byte){}, b.subs[subject]...)
	b.mu.Unlock()
	for _, h := range subs {
		h(data)
	}
	return nil
}

func (b *loopbackBroker) Subscribe(subject string, handler func(data []byte)) (func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[subject] = append(b.subs[subject], handler)
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, subject)
	}, nil
}

type memoryPlayerStore struct {
	mu      sync.Mutex
	records map[int64]*storage.PlayerRecord
}

func (m *memoryPlayerStore) FindPlayerByID(_ context.Context, id int64) (*storage.PlayerRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.records[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, storage.ErrNotFound
}

func (m *memoryPlayerStore) FindPlayerByUsername(_ context.Context, username string) (*storage.PlayerRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.Username == username {
			cp := *r
			return &cp, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *memoryPlayerStore) SavePlayerFields(_ context.Context, id int64, _ storage.Fields) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return storage.ErrNotFound
	}
	return nil
}

type gatewayFixture struct {
	gw       *Gateway
	tokens   *auth.Tokens
	registry *session.Registry
	server   *httptest.Server
}

func newGatewayFixture(t *testing.T) *gatewayFixture {
	t.Helper()

	hash, err := auth.HashPassword("hunter2")
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	players := &memoryPlayerStore{records: map[int64]*storage.PlayerRecord{
		1: {ID: 1, Username: "vex", PasswordHash: hash, Role: game.RolePlayer, Health: 100, Stamina: 100, Level: 1},
		2: {ID: 2, Username: "nyx", PasswordHash: hash, Role: game.RolePlayer, Health: 100, Stamina: 100, Level: 1},
	}}

	tokens := auth.NewTokens("test-secret", time.Hour)
	gate := auth.NewGate(tokens, players)
	registry := session.NewRegistry()
	broker := newLoopbackBroker()
	router := messaging.NewRouter(registry, broker)
	w := world.New([]game.Position{{X: 10}})
	handler := handlers.NewHandler(registry, router, players, w)

	gw := NewGateway(0, gate, tokens, players, registry, handler, broker)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(rw http.ResponseWriter, r *http.Request) {
		gw.handleWS(ctx, rw, r)
	})
	mux.Handle("/login", newLoginHandler(players, tokens))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return &gatewayFixture{gw: gw, tokens: tokens, registry: registry, server: srv}
}

func (f *gatewayFixture) dial(t *testing.T, token string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dialing: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) events.Envelope {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("reading frame: %v", err)
	}
	env, err := events.Decode(payload)
	if err != nil {
		t.Fatalf("decoding frame: %v", err)
	}
	return env
}

func TestGateway_RejectsBadToken(t *testing.T) {
	f := newGatewayFixture(t)
	conn := f.dial(t, "garbage")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.ClosePolicyViolation) {
		t.Fatalf("expected policy violation close, got %v", err)
	}
	testutil.AssertEqual(t, "no session registered", f.registry.Count(), 0)
}

func TestGateway_SessionLifecycle(t *testing.T) {
	f := newGatewayFixture(t)

	token, err := f.tokens.Issue(1, "vex")
	if err != nil {
		t.Fatalf("issuing token: %v", err)
	}
	conn := f.dial(t, token)

	// First frame is always the roster.
	init := readFrame(t, conn)
	testutil.AssertEqual(t, "init type", init.Type, events.GameInit)

	var roster events.GameInitPayload
	if err := json.Unmarshal(init.Data, &roster); err != nil {
		t.Fatalf("decoding roster: %v", err)
	}
	testutil.AssertEqual(t, "roster size", len(roster.Players), 1)
	testutil.AssertEqual(t, "roster entry", roster.Players[0].Username, "vex")
	testutil.AssertEqual(t, "registered", f.registry.Count(), 1)

	// A global chat loops back through the broker to the sender.
	frame, err := json.Marshal(events.Envelope{
		Type: events.ChatSend,
		Data: json.RawMessage(`{"message":"hello"}`),
	})
	if err != nil {
		t.Fatalf("marshaling chat: %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		t.Fatalf("writing chat: %v", err)
	}

	chat := readFrame(t, conn)
	testutil.AssertEqual(t, "chat type", chat.Type, events.ChatMessage)
	var msg events.ChatMessagePayload
	if err := json.Unmarshal(chat.Data, &msg); err != nil {
		t.Fatalf("decoding chat: %v", err)
	}
	testutil.AssertEqual(t, "chat body", msg.Message, "hello")

	// Closing the socket tears the session down.
	conn.Close()
	deadline := time.Now().Add(2 * time.Second)
	for f.registry.Count() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("session was not unregistered after close")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestGateway_UserErrorAnsweredInline(t *testing.T) {
	f := newGatewayFixture(t)

	token, err := f.tokens.Issue(1, "vex")
	if err != nil {
		t.Fatalf("issuing token: %v", err)
	}
	conn := f.dial(t, token)
	readFrame(t, conn) // roster

	// Guild chat without a guild is a user error, answered on this
	// connection only.
	frame, _ := json.Marshal(events.Envelope{
		Type: events.ChatSend,
		Data: json.RawMessage(`{"message":"rally","type":"guild"}`),
	})
	if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		t.Fatalf("writing chat: %v", err)
	}

	reply := readFrame(t, conn)
	testutil.AssertEqual(t, "reply type", reply.Type, events.Error)
	var payload events.ErrorPayload
	if err := json.Unmarshal(reply.Data, &payload); err != nil {
		t.Fatalf("decoding error payload: %v", err)
	}
	testutil.AssertEqual(t, "message", payload.Message, "You are not in a guild")
}
