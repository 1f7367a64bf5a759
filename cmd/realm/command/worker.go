package command

import (
	"fmt"

	"github.com/pixil98/go-realm/internal/auth"
	"github.com/pixil98/go-realm/internal/driver"
	"github.com/pixil98/go-realm/internal/gateway"
	"github.com/pixil98/go-realm/internal/handlers"
	"github.com/pixil98/go-realm/internal/messaging"
	"github.com/pixil98/go-realm/internal/session"
	"github.com/pixil98/go-service"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	// Message fabric: embedded NATS carries every outbound event on a
	// per-player subject.
	nats, err := cfg.Nats.buildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}

	players, err := cfg.Storage.BuildPlayerStore()
	if err != nil {
		return nil, fmt.Errorf("creating player store: %w", err)
	}

	tokens, err := cfg.Auth.BuildTokens()
	if err != nil {
		return nil, fmt.Errorf("creating token issuer: %w", err)
	}

	registry := session.NewRegistry()
	router := messaging.NewRouter(registry, nats)
	world := cfg.Game.BuildWorld()
	handler := handlers.NewHandler(registry, router, players, world)
	gate := auth.NewGate(tokens, players)

	gw := gateway.NewGateway(cfg.Gateway.Port, gate, tokens, players, registry, handler, nats)

	// Background sweep keeps player rows from going stale between the
	// throttled movement writes.
	var driverOpts []driver.RealmDriverOpt
	if d, ok := cfg.Gateway.flushInterval(); ok {
		driverOpts = append(driverOpts, driver.WithTickLength(d))
	}
	realmDriver := driver.NewRealmDriver(map[string]driver.Manager{
		"position-flush": handlers.NewPositionFlusher(registry, players),
	}, driverOpts...)

	return service.WorkerList{
		"nats":    nats,
		"gateway": gw,
		"driver":  realmDriver,
	}, nil
}
