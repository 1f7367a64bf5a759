// Package driver runs the periodic background work of the realm: anything
// that must happen on a clock rather than in response to a client event.
package driver

import (
	"context"
	"log/slog"
	"time"
)

const (
	DefaultTickLength = time.Second * 30
)

type Manager interface {
	Tick(context.Context) error
}

// RealmDriver fans a shared ticker out to named managers. A manager's failed
// tick is logged under its name and the remaining managers still run; the
// worker itself only stops when the context does.
type RealmDriver struct {
	tickLength time.Duration
	managers   map[string]Manager
}

func NewRealmDriver(managers map[string]Manager, opts ...RealmDriverOpt) *RealmDriver {
	d := &RealmDriver{
		tickLength: DefaultTickLength,
		managers:   managers,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

func (d *RealmDriver) Start(ctx context.Context) error {
	ticker := time.NewTicker(d.tickLength)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			d.Tick(ctx)
		}
	}
}

func (d *RealmDriver) Tick(ctx context.Context) {
	for name, m := range d.managers {
		if err := m.Tick(ctx); err != nil {
			slog.Warn("periodic task failed", "manager", name, "error", err)
		}
	}
}
