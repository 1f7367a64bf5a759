package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
)

type GatewayConfig struct {
	Port          uint16 `json:"port"`
	FlushInterval string `json:"flush_interval,omitempty"`
}

func (c *GatewayConfig) validate() error {
	el := errors.NewErrorList()

	if c.Port == 0 {
		el.Add(fmt.Errorf("gateway port must be set to a positive integer"))
	}

	if c.FlushInterval != "" {
		d, err := time.ParseDuration(c.FlushInterval)
		if err != nil {
			el.Add(fmt.Errorf("parsing flush_interval: %w", err))
		} else if d < time.Second {
			el.Add(fmt.Errorf("flush_interval must be at least 1 second"))
		}
	}

	return el.Err()
}

func (c *GatewayConfig) flushInterval() (time.Duration, bool) {
	if c.FlushInterval == "" {
		return 0, false
	}
	d, err := time.ParseDuration(c.FlushInterval)
	if err != nil {
		return 0, false
	}
	return d, true
}
