package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-realm/internal/auth"
)

const defaultTokenTTL = time.Hour

type AuthConfig struct {
	Secret   string `json:"secret"`
	TokenTTL string `json:"token_ttl,omitempty"`
}

func (c *AuthConfig) validate() error {
	el := errors.NewErrorList()

	if c.Secret == "" {
		el.Add(fmt.Errorf("auth secret is required"))
	}
	if c.TokenTTL != "" {
		if _, err := time.ParseDuration(c.TokenTTL); err != nil {
			el.Add(fmt.Errorf("parsing token_ttl: %w", err))
		}
	}

	return el.Err()
}

func (c *AuthConfig) BuildTokens() (*auth.Tokens, error) {
	ttl := defaultTokenTTL
	if c.TokenTTL != "" {
		d, err := time.ParseDuration(c.TokenTTL)
		if err != nil {
			return nil, fmt.Errorf("parsing token_ttl: %w", err)
		}
		ttl = d
	}
	return auth.NewTokens(c.Secret, ttl), nil
}
