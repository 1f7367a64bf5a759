package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-realm/internal/storage"
)

type StorageDriver int

const (
	StorageDriverFile StorageDriver = iota
	StorageDriverPostgres
)

func (d *StorageDriver) UnmarshalText(text []byte) error {
	switch string(text) {
	case "file":
		*d = StorageDriverFile
	case "postgres":
		*d = StorageDriverPostgres
	default:
		return fmt.Errorf("unknown storage driver: %s", text)
	}
	return nil
}

type StorageConfig struct {
	Driver StorageDriver `json:"driver"`
	Path   string        `json:"path,omitempty"`
	DSN    string        `json:"dsn,omitempty"`
}

func (c *StorageConfig) validate() error {
	el := errors.NewErrorList()

	switch c.Driver {
	case StorageDriverFile:
		if c.Path == "" {
			el.Add(fmt.Errorf("storage path is required for the file driver"))
		} else if _, err := os.Stat(c.Path); err != nil {
			el.Add(fmt.Errorf("invalid storage path %q: %w", c.Path, err))
		}
	case StorageDriverPostgres:
		if c.DSN == "" {
			el.Add(fmt.Errorf("storage dsn is required for the postgres driver"))
		}
	}

	return el.Err()
}

func (c *StorageConfig) BuildPlayerStore() (storage.PlayerStore, error) {
	switch c.Driver {
	case StorageDriverFile:
		return storage.NewFilePlayerStore(c.Path)
	case StorageDriverPostgres:
		return storage.NewPostgresPlayerStore(c.DSN)
	default:
		return nil, fmt.Errorf("unknown storage driver: %v", c.Driver)
	}
}
