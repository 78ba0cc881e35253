package managers

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/chrissnell/transitsearch/internal/storage"
	"github.com/chrissnell/transitsearch/internal/storage/sqlite"
	"github.com/chrissnell/transitsearch/pkg/config"
)

// ErrNoStorage is returned when no result store is configured
var ErrNoStorage = errors.New("no result store configured")

// OpenStore opens the configured result store backend
func OpenStore(c config.StorageData, logger *zap.SugaredLogger) (storage.RunStore, error) {
	if c.SQLite != nil && c.SQLite.Path != "" {
		store, err := sqlite.Open(c.SQLite.Path, logger)
		if err != nil {
			return nil, fmt.Errorf("could not open SQLite result store: %v", err)
		}
		return store, nil
	}
	return nil, ErrNoStorage
}
