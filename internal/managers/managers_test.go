package managers

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/chrissnell/transitsearch/pkg/config"
)

func TestOpenStore(t *testing.T) {
	if _, err := OpenStore(config.StorageData{}, nil); !errors.Is(err, ErrNoStorage) {
		t.Errorf("expected ErrNoStorage, got %v", err)
	}

	path := filepath.Join(t.TempDir(), "runs.db")
	store, err := OpenStore(config.StorageData{SQLite: &config.SQLiteData{Path: path}}, nil)
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	defer store.Close()

	runs, err := store.ListRuns(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected an empty store, got %d runs", len(runs))
	}
}

func TestNewControllerManager(t *testing.T) {
	store, err := OpenStore(config.StorageData{SQLite: &config.SQLiteData{Path: filepath.Join(t.TempDir(), "runs.db")}}, nil)
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	defer store.Close()

	tests := []struct {
		name        string
		controllers []config.ControllerData
		wantErr     bool
	}{
		{"none", nil, false},
		{"rest", []config.ControllerData{{Type: "rest", RESTServer: &config.RESTServerData{Port: 8080}}}, false},
		{"rest without section", []config.ControllerData{{Type: "restserver"}}, true},
		{"unknown", []config.ControllerData{{Type: "wunderground"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var wg sync.WaitGroup
			_, err := NewControllerManager(context.Background(), &wg, tt.controllers, store, zap.NewNop().Sugar())
			if (err != nil) != tt.wantErr {
				t.Errorf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}
