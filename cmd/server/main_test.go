package main

import (
	"context"
	"testing"

	"github.com/JonMunkholm/personsvc/internal/config"
	"github.com/JonMunkholm/personsvc/internal/database/sqlite"
)

func TestOpenStore(t *testing.T) {
	tests := []struct {
		name    string
		driver  string
		wantErr bool
	}{
		{"lower case sqlite", "sqlite", false},
		{"mixed case sqlite", "SQLite", false},
		{"unknown driver", "mysql", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, closeStore, err := openStore(context.Background(), config.DatabaseConfig{
				Driver:      tt.driver,
				SQLitePath:  ":memory:",
				AutoMigrate: true,
			})
			if tt.wantErr {
				if err == nil {
					closeStore()
					t.Fatal("openStore() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("openStore() error = %v", err)
			}
			defer closeStore()
			if _, ok := store.(*sqlite.Store); !ok {
				t.Errorf("openStore() = %T, want *sqlite.Store", store)
			}
		})
	}
}
