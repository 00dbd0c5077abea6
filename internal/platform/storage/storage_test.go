package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ogurasousui/employee-organizer/internal/core/employee"
	"github.com/ogurasousui/employee-organizer/internal/platform/config"
)

func TestOpen_LocalDrivers(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tests := []struct {
		driver      string
		path        string
		wantWatcher bool
	}{
		{driver: config.DriverMemory},
		{driver: config.DriverFile, path: filepath.Join(dir, "organizer.json"), wantWatcher: true},
		{driver: config.DriverSQLite, path: filepath.Join(dir, "organizer.db")},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.driver, func(t *testing.T) {
			t.Parallel()

			backend, err := Open(context.Background(), config.StorageConfig{Driver: tt.driver, Path: tt.path}, config.DatabaseConfig{})
			if err != nil {
				t.Fatalf("Open returned error: %v", err)
			}
			t.Cleanup(func() { _ = backend.Close() })

			if _, ok := backend.Watcher(); ok != tt.wantWatcher {
				t.Fatalf("expected watcher=%t, got %t", tt.wantWatcher, ok)
			}

			ctx := context.Background()
			records := backend.Records(nil)
			rec := employee.Record{Official: employee.Official{EmployeeID: "E1"}}
			if _, err := records.Upsert(ctx, rec, ""); err != nil {
				t.Fatalf("Upsert returned error: %v", err)
			}
			if err := backend.Drafts().Save(ctx, employee.Draft{FullName: "Asha"}); err != nil {
				t.Fatalf("Save draft returned error: %v", err)
			}
			list, err := records.List(ctx)
			if err != nil || len(list) != 1 {
				t.Fatalf("List returned %d records err=%v", len(list), err)
			}
		})
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	t.Parallel()

	if _, err := Open(context.Background(), config.StorageConfig{Driver: "redis"}, config.DatabaseConfig{}); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
