package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ogurasousui/employee-organizer/internal/adapters/repository/file"
	"github.com/ogurasousui/employee-organizer/internal/adapters/repository/memory"
	"github.com/ogurasousui/employee-organizer/internal/adapters/repository/postgres"
	"github.com/ogurasousui/employee-organizer/internal/adapters/repository/sqlite"
	"github.com/ogurasousui/employee-organizer/internal/core/employee"
	"github.com/ogurasousui/employee-organizer/internal/platform/config"
	pg "github.com/ogurasousui/employee-organizer/internal/platform/db/postgres"
	"go.uber.org/zap"
)

// Watcher は保存先の外部変更を通知できるバックエンドが実装します。
type Watcher interface {
	Watch(ctx context.Context, debounce time.Duration, logger *zap.Logger, onChange func()) error
}

// Backend は設定で選択されたキーバリューストアとその付随リソースです。
type Backend struct {
	Driver  string
	KV      employee.KeyValueStore
	Tx      employee.TransactionManager
	closers []func() error
}

// Open は設定に従ってバックエンドを開きます。
func Open(ctx context.Context, cfg config.StorageConfig, db config.DatabaseConfig) (*Backend, error) {
	b := &Backend{Driver: cfg.Driver}

	switch cfg.Driver {
	case config.DriverMemory:
		b.KV = memory.NewKVRepository()
	case config.DriverFile:
		repo, err := file.NewKVRepository(cfg.Path)
		if err != nil {
			return nil, err
		}
		b.KV = repo
	case config.DriverSQLite:
		repo, err := sqlite.Open(ctx, cfg.Path)
		if err != nil {
			return nil, err
		}
		b.KV = repo
		b.closers = append(b.closers, repo.Close)
	case config.DriverPostgres:
		pool, err := pg.NewPool(ctx, db)
		if err != nil {
			return nil, err
		}
		b.KV = postgres.NewKVRepository(pool)
		b.Tx = pg.NewTransactionManager(pool)
		b.closers = append(b.closers, func() error {
			pool.Close()
			return nil
		})
	default:
		return nil, fmt.Errorf("storage: unsupported driver %q", cfg.Driver)
	}

	return b, nil
}

// Records はこのバックエンド上のレコードストアを返します。
func (b *Backend) Records(logger *zap.Logger) *employee.RecordStore {
	return employee.NewRecordStore(b.KV, b.Tx, logger)
}

// Drafts はこのバックエンド上の下書きストアを返します。
func (b *Backend) Drafts() *employee.DraftStore {
	return employee.NewDraftStore(b.KV)
}

// Watcher は外部変更の監視に対応していれば Watcher を返します。
func (b *Backend) Watcher() (Watcher, bool) {
	w, ok := b.KV.(Watcher)
	return w, ok
}

// Close は開いたリソースを解放します。
func (b *Backend) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
