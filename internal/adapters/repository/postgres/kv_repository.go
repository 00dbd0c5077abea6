package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgdb "github.com/ogurasousui/employee-organizer/internal/platform/db/postgres"
)

const (
	kvUndefinedTableCode = "42P01"
	kvLockNotAvailable   = "55P03"
)

var (
	// ErrSchemaMissing は kv_entries テーブルが存在しない場合に返却されます。migrate up を実行してください。
	ErrSchemaMissing = errors.New("postgres: kv_entries table missing")
	// ErrLocked は行ロックを取得できなかった場合に返却されます。
	ErrLocked = errors.New("postgres: kv entry locked")
)

// KVRepository は PostgreSQL を利用したキーバリューストアの実装です。
type KVRepository struct {
	pool pgdb.Queryer
}

// NewKVRepository は KVRepository を生成します。
func NewKVRepository(pool pgdb.Queryer) *KVRepository {
	return &KVRepository{pool: pool}
}

// Get はキーに対応する値を返します。読み書きトランザクション内で呼ばれた場合のみ行ロックを取得します。
func (r *KVRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	query := `SELECT value FROM kv_entries WHERE key = $1`
	if pgdb.InReadWriteTransaction(ctx) {
		query += ` FOR UPDATE`
	}

	var value string
	if err := exec.QueryRow(ctx, query, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, translateKVPgError(err)
	}
	return []byte(value), true, nil
}

// Set は値を上書き保存します。
func (r *KVRepository) Set(ctx context.Context, key string, value []byte) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	_, err := exec.Exec(ctx, `
        INSERT INTO kv_entries (key, value, updated_at)
        VALUES ($1, $2, now())
        ON CONFLICT (key) DO UPDATE
           SET value = EXCLUDED.value,
               updated_at = EXCLUDED.updated_at
    `, key, string(value))
	if err != nil {
		return fmt.Errorf("postgres: set %s: %w", key, translateKVPgError(err))
	}
	return nil
}

// Delete はキーを削除します。存在しない場合も成功として扱います。
func (r *KVRepository) Delete(ctx context.Context, key string) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	if _, err := exec.Exec(ctx, `DELETE FROM kv_entries WHERE key = $1`, key); err != nil {
		return fmt.Errorf("postgres: delete %s: %w", key, translateKVPgError(err))
	}
	return nil
}

func translateKVPgError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case kvUndefinedTableCode:
			return ErrSchemaMissing
		case kvLockNotAvailable:
			return ErrLocked
		}
	}

	return err
}
