package employee

import "context"

const (
	// RecordsKey は社員レコード一覧を保存するキーです。
	RecordsKey = "eo_employees"
	// DraftKey は個人情報の下書きを保存するキーです。
	DraftKey = "eo_tempPersonal"
)

// KeyValueStore はレコードと下書きを保存するキーバリューストアの抽象です。
// Get はキーが存在しない場合に ok=false を返します。
type KeyValueStore interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// Records はレコードストアの公開インターフェースです。
type Records interface {
	List(ctx context.Context) ([]Record, error)
	FindByID(ctx context.Context, id string) (Record, error)
	Upsert(ctx context.Context, rec Record, editTarget string) (Outcome, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

// Drafts は下書きストアの公開インターフェースです。
type Drafts interface {
	Save(ctx context.Context, draft Draft) error
	Load(ctx context.Context) (Draft, bool, error)
	Clear(ctx context.Context) error
}
