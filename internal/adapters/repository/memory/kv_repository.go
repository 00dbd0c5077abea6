package memory

import (
	"context"
	"sync"
)

// KVRepository はプロセス内メモリに値を保持するキーバリューストアです。
type KVRepository struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewKVRepository は KVRepository を生成します。
func NewKVRepository() *KVRepository {
	return &KVRepository{values: make(map[string][]byte)}
}

// Get はキーに対応する値のコピーを返します。
func (r *KVRepository) Get(_ context.Context, key string) ([]byte, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Set は値を上書き保存します。
func (r *KVRepository) Set(_ context.Context, key string, value []byte) error {
	r.mu.Lock()
	r.values[key] = append([]byte(nil), value...)
	r.mu.Unlock()
	return nil
}

// Delete はキーを削除します。存在しない場合は何もしません。
func (r *KVRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	delete(r.values, key)
	r.mu.Unlock()
	return nil
}
