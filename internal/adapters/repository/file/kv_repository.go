package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// KVRepository は 1 つの JSON ファイルへキーと値を保存するキーバリューストアです。
// 値は JSON 文字列としてそのまま格納されるため、ブラウザの localStorage と同じ形で読み書きできます。
type KVRepository struct {
	mu   sync.Mutex
	path string
}

// NewKVRepository は path を保存先とする KVRepository を生成します。ディレクトリは必要に応じて作成されます。
func NewKVRepository(path string) (*KVRepository, error) {
	if path == "" {
		return nil, errors.New("file: path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("file: create directory: %w", err)
	}
	return &KVRepository{path: path}, nil
}

// Path は保存先ファイルのパスを返します。
func (r *KVRepository) Path() string {
	return r.path
}

// Get はキーに対応する値を返します。
func (r *KVRepository) Get(_ context.Context, key string) ([]byte, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.read()
	if err != nil {
		return nil, false, err
	}
	v, ok := entries[key]
	if !ok {
		return nil, false, nil
	}
	return []byte(v), true, nil
}

// Set は値を上書き保存します。
func (r *KVRepository) Set(_ context.Context, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.read()
	if err != nil {
		return err
	}
	entries[key] = string(value)
	return r.write(entries)
}

// Delete はキーを削除します。
func (r *KVRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.read()
	if err != nil {
		return err
	}
	if _, ok := entries[key]; !ok {
		return nil
	}
	delete(entries, key)
	return r.write(entries)
}

func (r *KVRepository) read() (map[string]string, error) {
	b, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("file: read %s: %w", r.path, err)
	}
	entries := make(map[string]string)
	if len(b) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, fmt.Errorf("file: parse %s: %w", r.path, err)
	}
	return entries, nil
}

// 一時ファイルへ書き出してから rename し、読み手が書きかけの内容を見ないようにします。
func (r *KVRepository) write(entries map[string]string) error {
	b, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("file: encode: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("file: create temp: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("file: write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("file: close temp: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("file: replace %s: %w", r.path, err)
	}
	return nil
}
