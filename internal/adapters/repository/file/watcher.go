package file

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 200 * time.Millisecond

// Watch は保存先ファイルが他プロセスによって書き換えられたときに onChange を呼び出します。
// 連続した書き込みは debounce 間隔でまとめられます。ctx がキャンセルされると監視を終了します。
func (r *KVRepository) Watch(ctx context.Context, debounce time.Duration, logger *zap.Logger, onChange func()) error {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("file: create watcher: %w", err)
	}
	// rename による置き換えを拾うため、ファイルではなくディレクトリを監視します。
	dir := filepath.Dir(r.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("file: watch %s: %w", dir, err)
	}

	go r.watchLoop(ctx, watcher, debounce, logger, onChange)
	return nil
}

func (r *KVRepository) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, debounce time.Duration, logger *zap.Logger, onChange func()) {
	defer watcher.Close()

	target := filepath.Clean(r.path)
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("storage watcher error", zap.Error(err))
		case <-timer.C:
			onChange()
		}
	}
}
