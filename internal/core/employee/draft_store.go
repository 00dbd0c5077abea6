package employee

import (
	"context"
	"encoding/json"
	"fmt"
)

// DraftStore は個人情報の下書きを 1 件だけ保持します。
type DraftStore struct {
	kv KeyValueStore
}

// NewDraftStore は DraftStore を生成します。
func NewDraftStore(kv KeyValueStore) *DraftStore {
	return &DraftStore{kv: kv}
}

// Save は下書きを上書き保存します。
func (s *DraftStore) Save(ctx context.Context, draft Draft) error {
	raw, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("employee: encode draft: %w", err)
	}
	if err := s.kv.Set(ctx, DraftKey, raw); err != nil {
		return fmt.Errorf("employee: save draft: %w", err)
	}
	return nil
}

// Load は下書きを返します。保存されていない場合は ok=false です。
func (s *DraftStore) Load(ctx context.Context) (Draft, bool, error) {
	raw, ok, err := s.kv.Get(ctx, DraftKey)
	if err != nil {
		return Draft{}, false, fmt.Errorf("employee: load draft: %w", err)
	}
	if !ok || len(raw) == 0 || string(raw) == "null" {
		return Draft{}, false, nil
	}

	var draft Draft
	if err := json.Unmarshal(raw, &draft); err != nil {
		return Draft{}, false, fmt.Errorf("%w: %s: %v", ErrCorruptPayload, DraftKey, err)
	}
	return draft, true, nil
}

// Clear は下書きを削除します。
func (s *DraftStore) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, DraftKey); err != nil {
		return fmt.Errorf("employee: clear draft: %w", err)
	}
	return nil
}
