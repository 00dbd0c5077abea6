package employee

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// RecordStore は全レコードを 1 つのキーにシリアライズして保持するレコードストアです。
// 更新系の操作はコレクション全体を読み込み、書き換えてから返ります。
type RecordStore struct {
	kv     KeyValueStore
	tx     TransactionManager
	logger *zap.Logger
}

// NewRecordStore は RecordStore を生成します。
func NewRecordStore(kv KeyValueStore, tx TransactionManager, logger *zap.Logger) *RecordStore {
	if tx == nil {
		tx = noopTransactionManager{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordStore{kv: kv, tx: tx, logger: logger}
}

// List は保存順に全レコードを返します。未保存の場合は空のスライスを返します。
func (s *RecordStore) List(ctx context.Context) ([]Record, error) {
	var records []Record
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		loaded, err := s.load(txCtx)
		if err != nil {
			return err
		}
		records = loaded
		return nil
	}); err != nil {
		return nil, err
	}
	return records, nil
}

// FindByID は社員 ID に一致するレコードを返します。
func (s *RecordStore) FindByID(ctx context.Context, id string) (Record, error) {
	records, err := s.List(ctx)
	if err != nil {
		return Record{}, err
	}
	if idx := indexOf(records, id); idx >= 0 {
		return records[idx], nil
	}
	return Record{}, ErrNotFound
}

// Upsert はレコードを追加または置き換えます。
// editTarget が空の場合は新規作成として扱い、同じ社員 ID があれば ErrDuplicateID を返します。
// editTarget が存在すれば同じ位置で置き換え、存在しなければ末尾に追加します。
func (s *RecordStore) Upsert(ctx context.Context, rec Record, editTarget string) (Outcome, error) {
	var outcome Outcome
	err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		records, err := s.load(txCtx)
		if err != nil {
			return err
		}

		if editTarget == "" {
			if indexOf(records, rec.EmployeeID) >= 0 {
				return ErrDuplicateID
			}
			records = append(records, rec)
			outcome = OutcomeSaved
			return s.persist(txCtx, records)
		}

		target := indexOf(records, editTarget)
		if other := indexOf(records, rec.EmployeeID); other >= 0 && other != target {
			return ErrDuplicateID
		}
		if target >= 0 {
			records[target] = rec
			outcome = OutcomeUpdated
		} else {
			records = append(records, rec)
			outcome = OutcomeSaved
		}
		return s.persist(txCtx, records)
	})
	if err != nil {
		return "", err
	}

	s.logger.Debug("record upserted",
		zap.String("emp_id", rec.EmployeeID),
		zap.String("edit_target", editTarget),
		zap.String("outcome", string(outcome)))
	return outcome, nil
}

// Delete は社員 ID に一致するレコードを削除します。存在しない場合は何もしません。
func (s *RecordStore) Delete(ctx context.Context, id string) error {
	return s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		records, err := s.load(txCtx)
		if err != nil {
			return err
		}
		idx := indexOf(records, id)
		if idx < 0 {
			return nil
		}
		records = append(records[:idx], records[idx+1:]...)
		return s.persist(txCtx, records)
	})
}

// Clear は全レコードを削除します。
func (s *RecordStore) Clear(ctx context.Context) error {
	return s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if err := s.kv.Delete(txCtx, RecordsKey); err != nil {
			return fmt.Errorf("employee: clear records: %w", err)
		}
		return nil
	})
}

func (s *RecordStore) load(ctx context.Context) ([]Record, error) {
	raw, ok, err := s.kv.Get(ctx, RecordsKey)
	if err != nil {
		return nil, fmt.Errorf("employee: load records: %w", err)
	}
	if !ok || len(raw) == 0 {
		return []Record{}, nil
	}

	var records []Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptPayload, RecordsKey, err)
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

func (s *RecordStore) persist(ctx context.Context, records []Record) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("employee: encode records: %w", err)
	}
	if err := s.kv.Set(ctx, RecordsKey, raw); err != nil {
		return fmt.Errorf("employee: save records: %w", err)
	}
	return nil
}

func indexOf(records []Record, id string) int {
	for i := range records {
		if records[i].EmployeeID == id {
			return i
		}
	}
	return -1
}
