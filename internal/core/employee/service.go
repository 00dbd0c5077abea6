package employee

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Service は一覧・参照・削除のユースケースをまとめます。
type Service struct {
	records Records
	logger  *zap.Logger
}

// UseCase は社員一覧ユースケースの公開インターフェースです。
type UseCase interface {
	ListEmployees(ctx context.Context, in ListEmployeesInput) ([]Record, error)
	GetEmployee(ctx context.Context, in GetEmployeeInput) (Record, error)
	DeleteEmployee(ctx context.Context, in DeleteEmployeeInput) error
	ClearEmployees(ctx context.Context) error
}

// NewService は Service を生成します。
func NewService(records Records, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{records: records, logger: logger}
}

// ListEmployeesInput は一覧取得時の入力です。
type ListEmployeesInput struct {
	Query string
}

// GetEmployeeInput は社員取得時の入力です。
type GetEmployeeInput struct {
	ID string
}

// DeleteEmployeeInput は社員削除時の入力です。
type DeleteEmployeeInput struct {
	ID string
}

// ListEmployees は検索語で絞り込んだ社員一覧を返します。
func (s *Service) ListEmployees(ctx context.Context, in ListEmployeesInput) ([]Record, error) {
	records, err := s.records.List(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(records, in.Query), nil
}

// GetEmployee は社員を取得します。
func (s *Service) GetEmployee(ctx context.Context, in GetEmployeeInput) (Record, error) {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		return Record{}, fmt.Errorf("id: %w", ErrNotFound)
	}
	return s.records.FindByID(ctx, id)
}

// DeleteEmployee は社員を削除します。対象が存在しない場合は ErrNotFound を返します。
func (s *Service) DeleteEmployee(ctx context.Context, in DeleteEmployeeInput) error {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		return fmt.Errorf("id: %w", ErrNotFound)
	}
	if _, err := s.records.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.records.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("employee deleted", zap.String("emp_id", id))
	return nil
}

// ClearEmployees は全社員を削除します。
func (s *Service) ClearEmployees(ctx context.Context) error {
	if err := s.records.Clear(ctx); err != nil {
		return err
	}
	s.logger.Info("all employees cleared")
	return nil
}
