package handler

import (
	"context"
	"strings"

	"github.com/ogurasousui/employee-organizer/internal/core/employee"
	"github.com/ogurasousui/employee-organizer/internal/core/wizard"
	"github.com/ogurasousui/employee-organizer/internal/platform/avatar"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// OrganizerGrpcHandler は EmployeeOrganizer の gRPC 実装です。
type OrganizerGrpcHandler struct {
	employees employee.UseCase
	wizard    wizard.UseCase
	logger    *zap.Logger
}

var _ OrganizerServer = (*OrganizerGrpcHandler)(nil)

// NewOrganizerGrpcHandler は OrganizerGrpcHandler を生成します。
func NewOrganizerGrpcHandler(employees employee.UseCase, wz wizard.UseCase, logger *zap.Logger) *OrganizerGrpcHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrganizerGrpcHandler{employees: employees, wizard: wz, logger: logger}
}

// ListEmployees は検索語 query で絞り込んだ社員一覧を返します。
func (h *OrganizerGrpcHandler) ListEmployees(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	records, err := h.employees.ListEmployees(ctx, employee.ListEmployeesInput{Query: stringField(req, "query")})
	if err != nil {
		return nil, toStatusError(err)
	}
	return newResponse(map[string]any{"employees": records})
}

// GetEmployee は id の社員を返します。
func (h *OrganizerGrpcHandler) GetEmployee(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := requiredString(req, "id")
	if err != nil {
		return nil, err
	}
	rec, err := h.employees.GetEmployee(ctx, employee.GetEmployeeInput{ID: id})
	if err != nil {
		return nil, toStatusError(err)
	}
	return newResponse(map[string]any{"employee": rec})
}

// DeleteEmployee は id の社員を削除します。
func (h *OrganizerGrpcHandler) DeleteEmployee(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := requiredString(req, "id")
	if err != nil {
		return nil, err
	}
	if err := h.employees.DeleteEmployee(ctx, employee.DeleteEmployeeInput{ID: id}); err != nil {
		return nil, toStatusError(err)
	}
	return newResponse(map[string]any{"message": employee.MsgDeleted})
}

// ClearEmployees は全社員を削除します。
func (h *OrganizerGrpcHandler) ClearEmployees(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	if err := h.employees.ClearEmployees(ctx); err != nil {
		return nil, toStatusError(err)
	}
	return newResponse(map[string]any{"message": employee.MsgCleared})
}

// StartCreate は新規作成セッションを開始します。
func (h *OrganizerGrpcHandler) StartCreate(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	sid, st, err := h.wizard.StartCreate(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}
	return newResponse(map[string]any{"session_id": sid, "step": st.Step.String()})
}

// StartEdit は id の社員の編集セッションを開始し、入力欄の初期値を返します。
func (h *OrganizerGrpcHandler) StartEdit(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := requiredString(req, "id")
	if err != nil {
		return nil, err
	}
	sid, st, form, err := h.wizard.StartEdit(ctx, id)
	if err != nil {
		return nil, toStatusError(err)
	}
	return newResponse(map[string]any{
		"session_id": sid,
		"step":       st.Step.String(),
		"personal":   form.Personal,
		"official":   form.Official,
	})
}

// SavePersonal は入力途中の個人情報を自動保存します。
func (h *OrganizerGrpcHandler) SavePersonal(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sid, err := requiredString(req, "session_id")
	if err != nil {
		return nil, err
	}
	var personal employee.Personal
	if err := decodeField(req, "personal", &personal); err != nil {
		return nil, err
	}
	saved, err := h.wizard.SavePersonal(ctx, sid, personal)
	if err != nil {
		return nil, toStatusError(err)
	}
	return newResponse(map[string]any{"saved": saved})
}

// AdvanceToOfficial は個人情報を検証して所属情報ステップへ進めます。
func (h *OrganizerGrpcHandler) AdvanceToOfficial(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sid, err := requiredString(req, "session_id")
	if err != nil {
		return nil, err
	}
	var personal employee.Personal
	if err := decodeField(req, "personal", &personal); err != nil {
		return nil, err
	}
	st, err := h.wizard.AdvanceToOfficial(ctx, sid, personal)
	if err != nil {
		return nil, toStatusError(err)
	}
	return newResponse(map[string]any{"session_id": sid, "step": st.Step.String()})
}

// BackToPersonal は個人情報ステップへ戻します。
func (h *OrganizerGrpcHandler) BackToPersonal(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sid, err := requiredString(req, "session_id")
	if err != nil {
		return nil, err
	}
	st, err := h.wizard.BackToPersonal(ctx, sid)
	if err != nil {
		return nil, toStatusError(err)
	}
	return newResponse(map[string]any{"session_id": sid, "step": st.Step.String()})
}

// Finalize は所属情報を検証し、レコードを確定します。
func (h *OrganizerGrpcHandler) Finalize(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sid, err := requiredString(req, "session_id")
	if err != nil {
		return nil, err
	}
	var official employee.Official
	if err := decodeField(req, "official", &official); err != nil {
		return nil, err
	}
	st, res, err := h.wizard.Finalize(ctx, sid, official)
	if err != nil {
		return nil, toStatusError(err)
	}
	h.logger.Info("employee finalized via grpc",
		zap.String("emp_id", res.Record.EmployeeID),
		zap.String("outcome", string(res.Outcome)))
	return newResponse(map[string]any{
		"step":     st.Step.String(),
		"outcome":  string(res.Outcome),
		"message":  res.Message,
		"done":     res.Done,
		"employee": res.Record,
	})
}

// CancelWizard はセッションを破棄します。
func (h *OrganizerGrpcHandler) CancelWizard(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sid, err := requiredString(req, "session_id")
	if err != nil {
		return nil, err
	}
	if err := h.wizard.Cancel(ctx, sid); err != nil {
		return nil, toStatusError(err)
	}
	return newResponse(map[string]any{"step": wizard.StepNone.String()})
}

// UploadAvatar は data_uri の画像をセッションのアバターとして設定します。
func (h *OrganizerGrpcHandler) UploadAvatar(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sid, err := requiredString(req, "session_id")
	if err != nil {
		return nil, err
	}
	raw, _, err := avatar.Decode(stringField(req, "data_uri"))
	if err != nil {
		return nil, toStatusError(err)
	}
	st, err := h.wizard.AttachAvatar(ctx, sid, int64(len(raw)), func() (string, error) {
		return avatar.Encode(raw)
	})
	if err != nil {
		return nil, toStatusError(err)
	}
	return newResponse(map[string]any{"session_id": sid, "step": st.Step.String(), "avatar": st.Avatar})
}

func requiredString(req *structpb.Struct, field string) (string, error) {
	value := strings.TrimSpace(stringField(req, field))
	if value == "" {
		return "", status.Error(codes.InvalidArgument, field+" is required")
	}
	return value, nil
}
