package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ogurasousui/employee-organizer/internal/core/employee"
	"github.com/ogurasousui/employee-organizer/internal/core/wizard"
	"github.com/ogurasousui/employee-organizer/internal/platform/avatar"
	"go.uber.org/zap"
)

// AvatarField は multipart でアバター画像を受け取るフィールド名です。
const AvatarField = "avatar"

// Handler は社員管理の HTTP ハンドラです。
type Handler struct {
	employees      employee.UseCase
	wizard         wizard.UseCase
	maxAvatarBytes int64
	logger         *zap.Logger
}

// NewHandler は Handler を生成します。
func NewHandler(employees employee.UseCase, wz wizard.UseCase, maxAvatarBytes int64, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxAvatarBytes <= 0 {
		maxAvatarBytes = wizard.MaxAvatarBytes
	}
	return &Handler{
		employees:      employees,
		wizard:         wz,
		maxAvatarBytes: maxAvatarBytes,
		logger:         logger.Named("http.handler"),
	}
}

type sessionResponse struct {
	SessionID string             `json:"session_id,omitempty"`
	Step      string             `json:"step"`
	Avatar    string             `json:"avatar,omitempty"`
	Personal  *employee.Personal `json:"personal,omitempty"`
	Official  *employee.Official `json:"official,omitempty"`
}

type finalizeResponse struct {
	Step     string          `json:"step"`
	Outcome  string          `json:"outcome"`
	Message  string          `json:"message"`
	Done     string          `json:"done"`
	Employee employee.Record `json:"employee"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// ListEmployees は q で絞り込んだ社員一覧を返します。
func (h *Handler) ListEmployees(c *gin.Context) {
	records, err := h.employees.ListEmployees(c.Request.Context(), employee.ListEmployeesInput{Query: c.Query("q")})
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, records)
}

// GetEmployee は社員を返します。
func (h *Handler) GetEmployee(c *gin.Context) {
	rec, err := h.employees.GetEmployee(c.Request.Context(), employee.GetEmployeeInput{ID: c.Param("id")})
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, rec)
}

// DeleteEmployee は社員を削除します。
func (h *Handler) DeleteEmployee(c *gin.Context) {
	if err := h.employees.DeleteEmployee(c.Request.Context(), employee.DeleteEmployeeInput{ID: c.Param("id")}); err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, messageResponse{Message: employee.MsgDeleted})
}

// ClearEmployees は全社員を削除します。
func (h *Handler) ClearEmployees(c *gin.Context) {
	if err := h.employees.ClearEmployees(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, messageResponse{Message: employee.MsgCleared})
}

// StartCreate は新規作成セッションを開始します。
func (h *Handler) StartCreate(c *gin.Context) {
	sid, st, err := h.wizard.StartCreate(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusCreated, sessionResponse{SessionID: sid, Step: st.Step.String()})
}

// StartEdit は編集セッションを開始します。
func (h *Handler) StartEdit(c *gin.Context) {
	sid, st, form, err := h.wizard.StartEdit(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusCreated, sessionResponse{
		SessionID: sid,
		Step:      st.Step.String(),
		Avatar:    st.Avatar,
		Personal:  &form.Personal,
		Official:  &form.Official,
	})
}

// SavePersonal は入力途中の個人情報を自動保存します。
func (h *Handler) SavePersonal(c *gin.Context) {
	var personal employee.Personal
	if !bindJSON(c, &personal) {
		return
	}
	saved, err := h.wizard.SavePersonal(c.Request.Context(), c.Param("sid"), personal)
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, gin.H{"saved": saved})
}

// AdvanceToOfficial は所属情報ステップへ進めます。
func (h *Handler) AdvanceToOfficial(c *gin.Context) {
	var personal employee.Personal
	if !bindJSON(c, &personal) {
		return
	}
	sid := c.Param("sid")
	st, err := h.wizard.AdvanceToOfficial(c.Request.Context(), sid, personal)
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, sessionResponse{SessionID: sid, Step: st.Step.String()})
}

// BackToPersonal は個人情報ステップへ戻します。
func (h *Handler) BackToPersonal(c *gin.Context) {
	sid := c.Param("sid")
	st, err := h.wizard.BackToPersonal(c.Request.Context(), sid)
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, sessionResponse{SessionID: sid, Step: st.Step.String()})
}

// Finalize はレコードを確定します。
func (h *Handler) Finalize(c *gin.Context) {
	var official employee.Official
	if !bindJSON(c, &official) {
		return
	}
	st, res, err := h.wizard.Finalize(c.Request.Context(), c.Param("sid"), official)
	if err != nil {
		writeError(c, err)
		return
	}
	h.logger.Info("employee finalized",
		zap.String("emp_id", res.Record.EmployeeID),
		zap.String("outcome", string(res.Outcome)))

	status := http.StatusCreated
	if res.Outcome == employee.OutcomeUpdated {
		status = http.StatusOK
	}
	success(c, status, finalizeResponse{
		Step:     st.Step.String(),
		Outcome:  string(res.Outcome),
		Message:  res.Message,
		Done:     res.Done,
		Employee: res.Record,
	})
}

// Cancel はセッションを破棄します。
func (h *Handler) Cancel(c *gin.Context) {
	if err := h.wizard.Cancel(c.Request.Context(), c.Param("sid")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadAvatar は multipart の画像をセッションのアバターに設定します。
func (h *Handler) UploadAvatar(c *gin.Context) {
	header, err := c.FormFile(AvatarField)
	if err != nil {
		failure(c, http.StatusBadRequest, CodeInvalidInput, AvatarField+" file is required", nil)
		return
	}

	sid := c.Param("sid")
	st, err := h.wizard.AttachAvatar(c.Request.Context(), sid, header.Size, func() (string, error) {
		file, err := header.Open()
		if err != nil {
			return "", err
		}
		defer file.Close()

		raw, err := io.ReadAll(io.LimitReader(file, h.maxAvatarBytes+1))
		if err != nil {
			return "", err
		}
		return avatar.Encode(raw)
	})
	if err != nil {
		if !errors.Is(err, wizard.ErrAvatarTooLarge) {
			h.logger.Warn("avatar upload failed", zap.String("session_id", sid), zap.Error(err))
		}
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, sessionResponse{SessionID: sid, Step: st.Step.String(), Avatar: st.Avatar})
}

func bindJSON(c *gin.Context, out any) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		failure(c, http.StatusBadRequest, CodeInvalidInput, "invalid input: "+strings.TrimSpace(err.Error()), nil)
		return false
	}
	return true
}
