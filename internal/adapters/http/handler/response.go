package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ogurasousui/employee-organizer/internal/core/employee"
	"github.com/ogurasousui/employee-organizer/internal/core/wizard"
	"github.com/ogurasousui/employee-organizer/internal/platform/avatar"
)

// エラーコードです。
const (
	CodeInvalidInput  = "INVALID_INPUT"
	CodeNotFound      = "NOT_FOUND"
	CodeConflict      = "CONFLICT"
	CodeInvalidState  = "INVALID_STATE"
	CodeInternalError = "INTERNAL_ERROR"
)

// Envelope は全レスポンス共通の外形です。
type Envelope struct {
	Ok    bool       `json:"ok"`
	Data  any        `json:"data,omitempty"`
	Error *ErrorBody `json:"error,omitempty"`
}

// ErrorBody は失敗時のエラー内容です。
type ErrorBody struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}

func success(c *gin.Context, status int, data any) {
	c.JSON(status, Envelope{Ok: true, Data: data})
}

func failure(c *gin.Context, status int, code, message string, fields []string) {
	c.JSON(status, Envelope{Ok: false, Error: &ErrorBody{Code: code, Message: message, Fields: fields}})
}

func writeError(c *gin.Context, err error) {
	status, code := classify(err)
	message := employee.Message(err)
	switch {
	case errors.Is(err, wizard.ErrAvatarTooLarge):
		message = employee.MsgAvatarTooLarge
	case message == "" && status < http.StatusInternalServerError:
		message = err.Error()
	case message == "":
		message = "Internal server error"
	}

	var verr *employee.ValidationError
	var fields []string
	if errors.As(err, &verr) {
		fields = verr.Fields
	}
	failure(c, status, code, message, fields)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, employee.ErrIncompleteFields),
		errors.Is(err, employee.ErrInvalidPhone),
		errors.Is(err, wizard.ErrAvatarTooLarge),
		errors.Is(err, avatar.ErrInvalidAvatar):
		return http.StatusBadRequest, CodeInvalidInput
	case errors.Is(err, employee.ErrDuplicateID):
		return http.StatusConflict, CodeConflict
	case errors.Is(err, employee.ErrNotFound), errors.Is(err, wizard.ErrSessionNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, employee.ErrMissingDraft), errors.Is(err, wizard.ErrInvalidStep):
		return http.StatusConflict, CodeInvalidState
	default:
		return http.StatusInternalServerError, CodeInternalError
	}
}
