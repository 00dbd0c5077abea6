package handler

import (
	"errors"

	"github.com/ogurasousui/employee-organizer/internal/core/employee"
	"github.com/ogurasousui/employee-organizer/internal/core/wizard"
	"github.com/ogurasousui/employee-organizer/internal/platform/avatar"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func toStatusError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, employee.ErrIncompleteFields),
		errors.Is(err, employee.ErrInvalidPhone),
		errors.Is(err, avatar.ErrInvalidAvatar):
		return status.Error(codes.InvalidArgument, statusMessage(err))
	case errors.Is(err, wizard.ErrAvatarTooLarge):
		return status.Error(codes.InvalidArgument, employee.MsgAvatarTooLarge)
	case errors.Is(err, employee.ErrDuplicateID):
		return status.Error(codes.AlreadyExists, statusMessage(err))
	case errors.Is(err, employee.ErrNotFound), errors.Is(err, wizard.ErrSessionNotFound):
		return status.Error(codes.NotFound, statusMessage(err))
	case errors.Is(err, employee.ErrMissingDraft), errors.Is(err, wizard.ErrInvalidStep):
		return status.Error(codes.FailedPrecondition, statusMessage(err))
	case errors.Is(err, employee.ErrCorruptPayload):
		return status.Error(codes.DataLoss, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// 利用者向け文言がある場合はそちらを優先します。
func statusMessage(err error) string {
	if msg := employee.Message(err); msg != "" {
		return msg
	}
	return err.Error()
}
