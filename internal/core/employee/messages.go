package employee

import (
	"errors"
	"fmt"
)

// 利用者向け通知文言です。
const (
	MsgIncompletePersonal = "Please fill all personal fields"
	MsgIncompleteOfficial = "Please fill all official fields"
	MsgInvalidPhone       = "Enter valid phone digits"
	MsgMissingDraft       = "Personal details missing — please fill personal form"
	MsgDuplicateID        = "Employee ID already exists. Use unique ID."
	MsgCreated            = "Employee saved"
	MsgUpdated            = "Updated employee"
	MsgSavedFallback      = "Saved employee"
	MsgNotFound           = "Employee not found"
	MsgDeleted            = "Deleted"
	MsgCleared            = "All data cleared"
	MsgAvatarTooLarge     = "Image too large (max 300KB)"
)

// Message はエラーを利用者向けの通知文言に変換します。対応する文言がない場合は空文字を返します。
func Message(err error) string {
	var verr *ValidationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &verr) && errors.Is(err, ErrIncompleteFields):
		if verr.Step == StepOfficial {
			return MsgIncompleteOfficial
		}
		return MsgIncompletePersonal
	case errors.Is(err, ErrIncompleteFields):
		return MsgIncompletePersonal
	case errors.Is(err, ErrInvalidPhone):
		return MsgInvalidPhone
	case errors.Is(err, ErrMissingDraft):
		return MsgMissingDraft
	case errors.Is(err, ErrDuplicateID):
		return MsgDuplicateID
	case errors.Is(err, ErrNotFound):
		return MsgNotFound
	default:
		return ""
	}
}

// DoneMessage は確定完了時に表示する文言を返します。
func DoneMessage(rec Record) string {
	return fmt.Sprintf("%s (%s) saved successfully.", rec.FullName, rec.EmployeeID)
}

// OutcomeMessage は Upsert の結果に対応する通知文言を返します。
func OutcomeMessage(outcome Outcome, edit bool) string {
	switch {
	case outcome == OutcomeUpdated:
		return MsgUpdated
	case edit:
		return MsgSavedFallback
	default:
		return MsgCreated
	}
}
