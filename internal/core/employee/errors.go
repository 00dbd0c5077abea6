package employee

import (
	"errors"
	"strings"
)

var (
	// ErrIncompleteFields は必須項目が未入力の場合に返却されます。
	ErrIncompleteFields = errors.New("employee: incomplete fields")
	// ErrInvalidPhone は電話番号が 6〜15 桁の数字でない場合に返却されます。
	ErrInvalidPhone = errors.New("employee: invalid phone")
	// ErrDuplicateID は社員 ID が既に使われている場合に返却されます。
	ErrDuplicateID = errors.New("employee: id already exists")
	// ErrMissingDraft は確定時に個人情報の下書きが存在しない場合に返却されます。
	ErrMissingDraft = errors.New("employee: personal draft missing")
	// ErrNotFound は対象レコードが存在しない場合に返却されます。
	ErrNotFound = errors.New("employee: not found")
	// ErrCorruptPayload は保存データを復元できない場合に返却されます。
	ErrCorruptPayload = errors.New("employee: corrupt stored payload")
)

// Step は検証対象のウィザードステップです。
type Step string

const (
	StepPersonal Step = "personal"
	StepOfficial Step = "official"
)

// ValidationError は入力検証の失敗内容を保持します。
type ValidationError struct {
	Step   Step
	Fields []string
	Err    error
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Err.Error()
	}
	return e.Err.Error() + ": " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
