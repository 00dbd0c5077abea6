package employee

import (
	"strings"
	"time"
)

// Personal は入力ウィザード 1 ステップ目の個人情報です。下書きとしてもこの形で保存されます。
type Personal struct {
	FullName string `json:"fullName" validate:"required"`
	DOB      string `json:"dob" validate:"required"`
	Gender   string `json:"gender" validate:"required"`
	Phone    string `json:"phone" validate:"required,phone"`
	Email    string `json:"email" validate:"required"`
	Address  string `json:"address" validate:"required"`
	Avatar   string `json:"avatar"`
}

// Official は入力ウィザード 2 ステップ目の所属情報です。
type Official struct {
	EmployeeID  string `json:"empId" validate:"required"`
	Department  string `json:"department" validate:"required"`
	Designation string `json:"designation" validate:"required"`
	JoinDate    string `json:"joinDate" validate:"required"`
	Location    string `json:"location" validate:"required"`
	Salary      string `json:"salary"`
}

// Record は保存される社員レコードです。社員 ID をキーとして一意です。
type Record struct {
	Personal
	Official
	CreatedAt time.Time `json:"created"`
}

// Draft は編集途中の個人情報です。
type Draft = Personal

// Outcome は Upsert の結果種別を表します。
type Outcome string

const (
	// OutcomeSaved は新規追加されたことを示します。
	OutcomeSaved Outcome = "saved"
	// OutcomeUpdated は既存レコードが置き換えられたことを示します。
	OutcomeUpdated Outcome = "updated"
)

// Merge は下書きと所属情報から新しいレコードを組み立てます。
func Merge(draft Personal, official Official, createdAt time.Time) Record {
	return Record{Personal: draft, Official: official, CreatedAt: createdAt}
}

// Initials は名前の先頭 2 語の頭文字を返します。アバター未設定時の表示に使います。
func (r Record) Initials() string {
	var out []rune
	for _, part := range strings.Fields(r.FullName) {
		out = append(out, []rune(part)[0])
		if len(out) == 2 {
			break
		}
	}
	return string(out)
}
