package wizard

// Step はウィザードの現在位置を表します。
type Step int

const (
	// StepNone はウィザードが開始されていない状態です。
	StepNone Step = iota
	Step1Personal
	Step2Official
	Step3Done
)

func (s Step) String() string {
	switch s {
	case Step1Personal:
		return "personal"
	case Step2Official:
		return "official"
	case Step3Done:
		return "done"
	default:
		return "none"
	}
}

// State はウィザード 1 回分の状態を保持する値オブジェクトです。
// 各操作は State を受け取り、更新後の State を返します。
type State struct {
	Step Step
	// EditTarget は編集対象の社員 ID です。空の場合は新規作成です。
	EditTarget string
	// Avatar は選択済みのアバター (data URI) です。
	Avatar string
	// avatarSeq は最後に発行したアバター読み込みチケットです。
	avatarSeq uint64
}

// Editing は編集モードかどうかを返します。
func (s State) Editing() bool {
	return s.EditTarget != ""
}
