package wizard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ogurasousui/employee-organizer/internal/core/employee"
	"go.uber.org/zap"
)

// MissingDraftDelay は下書き欠落時に個人情報ステップへ戻すまでの待ち時間です。
const MissingDraftDelay = 600 * time.Millisecond

// ErrInvalidStep は現在のステップでは実行できない操作を要求した場合に返却されます。
var ErrInvalidStep = errors.New("wizard: operation not allowed at current step")

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// Notifier は利用者向けの短い通知を受け取ります。
type Notifier interface {
	Notify(msg string)
}

// NotifierFunc は関数を Notifier として扱うためのアダプタです。
type NotifierFunc func(msg string)

// Notify は f(msg) を呼び出します。
func (f NotifierFunc) Notify(msg string) {
	f(msg)
}

type discardNotifier struct{}

func (discardNotifier) Notify(string) {}

// Options は Controller の任意設定です。
type Options struct {
	Clock          Clock
	Notifier       Notifier
	Logger         *zap.Logger
	MaxAvatarBytes int64
}

// Form は編集開始時に入力欄へ展開する値です。
type Form struct {
	Personal employee.Personal
	Official employee.Official
}

// Result は確定処理の結果です。
type Result struct {
	Outcome employee.Outcome
	Record  employee.Record
	// Message は通知用の文言です。
	Message string
	// Done は完了画面に表示する文言です。
	Done string
}

// Controller は個人情報→所属情報の 2 ステップ入力を制御します。
type Controller struct {
	records        employee.Records
	drafts         employee.Drafts
	clock          Clock
	notifier       Notifier
	logger         *zap.Logger
	maxAvatarBytes int64
}

// NewController は Controller を生成します。
func NewController(records employee.Records, drafts employee.Drafts, opts Options) *Controller {
	c := &Controller{
		records:        records,
		drafts:         drafts,
		clock:          opts.Clock,
		notifier:       opts.Notifier,
		logger:         opts.Logger,
		maxAvatarBytes: opts.MaxAvatarBytes,
	}
	if c.clock == nil {
		c.clock = realClock{}
	}
	if c.notifier == nil {
		c.notifier = discardNotifier{}
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.maxAvatarBytes <= 0 {
		c.maxAvatarBytes = MaxAvatarBytes
	}
	return c
}

// StartCreate は新規作成フローを開始します。残っている下書きは破棄されます。
func (c *Controller) StartCreate(ctx context.Context) (State, error) {
	if err := c.drafts.Clear(ctx); err != nil {
		return State{}, err
	}
	return State{Step: Step1Personal}, nil
}

// StartEdit は既存レコードの編集を開始します。個人情報は下書きへ保存され、所属情報ステップから始まります。
func (c *Controller) StartEdit(ctx context.Context, id string) (State, Form, error) {
	rec, err := c.records.FindByID(ctx, id)
	if err != nil {
		c.notifyErr(err)
		return State{}, Form{}, err
	}

	if err := c.drafts.Save(ctx, rec.Personal); err != nil {
		return State{}, Form{}, err
	}

	st := State{Step: Step2Official, EditTarget: rec.EmployeeID, Avatar: rec.Avatar}
	return st, Form{Personal: rec.Personal, Official: rec.Official}, nil
}

// Restore は保存済みの下書きがあれば復元します。
func (c *Controller) Restore(ctx context.Context) (State, employee.Personal, bool, error) {
	draft, ok, err := c.drafts.Load(ctx)
	if err != nil || !ok {
		return State{}, employee.Personal{}, false, err
	}
	return State{Step: Step1Personal, Avatar: draft.Avatar}, draft, true, nil
}

// Autosave は入力途中の個人情報が検証を通る場合に限り下書きへ保存します。
// 保存した場合は true を返します。検証失敗は通知もエラーも返しません。
// 入力中でない (未開始・完了済み) 状態では ErrInvalidStep を返します。
func (c *Controller) Autosave(ctx context.Context, st State, personal employee.Personal) (bool, error) {
	if err := requireStep(st, Step1Personal, Step2Official); err != nil {
		return false, err
	}
	valid, err := employee.ValidatePersonal(c.withAvatar(st, personal))
	if err != nil {
		return false, nil
	}
	if err := c.drafts.Save(ctx, valid); err != nil {
		return false, err
	}
	return true, nil
}

// AdvanceToOfficial は個人情報を検証し、下書きを保存して所属情報ステップへ進めます。
// 検証に失敗した場合は状態を変更せず、下書きも書き込みません。個人情報ステップ以外からは ErrInvalidStep を返します。
func (c *Controller) AdvanceToOfficial(ctx context.Context, st State, personal employee.Personal) (State, error) {
	if err := requireStep(st, Step1Personal); err != nil {
		return st, err
	}
	valid, err := employee.ValidatePersonal(c.withAvatar(st, personal))
	if err != nil {
		c.notifyErr(err)
		return st, err
	}

	if err := c.drafts.Save(ctx, valid); err != nil {
		return st, err
	}

	st.Step = Step2Official
	return st, nil
}

// BackToPersonal は個人情報ステップへ戻ります。所属情報の入力値は保存されません。
func (c *Controller) BackToPersonal(st State) State {
	st.Step = Step1Personal
	return st
}

// Finalize は所属情報を検証し、下書きと結合してレコードストアへ保存します。
// 下書きが無い場合は ErrMissingDraft を返します。呼び出し側は MissingDraftDelay 後に個人情報ステップへ戻してください。
// 所属情報ステップ以外からは下書きに触れず ErrInvalidStep を返します。
func (c *Controller) Finalize(ctx context.Context, st State, official employee.Official) (State, Result, error) {
	if err := requireStep(st, Step2Official); err != nil {
		return st, Result{}, err
	}
	validOfficial, err := employee.ValidateOfficial(official)
	if err != nil {
		c.notifyErr(err)
		return st, Result{}, err
	}

	draft, ok, err := c.drafts.Load(ctx)
	if err != nil {
		return st, Result{}, err
	}
	if !ok {
		c.notify(employee.MsgMissingDraft)
		return st, Result{}, employee.ErrMissingDraft
	}
	if st.Avatar != "" {
		draft.Avatar = st.Avatar
	}

	createdAt, err := c.createdAt(ctx, st)
	if err != nil {
		return st, Result{}, err
	}

	rec := employee.Merge(draft, validOfficial, createdAt)
	outcome, err := c.records.Upsert(ctx, rec, st.EditTarget)
	if err != nil {
		c.notifyErr(err)
		return st, Result{}, err
	}

	if err := c.drafts.Clear(ctx); err != nil {
		c.logger.Warn("failed to clear draft after finalize", zap.Error(err))
	}

	res := Result{
		Outcome: outcome,
		Record:  rec,
		Message: employee.OutcomeMessage(outcome, st.Editing()),
		Done:    employee.DoneMessage(rec),
	}
	c.notify(res.Message)
	c.logger.Info("employee finalized",
		zap.String("emp_id", rec.EmployeeID),
		zap.String("outcome", string(outcome)))

	return State{Step: Step3Done}, res, nil
}

// Cancel はウィザードを破棄します。下書き・編集対象・アバターはすべて消去されます。
func (c *Controller) Cancel(ctx context.Context, st State) (State, error) {
	if err := c.drafts.Clear(ctx); err != nil {
		return st, err
	}
	return State{}, nil
}

// 編集時は既存レコードの作成日時を引き継ぎます。
func (c *Controller) createdAt(ctx context.Context, st State) (time.Time, error) {
	if !st.Editing() {
		return c.clock.Now(), nil
	}
	existing, err := c.records.FindByID(ctx, st.EditTarget)
	if errors.Is(err, employee.ErrNotFound) {
		return c.clock.Now(), nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return existing.CreatedAt, nil
}

func requireStep(st State, allowed ...Step) error {
	for _, step := range allowed {
		if st.Step == step {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidStep, st.Step)
}

func (c *Controller) withAvatar(st State, personal employee.Personal) employee.Personal {
	if st.Avatar != "" {
		personal.Avatar = st.Avatar
	}
	return personal
}

func (c *Controller) notify(msg string) {
	if msg != "" {
		c.notifier.Notify(msg)
	}
}

func (c *Controller) notifyErr(err error) {
	c.notify(employee.Message(err))
}
