package wizard

import (
	"context"
	"errors"

	"github.com/ogurasousui/employee-organizer/internal/core/employee"
	"go.uber.org/zap"
)

// UseCase はセッション単位のウィザード操作を公開するインターフェースです。
type UseCase interface {
	StartCreate(ctx context.Context) (string, State, error)
	StartEdit(ctx context.Context, employeeID string) (string, State, Form, error)
	SavePersonal(ctx context.Context, sessionID string, personal employee.Personal) (bool, error)
	AdvanceToOfficial(ctx context.Context, sessionID string, personal employee.Personal) (State, error)
	BackToPersonal(ctx context.Context, sessionID string) (State, error)
	Finalize(ctx context.Context, sessionID string, official employee.Official) (State, Result, error)
	Cancel(ctx context.Context, sessionID string) error
	AttachAvatar(ctx context.Context, sessionID string, size int64, read func() (string, error)) (State, error)
}

// Service は Controller と Sessions を組み合わせ、セッション ID で状態を引き回します。
// 同じセッションへの操作は直列化されます。
type Service struct {
	ctrl     *Controller
	sessions *Sessions
	logger   *zap.Logger
}

// NewService は Service を生成します。
func NewService(ctrl *Controller, sessions *Sessions) *Service {
	if sessions == nil {
		sessions = NewSessions()
	}
	return &Service{ctrl: ctrl, sessions: sessions, logger: ctrl.logger.Named("wizard.service")}
}

// StartCreate は新規作成セッションを開始します。
func (s *Service) StartCreate(ctx context.Context) (string, State, error) {
	st, err := s.ctrl.StartCreate(ctx)
	if err != nil {
		return "", State{}, err
	}
	return s.open(st), st, nil
}

// StartEdit は編集セッションを開始します。
func (s *Service) StartEdit(ctx context.Context, employeeID string) (string, State, Form, error) {
	st, form, err := s.ctrl.StartEdit(ctx, employeeID)
	if err != nil {
		return "", State{}, Form{}, err
	}
	return s.open(st), st, form, nil
}

// 下書きは 1 件しか保存できないため、同時に開いたセッションは同じ下書きを共有します。
func (s *Service) open(st State) string {
	if live := s.sessions.Len(); live > 0 {
		s.logger.Warn("wizard session opened while others are live; they share one draft",
			zap.Int("live_sessions", live),
			zap.String("step", st.Step.String()))
	}
	return s.sessions.Open(st)
}

// SavePersonal は入力途中の個人情報を自動保存します。
func (s *Service) SavePersonal(ctx context.Context, sessionID string, personal employee.Personal) (bool, error) {
	var saved bool
	_, err := s.sessions.Update(sessionID, func(st State) (State, error) {
		var err error
		saved, err = s.ctrl.Autosave(ctx, st, personal)
		return st, err
	})
	return saved, err
}

// AdvanceToOfficial は所属情報ステップへ進めます。
func (s *Service) AdvanceToOfficial(ctx context.Context, sessionID string, personal employee.Personal) (State, error) {
	return s.sessions.Update(sessionID, func(st State) (State, error) {
		return s.ctrl.AdvanceToOfficial(ctx, st, personal)
	})
}

// BackToPersonal は個人情報ステップへ戻します。
func (s *Service) BackToPersonal(_ context.Context, sessionID string) (State, error) {
	return s.sessions.Update(sessionID, func(st State) (State, error) {
		return s.ctrl.BackToPersonal(st), nil
	})
}

// Finalize はレコードを確定します。成功するとセッションは閉じられます。
// 下書きが無い場合、セッションは待ち時間を置かず個人情報ステップへ戻ります。
func (s *Service) Finalize(ctx context.Context, sessionID string, official employee.Official) (State, Result, error) {
	var res Result
	st, err := s.sessions.Update(sessionID, func(st State) (State, error) {
		next, r, err := s.ctrl.Finalize(ctx, st, official)
		if errors.Is(err, employee.ErrMissingDraft) {
			return s.ctrl.BackToPersonal(st), err
		}
		if err != nil {
			return st, err
		}
		res = r
		return next, nil
	})
	if err != nil {
		return st, Result{}, err
	}
	s.sessions.Close(sessionID)
	return st, res, nil
}

// Cancel はセッションを破棄します。
func (s *Service) Cancel(ctx context.Context, sessionID string) error {
	if _, err := s.sessions.Update(sessionID, func(st State) (State, error) {
		return s.ctrl.Cancel(ctx, st)
	}); err != nil {
		return err
	}
	s.sessions.Close(sessionID)
	return nil
}

// AttachAvatar はアバターを読み込んでセッションへ反映します。
// read はセッションのロック外で実行されます。実行中に別の読み込みが開始された場合、この結果は破棄されます。
func (s *Service) AttachAvatar(_ context.Context, sessionID string, size int64, read func() (string, error)) (State, error) {
	var ticket AvatarTicket
	st, err := s.sessions.Update(sessionID, func(st State) (State, error) {
		next, t, err := s.ctrl.BeginAvatar(st, size)
		ticket = t
		return next, err
	})
	if err != nil {
		return st, err
	}

	uri, err := read()
	if err != nil {
		return st, err
	}

	return s.sessions.Update(sessionID, func(latest State) (State, error) {
		next, _ := s.ctrl.CompleteAvatar(latest, ticket, uri)
		return next, nil
	})
}
