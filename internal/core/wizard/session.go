package wizard

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrSessionNotFound はセッション ID が存在しない場合に返却されます。
var ErrSessionNotFound = errors.New("wizard: session not found")

type session struct {
	mu     sync.Mutex
	st     State
	closed bool
}

// Sessions はネットワーク越しのクライアントごとに State を保持します。
// 同じセッションへの操作は Update によって 1 つずつ実行されます。
type Sessions struct {
	mu       sync.Mutex
	sessions map[string]*session
}

// NewSessions は Sessions を生成します。
func NewSessions() *Sessions {
	return &Sessions{sessions: make(map[string]*session)}
}

// Open は新しいセッションを登録し ID を返します。
func (s *Sessions) Open(st State) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = &session{st: st}
	s.mu.Unlock()
	return id
}

// Get はセッションの State を返します。
func (s *Sessions) Get(id string) (State, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return State{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.closed {
		return State{}, ErrSessionNotFound
	}
	return sess.st, nil
}

// Update はセッションのロックを保持したまま fn を実行し、返された State を保存します。
// fn がエラーを返した場合も返された State は保存されます。
func (s *Sessions) Update(id string, fn func(State) (State, error)) (State, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return State{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.closed {
		return State{}, ErrSessionNotFound
	}
	next, err := fn(sess.st)
	sess.st = next
	return next, err
}

// Close はセッションを破棄します。実行中の Update があれば完了を待ちます。
func (s *Sessions) Close(id string) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return
	}
	sess.mu.Lock()
	sess.closed = true
	sess.mu.Unlock()
}

// Len は保持しているセッション数を返します。
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Sessions) lookup(id string) (*session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrSessionNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}
