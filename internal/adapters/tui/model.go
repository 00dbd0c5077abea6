package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ogurasousui/employee-organizer/internal/core/employee"
	"github.com/ogurasousui/employee-organizer/internal/core/wizard"
	"github.com/ogurasousui/employee-organizer/internal/platform/avatar"
	"go.uber.org/zap"
)

// ToastDuration は通知を表示しておく時間です。
const ToastDuration = 2200 * time.Millisecond

type screen int

const (
	screenHome screen = iota
	screenGrid
	screenDetail
	screenForm
	screenDone
)

type confirmKind int

const (
	confirmNone confirmKind = iota
	confirmDelete
	confirmClear
)

type toastExpiredMsg struct{ seq int }

type returnToPersonalMsg struct{}

type storeChangedMsg struct{}

type avatarLoadedMsg struct {
	ticket wizard.AvatarTicket
	uri    string
	err    error
}

// toastSink は Controller の通知を Model へ受け渡します。
type toastSink struct {
	pending string
}

func (s *toastSink) Notify(msg string) {
	s.pending = msg
}

func (s *toastSink) take() string {
	msg := s.pending
	s.pending = ""
	return msg
}

// Options は Model の任意設定です。
type Options struct {
	Clock          wizard.Clock
	Logger         *zap.Logger
	MaxAvatarBytes int64
	// Changes に値が届くと一覧を読み直します。
	Changes <-chan struct{}
}

// Model は社員管理 TUI の bubbletea モデルです。
type Model struct {
	ctx       context.Context
	employees employee.UseCase
	ctrl      *wizard.Controller
	sink      *toastSink
	logger    *zap.Logger
	changes   <-chan struct{}
	styles    Styles

	screen  screen
	records []employee.Record
	cursor  int
	search  textinput.Model
	detail  employee.Record

	state    wizard.State
	personal fieldSet
	official fieldSet
	done     string

	confirm       confirmKind
	confirmTarget string

	toast    string
	toastSeq int
	width    int
	quitting bool
}

// New は Model を生成します。保存済みの下書きがあれば入力欄へ復元します。
func New(ctx context.Context, employees employee.UseCase, records employee.Records, drafts employee.Drafts, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	sink := &toastSink{}
	ctrl := wizard.NewController(records, drafts, wizard.Options{
		Clock:          opts.Clock,
		Notifier:       sink,
		Logger:         logger,
		MaxAvatarBytes: opts.MaxAvatarBytes,
	})

	search := textinput.New()
	search.Prompt = "Search: "
	search.Placeholder = "name or employee ID"
	search.CharLimit = 64
	search.Focus()

	m := Model{
		ctx:       ctx,
		employees: employees,
		ctrl:      ctrl,
		sink:      sink,
		logger:    logger,
		changes:   opts.Changes,
		styles:    DefaultStyles(),
		search:    search,
		personal:  newFieldSet(personalLabels, personalPlaceholders),
		official:  newFieldSet(officialLabels, officialPlaceholders),
	}

	st, draft, ok, err := ctrl.Restore(ctx)
	switch {
	case err != nil:
		logger.Warn("failed to restore draft", zap.Error(err))
	case ok:
		m.state = st
		fillPersonal(&m.personal, draft)
	}
	return m
}

// Init は外部変更の監視を開始します。
func (m Model) Init() tea.Cmd {
	return m.waitForChange()
}

func (m Model) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	ch := m.changes
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return storeChangedMsg{}
	}
}

// Update はメッセージを処理します。
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toast = ""
		}
		return m, nil
	case storeChangedMsg:
		m.reload()
		return m, m.waitForChange()
	case returnToPersonalMsg:
		if m.screen == screenForm && m.state.Step == wizard.Step2Official {
			m.state = m.ctrl.BackToPersonal(m.state)
			return m, m.personal.focusOn(0)
		}
		return m, nil
	case avatarLoadedMsg:
		return m.avatarLoaded(msg)
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		if m.confirm != confirmNone {
			return m.updateConfirm(msg)
		}
		switch m.screen {
		case screenHome:
			return m.updateHome(msg)
		case screenGrid:
			return m.updateGrid(msg)
		case screenDetail:
			return m.updateDetail(msg)
		case screenForm:
			return m.updateForm(msg)
		case screenDone:
			return m.updateDone(msg)
		}
	}
	return m, nil
}

func (m Model) updateHome(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "a":
		return m.startCreate()
	case "l", "enter":
		return m.showGrid()
	case "r":
		if m.state.Step != wizard.StepNone {
			m.screen = screenForm
			return m, nil
		}
	case "q":
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateGrid(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.screen = screenHome
		return m, nil
	case "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down":
		if m.cursor < len(m.visible())-1 {
			m.cursor++
		}
		return m, nil
	case "enter":
		if rec, ok := m.selected(); ok {
			return m.showDetail(rec.EmployeeID)
		}
		return m, nil
	case "ctrl+n":
		return m.startCreate()
	case "ctrl+e":
		if rec, ok := m.selected(); ok {
			return m.startEdit(rec.EmployeeID)
		}
		return m, nil
	case "ctrl+d":
		if rec, ok := m.selected(); ok {
			m.confirm, m.confirmTarget = confirmDelete, rec.EmployeeID
		}
		return m, nil
	case "ctrl+x":
		m.confirm = confirmClear
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if n := len(m.visible()); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
	return m, cmd
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.screen = screenGrid
		return m, nil
	case "e":
		return m.startEdit(m.detail.EmployeeID)
	case "d":
		m.confirm, m.confirmTarget = confirmDelete, m.detail.EmployeeID
		return m, nil
	}
	return m, nil
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	kind, target := m.confirm, m.confirmTarget
	m.confirm, m.confirmTarget = confirmNone, ""
	if msg.String() != "y" {
		return m, nil
	}

	switch kind {
	case confirmDelete:
		if err := m.employees.DeleteEmployee(m.ctx, employee.DeleteEmployeeInput{ID: target}); err != nil {
			return m.fail(err)
		}
		m.reload()
		m.screen = screenGrid
		return m.notify(employee.MsgDeleted)
	case confirmClear:
		if err := m.employees.ClearEmployees(m.ctx); err != nil {
			return m.fail(err)
		}
		m.reload()
		m.screen = screenGrid
		return m.notify(employee.MsgCleared)
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m.cancel()
	case "tab", "down":
		return m, m.activeFields().next()
	case "shift+tab", "up":
		return m, m.activeFields().prev()
	}

	if m.state.Step == wizard.Step2Official {
		switch msg.String() {
		case "ctrl+b":
			m.state = m.ctrl.BackToPersonal(m.state)
			return m, m.personal.focusOn(0)
		case "enter", "ctrl+s":
			return m.finalize()
		}
		return m, m.official.update(msg)
	}

	switch msg.String() {
	case "enter":
		if m.personal.focus == fieldAvatarPath {
			return m.loadAvatar()
		}
		return m.advance()
	case "ctrl+s":
		return m.advance()
	}

	cmd := m.personal.update(msg)
	if m.personal.focus != fieldAvatarPath {
		if _, err := m.ctrl.Autosave(m.ctx, m.state, personalFromFields(&m.personal)); err != nil {
			m.logger.Warn("autosave failed", zap.Error(err))
		}
	}
	return m, cmd
}

func (m Model) updateDone(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "a":
		return m.startCreate()
	case "enter", "l", "esc":
		return m.showGrid()
	}
	return m, nil
}

func (m Model) startCreate() (tea.Model, tea.Cmd) {
	st, err := m.ctrl.StartCreate(m.ctx)
	if err != nil {
		return m.fail(err)
	}
	m.state = st
	m.personal.reset()
	m.official.reset()
	m.screen = screenForm
	return m, m.personal.focusOn(0)
}

func (m Model) startEdit(id string) (tea.Model, tea.Cmd) {
	st, form, err := m.ctrl.StartEdit(m.ctx, id)
	if err != nil {
		return m.fail(err)
	}
	m.state = st
	m.personal.reset()
	m.official.reset()
	fillPersonal(&m.personal, form.Personal)
	fillOfficial(&m.official, form.Official)
	m.screen = screenForm
	return m, m.official.focusOn(0)
}

func (m Model) advance() (tea.Model, tea.Cmd) {
	st, err := m.ctrl.AdvanceToOfficial(m.ctx, m.state, personalFromFields(&m.personal))
	if err != nil {
		return m.fail(err)
	}
	m.state = st
	return m, m.official.focusOn(0)
}

func (m Model) finalize() (tea.Model, tea.Cmd) {
	st, res, err := m.ctrl.Finalize(m.ctx, m.state, officialFromFields(&m.official))
	if errors.Is(err, employee.ErrMissingDraft) {
		var toast tea.Cmd
		m, toast = m.toastCmd(m.sink.take())
		back := tea.Tick(wizard.MissingDraftDelay, func(time.Time) tea.Msg { return returnToPersonalMsg{} })
		return m, tea.Batch(toast, back)
	}
	if err != nil {
		return m.fail(err)
	}
	m.state = st
	m.done = res.Done
	m.personal.reset()
	m.official.reset()
	m.reload()
	m.screen = screenDone
	return m.notify(m.sink.take())
}

func (m Model) cancel() (tea.Model, tea.Cmd) {
	st, err := m.ctrl.Cancel(m.ctx, m.state)
	if err != nil {
		return m.fail(err)
	}
	m.state = st
	m.personal.reset()
	m.official.reset()
	m.screen = screenHome
	return m, nil
}

func (m Model) loadAvatar() (tea.Model, tea.Cmd) {
	path := m.personal.value(fieldAvatarPath)
	if path == "" {
		return m, nil
	}
	size, err := avatar.Size(path)
	if err != nil {
		return m.notify("Could not read image: " + err.Error())
	}
	st, ticket, err := m.ctrl.BeginAvatar(m.state, size)
	if err != nil {
		return m.notify(m.sink.take())
	}
	m.state = st
	return m, func() tea.Msg {
		uri, err := avatar.ReadFile(path)
		return avatarLoadedMsg{ticket: ticket, uri: uri, err: err}
	}
}

func (m Model) avatarLoaded(msg avatarLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if errors.Is(msg.err, avatar.ErrInvalidAvatar) {
			return m.notify("Unsupported image")
		}
		return m.notify("Could not read image: " + msg.err.Error())
	}
	st, applied := m.ctrl.CompleteAvatar(m.state, msg.ticket, msg.uri)
	if !applied {
		return m, nil
	}
	m.state = st
	m.personal.setValue(fieldAvatarPath, "")
	if _, err := m.ctrl.Autosave(m.ctx, m.state, personalFromFields(&m.personal)); err != nil {
		m.logger.Warn("autosave failed", zap.Error(err))
	}
	return m, nil
}

func (m Model) showGrid() (tea.Model, tea.Cmd) {
	m.reload()
	m.screen = screenGrid
	return m, m.search.Focus()
}

func (m Model) showDetail(id string) (tea.Model, tea.Cmd) {
	rec, err := m.employees.GetEmployee(m.ctx, employee.GetEmployeeInput{ID: id})
	if err != nil {
		return m.fail(err)
	}
	m.detail = rec
	m.screen = screenDetail
	return m, nil
}

func (m *Model) reload() {
	records, err := m.employees.ListEmployees(m.ctx, employee.ListEmployeesInput{})
	if err != nil {
		m.logger.Error("failed to load employees", zap.Error(err))
		return
	}
	m.records = records
	if n := len(m.visible()); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

func (m Model) visible() []employee.Record {
	return employee.Filter(m.records, m.search.Value())
}

func (m Model) selected() (employee.Record, bool) {
	list := m.visible()
	if m.cursor < 0 || m.cursor >= len(list) {
		return employee.Record{}, false
	}
	return list[m.cursor], true
}

func (m *Model) activeFields() *fieldSet {
	if m.state.Step == wizard.Step2Official {
		return &m.official
	}
	return &m.personal
}

// fail はエラーに対応する通知を表示します。Controller が通知済みの場合はその文言を使います。
func (m Model) fail(err error) (tea.Model, tea.Cmd) {
	msg := m.sink.take()
	if msg == "" {
		msg = employee.Message(err)
	}
	if msg == "" {
		m.logger.Error("operation failed", zap.Error(err))
		msg = err.Error()
	}
	return m.notify(msg)
}

func (m Model) notify(msg string) (tea.Model, tea.Cmd) {
	m, cmd := m.toastCmd(msg)
	return m, cmd
}

func (m Model) toastCmd(msg string) (Model, tea.Cmd) {
	if msg == "" {
		return m, nil
	}
	m.toast = msg
	m.toastSeq++
	seq := m.toastSeq
	return m, tea.Tick(ToastDuration, func(time.Time) tea.Msg { return toastExpiredMsg{seq: seq} })
}
