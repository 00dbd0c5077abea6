package tui

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ogurasousui/employee-organizer/internal/adapters/repository/memory"
	"github.com/ogurasousui/employee-organizer/internal/core/employee"
	"github.com/ogurasousui/employee-organizer/internal/core/wizard"
)

type harness struct {
	records *employee.RecordStore
	drafts  *employee.DraftStore
	svc     *employee.Service
}

func newHarness() *harness {
	kv := memory.NewKVRepository()
	records := employee.NewRecordStore(kv, nil, nil)
	return &harness{
		records: records,
		drafts:  employee.NewDraftStore(kv),
		svc:     employee.NewService(records, nil),
	}
}

func (h *harness) model(opts Options) Model {
	return New(context.Background(), h.svc, h.records, h.drafts, opts)
}

var namedKeys = map[string]tea.KeyType{
	"enter":  tea.KeyEnter,
	"esc":    tea.KeyEsc,
	"tab":    tea.KeyTab,
	"up":     tea.KeyUp,
	"down":   tea.KeyDown,
	"ctrl+b": tea.KeyCtrlB,
	"ctrl+d": tea.KeyCtrlD,
	"ctrl+e": tea.KeyCtrlE,
	"ctrl+n": tea.KeyCtrlN,
	"ctrl+x": tea.KeyCtrlX,
}

func press(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()

	var cmd tea.Cmd
	for _, k := range keys {
		msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		if kt, ok := namedKeys[k]; ok {
			msg = tea.KeyMsg{Type: kt}
		}
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()

	next, _ := m.Update(msg)
	return next.(Model)
}

// fill は先頭の入力欄から順に値を入力します。
func fill(t *testing.T, m Model, values ...string) Model {
	t.Helper()

	for i, v := range values {
		if v != "" {
			m, _ = press(t, m, v)
		}
		if i < len(values)-1 {
			m, _ = press(t, m, "tab")
		}
	}
	return m
}

func fillPersonalForm(t *testing.T, m Model, phone string) Model {
	t.Helper()
	return fill(t, m, "Asha Rao", "1995-05-05", "F", phone, "a@x.com", "12 Lane")
}

func fillOfficialForm(t *testing.T, m Model, id string) Model {
	t.Helper()
	return fill(t, m, id, "Eng", "SWE", "2024-01-01", "Pune")
}

func TestModel_CreateFlow(t *testing.T) {
	t.Parallel()

	h := newHarness()
	m := h.model(Options{})

	m, _ = press(t, m, "a")
	if m.screen != screenForm || m.state.Step != wizard.Step1Personal {
		t.Fatalf("expected personal form, got screen=%d step=%s", m.screen, m.state.Step)
	}

	m = fillPersonalForm(t, m, "9876543210")
	if _, ok, _ := h.drafts.Load(context.Background()); !ok {
		t.Fatal("expected draft to be autosaved once the personal form is valid")
	}

	m, _ = press(t, m, "enter")
	if m.state.Step != wizard.Step2Official {
		t.Fatalf("expected official step, got %s", m.state.Step)
	}

	m = fillOfficialForm(t, m, "E100")
	m, cmd := press(t, m, "enter")
	if m.screen != screenDone {
		t.Fatalf("expected done screen, got %d (toast %q)", m.screen, m.toast)
	}
	if cmd == nil {
		t.Fatal("expected toast expiry command")
	}
	if m.toast != employee.MsgCreated {
		t.Fatalf("unexpected toast %q", m.toast)
	}
	if !strings.Contains(m.View(), "Asha Rao (E100) saved successfully.") {
		t.Fatalf("done view missing message:\n%s", m.View())
	}
	if _, ok, _ := h.drafts.Load(context.Background()); ok {
		t.Fatal("expected draft to be cleared after finalize")
	}

	m, _ = press(t, m, "enter")
	if m.screen != screenGrid || len(m.records) != 1 {
		t.Fatalf("expected grid with 1 record, got screen=%d records=%d", m.screen, len(m.records))
	}
}

func TestModel_InvalidPhoneAndDuplicate(t *testing.T) {
	t.Parallel()

	h := newHarness()
	ctx := context.Background()
	if _, err := h.records.Upsert(ctx, employee.Record{
		Personal: employee.Personal{FullName: "Existing"},
		Official: employee.Official{EmployeeID: "E100", Department: "Eng"},
	}, ""); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	m := h.model(Options{})
	m, _ = press(t, m, "a")
	m = fillPersonalForm(t, m, "12ab")
	m, _ = press(t, m, "enter")
	if m.state.Step != wizard.Step1Personal || m.toast != employee.MsgInvalidPhone {
		t.Fatalf("expected to stay on personal with phone toast, got step=%s toast=%q", m.state.Step, m.toast)
	}

	m.personal.setValue(fieldPhone, "9876543210")
	m, _ = press(t, m, "enter")
	if m.state.Step != wizard.Step2Official {
		t.Fatalf("expected official step, got %s", m.state.Step)
	}

	m = fillOfficialForm(t, m, "E100")
	m, _ = press(t, m, "enter")
	if m.toast != employee.MsgDuplicateID || m.state.Step != wizard.Step2Official {
		t.Fatalf("expected duplicate toast on official step, got step=%s toast=%q", m.state.Step, m.toast)
	}

	list, _ := h.records.List(ctx)
	if len(list) != 1 || list[0].Department != "Eng" {
		t.Fatalf("store changed after duplicate: %+v", list)
	}
}

func TestModel_GridSearchDetailDelete(t *testing.T) {
	t.Parallel()

	h := newHarness()
	ctx := context.Background()
	for _, rec := range []employee.Record{
		{Personal: employee.Personal{FullName: "Asha Rao"}, Official: employee.Official{EmployeeID: "E100", Designation: "SWE", Salary: "50000"}},
		{Personal: employee.Personal{FullName: "Ravi Kumar"}, Official: employee.Official{EmployeeID: "E200", Designation: "PM"}},
	} {
		if _, err := h.records.Upsert(ctx, rec, ""); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
	}

	m := h.model(Options{})
	m, _ = press(t, m, "l")
	if got := len(m.visible()); got != 2 {
		t.Fatalf("expected 2 visible records, got %d", got)
	}
	if !strings.Contains(m.View(), "E200 • PM") {
		t.Fatalf("grid view missing card:\n%s", m.View())
	}

	m, _ = press(t, m, "RAVI")
	if got := m.visible(); len(got) != 1 || got[0].EmployeeID != "E200" {
		t.Fatalf("unexpected filter result %+v", got)
	}

	m, _ = press(t, m, "enter")
	if m.screen != screenDetail {
		t.Fatalf("expected detail screen, got %d", m.screen)
	}
	view := m.View()
	if !strings.Contains(view, "₹ -") || !strings.Contains(view, "RK") {
		t.Fatalf("detail view missing salary placeholder or initials:\n%s", view)
	}

	m, _ = press(t, m, "d")
	if !strings.Contains(m.View(), "Delete E200 permanently?") {
		t.Fatalf("expected confirmation prompt:\n%s", m.View())
	}
	m, _ = press(t, m, "n")
	if list, _ := h.records.List(ctx); len(list) != 2 {
		t.Fatal("declined confirmation must not delete")
	}

	m, _ = press(t, m, "d", "y")
	if m.toast != employee.MsgDeleted || m.screen != screenGrid {
		t.Fatalf("expected deleted toast on grid, got toast=%q screen=%d", m.toast, m.screen)
	}
	if list, _ := h.records.List(ctx); len(list) != 1 || list[0].EmployeeID != "E100" {
		t.Fatalf("unexpected records after delete: %+v", list)
	}

	m, _ = press(t, m, "ctrl+x", "y")
	if m.toast != employee.MsgCleared || len(m.records) != 0 {
		t.Fatalf("expected cleared store, toast=%q records=%d", m.toast, len(m.records))
	}
	if !strings.Contains(m.View(), "No employees yet") {
		t.Fatalf("expected empty grid message:\n%s", m.View())
	}
}

func TestModel_EditFlow(t *testing.T) {
	t.Parallel()

	h := newHarness()
	ctx := context.Background()
	if _, err := h.records.Upsert(ctx, employee.Record{
		Personal: employee.Personal{FullName: "Asha Rao", DOB: "1995-05-05", Gender: "F", Phone: "9876543210", Email: "a@x.com", Address: "12 Lane"},
		Official: employee.Official{EmployeeID: "E100", Department: "Eng", Designation: "SWE", JoinDate: "2024-01-01", Location: "Pune"},
	}, ""); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	m := h.model(Options{})
	m, _ = press(t, m, "l", "ctrl+e")
	if m.screen != screenForm || m.state.Step != wizard.Step2Official || m.state.EditTarget != "E100" {
		t.Fatalf("expected edit on official step, got screen=%d state=%+v", m.screen, m.state)
	}
	if got := m.official.value(fieldDepartment); got != "Eng" {
		t.Fatalf("expected prefilled department, got %q", got)
	}

	m.official.setValue(fieldDepartment, "Ops")
	m, _ = press(t, m, "enter")
	if m.toast != employee.MsgUpdated {
		t.Fatalf("unexpected toast %q", m.toast)
	}
	rec, err := h.records.FindByID(ctx, "E100")
	if err != nil || rec.Department != "Ops" {
		t.Fatalf("expected updated department, got %+v err=%v", rec, err)
	}
}

func TestModel_MissingDraftReturnsToPersonal(t *testing.T) {
	t.Parallel()

	h := newHarness()
	m := h.model(Options{})
	m, _ = press(t, m, "a")
	m = fillPersonalForm(t, m, "9876543210")
	m, _ = press(t, m, "enter")

	if err := h.drafts.Clear(context.Background()); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	m = fillOfficialForm(t, m, "E100")
	m, cmd := press(t, m, "enter")
	if m.toast != employee.MsgMissingDraft {
		t.Fatalf("unexpected toast %q", m.toast)
	}
	if cmd == nil || m.state.Step != wizard.Step2Official {
		t.Fatalf("expected delayed return command while still on official step")
	}

	m = send(t, m, returnToPersonalMsg{})
	if m.state.Step != wizard.Step1Personal {
		t.Fatalf("expected personal step, got %s", m.state.Step)
	}
}

func TestModel_RestoresDraftAndCancel(t *testing.T) {
	t.Parallel()

	h := newHarness()
	ctx := context.Background()
	if err := h.drafts.Save(ctx, employee.Draft{FullName: "Asha Rao", Phone: "9876543210", Avatar: "data:image/png;base64,AAAA"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	m := h.model(Options{})
	if got := m.personal.value(fieldFullName); got != "Asha Rao" {
		t.Fatalf("expected restored name, got %q", got)
	}
	if m.state.Avatar == "" {
		t.Fatal("expected restored avatar")
	}
	if !strings.Contains(m.View(), "resume") {
		t.Fatalf("home should offer resume:\n%s", m.View())
	}

	m, _ = press(t, m, "r")
	if m.screen != screenForm {
		t.Fatalf("expected form screen, got %d", m.screen)
	}
	m, _ = press(t, m, "esc")
	if m.screen != screenHome || m.state.Step != wizard.StepNone {
		t.Fatalf("expected cancel to reset wizard, got screen=%d state=%+v", m.screen, m.state)
	}
	if _, ok, _ := h.drafts.Load(ctx); ok {
		t.Fatal("expected draft to be cleared on cancel")
	}
}

func writePNG(t *testing.T, dir, name string, size int) string {
	t.Helper()

	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 1, 1))); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	raw := buf.Bytes()
	if size > len(raw) {
		raw = append(raw, make([]byte, size-len(raw))...)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestModel_AvatarLoading(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	first := writePNG(t, dir, "first.png", 0)
	second := writePNG(t, dir, "second.png", 0)
	huge := writePNG(t, dir, "huge.png", wizard.MaxAvatarBytes+1)

	h := newHarness()
	m := h.model(Options{})
	m, _ = press(t, m, "a")
	m.personal.focusOn(fieldAvatarPath)

	m.personal.setValue(fieldAvatarPath, first)
	m, firstCmd := press(t, m, "enter")
	if firstCmd == nil {
		t.Fatal("expected async read command")
	}
	m.personal.setValue(fieldAvatarPath, second)
	m, secondCmd := press(t, m, "enter")
	if secondCmd == nil {
		t.Fatal("expected async read command")
	}

	// 後から開始した読み込みが先に完了し、古い結果は無視される
	m = send(t, m, secondCmd())
	want := m.state.Avatar
	if !strings.HasPrefix(want, "data:image/png;base64,") {
		t.Fatalf("expected avatar data uri, got %q", want)
	}
	m = send(t, m, firstCmd())
	if m.state.Avatar != want {
		t.Fatal("stale avatar read must be ignored")
	}

	m.personal.setValue(fieldAvatarPath, huge)
	m, _ = press(t, m, "enter")
	if m.toast != employee.MsgAvatarTooLarge || m.state.Avatar != want {
		t.Fatalf("expected size rejection, toast=%q", m.toast)
	}
}

func TestModel_StoreChangesReload(t *testing.T) {
	t.Parallel()

	h := newHarness()
	changes := make(chan struct{}, 1)
	m := h.model(Options{Changes: changes})
	m, _ = press(t, m, "l")

	if _, err := h.records.Upsert(context.Background(), employee.Record{Official: employee.Official{EmployeeID: "E9"}}, ""); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	changes <- struct{}{}

	cmd := m.Init()
	if cmd == nil {
		t.Fatal("expected watch command")
	}
	msg := cmd()
	if _, ok := msg.(storeChangedMsg); !ok {
		t.Fatalf("expected storeChangedMsg, got %T", msg)
	}
	m = send(t, m, msg)
	if len(m.records) != 1 {
		t.Fatalf("expected reload to pick up new record, got %d", len(m.records))
	}

	close(changes)
	if msg := m.waitForChange()(); msg != nil {
		t.Fatalf("expected nil after channel close, got %T", msg)
	}
}

func TestModel_ToastExpiry(t *testing.T) {
	t.Parallel()

	m := newHarness().model(Options{})
	m, _ = m.toastCmd("first")
	m, _ = m.toastCmd("second")

	m = send(t, m, toastExpiredMsg{seq: 1})
	if m.toast != "second" {
		t.Fatalf("older expiry must not hide newer toast, got %q", m.toast)
	}
	m = send(t, m, toastExpiredMsg{seq: 2})
	if m.toast != "" {
		t.Fatalf("expected toast cleared, got %q", m.toast)
	}
}

func TestFormatSalary(t *testing.T) {
	t.Parallel()

	if got := FormatSalary("  "); got != "₹ -" {
		t.Fatalf("unexpected %q", got)
	}
	if got := FormatSalary("50000"); got != "₹ 50000" {
		t.Fatalf("unexpected %q", got)
	}
}
