package employee

import (
	"context"
	"errors"
	"testing"
)

func TestService_ListEmployees_Filters(t *testing.T) {
	t.Parallel()

	store := NewRecordStore(newFakeKV(), nil, nil)
	ctx := context.Background()
	_, _ = store.Upsert(ctx, sampleRecord("E1", "Asha Rao"), "")
	_, _ = store.Upsert(ctx, sampleRecord("E2", "Ravi Kumar"), "")

	svc := NewService(store, nil)
	got, err := svc.ListEmployees(ctx, ListEmployeesInput{Query: "ravi"})
	if err != nil {
		t.Fatalf("ListEmployees returned error: %v", err)
	}
	if len(got) != 1 || got[0].EmployeeID != "E2" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestService_DeleteEmployee_NotFound(t *testing.T) {
	t.Parallel()

	svc := NewService(NewRecordStore(newFakeKV(), nil, nil), nil)
	if err := svc.DeleteEmployee(context.Background(), DeleteEmployeeInput{ID: "E404"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := svc.DeleteEmployee(context.Background(), DeleteEmployeeInput{ID: " "}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for blank id, got %v", err)
	}
}

func TestService_DeleteAndClear(t *testing.T) {
	t.Parallel()

	store := NewRecordStore(newFakeKV(), nil, nil)
	ctx := context.Background()
	_, _ = store.Upsert(ctx, sampleRecord("E1", "One"), "")
	_, _ = store.Upsert(ctx, sampleRecord("E2", "Two"), "")
	svc := NewService(store, nil)

	if err := svc.DeleteEmployee(ctx, DeleteEmployeeInput{ID: "E1"}); err != nil {
		t.Fatalf("DeleteEmployee returned error: %v", err)
	}
	if _, err := svc.GetEmployee(ctx, GetEmployeeInput{ID: "E1"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := svc.ClearEmployees(ctx); err != nil {
		t.Fatalf("ClearEmployees returned error: %v", err)
	}
	all, _ := svc.ListEmployees(ctx, ListEmployeesInput{})
	if len(all) != 0 {
		t.Fatalf("expected empty list, got %d", len(all))
	}
}

func TestMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want string
	}{
		{err: &ValidationError{Step: StepPersonal, Err: ErrIncompleteFields}, want: MsgIncompletePersonal},
		{err: &ValidationError{Step: StepOfficial, Err: ErrIncompleteFields}, want: MsgIncompleteOfficial},
		{err: &ValidationError{Step: StepPersonal, Err: ErrInvalidPhone}, want: MsgInvalidPhone},
		{err: ErrDuplicateID, want: MsgDuplicateID},
		{err: ErrMissingDraft, want: MsgMissingDraft},
		{err: ErrNotFound, want: MsgNotFound},
		{err: errors.New("boom"), want: ""},
		{err: nil, want: ""},
	}
	for _, tt := range tests {
		if got := Message(tt.err); got != tt.want {
			t.Errorf("Message(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestDoneMessage(t *testing.T) {
	t.Parallel()

	if got := DoneMessage(sampleRecord("E100", "Asha Rao")); got != "Asha Rao (E100) saved successfully." {
		t.Fatalf("unexpected done message %q", got)
	}
}
