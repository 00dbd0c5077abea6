package handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/png"
	"net"
	"testing"

	"github.com/ogurasousui/employee-organizer/internal/adapters/repository/memory"
	"github.com/ogurasousui/employee-organizer/internal/core/employee"
	"github.com/ogurasousui/employee-organizer/internal/core/wizard"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

type organizerClient struct {
	t    *testing.T
	conn *grpc.ClientConn
}

func newOrganizerClient(t *testing.T) *organizerClient {
	t.Helper()

	kv := memory.NewKVRepository()
	records := employee.NewRecordStore(kv, nil, nil)
	ctrl := wizard.NewController(records, employee.NewDraftStore(kv), wizard.Options{})
	h := NewOrganizerGrpcHandler(employee.NewService(records, nil), wizard.NewService(ctrl, nil), nil)

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	RegisterOrganizerServer(srv, h)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) { return lis.Dial() }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	return &organizerClient{t: t, conn: conn}
}

func (c *organizerClient) call(method string, fields map[string]any) (*structpb.Struct, error) {
	c.t.Helper()

	req, err := structpb.NewStruct(fields)
	if err != nil {
		c.t.Fatalf("NewStruct: %v", err)
	}
	resp := new(structpb.Struct)
	if err := c.conn.Invoke(context.Background(), FullMethod(method), req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *organizerClient) mustCall(method string, fields map[string]any) *structpb.Struct {
	c.t.Helper()

	resp, err := c.call(method, fields)
	if err != nil {
		c.t.Fatalf("%s returned error: %v", method, err)
	}
	return resp
}

func personalFields() map[string]any {
	return map[string]any{
		"fullName": "Asha Rao",
		"dob":      "1995-05-05",
		"gender":   "F",
		"phone":    "9876543210",
		"email":    "a@x.com",
		"address":  "12 Lane",
	}
}

func officialFields(id, dept string) map[string]any {
	return map[string]any{
		"empId":       id,
		"department":  dept,
		"designation": "SWE",
		"joinDate":    "2024-01-01",
		"location":    "Pune",
	}
}

func assertCode(t *testing.T, err error, want codes.Code, wantMsg string) {
	t.Helper()

	st, ok := status.FromError(err)
	if !ok {
		t.Fatalf("expected grpc status error, got %v", err)
	}
	if st.Code() != want {
		t.Fatalf("expected code %s, got %s (%s)", want, st.Code(), st.Message())
	}
	if wantMsg != "" && st.Message() != wantMsg {
		t.Fatalf("expected message %q, got %q", wantMsg, st.Message())
	}
}

func (c *organizerClient) create(id string) *structpb.Struct {
	c.t.Helper()

	sid := c.mustCall("StartCreate", nil).GetFields()["session_id"].GetStringValue()
	c.mustCall("AdvanceToOfficial", map[string]any{"session_id": sid, "personal": personalFields()})
	return c.mustCall("Finalize", map[string]any{"session_id": sid, "official": officialFields(id, "Eng")})
}

func TestOrganizerGrpcHandler_CreateListGetDelete(t *testing.T) {
	t.Parallel()

	c := newOrganizerClient(t)

	resp := c.create("E100")
	fields := resp.GetFields()
	if fields["message"].GetStringValue() != employee.MsgCreated {
		t.Fatalf("unexpected message %q", fields["message"].GetStringValue())
	}
	if fields["done"].GetStringValue() != "Asha Rao (E100) saved successfully." {
		t.Fatalf("unexpected done message %q", fields["done"].GetStringValue())
	}
	if fields["step"].GetStringValue() != "done" {
		t.Fatalf("unexpected step %q", fields["step"].GetStringValue())
	}

	list := c.mustCall("ListEmployees", map[string]any{"query": "asha"})
	employees := list.GetFields()["employees"].GetListValue().GetValues()
	if len(employees) != 1 {
		t.Fatalf("expected 1 employee, got %d", len(employees))
	}
	if got := employees[0].GetStructValue().GetFields()["empId"].GetStringValue(); got != "E100" {
		t.Fatalf("unexpected empId %q", got)
	}

	got := c.mustCall("GetEmployee", map[string]any{"id": "E100"})
	if name := got.GetFields()["employee"].GetStructValue().GetFields()["fullName"].GetStringValue(); name != "Asha Rao" {
		t.Fatalf("unexpected fullName %q", name)
	}

	del := c.mustCall("DeleteEmployee", map[string]any{"id": "E100"})
	if del.GetFields()["message"].GetStringValue() != employee.MsgDeleted {
		t.Fatalf("unexpected delete message")
	}

	_, err := c.call("GetEmployee", map[string]any{"id": "E100"})
	assertCode(t, err, codes.NotFound, employee.MsgNotFound)
}

func TestOrganizerGrpcHandler_DuplicateAndValidation(t *testing.T) {
	t.Parallel()

	c := newOrganizerClient(t)
	c.create("E100")

	sid := c.mustCall("StartCreate", nil).GetFields()["session_id"].GetStringValue()

	bad := personalFields()
	bad["phone"] = "12ab"
	_, err := c.call("AdvanceToOfficial", map[string]any{"session_id": sid, "personal": bad})
	assertCode(t, err, codes.InvalidArgument, employee.MsgInvalidPhone)

	c.mustCall("AdvanceToOfficial", map[string]any{"session_id": sid, "personal": personalFields()})

	_, err = c.call("Finalize", map[string]any{"session_id": sid, "official": officialFields("", "Eng")})
	assertCode(t, err, codes.InvalidArgument, employee.MsgIncompleteOfficial)

	_, err = c.call("Finalize", map[string]any{"session_id": sid, "official": officialFields("E100", "Ops")})
	assertCode(t, err, codes.AlreadyExists, employee.MsgDuplicateID)

	list := c.mustCall("ListEmployees", nil)
	if n := len(list.GetFields()["employees"].GetListValue().GetValues()); n != 1 {
		t.Fatalf("expected 1 employee after duplicate, got %d", n)
	}
}

func TestOrganizerGrpcHandler_EditFlow(t *testing.T) {
	t.Parallel()

	c := newOrganizerClient(t)
	c.create("E100")

	edit := c.mustCall("StartEdit", map[string]any{"id": "E100"})
	fields := edit.GetFields()
	if fields["step"].GetStringValue() != "official" {
		t.Fatalf("expected official step, got %q", fields["step"].GetStringValue())
	}
	if dept := fields["official"].GetStructValue().GetFields()["department"].GetStringValue(); dept != "Eng" {
		t.Fatalf("unexpected prefilled department %q", dept)
	}

	sid := fields["session_id"].GetStringValue()
	resp := c.mustCall("Finalize", map[string]any{"session_id": sid, "official": officialFields("E100", "Ops")})
	if resp.GetFields()["message"].GetStringValue() != employee.MsgUpdated {
		t.Fatalf("unexpected message %q", resp.GetFields()["message"].GetStringValue())
	}

	_, err := c.call("StartEdit", map[string]any{"id": "missing"})
	assertCode(t, err, codes.NotFound, employee.MsgNotFound)
}

func TestOrganizerGrpcHandler_SessionErrors(t *testing.T) {
	t.Parallel()

	c := newOrganizerClient(t)

	_, err := c.call("BackToPersonal", nil)
	assertCode(t, err, codes.InvalidArgument, "session_id is required")

	_, err = c.call("BackToPersonal", map[string]any{"session_id": "00000000-0000-0000-0000-000000000000"})
	assertCode(t, err, codes.NotFound, "")

	sid := c.mustCall("StartCreate", nil).GetFields()["session_id"].GetStringValue()
	saved := c.mustCall("SavePersonal", map[string]any{"session_id": sid, "personal": map[string]any{"fullName": "A"}})
	if saved.GetFields()["saved"].GetBoolValue() {
		t.Fatal("expected incomplete personal data not to be saved")
	}
	c.mustCall("CancelWizard", map[string]any{"session_id": sid})
	_, err = c.call("CancelWizard", map[string]any{"session_id": sid})
	assertCode(t, err, codes.NotFound, "")
}

func TestOrganizerGrpcHandler_UploadAvatar(t *testing.T) {
	t.Parallel()

	c := newOrganizerClient(t)
	sid := c.mustCall("StartCreate", nil).GetFields()["session_id"].GetStringValue()

	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 1, 1))); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())

	resp := c.mustCall("UploadAvatar", map[string]any{"session_id": sid, "data_uri": uri})
	if resp.GetFields()["avatar"].GetStringValue() != uri {
		t.Fatal("expected avatar to be attached to the session")
	}

	_, err := c.call("UploadAvatar", map[string]any{"session_id": sid, "data_uri": "data:text/plain;base64,aGk="})
	assertCode(t, err, codes.InvalidArgument, "")

	big := make([]byte, wizard.MaxAvatarBytes+1)
	copy(big, buf.Bytes())
	bigURI := "data:image/png;base64," + base64.StdEncoding.EncodeToString(big)
	_, err = c.call("UploadAvatar", map[string]any{"session_id": sid, "data_uri": bigURI})
	assertCode(t, err, codes.InvalidArgument, employee.MsgAvatarTooLarge)
}

func TestOrganizerGrpcHandler_Clear(t *testing.T) {
	t.Parallel()

	c := newOrganizerClient(t)
	c.create("E1")
	c.create("E2")

	resp := c.mustCall("ClearEmployees", nil)
	if resp.GetFields()["message"].GetStringValue() != employee.MsgCleared {
		t.Fatalf("unexpected message %q", resp.GetFields()["message"].GetStringValue())
	}
	list := c.mustCall("ListEmployees", nil)
	if n := len(list.GetFields()["employees"].GetListValue().GetValues()); n != 0 {
		t.Fatalf("expected empty list, got %d", n)
	}
}

func TestOrganizerGrpcHandler_FinalizeBeforeOfficialStep(t *testing.T) {
	t.Parallel()

	c := newOrganizerClient(t)
	sid := c.mustCall("StartCreate", nil).GetFields()["session_id"].GetStringValue()

	_, err := c.call("Finalize", map[string]any{"session_id": sid, "official": officialFields("E100", "Eng")})
	assertCode(t, err, codes.FailedPrecondition, "")

	list := c.mustCall("ListEmployees", nil)
	if n := len(list.GetFields()["employees"].GetListValue().GetValues()); n != 0 {
		t.Fatalf("expected no employees, got %d", n)
	}
}
