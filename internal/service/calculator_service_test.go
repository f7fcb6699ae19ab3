package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/tipsplit/internal/calculator"
	"github.com/mmynk/tipsplit/internal/middleware"
	"github.com/mmynk/tipsplit/internal/realtime"
	"github.com/mmynk/tipsplit/internal/session"
	"github.com/mmynk/tipsplit/internal/storage"
	"github.com/mmynk/tipsplit/internal/storage/memory"
	pb "github.com/mmynk/tipsplit/pkg/api"
	"github.com/mmynk/tipsplit/pkg/api/apiconnect"
)

// setupTestServer creates a test server backed by an in-memory session store.
func setupTestServer(t *testing.T) (apiconnect.CalculatorServiceClient, *realtime.Hub, func()) {
	t.Helper()

	store := memory.New()
	hub := realtime.NewHub(nil)

	svc := NewCalculatorService(NewSessions(store, hub))
	path, handler := apiconnect.NewCalculatorServiceHandler(svc,
		connect.WithInterceptors(middleware.SessionFromHeader(), middleware.LoggingInterceptor()),
	)

	mux := http.NewServeMux()
	mux.Handle(path, handler)

	server := httptest.NewServer(mux)

	client := apiconnect.NewCalculatorServiceClient(
		http.DefaultClient,
		server.URL,
	)

	cleanup := func() {
		server.Close()
		store.Close()
	}

	return client, hub, cleanup
}

func createSession(t *testing.T, client apiconnect.CalculatorServiceClient, mode string) string {
	t.Helper()
	resp, err := client.CreateSession(context.Background(), connect.NewRequest(&pb.CreateSessionRequest{Mode: mode}))
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	return resp.Msg.Session.Id
}

func TestCreateSession_Defaults(t *testing.T) {
	client, _, cleanup := setupTestServer(t)
	defer cleanup()

	resp, err := client.CreateSession(context.Background(), connect.NewRequest(&pb.CreateSessionRequest{}))
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	sess := resp.Msg.Session
	if sess.Id == "" {
		t.Error("expected non-empty session ID")
	}
	if sess.Mode != "strict" {
		t.Errorf("expected strict mode by default, got %q", sess.Mode)
	}
	if sess.State.BillAmount != "" || sess.State.TipPercentage != "15" || sess.State.NumberOfPeople != "1" {
		t.Errorf("unexpected default state %+v", sess.State)
	}
	if sess.State.Display.TipAmount != "$0.00" || sess.State.Display.Total != "$0.00" {
		t.Errorf("unexpected display %+v", sess.State.Display)
	}
	if !sess.State.ResetEnabled {
		t.Error("expected reset to be enabled in strict mode")
	}
}

func TestCreateSession_UnknownMode(t *testing.T) {
	client, _, cleanup := setupTestServer(t)
	defer cleanup()

	_, err := client.CreateSession(context.Background(), connect.NewRequest(&pb.CreateSessionRequest{Mode: "loose"}))
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Errorf("expected InvalidArgument, got %v", err)
	}
}

func TestSessionEvents_Example(t *testing.T) {
	client, _, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()
	id := createSession(t, client, "")

	if _, err := client.SetBillAmount(ctx, connect.NewRequest(&pb.SetBillAmountRequest{SessionId: id, BillAmount: "100"})); err != nil {
		t.Fatalf("SetBillAmount failed: %v", err)
	}
	if _, err := client.SelectTip(ctx, connect.NewRequest(&pb.SelectTipRequest{SessionId: id, TipPercentage: "20"})); err != nil {
		t.Fatalf("SelectTip failed: %v", err)
	}
	resp, err := client.SetNumberOfPeople(ctx, connect.NewRequest(&pb.SetNumberOfPeopleRequest{SessionId: id, NumberOfPeople: "4"}))
	if err != nil {
		t.Fatalf("SetNumberOfPeople failed: %v", err)
	}

	state := resp.Msg.State
	if math.Abs(state.TipAmount-20) > 0.01 {
		t.Errorf("expected tip 20, got %f", state.TipAmount)
	}
	if math.Abs(state.TotalAmount-120) > 0.01 {
		t.Errorf("expected total 120, got %f", state.TotalAmount)
	}
	if math.Abs(state.PerPersonAmount-30) > 0.01 {
		t.Errorf("expected per person 30, got %f", state.PerPersonAmount)
	}
	if !state.ShowPerPerson {
		t.Error("expected per-person line to be shown")
	}
	if state.Display.TipAmount != "$20.00" || state.Display.Total != "$120.00" || state.Display.PerPerson != "$30.00" {
		t.Errorf("unexpected display %+v", state.Display)
	}

	// GetState sees the same state
	getResp, err := client.GetState(ctx, connect.NewRequest(&pb.GetStateRequest{SessionId: id}))
	if err != nil {
		t.Fatalf("GetState failed: %v", err)
	}
	if getResp.Msg.State.Version != state.Version {
		t.Errorf("expected version %d, got %d", state.Version, getResp.Msg.State.Version)
	}
}

func TestSetBillAmount_Negative(t *testing.T) {
	client, _, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	t.Run("strict reports error inline", func(t *testing.T) {
		id := createSession(t, client, "strict")
		resp, err := client.SetBillAmount(ctx, connect.NewRequest(&pb.SetBillAmountRequest{SessionId: id, BillAmount: "-5"}))
		if err != nil {
			t.Fatalf("negative bill must not fail the RPC: %v", err)
		}
		if resp.Msg.State.Error != calculator.NegativeBillMessage {
			t.Errorf("expected error %q, got %q", calculator.NegativeBillMessage, resp.Msg.State.Error)
		}
		if resp.Msg.State.TotalAmount != 0 {
			t.Errorf("expected zeroed total, got %f", resp.Msg.State.TotalAmount)
		}
	})

	t.Run("lenient computes negative totals", func(t *testing.T) {
		id := createSession(t, client, "lenient")
		resp, err := client.SetBillAmount(ctx, connect.NewRequest(&pb.SetBillAmountRequest{SessionId: id, BillAmount: "-5"}))
		if err != nil {
			t.Fatalf("SetBillAmount failed: %v", err)
		}
		if resp.Msg.State.Error != "" {
			t.Errorf("expected no error, got %q", resp.Msg.State.Error)
		}
		if math.Abs(resp.Msg.State.TotalAmount-(-5.75)) > 0.01 {
			t.Errorf("expected total -5.75, got %f", resp.Msg.State.TotalAmount)
		}
		if resp.Msg.State.Display.Total != "$-5.75" {
			t.Errorf("expected display $-5.75, got %q", resp.Msg.State.Display.Total)
		}
	})
}

func TestSelectTip_Invalid(t *testing.T) {
	client, _, cleanup := setupTestServer(t)
	defer cleanup()
	id := createSession(t, client, "")

	_, err := client.SelectTip(context.Background(), connect.NewRequest(&pb.SelectTipRequest{SessionId: id, TipPercentage: "18"}))
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}

	getResp, _ := client.GetState(context.Background(), connect.NewRequest(&pb.GetStateRequest{SessionId: id}))
	if getResp.Msg.State.TipPercentage != "15" {
		t.Errorf("tip should be unchanged, got %q", getResp.Msg.State.TipPercentage)
	}
}

func TestSetNumberOfPeople_Coerced(t *testing.T) {
	client, _, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()
	id := createSession(t, client, "")

	client.SetBillAmount(ctx, connect.NewRequest(&pb.SetBillAmountRequest{SessionId: id, BillAmount: "40"}))

	// Invalid people counts are coerced to one without an error, unlike the bill.
	for _, people := range []string{"0", "abc"} {
		resp, err := client.SetNumberOfPeople(ctx, connect.NewRequest(&pb.SetNumberOfPeopleRequest{SessionId: id, NumberOfPeople: people}))
		if err != nil {
			t.Fatalf("SetNumberOfPeople(%q) failed: %v", people, err)
		}
		st := resp.Msg.State
		if st.PerPersonAmount != st.TotalAmount {
			t.Errorf("people %q: expected per person = total, got %f vs %f", people, st.PerPersonAmount, st.TotalAmount)
		}
		if st.ShowPerPerson || st.Display.PerPerson != "" {
			t.Errorf("people %q: per-person line should be hidden", people)
		}
		if st.Error != "" {
			t.Errorf("people %q: unexpected error %q", people, st.Error)
		}
	}
}

func TestReset(t *testing.T) {
	client, _, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	t.Run("strict restores defaults", func(t *testing.T) {
		id := createSession(t, client, "strict")
		client.SetBillAmount(ctx, connect.NewRequest(&pb.SetBillAmountRequest{SessionId: id, BillAmount: "55"}))
		client.SelectTip(ctx, connect.NewRequest(&pb.SelectTipRequest{SessionId: id, TipPercentage: "25"}))
		client.SetNumberOfPeople(ctx, connect.NewRequest(&pb.SetNumberOfPeopleRequest{SessionId: id, NumberOfPeople: "3"}))

		resp, err := client.Reset(ctx, connect.NewRequest(&pb.ResetRequest{SessionId: id}))
		if err != nil {
			t.Fatalf("Reset failed: %v", err)
		}
		st := resp.Msg.State
		if st.BillAmount != "" || st.TipPercentage != "15" || st.NumberOfPeople != "1" {
			t.Errorf("inputs not restored: %+v", st)
		}
		if st.TipAmount != 0 || st.TotalAmount != 0 || st.PerPersonAmount != 0 {
			t.Errorf("derived values not zeroed: %+v", st)
		}
	})

	t.Run("lenient has no reset", func(t *testing.T) {
		id := createSession(t, client, "lenient")
		_, err := client.Reset(ctx, connect.NewRequest(&pb.ResetRequest{SessionId: id}))
		if connect.CodeOf(err) != connect.CodeFailedPrecondition {
			t.Errorf("expected FailedPrecondition, got %v", err)
		}
	})
}

func TestSessionHeaderFallback(t *testing.T) {
	client, _, cleanup := setupTestServer(t)
	defer cleanup()
	id := createSession(t, client, "")

	req := connect.NewRequest(&pb.SetBillAmountRequest{BillAmount: "10"})
	req.Header().Set(middleware.SessionHeader, id)

	resp, err := client.SetBillAmount(context.Background(), req)
	if err != nil {
		t.Fatalf("SetBillAmount with header failed: %v", err)
	}
	if resp.Msg.SessionId != id {
		t.Errorf("expected session %s, got %s", id, resp.Msg.SessionId)
	}
}

func TestMissingAndUnknownSession(t *testing.T) {
	client, _, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	_, err := client.GetState(ctx, connect.NewRequest(&pb.GetStateRequest{}))
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Errorf("expected InvalidArgument for missing id, got %v", err)
	}

	_, err = client.SetBillAmount(ctx, connect.NewRequest(&pb.SetBillAmountRequest{SessionId: "nope", BillAmount: "1"}))
	if connect.CodeOf(err) != connect.CodeNotFound {
		t.Errorf("expected NotFound for unknown id, got %v", err)
	}
}

func TestCloseSession(t *testing.T) {
	client, hub, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()
	id := createSession(t, client, "")

	sub := hub.Subscribe(id)

	if _, err := client.CloseSession(ctx, connect.NewRequest(&pb.CloseSessionRequest{SessionId: id})); err != nil {
		t.Fatalf("CloseSession failed: %v", err)
	}

	select {
	case _, ok := <-sub.C:
		if ok {
			t.Error("expected subscription channel to be closed")
		}
	case <-time.After(time.Second):
		t.Error("subscription was not closed")
	}

	_, err := client.GetState(ctx, connect.NewRequest(&pb.GetStateRequest{SessionId: id}))
	if connect.CodeOf(err) != connect.CodeNotFound {
		t.Errorf("expected NotFound after close, got %v", err)
	}

	_, err = client.CloseSession(ctx, connect.NewRequest(&pb.CloseSessionRequest{SessionId: id}))
	if connect.CodeOf(err) != connect.CodeNotFound {
		t.Errorf("expected NotFound on double close, got %v", err)
	}
}

func TestEventsArePublished(t *testing.T) {
	client, hub, cleanup := setupTestServer(t)
	defer cleanup()
	id := createSession(t, client, "")

	sub := hub.Subscribe(id)
	defer sub.Close()

	if _, err := client.SetBillAmount(context.Background(), connect.NewRequest(&pb.SetBillAmountRequest{SessionId: id, BillAmount: "12"})); err != nil {
		t.Fatalf("SetBillAmount failed: %v", err)
	}

	select {
	case snap := <-sub.C:
		if snap.BillAmount != "12" {
			t.Errorf("expected published bill 12, got %q", snap.BillAmount)
		}
	case <-time.After(time.Second):
		t.Fatal("no snapshot published")
	}
}

func TestCalculate(t *testing.T) {
	client, _, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	resp, err := client.Calculate(ctx, connect.NewRequest(&pb.CalculateRequest{
		BillAmount:     "100",
		TipPercentage:  "20",
		NumberOfPeople: "4",
	}))
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	if resp.Msg.State.Display.PerPerson != "$30.00" {
		t.Errorf("expected $30.00 per person, got %q", resp.Msg.State.Display.PerPerson)
	}

	// Omitted tip and people use the defaults.
	resp, err = client.Calculate(ctx, connect.NewRequest(&pb.CalculateRequest{BillAmount: "10"}))
	if err != nil {
		t.Fatalf("Calculate with defaults failed: %v", err)
	}
	if resp.Msg.State.Display.Total != "$11.50" {
		t.Errorf("expected $11.50, got %q", resp.Msg.State.Display.Total)
	}

	_, err = client.Calculate(ctx, connect.NewRequest(&pb.CalculateRequest{BillAmount: "10", TipPercentage: "12"}))
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Errorf("expected InvalidArgument, got %v", err)
	}
}

func TestToConnectError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want connect.Code
	}{
		{name: "not found", err: storage.ErrSessionNotFound, want: connect.CodeNotFound},
		{name: "invalid tip", err: calculator.ErrInvalidTip, want: connect.CodeInvalidArgument},
		{name: "reset unavailable", err: session.ErrResetUnavailable, want: connect.CodeFailedPrecondition},
		{name: "canceled", err: context.Canceled, want: connect.CodeCanceled},
		{name: "deadline", err: fmt.Errorf("update: %w", context.DeadlineExceeded), want: connect.CodeDeadlineExceeded},
		{name: "other", err: errors.New("boom"), want: connect.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := connect.CodeOf(toConnectError(tt.err)); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
