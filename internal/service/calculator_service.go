package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/tipsplit/internal/calculator"
	"github.com/mmynk/tipsplit/internal/display"
	"github.com/mmynk/tipsplit/internal/middleware"
	"github.com/mmynk/tipsplit/internal/models"
	"github.com/mmynk/tipsplit/internal/session"
	"github.com/mmynk/tipsplit/internal/storage"
	pb "github.com/mmynk/tipsplit/pkg/api"
	"github.com/mmynk/tipsplit/pkg/api/apiconnect"
)

// CalculatorService implements the Connect CalculatorService
type CalculatorService struct {
	apiconnect.UnimplementedCalculatorServiceHandler
	sessions *Sessions
}

// NewCalculatorService creates a new CalculatorService on top of sessions.
func NewCalculatorService(sessions *Sessions) *CalculatorService {
	return &CalculatorService{sessions: sessions}
}

// CreateSession mounts a new calculator with default inputs.
func (s *CalculatorService) CreateSession(ctx context.Context, req *connect.Request[pb.CreateSessionRequest]) (*connect.Response[pb.CreateSessionResponse], error) {
	slog.Info("CreateSession request received", "mode", req.Msg.Mode)

	mode, err := calculator.ParseMode(req.Msg.Mode)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	sess, err := s.sessions.Mount(ctx, mode)
	if err != nil {
		slog.Error("CreateSession failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	return connect.NewResponse(&pb.CreateSessionResponse{
		Session: &pb.Session{
			Id:        sess.ID,
			Mode:      sess.Mode.String(),
			CreatedAt: sess.CreatedAt,
			State:     StateMessage(sess.State),
		},
	}), nil
}

// CloseSession unmounts a calculator and discards its state.
func (s *CalculatorService) CloseSession(ctx context.Context, req *connect.Request[pb.CloseSessionRequest]) (*connect.Response[pb.CloseSessionResponse], error) {
	sessionID, err := resolveSessionID(ctx, req.Msg.GetSessionId())
	if err != nil {
		return nil, err
	}
	slog.Info("CloseSession request received", "session_id", sessionID)

	if err := s.sessions.Unmount(ctx, sessionID); err != nil {
		slog.Error("CloseSession failed", "session_id", sessionID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&pb.CloseSessionResponse{}), nil
}

// GetState returns the current state of a calculator.
func (s *CalculatorService) GetState(ctx context.Context, req *connect.Request[pb.GetStateRequest]) (*connect.Response[pb.StateResponse], error) {
	sessionID, err := resolveSessionID(ctx, req.Msg.GetSessionId())
	if err != nil {
		return nil, err
	}
	slog.Debug("GetState request received", "session_id", sessionID)

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		slog.Error("GetState failed", "session_id", sessionID, "error", err)
		return nil, toConnectError(err)
	}
	return stateResponse(sess), nil
}

// SetBillAmount handles a text change on the bill field.
func (s *CalculatorService) SetBillAmount(ctx context.Context, req *connect.Request[pb.SetBillAmountRequest]) (*connect.Response[pb.StateResponse], error) {
	slog.Debug("SetBillAmount request received", "bill_amount", req.Msg.BillAmount)

	sessionID, err := resolveSessionID(ctx, req.Msg.GetSessionId())
	if err != nil {
		return nil, err
	}
	sess, err := s.sessions.SetBillAmount(ctx, sessionID, req.Msg.BillAmount)
	if err != nil {
		return nil, toConnectError(err)
	}
	return stateResponse(sess), nil
}

// SelectTip handles a tip selection change.
func (s *CalculatorService) SelectTip(ctx context.Context, req *connect.Request[pb.SelectTipRequest]) (*connect.Response[pb.StateResponse], error) {
	slog.Debug("SelectTip request received", "tip_percentage", req.Msg.TipPercentage)

	sessionID, err := resolveSessionID(ctx, req.Msg.GetSessionId())
	if err != nil {
		return nil, err
	}
	sess, err := s.sessions.SelectTip(ctx, sessionID, req.Msg.TipPercentage)
	if err != nil {
		return nil, toConnectError(err)
	}
	return stateResponse(sess), nil
}

// SetNumberOfPeople handles a text change on the people field.
func (s *CalculatorService) SetNumberOfPeople(ctx context.Context, req *connect.Request[pb.SetNumberOfPeopleRequest]) (*connect.Response[pb.StateResponse], error) {
	slog.Debug("SetNumberOfPeople request received", "number_of_people", req.Msg.NumberOfPeople)

	sessionID, err := resolveSessionID(ctx, req.Msg.GetSessionId())
	if err != nil {
		return nil, err
	}
	sess, err := s.sessions.SetNumberOfPeople(ctx, sessionID, req.Msg.NumberOfPeople)
	if err != nil {
		return nil, toConnectError(err)
	}
	return stateResponse(sess), nil
}

// Reset restores the default inputs.
func (s *CalculatorService) Reset(ctx context.Context, req *connect.Request[pb.ResetRequest]) (*connect.Response[pb.StateResponse], error) {
	slog.Debug("Reset request received")

	sessionID, err := resolveSessionID(ctx, req.Msg.GetSessionId())
	if err != nil {
		return nil, err
	}
	sess, err := s.sessions.Reset(ctx, sessionID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return stateResponse(sess), nil
}

// Calculate derives amounts for a full set of inputs without touching any session.
func (s *CalculatorService) Calculate(ctx context.Context, req *connect.Request[pb.CalculateRequest]) (*connect.Response[pb.CalculateResponse], error) {
	slog.Debug("Calculate request received",
		"bill_amount", req.Msg.BillAmount,
		"tip_percentage", req.Msg.TipPercentage,
		"number_of_people", req.Msg.NumberOfPeople,
	)

	mode, err := calculator.ParseMode(req.Msg.Mode)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	// An empty tip or people field falls back to the calculator defaults.
	calc := session.New(mode)
	calc.SetBillAmount(req.Msg.BillAmount)
	if req.Msg.TipPercentage != "" {
		if _, err := calc.SelectTip(req.Msg.TipPercentage); err != nil {
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
	}
	if req.Msg.NumberOfPeople != "" {
		calc.SetNumberOfPeople(req.Msg.NumberOfPeople)
	}

	return connect.NewResponse(&pb.CalculateResponse{
		State: StateMessage(calc.Snapshot()),
	}), nil
}

// resolveSessionID prefers the message field and falls back to the header
// value placed in the context by middleware.SessionFromHeader.
func resolveSessionID(ctx context.Context, fromMsg string) (string, error) {
	if fromMsg != "" {
		return fromMsg, nil
	}
	if id := middleware.GetSessionID(ctx); id != "" {
		return id, nil
	}
	return "", connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("session_id required"))
}

// toConnectError maps domain errors to Connect codes.
func toConnectError(err error) error {
	switch {
	case errors.Is(err, storage.ErrSessionNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, calculator.ErrInvalidTip):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, session.ErrResetUnavailable):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

func stateResponse(sess *models.Session) *connect.Response[pb.StateResponse] {
	return connect.NewResponse(&pb.StateResponse{
		SessionId: sess.ID,
		State:     StateMessage(sess.State),
	})
}

// StateMessage converts a snapshot to its wire form, including display strings.
func StateMessage(snap models.Snapshot) *pb.State {
	view := display.Render(snap)
	return &pb.State{
		BillAmount:      snap.BillAmount,
		TipPercentage:   snap.TipPercentage,
		NumberOfPeople:  snap.NumberOfPeople,
		TipAmount:       snap.TipAmount,
		TotalAmount:     snap.TotalAmount,
		PerPersonAmount: snap.PerPersonAmount,
		Error:           snap.Error,
		ShowPerPerson:   snap.ShowPerPerson,
		ResetEnabled:    snap.ResetEnabled,
		Version:         snap.Version,
		Display: &pb.Display{
			TipAmount: view.TipAmount,
			Total:     view.Total,
			PerPerson: view.PerPerson,
		},
	}
}
