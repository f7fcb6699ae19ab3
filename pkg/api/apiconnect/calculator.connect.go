// Package apiconnect wires the tipsplit.v1.CalculatorService messages to
// Connect handlers and clients.
package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	api "github.com/mmynk/tipsplit/pkg/api"
)

const (
	// CalculatorServiceName is the fully-qualified name of the CalculatorService service.
	CalculatorServiceName = "tipsplit.v1.CalculatorService"
)

// Fully-qualified procedure names of the CalculatorService RPCs.
const (
	CalculatorServiceCreateSessionProcedure     = "/tipsplit.v1.CalculatorService/CreateSession"
	CalculatorServiceCloseSessionProcedure      = "/tipsplit.v1.CalculatorService/CloseSession"
	CalculatorServiceGetStateProcedure          = "/tipsplit.v1.CalculatorService/GetState"
	CalculatorServiceSetBillAmountProcedure     = "/tipsplit.v1.CalculatorService/SetBillAmount"
	CalculatorServiceSelectTipProcedure         = "/tipsplit.v1.CalculatorService/SelectTip"
	CalculatorServiceSetNumberOfPeopleProcedure = "/tipsplit.v1.CalculatorService/SetNumberOfPeople"
	CalculatorServiceResetProcedure             = "/tipsplit.v1.CalculatorService/Reset"
	CalculatorServiceCalculateProcedure         = "/tipsplit.v1.CalculatorService/Calculate"
)

// CalculatorServiceClient is a client for the tipsplit.v1.CalculatorService service.
type CalculatorServiceClient interface {
	CreateSession(context.Context, *connect.Request[api.CreateSessionRequest]) (*connect.Response[api.CreateSessionResponse], error)
	CloseSession(context.Context, *connect.Request[api.CloseSessionRequest]) (*connect.Response[api.CloseSessionResponse], error)
	GetState(context.Context, *connect.Request[api.GetStateRequest]) (*connect.Response[api.StateResponse], error)
	SetBillAmount(context.Context, *connect.Request[api.SetBillAmountRequest]) (*connect.Response[api.StateResponse], error)
	SelectTip(context.Context, *connect.Request[api.SelectTipRequest]) (*connect.Response[api.StateResponse], error)
	SetNumberOfPeople(context.Context, *connect.Request[api.SetNumberOfPeopleRequest]) (*connect.Response[api.StateResponse], error)
	Reset(context.Context, *connect.Request[api.ResetRequest]) (*connect.Response[api.StateResponse], error)
	Calculate(context.Context, *connect.Request[api.CalculateRequest]) (*connect.Response[api.CalculateResponse], error)
}

// NewCalculatorServiceClient constructs a client for the tipsplit.v1.CalculatorService
// service. It always speaks JSON through api.Codec; options may add interceptors.
func NewCalculatorServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) CalculatorServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(api.Codec{})}, opts...)
	return &calculatorServiceClient{
		createSession: connect.NewClient[api.CreateSessionRequest, api.CreateSessionResponse](
			httpClient, baseURL+CalculatorServiceCreateSessionProcedure, opts...),
		closeSession: connect.NewClient[api.CloseSessionRequest, api.CloseSessionResponse](
			httpClient, baseURL+CalculatorServiceCloseSessionProcedure, opts...),
		getState: connect.NewClient[api.GetStateRequest, api.StateResponse](
			httpClient, baseURL+CalculatorServiceGetStateProcedure, opts...),
		setBillAmount: connect.NewClient[api.SetBillAmountRequest, api.StateResponse](
			httpClient, baseURL+CalculatorServiceSetBillAmountProcedure, opts...),
		selectTip: connect.NewClient[api.SelectTipRequest, api.StateResponse](
			httpClient, baseURL+CalculatorServiceSelectTipProcedure, opts...),
		setNumberOfPeople: connect.NewClient[api.SetNumberOfPeopleRequest, api.StateResponse](
			httpClient, baseURL+CalculatorServiceSetNumberOfPeopleProcedure, opts...),
		reset: connect.NewClient[api.ResetRequest, api.StateResponse](
			httpClient, baseURL+CalculatorServiceResetProcedure, opts...),
		calculate: connect.NewClient[api.CalculateRequest, api.CalculateResponse](
			httpClient, baseURL+CalculatorServiceCalculateProcedure, opts...),
	}
}

type calculatorServiceClient struct {
	createSession     *connect.Client[api.CreateSessionRequest, api.CreateSessionResponse]
	closeSession      *connect.Client[api.CloseSessionRequest, api.CloseSessionResponse]
	getState          *connect.Client[api.GetStateRequest, api.StateResponse]
	setBillAmount     *connect.Client[api.SetBillAmountRequest, api.StateResponse]
	selectTip         *connect.Client[api.SelectTipRequest, api.StateResponse]
	setNumberOfPeople *connect.Client[api.SetNumberOfPeopleRequest, api.StateResponse]
	reset             *connect.Client[api.ResetRequest, api.StateResponse]
	calculate         *connect.Client[api.CalculateRequest, api.CalculateResponse]
}

func (c *calculatorServiceClient) CreateSession(ctx context.Context, req *connect.Request[api.CreateSessionRequest]) (*connect.Response[api.CreateSessionResponse], error) {
	return c.createSession.CallUnary(ctx, req)
}

func (c *calculatorServiceClient) CloseSession(ctx context.Context, req *connect.Request[api.CloseSessionRequest]) (*connect.Response[api.CloseSessionResponse], error) {
	return c.closeSession.CallUnary(ctx, req)
}

func (c *calculatorServiceClient) GetState(ctx context.Context, req *connect.Request[api.GetStateRequest]) (*connect.Response[api.StateResponse], error) {
	return c.getState.CallUnary(ctx, req)
}

func (c *calculatorServiceClient) SetBillAmount(ctx context.Context, req *connect.Request[api.SetBillAmountRequest]) (*connect.Response[api.StateResponse], error) {
	return c.setBillAmount.CallUnary(ctx, req)
}

func (c *calculatorServiceClient) SelectTip(ctx context.Context, req *connect.Request[api.SelectTipRequest]) (*connect.Response[api.StateResponse], error) {
	return c.selectTip.CallUnary(ctx, req)
}

func (c *calculatorServiceClient) SetNumberOfPeople(ctx context.Context, req *connect.Request[api.SetNumberOfPeopleRequest]) (*connect.Response[api.StateResponse], error) {
	return c.setNumberOfPeople.CallUnary(ctx, req)
}

func (c *calculatorServiceClient) Reset(ctx context.Context, req *connect.Request[api.ResetRequest]) (*connect.Response[api.StateResponse], error) {
	return c.reset.CallUnary(ctx, req)
}

func (c *calculatorServiceClient) Calculate(ctx context.Context, req *connect.Request[api.CalculateRequest]) (*connect.Response[api.CalculateResponse], error) {
	return c.calculate.CallUnary(ctx, req)
}

// CalculatorServiceHandler is an implementation of the tipsplit.v1.CalculatorService service.
type CalculatorServiceHandler interface {
	CreateSession(context.Context, *connect.Request[api.CreateSessionRequest]) (*connect.Response[api.CreateSessionResponse], error)
	CloseSession(context.Context, *connect.Request[api.CloseSessionRequest]) (*connect.Response[api.CloseSessionResponse], error)
	GetState(context.Context, *connect.Request[api.GetStateRequest]) (*connect.Response[api.StateResponse], error)
	SetBillAmount(context.Context, *connect.Request[api.SetBillAmountRequest]) (*connect.Response[api.StateResponse], error)
	SelectTip(context.Context, *connect.Request[api.SelectTipRequest]) (*connect.Response[api.StateResponse], error)
	SetNumberOfPeople(context.Context, *connect.Request[api.SetNumberOfPeopleRequest]) (*connect.Response[api.StateResponse], error)
	Reset(context.Context, *connect.Request[api.ResetRequest]) (*connect.Response[api.StateResponse], error)
	Calculate(context.Context, *connect.Request[api.CalculateRequest]) (*connect.Response[api.CalculateResponse], error)
}

// NewCalculatorServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewCalculatorServiceHandler(svc CalculatorServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(api.Codec{})}, opts...)

	createSessionHandler := connect.NewUnaryHandler(CalculatorServiceCreateSessionProcedure, svc.CreateSession, opts...)
	closeSessionHandler := connect.NewUnaryHandler(CalculatorServiceCloseSessionProcedure, svc.CloseSession, opts...)
	getStateHandler := connect.NewUnaryHandler(CalculatorServiceGetStateProcedure, svc.GetState, opts...)
	setBillAmountHandler := connect.NewUnaryHandler(CalculatorServiceSetBillAmountProcedure, svc.SetBillAmount, opts...)
	selectTipHandler := connect.NewUnaryHandler(CalculatorServiceSelectTipProcedure, svc.SelectTip, opts...)
	setNumberOfPeopleHandler := connect.NewUnaryHandler(CalculatorServiceSetNumberOfPeopleProcedure, svc.SetNumberOfPeople, opts...)
	resetHandler := connect.NewUnaryHandler(CalculatorServiceResetProcedure, svc.Reset, opts...)
	calculateHandler := connect.NewUnaryHandler(CalculatorServiceCalculateProcedure, svc.Calculate, opts...)

	return "/tipsplit.v1.CalculatorService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case CalculatorServiceCreateSessionProcedure:
			createSessionHandler.ServeHTTP(w, r)
		case CalculatorServiceCloseSessionProcedure:
			closeSessionHandler.ServeHTTP(w, r)
		case CalculatorServiceGetStateProcedure:
			getStateHandler.ServeHTTP(w, r)
		case CalculatorServiceSetBillAmountProcedure:
			setBillAmountHandler.ServeHTTP(w, r)
		case CalculatorServiceSelectTipProcedure:
			selectTipHandler.ServeHTTP(w, r)
		case CalculatorServiceSetNumberOfPeopleProcedure:
			setNumberOfPeopleHandler.ServeHTTP(w, r)
		case CalculatorServiceResetProcedure:
			resetHandler.ServeHTTP(w, r)
		case CalculatorServiceCalculateProcedure:
			calculateHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedCalculatorServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedCalculatorServiceHandler struct{}

func (UnimplementedCalculatorServiceHandler) CreateSession(context.Context, *connect.Request[api.CreateSessionRequest]) (*connect.Response[api.CreateSessionResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tipsplit.v1.CalculatorService.CreateSession is not implemented"))
}

func (UnimplementedCalculatorServiceHandler) CloseSession(context.Context, *connect.Request[api.CloseSessionRequest]) (*connect.Response[api.CloseSessionResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tipsplit.v1.CalculatorService.CloseSession is not implemented"))
}

func (UnimplementedCalculatorServiceHandler) GetState(context.Context, *connect.Request[api.GetStateRequest]) (*connect.Response[api.StateResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tipsplit.v1.CalculatorService.GetState is not implemented"))
}

func (UnimplementedCalculatorServiceHandler) SetBillAmount(context.Context, *connect.Request[api.SetBillAmountRequest]) (*connect.Response[api.StateResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tipsplit.v1.CalculatorService.SetBillAmount is not implemented"))
}

func (UnimplementedCalculatorServiceHandler) SelectTip(context.Context, *connect.Request[api.SelectTipRequest]) (*connect.Response[api.StateResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tipsplit.v1.CalculatorService.SelectTip is not implemented"))
}

func (UnimplementedCalculatorServiceHandler) SetNumberOfPeople(context.Context, *connect.Request[api.SetNumberOfPeopleRequest]) (*connect.Response[api.StateResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tipsplit.v1.CalculatorService.SetNumberOfPeople is not implemented"))
}

func (UnimplementedCalculatorServiceHandler) Reset(context.Context, *connect.Request[api.ResetRequest]) (*connect.Response[api.StateResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tipsplit.v1.CalculatorService.Reset is not implemented"))
}

func (UnimplementedCalculatorServiceHandler) Calculate(context.Context, *connect.Request[api.CalculateRequest]) (*connect.Response[api.CalculateResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tipsplit.v1.CalculatorService.Calculate is not implemented"))
}
