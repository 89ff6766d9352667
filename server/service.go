// Package server exposes chat sessions over Connect RPC. Messages are plain
// Go structs encoded as JSON; any HTTP client can call a procedure with
// POST and Content-Type application/json.
package server

import (
	"context"
	"errors"
	"net/http"

	"connectrpc.com/connect"

	"github.com/tailored-agentic-units/aria/tools"
)

// Service implements the chat procedures over a session Manager.
type Service struct {
	sessions  *Manager
	functions *tools.Registry
}

// NewService creates a Service. functions backs ListFunctions and
// CallFunction.
func NewService(sessions *Manager, functions *tools.Registry) *Service {
	return &Service{sessions: sessions, functions: functions}
}

// Handler returns an http.Handler serving every procedure.
func (s *Service) Handler() http.Handler {
	opts := []connect.HandlerOption{connect.WithCodec(jsonCodec{})}

	mux := http.NewServeMux()
	mux.Handle(ProcedureCreateSession, connect.NewUnaryHandler(ProcedureCreateSession, s.CreateSession, opts...))
	mux.Handle(ProcedureSendMessage, connect.NewUnaryHandler(ProcedureSendMessage, s.SendMessage, opts...))
	mux.Handle(ProcedureResetSession, connect.NewUnaryHandler(ProcedureResetSession, s.ResetSession, opts...))
	mux.Handle(ProcedureDeleteSession, connect.NewUnaryHandler(ProcedureDeleteSession, s.DeleteSession, opts...))
	mux.Handle(ProcedureGetStats, connect.NewUnaryHandler(ProcedureGetStats, s.GetStats, opts...))
	mux.Handle(ProcedureListFunctions, connect.NewUnaryHandler(ProcedureListFunctions, s.ListFunctions, opts...))
	mux.Handle(ProcedureCallFunction, connect.NewUnaryHandler(ProcedureCallFunction, s.CallFunction, opts...))
	return mux
}

func (s *Service) CreateSession(ctx context.Context, _ *connect.Request[CreateSessionRequest]) (*connect.Response[CreateSessionResponse], error) {
	e, err := s.sessions.Create(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&CreateSessionResponse{SessionID: e.SessionID()}), nil
}

func (s *Service) SendMessage(ctx context.Context, req *connect.Request[SendMessageRequest]) (*connect.Response[SendMessageResponse], error) {
	e, err := s.sessions.Get(req.Msg.SessionID)
	if err != nil {
		return nil, toConnectError(err)
	}

	res, err := e.ProcessTurn(ctx, req.Msg.Message)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&SendMessageResponse{Response: res.Response, Metadata: res.Metadata}), nil
}

func (s *Service) ResetSession(ctx context.Context, req *connect.Request[ResetSessionRequest]) (*connect.Response[ResetSessionResponse], error) {
	e, err := s.sessions.Reset(ctx, req.Msg.SessionID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ResetSessionResponse{Memory: e.Stats()}), nil
}

func (s *Service) DeleteSession(ctx context.Context, req *connect.Request[DeleteSessionRequest]) (*connect.Response[DeleteSessionResponse], error) {
	if err := s.sessions.Delete(ctx, req.Msg.SessionID); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&DeleteSessionResponse{}), nil
}

func (s *Service) GetStats(_ context.Context, req *connect.Request[GetStatsRequest]) (*connect.Response[GetStatsResponse], error) {
	e, err := s.sessions.Get(req.Msg.SessionID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&GetStatsResponse{Memory: e.Stats()}), nil
}

func (s *Service) ListFunctions(_ context.Context, _ *connect.Request[ListFunctionsRequest]) (*connect.Response[ListFunctionsResponse], error) {
	return connect.NewResponse(&ListFunctionsResponse{Functions: s.functions.List()}), nil
}

func (s *Service) CallFunction(ctx context.Context, req *connect.Request[CallFunctionRequest]) (*connect.Response[CallFunctionResponse], error) {
	res, err := s.functions.Call(ctx, req.Msg.Name, req.Msg.Arguments)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&CallFunctionResponse{Content: res.Content, IsError: res.IsError}), nil
}

func toConnectError(err error) error {
	switch {
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, tools.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, tools.ErrInvalidArguments):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, ErrSessionLimit):
		return connect.NewError(connect.CodeResourceExhausted, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
