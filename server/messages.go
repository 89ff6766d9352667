package server

import (
	"encoding/json"

	"github.com/tailored-agentic-units/aria/core/protocol"
	"github.com/tailored-agentic-units/aria/engine"
	"github.com/tailored-agentic-units/aria/session"
)

// Procedure paths served by the chat service.
const (
	ServiceName = "aria.v1.ChatService"

	ProcedureCreateSession = "/" + ServiceName + "/CreateSession"
	ProcedureSendMessage   = "/" + ServiceName + "/SendMessage"
	ProcedureResetSession  = "/" + ServiceName + "/ResetSession"
	ProcedureDeleteSession = "/" + ServiceName + "/DeleteSession"
	ProcedureGetStats      = "/" + ServiceName + "/GetStats"
	ProcedureListFunctions = "/" + ServiceName + "/ListFunctions"
	ProcedureCallFunction  = "/" + ServiceName + "/CallFunction"
)

type CreateSessionRequest struct{}

type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
}

type SendMessageRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type SendMessageResponse struct {
	Response string          `json:"response"`
	Metadata engine.Metadata `json:"metadata"`
}

type ResetSessionRequest struct {
	SessionID string `json:"session_id"`
}

type ResetSessionResponse struct {
	Memory session.Stats `json:"memory_status"`
}

type DeleteSessionRequest struct {
	SessionID string `json:"session_id"`
}

type DeleteSessionResponse struct{}

type GetStatsRequest struct {
	SessionID string `json:"session_id"`
}

type GetStatsResponse struct {
	Memory session.Stats `json:"memory_status"`
}

type ListFunctionsRequest struct{}

type ListFunctionsResponse struct {
	Functions []protocol.Tool `json:"functions"`
}

type CallFunctionRequest struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

type CallFunctionResponse struct {
	Content string `json:"content"`
	IsError bool   `json:"is_error,omitempty"`
}
