package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// Client calls the chat service.
type Client struct {
	createSession *connect.Client[CreateSessionRequest, CreateSessionResponse]
	sendMessage   *connect.Client[SendMessageRequest, SendMessageResponse]
	resetSession  *connect.Client[ResetSessionRequest, ResetSessionResponse]
	deleteSession *connect.Client[DeleteSessionRequest, DeleteSessionResponse]
	getStats      *connect.Client[GetStatsRequest, GetStatsResponse]
	listFunctions *connect.Client[ListFunctionsRequest, ListFunctionsResponse]
	callFunction  *connect.Client[CallFunctionRequest, CallFunctionResponse]
}

// NewClient creates a Client for the service at baseURL. A nil httpClient
// uses http.DefaultClient.
func NewClient(httpClient connect.HTTPClient, baseURL string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	base := strings.TrimRight(baseURL, "/")
	opts := []connect.ClientOption{connect.WithCodec(jsonCodec{})}

	return &Client{
		createSession: connect.NewClient[CreateSessionRequest, CreateSessionResponse](httpClient, base+ProcedureCreateSession, opts...),
		sendMessage:   connect.NewClient[SendMessageRequest, SendMessageResponse](httpClient, base+ProcedureSendMessage, opts...),
		resetSession:  connect.NewClient[ResetSessionRequest, ResetSessionResponse](httpClient, base+ProcedureResetSession, opts...),
		deleteSession: connect.NewClient[DeleteSessionRequest, DeleteSessionResponse](httpClient, base+ProcedureDeleteSession, opts...),
		getStats:      connect.NewClient[GetStatsRequest, GetStatsResponse](httpClient, base+ProcedureGetStats, opts...),
		listFunctions: connect.NewClient[ListFunctionsRequest, ListFunctionsResponse](httpClient, base+ProcedureListFunctions, opts...),
		callFunction:  connect.NewClient[CallFunctionRequest, CallFunctionResponse](httpClient, base+ProcedureCallFunction, opts...),
	}
}

func (c *Client) CreateSession(ctx context.Context) (string, error) {
	res, err := c.createSession.CallUnary(ctx, connect.NewRequest(&CreateSessionRequest{}))
	if err != nil {
		return "", err
	}
	return res.Msg.SessionID, nil
}

func (c *Client) SendMessage(ctx context.Context, sessionID, message string) (*SendMessageResponse, error) {
	res, err := c.sendMessage.CallUnary(ctx, connect.NewRequest(&SendMessageRequest{SessionID: sessionID, Message: message}))
	if err != nil {
		return nil, err
	}
	return res.Msg, nil
}

func (c *Client) ResetSession(ctx context.Context, sessionID string) (*ResetSessionResponse, error) {
	res, err := c.resetSession.CallUnary(ctx, connect.NewRequest(&ResetSessionRequest{SessionID: sessionID}))
	if err != nil {
		return nil, err
	}
	return res.Msg, nil
}

func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	_, err := c.deleteSession.CallUnary(ctx, connect.NewRequest(&DeleteSessionRequest{SessionID: sessionID}))
	return err
}

func (c *Client) GetStats(ctx context.Context, sessionID string) (*GetStatsResponse, error) {
	res, err := c.getStats.CallUnary(ctx, connect.NewRequest(&GetStatsRequest{SessionID: sessionID}))
	if err != nil {
		return nil, err
	}
	return res.Msg, nil
}

func (c *Client) ListFunctions(ctx context.Context) (*ListFunctionsResponse, error) {
	res, err := c.listFunctions.CallUnary(ctx, connect.NewRequest(&ListFunctionsRequest{}))
	if err != nil {
		return nil, err
	}
	return res.Msg, nil
}

func (c *Client) CallFunction(ctx context.Context, name string, args json.RawMessage) (*CallFunctionResponse, error) {
	res, err := c.callFunction.CallUnary(ctx, connect.NewRequest(&CallFunctionRequest{Name: name, Arguments: args}))
	if err != nil {
		return nil, err
	}
	return res.Msg, nil
}
