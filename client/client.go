package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gotoolcall/codec"
	"github.com/gotoolcall/handlers"
	"github.com/gotoolcall/logger"
	"github.com/gotoolcall/protocol"
	"github.com/gotoolcall/types"

	"github.com/google/uuid"
)

// Client calls a toolcalls server over its JSON-RPC endpoint.
type Client struct {
	log        *logger.Logger
	rpcURL     string
	clientID   string
	httpClient *http.Client
	nextID     atomic.Int64
}

// NewClient accepts either the server root or the full /rpc URL.
func NewClient(serverURL string) *Client {
	rpcURL := strings.TrimRight(serverURL, "/")
	if !strings.HasSuffix(rpcURL, "/rpc") {
		rpcURL += "/rpc"
	}
	return &Client{
		log:      logger.NewLogger("Client", uuid.NewString()),
		rpcURL:   rpcURL,
		clientID: uuid.NewString(),
		httpClient: &http.Client{
			Timeout: time.Second * 30,
		},
	}
}

func (c *Client) ClientID() string { return c.clientID }

// Call sends one request and decodes its result into out, which may be nil.
// A JSON-RPC error comes back as *codec.RPCError.
func (c *Client) Call(ctx context.Context, method string, params any, out any) error {
	rawParams, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("marshal %s params: %w", method, err)
	}
	body, err := json.Marshal(codec.JSONRPCRequest{
		JSONRPC: codec.JsonRPCVersion,
		Method:  method,
		Params:  rawParams,
		ID:      c.nextID.Add(1),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rpcURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Client-ID", c.clientID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status: %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}

	var envelope struct {
		Result json.RawMessage `json:"result"`
		Error  *codec.RPCError `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	if envelope.Error != nil {
		c.log.Warn(fmt.Sprintf("%s returned error %d: %s", method, envelope.Error.Code, envelope.Error.Message))
		return envelope.Error
	}
	if out == nil || len(envelope.Result) == 0 {
		return nil
	}
	return json.Unmarshal(envelope.Result, out)
}

func (c *Client) Ping(ctx context.Context) error {
	return c.Call(ctx, protocol.MethodPing, struct{}{}, nil)
}

func (c *Client) Extract(ctx context.Context, text string) ([]types.ToolCall, error) {
	var res handlers.ExtractResult
	if err := c.Call(ctx, protocol.MethodExtract, handlers.TextParams{Text: text}, &res); err != nil {
		return nil, err
	}
	return res.ToolCalls, nil
}

func (c *Client) Process(ctx context.Context, msg types.Message) (handlers.ProcessResult, error) {
	var res handlers.ProcessResult
	err := c.Call(ctx, protocol.MethodProcess, msg, &res)
	return res, err
}

func (c *Client) Strip(ctx context.Context, text string) (string, error) {
	var res handlers.StripResult
	if err := c.Call(ctx, protocol.MethodStrip, handlers.TextParams{Text: text}, &res); err != nil {
		return "", err
	}
	return res.Text, nil
}

// Format sends result as-is; it must be JSON-encodable.
func (c *Client) Format(ctx context.Context, toolName string, result any) (string, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("marshal tool result: %w", err)
	}
	var res handlers.FormatResult
	if err := c.Call(ctx, protocol.MethodFormat, handlers.FormatParams{ToolName: toolName, Result: raw}, &res); err != nil {
		return "", err
	}
	return res.Markdown, nil
}

func (c *Client) Validate(ctx context.Context, call types.ToolCall, tools []types.ToolDefinition) (handlers.ValidateResult, error) {
	var res handlers.ValidateResult
	err := c.Call(ctx, protocol.MethodValidate, handlers.ValidateParams{Call: call, Tools: tools}, &res)
	return res, err
}
