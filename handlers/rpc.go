package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gotoolcall/codec"
	"github.com/gotoolcall/logger"
	"github.com/gotoolcall/protocol"
)

// RPCHandler serves JSON-RPC 2.0 requests against p. Protocol failures are
// reported in the envelope, so the HTTP status is always 200.
func RPCHandler(p *protocol.Protocol, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := codec.ParseJSONRPCRequest(r)
		if req == nil {
			log.Warn(fmt.Sprintf("unparseable rpc request: %v", err))
			codec.WriteJSONRPCError(w, codec.ParseError, "", nil)
			return
		}
		if err != nil {
			codec.WriteJSONRPCError(w, codec.InvalidRequest, err.Error(), req.ID)
			return
		}

		result, err := p.HandleRequest(r.Context(), req.Method, req.Params)
		if err != nil {
			code, msg := ErrorCode(err)
			log.Warn(fmt.Sprintf("rpc %s failed: %v", req.Method, err))
			codec.WriteJSONRPCError(w, code, msg, req.ID)
			return
		}
		if err := codec.WriteJSONRPCResponse(w, result, req.ID); err != nil {
			log.Error(fmt.Sprintf("write rpc response: %v", err))
		}
	}
}

// ErrorCode maps a dispatch error onto a JSON-RPC code and message.
func ErrorCode(err error) (int, string) {
	var invalid *protocol.InvalidParamsError
	switch {
	case errors.Is(err, codec.ErrInvalidVersion), errors.Is(err, codec.ErrMissingMethod):
		return codec.InvalidRequest, err.Error()
	case errors.Is(err, protocol.ErrMethodNotFound):
		return codec.MethodNotFound, err.Error()
	case errors.As(err, &invalid):
		return codec.InvalidParams, err.Error()
	}
	return codec.InternalError, ""
}
