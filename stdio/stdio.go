// Package stdio serves JSON-RPC over newline-delimited streams, one request
// per input line and one response per output line.
package stdio

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/gotoolcall/codec"
	"github.com/gotoolcall/handlers"
	"github.com/gotoolcall/logger"
	"github.com/gotoolcall/protocol"

	"github.com/google/uuid"
)

const maxLineSize = 4 << 20

// Serve answers requests read from r on w until r is exhausted or ctx ends.
// Notifications are dispatched but never answered.
func Serve(ctx context.Context, r io.Reader, w io.Writer, p *protocol.Protocol) error {
	log := logger.NewLogger("stdio", uuid.NewString())
	lines := make(chan []byte)
	scanErr := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 64*1024), maxLineSize)
		for scanner.Scan() {
			line := bytes.TrimSpace(scanner.Bytes())
			if len(line) == 0 {
				continue
			}
			select {
			case lines <- append([]byte(nil), line...):
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	enc := json.NewEncoder(w)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					if err != nil {
						return fmt.Errorf("stdio scanner error: %w", err)
					}
				default:
				}
				return nil
			}
			resp, reply := handleLine(ctx, p, line, log)
			if !reply {
				continue
			}
			if err := enc.Encode(resp); err != nil {
				return fmt.Errorf("write stdio response: %w", err)
			}
		}
	}
}

func handleLine(ctx context.Context, p *protocol.Protocol, line []byte, log *logger.Logger) (codec.JSONRPCResponse, bool) {
	req, err := codec.DecodeJSONRPCRequest(line)
	if req == nil {
		log.Warn(fmt.Sprintf("unparseable stdio request: %v", err))
		return codec.NewErrorResponse(codec.ParseError, "", nil, nil), true
	}
	if err != nil {
		return codec.NewErrorResponse(codec.InvalidRequest, err.Error(), nil, req.ID), !req.IsNotification()
	}

	result, err := p.HandleRequest(ctx, req.Method, req.Params)
	if req.IsNotification() {
		if err != nil {
			log.Warn(fmt.Sprintf("notification %s failed: %v", req.Method, err))
		}
		return codec.JSONRPCResponse{}, false
	}
	if err != nil {
		code, msg := handlers.ErrorCode(err)
		return codec.NewErrorResponse(code, msg, nil, req.ID), true
	}
	return codec.NewResponse(result, req.ID), true
}
