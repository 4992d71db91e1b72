package protocol

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

var ErrMethodNotFound = errors.New("method not found")

// InvalidParamsError lists every schema violation for a request.
type InvalidParamsError struct {
	Method string
	Errors []string
}

func (e *InvalidParamsError) Error() string {
	return fmt.Sprintf("invalid params for %s: %s", e.Method, strings.Join(e.Errors, "; "))
}

type RequestHandler func(ctx context.Context, params json.RawMessage) (any, error)

type requestHandlerEntry struct {
	schema  *gojsonschema.Schema
	handler RequestHandler
}

type Protocol struct {
	mu sync.RWMutex

	reqHandlers map[string]requestHandlerEntry
}

func NewProtocol() *Protocol {
	return &Protocol{
		reqHandlers: make(map[string]requestHandlerEntry),
	}
}

// SetRequestHandler registers handler for method. A non-empty schema is a
// JSON schema the params must satisfy before handler runs.
func (p *Protocol) SetRequestHandler(method string, schema string, handler RequestHandler) error {
	entry := requestHandlerEntry{handler: handler}
	if schema != "" {
		compiled, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
		if err != nil {
			return fmt.Errorf("compile params schema for %s: %w", method, err)
		}
		entry.schema = compiled
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.reqHandlers[method] = entry
	return nil
}

func (p *Protocol) HandleRequest(ctx context.Context, method string, params json.RawMessage) (any, error) {
	p.mu.RLock()
	handlerEntry, ok := p.reqHandlers[method]
	p.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMethodNotFound, method)
	}

	if handlerEntry.schema != nil {
		doc := params
		if len(doc) == 0 {
			doc = json.RawMessage("{}")
		}
		result, err := handlerEntry.schema.Validate(gojsonschema.NewBytesLoader(doc))
		if err != nil {
			return nil, &InvalidParamsError{Method: method, Errors: []string{err.Error()}}
		}
		if !result.Valid() {
			var violations []string
			for _, desc := range result.Errors() {
				violations = append(violations, desc.String())
			}
			return nil, &InvalidParamsError{Method: method, Errors: violations}
		}
	}
	return handlerEntry.handler(ctx, params)
}

// Methods lists registered method names in sorted order.
func (p *Protocol) Methods() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	methods := make([]string, 0, len(p.reqHandlers))
	for m := range p.reqHandlers {
		methods = append(methods, m)
	}
	sort.Strings(methods)
	return methods
}
