package validate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gotoolcall/logger"
	"github.com/gotoolcall/types"

	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"
)

var ErrToolNotFound = errors.New("tool not found or not permitted")

var log = logger.NewLogger("validate", uuid.NewString())

// FindToolDefinition retrieves the trusted tool definition by name.
func FindToolDefinition(name string, availableTools []types.ToolDefinition) (*types.ToolDefinition, error) {
	for i := range availableTools {
		if availableTools[i].Name == name {
			return &availableTools[i], nil
		}
	}
	return nil, fmt.Errorf("%w: '%s'", ErrToolNotFound, name)
}

// ValidateToolCall checks an extracted call against the definition with the
// same name. Parameters that violate the schema yield StatusFailed; a missing
// tool or a broken schema yields StatusError.
func ValidateToolCall(
	ctx context.Context,
	toolCall types.ToolCall,
	availableTools []types.ToolDefinition,
) (types.ExecutionStatus, error) {
	if err := ctx.Err(); err != nil {
		return types.StatusError, err
	}

	toolDef, err := FindToolDefinition(toolCall.Name, availableTools)
	if err != nil {
		return types.StatusError, fmt.Errorf("tool definition lookup failed: %w", err)
	}

	if len(toolDef.Parameters) == 0 {
		log.Warn(fmt.Sprintf("no parameter schema defined for tool '%s', skipping input validation", toolDef.Name))
		return types.StatusSucceeded, nil
	}

	params := toolCall.Parameters
	if params == nil {
		params = map[string]any{}
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(toolDef.Parameters))
	if err != nil {
		return types.StatusError, fmt.Errorf("internal schema error for tool '%s': %w", toolDef.Name, err)
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(params))
	if err != nil {
		return types.StatusError, fmt.Errorf("internal validation error for tool '%s': %w", toolDef.Name, err)
	}

	if !result.Valid() {
		var validationErrors []string
		for _, desc := range result.Errors() {
			validationErrors = append(validationErrors, fmt.Sprintf("- %s", desc))
		}
		errorMsg := fmt.Sprintf("input validation failed for tool '%s':\n%s",
			toolDef.Name, strings.Join(validationErrors, "\n"))
		log.Warn(errorMsg)
		return types.StatusFailed, errors.New(errorMsg)
	}

	log.Debug(fmt.Sprintf("input arguments for tool '%s' validated successfully", toolDef.Name))
	return types.StatusSucceeded, nil
}
