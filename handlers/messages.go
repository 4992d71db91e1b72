package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gotoolcall/extract"
	"github.com/gotoolcall/logger"
	"github.com/gotoolcall/types"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// HandleProcessMessage extracts tool calls from a posted message and returns
// them alongside the display text.
func HandleProcessMessage(log *logger.Logger) http.HandlerFunc {
	ex := extract.New(log)
	return func(w http.ResponseWriter, r *http.Request) {
		var msg types.Message
		if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, processMessage(ex, &msg))
	}
}

// HandleFormatResult renders a posted tool result as Markdown.
func HandleFormatResult(w http.ResponseWriter, r *http.Request) {
	var req FormatParams
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.ToolName == "" {
		http.Error(w, "tool_name is required", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, FormatResult{Markdown: extract.FormatToolResults(req.ToolName, ResultValue(req.Result))})
}
