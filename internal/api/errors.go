package api

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// StatusError is returned when the backend answered with a non-2xx status.
// Message is taken from the structured error payload when there is one.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api: status %d: %s", e.StatusCode, e.Message)
}

// errorMessage pulls a human readable message out of the error bodies the
// backend produces: {"error": ...}, {"detail": ...}, {"message": ...},
// {"non_field_errors": [...]} or {"<field>": ["..."]}.
func errorMessage(body []byte) string {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	for _, key := range []string{"error", "detail", "message"} {
		if msg := firstString(payload[key]); msg != "" {
			return msg
		}
	}
	if msg := firstString(payload["non_field_errors"]); msg != "" {
		return msg
	}

	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if msg := firstString(payload[k]); msg != "" {
			return k + ": " + msg
		}
	}
	return ""
}

func firstString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return strings.TrimSpace(list[0])
	}
	return ""
}
