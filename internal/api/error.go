package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Error is a non-2xx server response. Detail is the flattened human-readable
// message from the response body.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (HTTP %d)", e.Detail, e.Status)
}

// fieldError is one entry of a validation-error list (422 responses carry
// these instead of a plain message).
type fieldError struct {
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type"`
}

// newError turns a failed response body into an Error. The body's "detail"
// field is either a string or a list of field errors; anything unparseable
// falls back to the HTTP status text so the caller always gets a message.
func newError(status int, body []byte) *Error {
	detail := strings.TrimSpace(http.StatusText(status))
	if detail == "" {
		detail = "request failed"
	}

	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Detail) > 0 {
		var s string
		if json.Unmarshal(envelope.Detail, &s) == nil && strings.TrimSpace(s) != "" {
			return &Error{Status: status, Detail: s}
		}
		var fields []fieldError
		if json.Unmarshal(envelope.Detail, &fields) == nil && len(fields) > 0 {
			msgs := make([]string, 0, len(fields))
			for _, f := range fields {
				if strings.TrimSpace(f.Msg) != "" {
					msgs = append(msgs, f.Msg)
				}
			}
			if len(msgs) > 0 {
				return &Error{Status: status, Detail: strings.Join(msgs, "; ")}
			}
		}
	}
	return &Error{Status: status, Detail: detail}
}
