package provider

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Error carries a vendor failure upstream: the vendor's own message when one
// could be extracted, and the vendor's HTTP status so handlers can mirror it.
type Error struct {
	Status  int
	Service string
	Message string
}

func (e *Error) Error() string {
	if e == nil {
		return "vendor error"
	}
	if e.Service != "" {
		return fmt.Sprintf("%s: %s", e.Service, e.Message)
	}
	return e.Message
}

// HTTPStatus returns the status to mirror to the client. Malformed vendor
// statuses collapse to 500.
func (e *Error) HTTPStatus() int {
	if e == nil || e.Status < 100 || e.Status > 599 {
		return http.StatusInternalServerError
	}
	return e.Status
}

// errorBody covers the common vendor error shapes:
// {"error":{"message":"..."}}, {"error":"..."}, {"message":"..."},
// {"msg":"..."}.
type errorBody struct {
	Error   json.RawMessage `json:"error"`
	Message string          `json:"message"`
	Msg     string          `json:"msg"`
}

// ParseErrorBody builds an Error from a non-2xx vendor response. The JSON
// error message is extracted best-effort; when parsing fails the raw response
// text is used.
func ParseErrorBody(service string, status int, body []byte) *Error {
	message := extractErrorMessage(body)
	if message == "" {
		message = strings.TrimSpace(string(body))
	}
	if message == "" {
		message = fmt.Sprintf("vendor returned http %d", status)
	}
	return &Error{
		Status:  status,
		Service: service,
		Message: message,
	}
}

func extractErrorMessage(body []byte) string {
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}

	if len(parsed.Error) > 0 {
		// Either a bare string or a nested {"message": ...} object.
		var asString string
		if err := json.Unmarshal(parsed.Error, &asString); err == nil {
			return strings.TrimSpace(asString)
		}
		var nested struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(parsed.Error, &nested); err == nil && nested.Message != "" {
			return strings.TrimSpace(nested.Message)
		}
	}

	if parsed.Message != "" {
		return strings.TrimSpace(parsed.Message)
	}
	return strings.TrimSpace(parsed.Msg)
}
