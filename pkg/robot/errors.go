package robot

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// InvalidCredentialsMessage is the error text the service returns when a
// login names an unknown user or a wrong password.
const InvalidCredentialsMessage = "Invalid username or password"

// ErrInvalidCredentials matches an APIError for a rejected login.
var ErrInvalidCredentials = errors.New("invalid username or password")

// APIError is a non-2xx response from the robot service.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string // "error" field of the body, or the raw body
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// Is reports whether the response is the service's invalid credentials reply.
func (e *APIError) Is(target error) bool {
	return target == ErrInvalidCredentials &&
		e.StatusCode == http.StatusBadRequest &&
		e.Message == InvalidCredentialsMessage
}

func newAPIError(method, path string, status int, body []byte) *APIError {
	var payload struct {
		Error string `json:"error"`
	}
	msg := strings.TrimSpace(string(body))
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		msg = payload.Error
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{Method: method, Path: path, StatusCode: status, Message: msg}
}

// Reason returns the operator-facing part of err: the service message for
// API errors, the full error text otherwise.
func Reason(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
