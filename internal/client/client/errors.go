package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/herbscan/internal/common"
)

var (
	ErrUnavailable   = errors.New("server unavailable")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrNotFound      = common.ErrNotFound
	ErrRequestFailed = errors.New("request failed")
)

// TransportError describes a failed call. Status is 0 when no response was
// received. Detail is the server's human-readable message, if any.
type TransportError struct {
	Op     string
	Status int
	Detail string
	Err    error
}

func (e *TransportError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Status != 0 {
		fmt.Fprintf(&b, ": status %d", e.Status)
	}
	if e.Detail != "" {
		fmt.Fprintf(&b, ": %s", e.Detail)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DetailOf returns the server detail carried by err, or "".
func DetailOf(err error) string {
	var te *TransportError
	if errors.As(err, &te) {
		return te.Detail
	}
	return ""
}

// statusError maps a non-2xx response to a TransportError.
func statusError(op string, status int, body []byte) *TransportError {
	var sentinel error
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		sentinel = ErrUnauthorized
	case status == http.StatusNotFound:
		sentinel = ErrNotFound
	case status == http.StatusBadGateway || status == http.StatusServiceUnavailable || status == http.StatusGatewayTimeout:
		sentinel = ErrUnavailable
	default:
		sentinel = ErrRequestFailed
	}
	return &TransportError{Op: op, Status: status, Detail: detail(body), Err: sentinel}
}

// detail extracts {"detail": "..."} from an error body. Validation errors
// carry a list of objects with a "msg" key instead.
func detail(body []byte) string {
	var env struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &env); err != nil || len(env.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(env.Detail, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(env.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if m := strings.TrimSpace(it.Msg); m != "" {
				msgs = append(msgs, m)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}
