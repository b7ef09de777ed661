package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"
)

// ErrorKind classifies a failed API call.
type ErrorKind int

const (
	// KindTransient: the request never completed (network, timeout) or the
	// server failed (5xx). Callers may offer a retry.
	KindTransient ErrorKind = iota
	// KindUnauthorized: the credential is missing, invalid or expired (401).
	KindUnauthorized
	// KindValidation: the request was rejected for domain reasons (other 4xx).
	KindValidation
	// KindUnexpected: a successful response whose body could not be decoded.
	KindUnexpected
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindValidation:
		return "validation"
	case KindUnexpected:
		return "unexpected response"
	default:
		return "transient"
	}
}

// Error is the classified failure returned by every client operation.
type Error struct {
	Kind   ErrorKind
	Status int    // HTTP status, 0 when no response was received
	Detail string // server supplied message, surfaced verbatim
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Detail != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("%s: status %d", e.Kind, e.Status)
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewTransientError wraps a network level failure.
func NewTransientError(err error) *Error {
	return &Error{Kind: KindTransient, Err: err}
}

// NewUnexpectedError wraps a decoding failure of a successful response.
func NewUnexpectedError(status int, err error) *Error {
	return &Error{Kind: KindUnexpected, Status: status, Err: err}
}

// NewStatusError classifies a non-2xx response.
func NewStatusError(status int, body []byte) *Error {
	e := &Error{Status: status, Detail: detail(body)}
	switch {
	case status == http.StatusUnauthorized:
		e.Kind = KindUnauthorized
	case status >= 500:
		e.Kind = KindTransient
	case status >= 400:
		e.Kind = KindValidation
	default:
		e.Kind = KindUnexpected
	}
	return e
}

func kindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// IsUnauthorized reports whether err means the session is no longer valid.
func IsUnauthorized(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindUnauthorized
}

// IsValidation reports whether err is a domain rejection.
func IsValidation(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindValidation
}

// IsTransient reports whether err is a network or server failure.
func IsTransient(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindTransient
}

// IsUnexpected reports whether err is an undecodable response.
func IsUnexpected(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindUnexpected
}

// Detail returns the server supplied message of err, if any.
func Detail(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Detail
	}
	return ""
}

const maxDetailLen = 300

// detail extracts the message of an error body. The backend sends
// {"detail": "..."} or, for schema violations, {"detail": [{"msg": ...}]}.
func detail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Detail) > 0 {
		var s string
		if err := json.Unmarshal(payload.Detail, &s); err == nil {
			return s
		}
		var items []struct {
			Loc []any  `json:"loc"`
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(payload.Detail, &items); err == nil && len(items) > 0 {
			msgs := make([]string, 0, len(items))
			for _, it := range items {
				if len(it.Loc) > 0 {
					msgs = append(msgs, fmt.Sprintf("%v: %s", it.Loc[len(it.Loc)-1], it.Msg))
				} else {
					msgs = append(msgs, it.Msg)
				}
			}
			return strings.Join(msgs, "; ")
		}
		return truncate(string(payload.Detail))
	}
	return truncate(strings.TrimSpace(string(body)))
}

// truncate caps s at maxDetailLen bytes without splitting a rune.
func truncate(s string) string {
	if len(s) <= maxDetailLen {
		return s
	}
	cut := maxDetailLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "…"
}
