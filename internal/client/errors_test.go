package client

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNewStatusErrorKinds(t *testing.T) {
	tests := []struct {
		status int
		kind   ErrorKind
	}{
		{401, KindUnauthorized},
		{400, KindValidation},
		{403, KindValidation},
		{404, KindValidation},
		{409, KindValidation},
		{422, KindValidation},
		{500, KindTransient},
		{503, KindTransient},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			err := NewStatusError(tt.status, nil)
			if err.Kind != tt.kind {
				t.Errorf("status %d: expected %s, got %s", tt.status, tt.kind, err.Kind)
			}
		})
	}
}

func TestDetailParsing(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"string detail", `{"detail":"Email already registered"}`, "Email already registered"},
		{"list detail", `{"detail":[{"loc":["body","price"],"msg":"must be >= 0"},{"msg":"bad"}]}`, "price: must be >= 0; bad"},
		{"object detail", `{"detail":{"code":7}}`, `{"code":7}`},
		{"plain body", "  Internal Server Error \n", "Internal Server Error"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detail([]byte(tt.body)); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestDetailTruncatesLongBodies(t *testing.T) {
	got := detail([]byte(strings.Repeat("x", 1000)))
	if len(got) > maxDetailLen+len("…") {
		t.Errorf("detail not truncated: %d bytes", len(got))
	}
}

func TestDetailTruncationKeepsRunesWhole(t *testing.T) {
	// Every "ñ" is two bytes and starts at an odd offset, so byte 300 falls
	// inside one.
	got := detail([]byte("x" + strings.Repeat("ñ", 400)))
	if !utf8.ValidString(got) {
		t.Errorf("truncated detail is not valid UTF-8: %q", got[len(got)-8:])
	}
	if !strings.HasSuffix(got, "…") || len(got) > maxDetailLen+len("…") {
		t.Errorf("unexpected truncation, %d bytes", len(got))
	}
}

func TestPredicatesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("listing children: %w", NewStatusError(401, []byte(`{"detail":"expired"}`)))

	if !IsUnauthorized(err) {
		t.Error("expected wrapped 401 to be unauthorized")
	}
	if IsValidation(err) || IsTransient(err) || IsUnexpected(err) {
		t.Error("expected exactly one kind to match")
	}
	if Detail(err) != "expired" {
		t.Errorf("expected detail %q, got %q", "expired", Detail(err))
	}
	if IsUnauthorized(errors.New("plain")) {
		t.Error("plain error must not match any kind")
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewTransientError(cause)
	if !errors.Is(err, cause) {
		t.Error("expected transient error to unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("unexpected message %q", err.Error())
	}
}
