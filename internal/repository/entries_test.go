package repository

import (
	"testing"

	"github.com/Kerhoff/RepBoT/internal/models"
)

func TestEntriesRoundTrip(t *testing.T) {
	in := models.Session{Token: "abc", UserID: 42}
	out, err := SessionFromEntries(Entries(in))
	if err != nil {
		t.Fatalf("SessionFromEntries: %v", err)
	}
	if out == nil || *out != in {
		t.Fatalf("got %+v, want %+v", out, in)
	}
}

func TestSessionFromEntriesWithoutToken(t *testing.T) {
	out, err := SessionFromEntries(map[string]string{KeyUserID: "3"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != nil {
		t.Errorf("got %+v, want nil", out)
	}
}

func TestSessionFromEntriesCorruptUserID(t *testing.T) {
	if _, err := SessionFromEntries(map[string]string{KeyToken: "t", KeyUserID: "x"}); err == nil {
		t.Error("expected error for non numeric user id")
	}
}
