package repository

import (
	"fmt"
	"strconv"

	"github.com/Kerhoff/RepBoT/internal/models"
)

// Entry keys of a persisted session.
const (
	KeyToken  = "token"
	KeyUserID = "user_id"
)

// Entries flattens a session into its key-value form.
func Entries(session models.Session) map[string]string {
	return map[string]string{
		KeyToken:  session.Token,
		KeyUserID: strconv.FormatInt(session.UserID, 10),
	}
}

// SessionFromEntries rebuilds a session from its key-value form. A scope
// without a token has no session and yields nil.
func SessionFromEntries(entries map[string]string) (*models.Session, error) {
	token := entries[KeyToken]
	if token == "" {
		return nil, nil
	}

	session := &models.Session{Token: token}
	if raw := entries[KeyUserID]; raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt %s entry %q: %w", KeyUserID, raw, err)
		}
		session.UserID = id
	}
	return session, nil
}
