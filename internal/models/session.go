package models

// Session is the client-held proof of authentication.
type Session struct {
	Token  string `json:"token"`
	UserID int64  `json:"user_id"`
}

// Valid reports whether the session carries a usable token.
func (s *Session) Valid() bool {
	return s != nil && s.Token != ""
}
