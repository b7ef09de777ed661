package models

// Representative is the authenticated account holder. It owns children,
// products and invitations.
type Representative struct {
	ID        int64   `json:"id"`
	FullName  string  `json:"full_name"`
	BirthDate Date    `json:"birth_date"`
	Country   string  `json:"country"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone,omitempty"`
	IsActive  bool    `json:"is_active"`
}

// RepresentativeInput holds the editable profile fields.
type RepresentativeInput struct {
	FullName  string  `json:"full_name" validate:"required"`
	BirthDate Date    `json:"birth_date"`
	Country   string  `json:"country" validate:"required"`
	Email     string  `json:"email" validate:"required,email"`
	Phone     *string `json:"phone,omitempty"`
}

// RegisterData is the payload for creating a new representative.
type RegisterData struct {
	RepresentativeInput
	Password string `json:"password" validate:"required,min=6"`
}

// Credentials are sent form-encoded to the token endpoint.
type Credentials struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// UserSummary is the short user description returned on login.
type UserSummary struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// LoginResult is the token endpoint response.
type LoginResult struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        UserSummary `json:"user"`
}

// Session returns the session established by this login.
func (r *LoginResult) Session() Session {
	return Session{Token: r.AccessToken, UserID: r.User.ID}
}

// Profile is the combined /representatives/me response.
type Profile struct {
	Representative Representative `json:"representative"`
	Children       []Child        `json:"children"`
	Products       []Product      `json:"products"`
	Invitations    []Invitation   `json:"invitations"`
}
