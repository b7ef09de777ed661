package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Kerhoff/RepBoT/internal/models"
)

// AuthClient covers login, registration and the representative's profile.
type AuthClient struct {
	c *Client
}

// Login exchanges credentials for a token. Credentials are sent
// form-encoded, not as JSON. The caller is responsible for storing the
// resulting session.
func (a *AuthClient) Login(ctx context.Context, creds models.Credentials) (*models.LoginResult, error) {
	form := url.Values{}
	form.Set("username", creds.Username)
	form.Set("password", creds.Password)

	var result models.LoginResult
	if err := a.c.do(ctx, formRequest(http.MethodPost, "/representatives/token", form), &result); err != nil {
		return nil, err
	}
	if result.AccessToken == "" {
		return nil, NewUnexpectedError(http.StatusOK, errMissingToken)
	}
	return &result, nil
}

// Register creates a new representative.
func (a *AuthClient) Register(ctx context.Context, data models.RegisterData) (*models.Representative, error) {
	var rep models.Representative
	if err := a.c.doJSON(ctx, http.MethodPost, "/representatives/", data, &rep); err != nil {
		return nil, err
	}
	return &rep, nil
}

// Me returns the combined profile of the authenticated representative.
func (a *AuthClient) Me(ctx context.Context) (*models.Profile, error) {
	var profile models.Profile
	if err := a.c.doJSON(ctx, http.MethodGet, "/representatives/me", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateMe replaces the editable profile fields.
func (a *AuthClient) UpdateMe(ctx context.Context, in models.RepresentativeInput) (*models.Representative, error) {
	var rep models.Representative
	if err := a.c.doJSON(ctx, http.MethodPut, "/representatives/me", in, &rep); err != nil {
		return nil, err
	}
	return &rep, nil
}

type clientError string

func (e clientError) Error() string { return string(e) }

const errMissingToken = clientError("token response without access_token")
