package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Kerhoff/RepBoT/internal/models"
)

// InvitationClient issues and redeems invitation codes.
type InvitationClient struct {
	c *Client
}

func (ic *InvitationClient) List(ctx context.Context) ([]models.Invitation, error) {
	var invitations []models.Invitation
	if err := ic.c.doJSON(ctx, http.MethodGet, "/invites/", nil, &invitations); err != nil {
		return nil, err
	}
	return invitations, nil
}

// Create asks the server for a new code. The request has no body: the server
// picks the code and the owner comes from the session.
func (ic *InvitationClient) Create(ctx context.Context) (*models.Invitation, error) {
	var inv models.Invitation
	if err := ic.c.doJSON(ctx, http.MethodPost, "/invites/", nil, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// Validate checks a code without consuming it.
func (ic *InvitationClient) Validate(ctx context.Context, code string) (*models.Invitation, error) {
	var inv models.Invitation
	if err := ic.c.doJSON(ctx, http.MethodPost, "/invites/validate/"+url.PathEscape(code), nil, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// Use marks a code as used. It is forwarded as is: no local validation and
// no retry, the server decides whether the code can still be used.
func (ic *InvitationClient) Use(ctx context.Context, code string) (*models.Invitation, error) {
	var inv models.Invitation
	if err := ic.c.doJSON(ctx, http.MethodPost, "/invites/use/"+url.PathEscape(code), nil, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}
