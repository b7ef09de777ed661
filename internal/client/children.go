package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Kerhoff/RepBoT/internal/models"
)

// ChildClient manages the representative's children.
type ChildClient struct {
	c *Client
}

func (cc *ChildClient) List(ctx context.Context) ([]models.Child, error) {
	var children []models.Child
	if err := cc.c.doJSON(ctx, http.MethodGet, "/children/", nil, &children); err != nil {
		return nil, err
	}
	return children, nil
}

func (cc *ChildClient) Create(ctx context.Context, in models.ChildInput) (*models.Child, error) {
	var child models.Child
	if err := cc.c.doJSON(ctx, http.MethodPost, "/children/", in, &child); err != nil {
		return nil, err
	}
	return &child, nil
}

func (cc *ChildClient) Update(ctx context.Context, id int64, in models.ChildInput) (*models.Child, error) {
	var child models.Child
	if err := cc.c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/children/%d", id), in, &child); err != nil {
		return nil, err
	}
	return &child, nil
}

func (cc *ChildClient) Delete(ctx context.Context, id int64) error {
	return cc.c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/children/%d", id), nil, nil)
}
