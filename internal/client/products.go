package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Kerhoff/RepBoT/internal/models"
)

// ProductClient manages the representative's product catalog. Inputs are
// sent as given; range checks belong to the form layer and the server.
type ProductClient struct {
	c *Client
}

func (pc *ProductClient) List(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := pc.c.doJSON(ctx, http.MethodGet, "/products/", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (pc *ProductClient) Get(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	if err := pc.c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/products/%d", id), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (pc *ProductClient) Create(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	var product models.Product
	if err := pc.c.doJSON(ctx, http.MethodPost, "/products/", in, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (pc *ProductClient) Update(ctx context.Context, id int64, in models.ProductInput) (*models.Product, error) {
	var product models.Product
	if err := pc.c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/products/%d", id), in, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (pc *ProductClient) Delete(ctx context.Context, id int64) error {
	return pc.c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/products/%d", id), nil, nil)
}
