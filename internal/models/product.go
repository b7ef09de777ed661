package models

// Product is a catalog entry registered by a representative.
type Product struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	Description      string  `json:"description"`
	Price            float64 `json:"price"`
	Stock            int     `json:"stock"`
	IsActive         bool    `json:"is_active"`
	RepresentativeID int64   `json:"representative_id"`
}

// ProductInput excludes server-assigned fields.
type ProductInput struct {
	Name        string  `json:"name" validate:"required,max=120"`
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price" validate:"gte=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
}
