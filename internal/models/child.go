package models

// Child is a dependent record owned by a representative.
type Child struct {
	ID               int64  `json:"id"`
	FullName         string `json:"full_name"`
	BirthDate        Date   `json:"birth_date"`
	Country          string `json:"country"`
	RepresentativeID int64  `json:"representative_id"`
}

// ChildInput excludes server-assigned fields.
type ChildInput struct {
	FullName  string `json:"full_name" validate:"required,max=120"`
	BirthDate Date   `json:"birth_date"`
	Country   string `json:"country" validate:"required,max=56"`
}
