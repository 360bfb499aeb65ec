package domain

import "time"

// Car is a single inventory listing as served by the backend API.
// ID is empty until the backend assigns one on create.
type Car struct {
	ID       string  `json:"_id,omitempty"`
	Brand    string  `json:"brand"`
	Model    string  `json:"model"`
	Year     int     `json:"year"`
	Mileage  float64 `json:"mileage"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"imageUrl,omitempty"`
}

// Validation bounds for car form fields.
const (
	BrandMinLen = 2
	BrandMaxLen = 30
	ModelMinLen = 2
	ModelMaxLen = 30
	YearMin     = 1870
)

// YearMax returns the upper bound for the model year field.
func YearMax(now time.Time) int {
	return now.Year()
}
