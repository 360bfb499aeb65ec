package ports

import (
	"context"
	"io"

	"github.com/carstock/admin-portal/internal/core/domain"
)

// CarPayload is the request body for create/update car calls.
// The backend assigns the ID; the payload never carries one.
type CarPayload struct {
	Brand    string  `json:"brand"`
	Model    string  `json:"model"`
	Year     int     `json:"year"`
	Mileage  float64 `json:"mileage"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"imageUrl,omitempty"`
}

// ListCarsQuery carries the optional sort parameters of GET /cars.
type ListCarsQuery struct {
	SortBy string
	Order  string
}

// AuthAPI wraps the backend's authentication endpoints. Both calls are
// unauthenticated; the returned token is the only credential the portal
// ever holds.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (token string, err error)
	Register(ctx context.Context, email, password, role string) error
}

// CarAPI wraps the backend's car CRUD endpoints.
type CarAPI interface {
	List(ctx context.Context, token string, q ListCarsQuery) ([]domain.Car, error)
	Create(ctx context.Context, token string, car CarPayload) (domain.Car, error)
	Update(ctx context.Context, token, id string, car CarPayload) (domain.Car, error)
	Delete(ctx context.Context, token, id string) error
}

// UserAPI wraps the admin-only user endpoints. Both return
// domain.ErrForbidden when the backend answers 403.
type UserAPI interface {
	List(ctx context.Context, token string) ([]domain.User, error)
	Delete(ctx context.Context, token, id string) error
}

// UploadAPI wraps image storage: multipart upload of a new image and
// reissue of an expiring signed URL from its stable storage key.
type UploadAPI interface {
	Upload(ctx context.Context, token, filename string, file io.Reader) (imageURL string, err error)
	RefreshURL(ctx context.Context, token, key string) (imageURL string, err error)
}
