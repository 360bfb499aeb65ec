package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/carstock/admin-portal/internal/core/domain"
	"github.com/carstock/admin-portal/internal/core/ports"
)

// CarClient wraps the car CRUD endpoints.
type CarClient struct {
	c *Client
}

func NewCarClient(c *Client) *CarClient {
	return &CarClient{c: c}
}

// List fetches the full car collection, optionally server-sorted.
func (cc *CarClient) List(ctx context.Context, token string, q ports.ListCarsQuery) ([]domain.Car, error) {
	query := url.Values{}
	if q.SortBy != "" {
		query.Set("sortBy", q.SortBy)
	}
	if q.Order != "" {
		query.Set("order", q.Order)
	}

	var cars []domain.Car
	if err := cc.c.do(ctx, "list_cars", http.MethodGet, "/cars", query, token, nil, &cars); err != nil {
		return nil, err
	}
	return cars, nil
}

// Create posts a new car and returns it with the server-assigned ID.
func (cc *CarClient) Create(ctx context.Context, token string, car ports.CarPayload) (domain.Car, error) {
	var created domain.Car
	if err := cc.c.do(ctx, "create_car", http.MethodPost, "/cars", nil, token, car, &created); err != nil {
		return domain.Car{}, err
	}
	return created, nil
}

// Update replaces an existing car.
func (cc *CarClient) Update(ctx context.Context, token, id string, car ports.CarPayload) (domain.Car, error) {
	var updated domain.Car
	if err := cc.c.do(ctx, "update_car", http.MethodPut, "/cars/"+url.PathEscape(id), nil, token, car, &updated); err != nil {
		return domain.Car{}, err
	}
	return updated, nil
}

// Delete removes a car.
func (cc *CarClient) Delete(ctx context.Context, token, id string) error {
	return cc.c.do(ctx, "delete_car", http.MethodDelete, "/cars/"+url.PathEscape(id), nil, token, nil, nil)
}
