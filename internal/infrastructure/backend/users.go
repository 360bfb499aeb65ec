package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/carstock/admin-portal/internal/core/domain"
)

// UserClient wraps the admin-only user endpoints. The backend answers
// 403 for non-admin tokens; that surfaces as domain.ErrForbidden.
type UserClient struct {
	c *Client
}

func NewUserClient(c *Client) *UserClient {
	return &UserClient{c: c}
}

// List fetches all user accounts.
func (uc *UserClient) List(ctx context.Context, token string) ([]domain.User, error) {
	var users []domain.User
	if err := uc.c.do(ctx, "list_users", http.MethodGet, "/users", nil, token, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Delete removes a user account.
func (uc *UserClient) Delete(ctx context.Context, token, id string) error {
	return uc.c.do(ctx, "delete_user", http.MethodDelete, "/users/"+url.PathEscape(id), nil, token, nil, nil)
}
