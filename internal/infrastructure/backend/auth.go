package backend

import (
	"context"
	"net/http"
)

// AuthClient wraps POST /auth/login and POST /auth/register.
type AuthClient struct {
	c *Client
}

func NewAuthClient(c *Client) *AuthClient {
	return &AuthClient{c: c}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// Login exchanges credentials for a bearer token.
func (a *AuthClient) Login(ctx context.Context, email, password string) (string, error) {
	var resp loginResponse
	err := a.c.do(ctx, "login", http.MethodPost, "/auth/login", nil, "", loginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Token, nil
}

// Register creates a backend account. Role is optional; the backend
// defaults it.
func (a *AuthClient) Register(ctx context.Context, email, password, role string) error {
	return a.c.do(ctx, "register", http.MethodPost, "/auth/register", nil, "", registerRequest{Email: email, Password: password, Role: role}, nil)
}
