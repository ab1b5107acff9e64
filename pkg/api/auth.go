package api

import (
	"context"
	"errors"
	"net/http"

	"booklib/pkg/models"
)

type loginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

// Login exchanges credentials for a session. The caller is responsible for
// persisting it through the credential store.
func (c *Client) Login(ctx context.Context, username, password string) (models.Session, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", nil, map[string]string{
		"username": username,
		"password": password,
	}, &resp)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError {
			return models.Session{}, &AuthError{Message: "invalid username or password"}
		}
		return models.Session{}, err
	}
	return models.Session{Token: resp.Token, Role: resp.Role, Username: username}, nil
}

// Register creates an account. Rejections come back as *ValidationError
// tagged with the offending field.
func (c *Client) Register(ctx context.Context, username, email, password string) error {
	err := c.do(ctx, http.MethodPost, "/auth/register", nil, map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, nil)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError {
			return classifyValidation(apiErr.Code, apiErr.Message)
		}
		return err
	}
	return nil
}

// Me fetches the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (models.User, error) {
	var user models.User
	err := c.do(ctx, http.MethodGet, "/api/users/me", nil, nil, &user)
	return user, err
}
