package api

import (
	"context"
	"net/http"

	"resolveit/internal/complaint"
	rerrors "resolveit/internal/errors"
)

type loginResponse struct {
	Status  string         `json:"status"`
	Message string         `json:"message"`
	Token   string         `json:"token"`
	User    complaint.User `json:"user"`
}

// Login authenticates against the backend and, on success, stores the
// token/user pair in the session store.
func (c *Client) Login(ctx context.Context, email, password string) (*complaint.User, error) {
	body := map[string]string{"email": email, "password": password}

	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &resp); err != nil {
		return nil, err
	}
	// The auth endpoints use a status string instead of the success flag.
	if resp.Status != "success" {
		return nil, rerrors.NewLoginFailedError(resp.Message, nil)
	}
	if err := c.session.Login(resp.Token, resp.User); err != nil {
		return nil, rerrors.NewLoginFailedError("failed to persist session", err)
	}
	return &resp.User, nil
}

type registerResponse struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Register creates a new USER account. The caller validates that the
// password confirmation matched before this is ever invoked.
func (c *Client) Register(ctx context.Context, name, email, password string) error {
	body := map[string]string{"name": name, "email": email, "password": password}

	var resp registerResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", body, &resp); err != nil {
		return err
	}
	if !resp.Success && resp.Status != "success" {
		return rerrors.NewAPIError(http.StatusOK, resp.Message)
	}
	return nil
}

// Logout clears the local session. Purely client-side: the backend keeps no
// session state beyond the token's own lifetime.
func (c *Client) Logout() error {
	return c.session.Logout()
}
