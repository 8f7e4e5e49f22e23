package recruitai

import (
	"context"
	"fmt"
	"strings"
)

const authPath = "/auth"

type User struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// AuthResult is the response of every credential-issuing auth endpoint.
type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	return c.postAuth(ctx, "/login", map[string]string{
		"email":    email,
		"password": password,
	})
}

func (c *Client) Signup(ctx context.Context, name, email, password, role string) (*AuthResult, error) {
	return c.postAuth(ctx, "/signup", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
		"role":     role,
	})
}

// GoogleLogin exchanges a Google id token for a platform session.
func (c *Client) GoogleLogin(ctx context.Context, googleToken string) (*AuthResult, error) {
	return c.postAuth(ctx, "/google", map[string]string{
		"token": googleToken,
	})
}

func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email is required")
	}

	return c.postJSON(ctx, authPath+"/forgot-password", map[string]string{"email": email}, nil)
}

func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) error {
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("reset token is required")
	}

	return c.postJSON(ctx, authPath+"/reset-password", map[string]string{
		"token":       token,
		"newPassword": newPassword,
	}, nil)
}

func (c *Client) postAuth(ctx context.Context, path string, body map[string]string) (*AuthResult, error) {
	var result AuthResult
	if err := c.postJSON(ctx, authPath+path, body, &result); err != nil {
		return nil, err
	}

	if result.Token == "" {
		return nil, fmt.Errorf("auth response is missing a token")
	}

	return &result, nil
}
