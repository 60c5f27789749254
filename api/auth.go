// Package api provides typed wrappers over the SkillNet REST surface. Each
// service is a thin request/response layer; session state lives in the
// session package, never here.
package api

import (
	"context"
	"errors"
	"net/http"

	apierr "github.com/skillnet-dev/skillnet-go/errors"

	"github.com/skillnet-dev/skillnet-go/domain"
	"github.com/skillnet-dev/skillnet-go/dto"
	"github.com/skillnet-dev/skillnet-go/transport"
)

// AuthService talks to the authentication endpoints.
type AuthService struct {
	client *transport.Client
}

// NewAuthService returns an AuthService over client.
func NewAuthService(client *transport.Client) *AuthService {
	return &AuthService{client: client}
}

// Me fetches the identity behind the current token. A 401 or 404 means "no
// identity" and reports (nil, nil) so callers can fall back to local state
// without inspecting errors.
func (s *AuthService) Me(ctx context.Context) (*domain.User, error) {
	var user domain.User
	err := s.client.Get(ctx, "/auth/me", &user)
	if err != nil {
		var httpErr *apierr.HTTPError
		if errors.As(err, &httpErr) &&
			(httpErr.Status == http.StatusUnauthorized || httpErr.Status == http.StatusNotFound) {
			return nil, nil
		}
		var authErr *apierr.AuthError
		if errors.As(err, &authErr) {
			return nil, nil
		}
		return nil, err
	}
	if user.ID == "" {
		return nil, nil
	}
	return &user, nil
}

// Login exchanges credentials for a session. Server-rejected credentials
// come back inside the response, not as an error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*dto.LoginResponse, error) {
	var resp dto.LoginResponse
	err := s.client.Post(ctx, "/auth/login", dto.LoginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		var httpErr *apierr.HTTPError
		if errors.As(err, &httpErr) && httpErr.Status == http.StatusUnauthorized {
			return &dto.LoginResponse{Success: false, Error: "invalid email or password"}, nil
		}
		return nil, err
	}
	return &resp, nil
}
