package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/skillnet-dev/skillnet-go/domain"
	"github.com/skillnet-dev/skillnet-go/dto"
	"github.com/skillnet-dev/skillnet-go/transport"
)

// UserService talks to the user profile endpoints.
type UserService struct {
	client *transport.Client
}

// NewUserService returns a UserService over client.
func NewUserService(client *transport.Client) *UserService {
	return &UserService{client: client}
}

// Profile fetches the profile document for userID.
func (s *UserService) Profile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	var profile domain.UserProfile
	path := fmt.Sprintf("/users/%s/profile", url.PathEscape(userID))
	if err := s.client.Get(ctx, path, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile writes profile fields for userID and returns the server's
// view of the updated document.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*domain.UserProfile, error) {
	var profile domain.UserProfile
	path := fmt.Sprintf("/users/%s/profile", url.PathEscape(userID))
	if err := s.client.Put(ctx, path, req, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}
