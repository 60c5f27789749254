// Package dto holds the wire shapes exchanged with the SkillNet REST API.
package dto

import "github.com/skillnet-dev/skillnet-go/domain"

// LoginRequest is the credentials login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the credentials login result.
type LoginResponse struct {
	Success      bool         `json:"success"`
	User         *domain.User `json:"user,omitempty"`
	Token        string       `json:"token,omitempty"`
	RefreshToken string       `json:"refreshToken,omitempty"`
	Error        string       `json:"error,omitempty"`
}

// RefreshRequest exchanges a refresh token for a new access token.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// RefreshResponse carries the replacement access token.
type RefreshResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken,omitempty"`
}
