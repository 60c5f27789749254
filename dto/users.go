package dto

// UpdateProfileRequest edits the signed-in user's profile document.
type UpdateProfileRequest struct {
	FullName          string `json:"fullName,omitempty"`
	Bio               string `json:"bio,omitempty"`
	ProfilePictureURL string `json:"profilePictureUrl,omitempty"`
}
