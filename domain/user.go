package domain

// User is the authoritative in-memory representation of the signed-in
// identity. ID must be non-empty whenever the record is considered logged in;
// every other field may hold placeholder values during bootstrap.
type User struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Username          string   `json:"username"`
	Email             string   `json:"email"`
	ProfilePictureURL string   `json:"profilePictureUrl,omitempty"`
	Bio               string   `json:"bio,omitempty"`
	Skills            []string `json:"skills,omitempty"`
}

// LoggedIn reports whether the record represents an authenticated identity.
func (u *User) LoggedIn() bool {
	return u != nil && u.ID != ""
}

// UserProfile is the server-side profile document attached to a user.
type UserProfile struct {
	ID                string `json:"id"`
	UserID            string `json:"userId"`
	FullName          string `json:"fullName,omitempty"`
	Bio               string `json:"bio,omitempty"`
	ProfilePictureURL string `json:"profilePictureUrl,omitempty"`
}

// MergeProfile combines a base user with profile fields fetched from the
// profile endpoint. Profile values win where present.
func MergeProfile(user User, profile UserProfile) User {
	merged := user
	if profile.FullName != "" {
		merged.Name = profile.FullName
	}
	if profile.Bio != "" {
		merged.Bio = profile.Bio
	}
	if profile.ProfilePictureURL != "" {
		merged.ProfilePictureURL = profile.ProfilePictureURL
	}
	return merged
}
