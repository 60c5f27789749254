package domain

import "time"

// MediaType classifies an attachment on a post.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// Post is a skill update shared to the feed, optionally carrying media.
type Post struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	URL         string    `json:"url,omitempty"`
	UserID      string    `json:"userId"`
	Date        time.Time `json:"date"`
	Comments    []Comment `json:"comments"`
	Likes       []Like    `json:"likes"`
	Media       []Media   `json:"media,omitempty"`
}

// Media is a resolved attachment derived from the post's upload URL.
type Media struct {
	ID        string    `json:"id"`
	Type      MediaType `json:"type"`
	URL       string    `json:"url"`
	Thumbnail string    `json:"thumbnail,omitempty"`
}

// Like marks a user's like on a post.
type Like struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Comment is a user comment attached to a post.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// LikedBy reports whether userID has liked the post.
func (p *Post) LikedBy(userID string) bool {
	for _, l := range p.Likes {
		if l.UserID == userID {
			return true
		}
	}
	return false
}
