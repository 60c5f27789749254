package dto

import "github.com/skillnet-dev/skillnet-go/domain"

// PostsResponse wraps the feed listing.
type PostsResponse struct {
	Posts []PostPayload `json:"posts"`
}

// PostResponse wraps a single post fetch or mutation result.
type PostResponse struct {
	Post PostPayload `json:"post"`
}

// PostPayload is the raw post document as the server sends it; the media
// list is derived client-side from the upload URL.
type PostPayload struct {
	ID          string           `json:"id"`
	Description string           `json:"description"`
	URL         string           `json:"url,omitempty"`
	UserID      string           `json:"userId"`
	Date        string           `json:"date"`
	Comments    []domain.Comment `json:"comments"`
	Likes       []domain.Like    `json:"likes"`
}

// UpdatePostRequest edits a post's description.
type UpdatePostRequest struct {
	Description string `json:"description"`
}

// CommentRequest creates or edits a comment.
type CommentRequest struct {
	UserID  string `json:"userId"`
	Content string `json:"content"`
}
