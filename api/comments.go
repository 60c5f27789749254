package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/skillnet-dev/skillnet-go/domain"
	"github.com/skillnet-dev/skillnet-go/dto"
	"github.com/skillnet-dev/skillnet-go/transport"
)

// CommentService talks to the comment endpoints.
type CommentService struct {
	client *transport.Client
}

// NewCommentService returns a CommentService over client.
func NewCommentService(client *transport.Client) *CommentService {
	return &CommentService{client: client}
}

// Create adds a comment to a post.
func (s *CommentService) Create(ctx context.Context, postID string, req dto.CommentRequest) (*domain.Comment, error) {
	var comment domain.Comment
	if err := s.client.Post(ctx, "/comments/"+url.PathEscape(postID), req, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByPost fetches all comments on a post.
func (s *CommentService) ListByPost(ctx context.Context, postID string) ([]domain.Comment, error) {
	var comments []domain.Comment
	if err := s.client.Get(ctx, "/comments/"+url.PathEscape(postID), &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// Update edits an existing comment. The server checks that userID owns it.
func (s *CommentService) Update(ctx context.Context, commentID, userID string, req dto.CommentRequest) error {
	path := fmt.Sprintf("/comments/%s/%s", url.PathEscape(commentID), url.PathEscape(userID))
	return s.client.Put(ctx, path, req, nil)
}

// Delete removes a comment. The server checks that userID owns it.
func (s *CommentService) Delete(ctx context.Context, commentID, userID string) error {
	path := fmt.Sprintf("/comments/%s/%s", url.PathEscape(commentID), url.PathEscape(userID))
	return s.client.Delete(ctx, path, nil)
}
