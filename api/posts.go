package api

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"time"

	"github.com/skillnet-dev/skillnet-go/domain"
	"github.com/skillnet-dev/skillnet-go/dto"
	"github.com/skillnet-dev/skillnet-go/transport"
)

var videoExt = regexp.MustCompile(`(?i)\.(mp4|webm|ogg)$`)

// PostService talks to the feed endpoints.
type PostService struct {
	client *transport.Client
}

// NewPostService returns a PostService over client.
func NewPostService(client *transport.Client) *PostService {
	return &PostService{client: client}
}

// CreatePost is the input for Create. File is optional; when set, the upload
// goes out as multipart form data.
type CreatePost struct {
	UserID      string
	Description string
	Filename    string
	File        io.Reader
}

// List fetches the whole feed, newest first as the server orders it. A
// missing posts array decodes as an empty feed.
func (s *PostService) List(ctx context.Context) ([]domain.Post, error) {
	var resp dto.PostsResponse
	if err := s.client.Get(ctx, "/posts", &resp); err != nil {
		return nil, err
	}
	posts := make([]domain.Post, 0, len(resp.Posts))
	for _, p := range resp.Posts {
		posts = append(posts, toPost(p))
	}
	return posts, nil
}

// Get fetches a single post.
func (s *PostService) Get(ctx context.Context, postID string) (*domain.Post, error) {
	var resp dto.PostResponse
	if err := s.client.Get(ctx, "/posts/"+url.PathEscape(postID), &resp); err != nil {
		return nil, err
	}
	post := toPost(resp.Post)
	return &post, nil
}

// Create uploads a new post, with media when a file is attached.
func (s *PostService) Create(ctx context.Context, req CreatePost) (*domain.Post, error) {
	form := transport.NewForm().
		Set("description", req.Description).
		Set("userId", req.UserID).
		File("file", req.Filename, req.File)

	var resp dto.PostResponse
	if err := s.client.PostForm(ctx, "/posts/upload", form, &resp); err != nil {
		return nil, err
	}
	post := toPost(resp.Post)
	return &post, nil
}

// Update edits a post's description.
func (s *PostService) Update(ctx context.Context, postID, description string) error {
	return s.client.Put(ctx, "/posts/"+url.PathEscape(postID), dto.UpdatePostRequest{Description: description}, nil)
}

// Delete removes a post.
func (s *PostService) Delete(ctx context.Context, postID string) error {
	return s.client.Delete(ctx, "/posts/"+url.PathEscape(postID), nil)
}

// Like records the signed-in user's like on a post.
func (s *PostService) Like(ctx context.Context, postID, userID string) error {
	path := fmt.Sprintf("/posts/%s/like?userId=%s", url.PathEscape(postID), url.QueryEscape(userID))
	return s.client.Post(ctx, path, nil, nil)
}

// Unlike removes the signed-in user's like from a post.
func (s *PostService) Unlike(ctx context.Context, postID, userID string) error {
	path := fmt.Sprintf("/posts/%s/like?userId=%s", url.PathEscape(postID), url.QueryEscape(userID))
	return s.client.Delete(ctx, path, nil)
}

// toPost maps a wire payload to the domain shape, deriving the media entry
// from the upload URL the way the web feed renders it.
func toPost(p dto.PostPayload) domain.Post {
	post := domain.Post{
		ID:          p.ID,
		Description: p.Description,
		URL:         p.URL,
		UserID:      p.UserID,
		Comments:    p.Comments,
		Likes:       p.Likes,
	}
	if post.Comments == nil {
		post.Comments = []domain.Comment{}
	}
	if post.Likes == nil {
		post.Likes = []domain.Like{}
	}
	if ts, err := time.Parse(time.RFC3339, p.Date); err == nil {
		post.Date = ts
	}
	if p.URL != "" {
		mediaType := domain.MediaImage
		if videoExt.MatchString(p.URL) {
			mediaType = domain.MediaVideo
		}
		post.Media = []domain.Media{{ID: p.ID, Type: mediaType, URL: p.URL}}
	}
	return post
}
