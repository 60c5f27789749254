package api

import (
	"context"
	"sort"
	"sync"

	"github.com/skillnet-dev/skillnet-go/domain"
)

// NotificationService derives activity notifications for a user from the
// feed: likes and comments left by other users on their posts. Read state is
// client-local, the server keeps none.
type NotificationService struct {
	posts *PostService

	mu   sync.Mutex
	read map[string]bool
}

// NewNotificationService returns a NotificationService over posts.
func NewNotificationService(posts *PostService) *NotificationService {
	return &NotificationService{posts: posts, read: make(map[string]bool)}
}

// List builds the notification feed for userID, newest first.
func (s *NotificationService) List(ctx context.Context, userID string) ([]domain.Notification, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var notifications []domain.Notification
	for _, post := range posts {
		if post.UserID != userID {
			continue
		}
		for _, like := range post.Likes {
			if like.UserID == userID {
				continue
			}
			notifications = append(notifications, domain.Notification{
				ID:        "like:" + like.ID,
				Type:      domain.NotificationLike,
				Read:      s.read["like:"+like.ID],
				CreatedAt: like.CreatedAt,
				Actor:     domain.PlanOwner{ID: like.UserID},
				PostID:    post.ID,
			})
		}
		for _, comment := range post.Comments {
			if comment.UserID == userID {
				continue
			}
			notifications = append(notifications, domain.Notification{
				ID:        "comment:" + comment.ID,
				Type:      domain.NotificationComment,
				Read:      s.read["comment:"+comment.ID],
				CreatedAt: comment.CreatedAt,
				Actor:     domain.PlanOwner{ID: comment.UserID},
				PostID:    post.ID,
				Message:   comment.Content,
			})
		}
	}

	sort.Slice(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})
	return notifications, nil
}

// UnreadCount counts notifications not yet marked read.
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	notifications, err := s.List(ctx, userID)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, n := range notifications {
		if !n.Read {
			count++
		}
	}
	return count, nil
}

// MarkRead flags a notification as read.
func (s *NotificationService) MarkRead(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.read[id] = true
}

// MarkAllRead flags every listed notification id as read.
func (s *NotificationService) MarkAllRead(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		s.read[id] = true
	}
}
