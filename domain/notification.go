package domain

import "time"

// NotificationType classifies an activity notification.
type NotificationType string

const (
	NotificationLike    NotificationType = "like"
	NotificationComment NotificationType = "comment"
	NotificationFollow  NotificationType = "follow"
)

// Notification is an activity event shown to the signed-in user.
type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"createdAt"`
	Actor     PlanOwner        `json:"user"`
	PostID    string           `json:"postId,omitempty"`
	Message   string           `json:"message,omitempty"`
}
