package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillnet-dev/skillnet-go/domain"
)

// feedFixture serves a small feed: u1 owns p1 (liked by u2, commented by u2
// and by u1 themselves), u2 owns p2 (liked by u1).
func feedFixture(t *testing.T) http.Handler {
	t.Helper()
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"posts": []map[string]any{
				{
					"id":     "p1",
					"userId": "u1",
					"likes": []domain.Like{
						{ID: "l1", PostID: "p1", UserID: "u2", CreatedAt: base.Add(time.Hour)},
					},
					"comments": []domain.Comment{
						{ID: "c1", PostID: "p1", UserID: "u2", Content: "nice progress!", CreatedAt: base},
						{ID: "c2", PostID: "p1", UserID: "u1", Content: "thanks!", CreatedAt: base.Add(2 * time.Hour)},
					},
				},
				{
					"id":     "p2",
					"userId": "u2",
					"likes": []domain.Like{
						{ID: "l2", PostID: "p2", UserID: "u1", CreatedAt: base},
					},
				},
			},
		})
	})
}

func TestNotificationsDeriveFromOthersActivity(t *testing.T) {
	client := newTestTransport(t, feedFixture(t))
	svc := NewNotificationService(NewPostService(client))

	notifications, err := svc.List(context.Background(), "u1")
	require.NoError(t, err)

	// u1's own comment on their own post is not activity; u1's like on
	// u2's post belongs to u2's feed.
	require.Len(t, notifications, 2)

	// Newest first.
	assert.Equal(t, "like:l1", notifications[0].ID)
	assert.Equal(t, domain.NotificationLike, notifications[0].Type)
	assert.Equal(t, "u2", notifications[0].Actor.ID)

	assert.Equal(t, "comment:c1", notifications[1].ID)
	assert.Equal(t, domain.NotificationComment, notifications[1].Type)
	assert.Equal(t, "nice progress!", notifications[1].Message)
}

func TestNotificationsReadStateIsClientLocal(t *testing.T) {
	client := newTestTransport(t, feedFixture(t))
	svc := NewNotificationService(NewPostService(client))

	count, err := svc.UnreadCount(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	svc.MarkRead("like:l1")
	count, err = svc.UnreadCount(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	svc.MarkAllRead([]string{"like:l1", "comment:c1"})
	count, err = svc.UnreadCount(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// The read marks survive refetches of the feed.
	notifications, err := svc.List(context.Background(), "u1")
	require.NoError(t, err)
	for _, n := range notifications {
		assert.True(t, n.Read, "notification %s", n.ID)
	}
}
