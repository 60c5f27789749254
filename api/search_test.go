package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func searchFixture(t *testing.T) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/learning-plans", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{
			{
				"id":      "plan1",
				"title":   "Mastering Go Concurrency",
				"subject": "programming",
				"user":    map[string]any{"id": "u1", "name": "Jane Doe", "username": "jane.doe"},
			},
			{
				"id":          "plan2",
				"title":       "Watercolor Basics",
				"subject":     "art",
				"description": "brushes, paper, pigments",
				"user":        map[string]any{"id": "u2", "name": "Gopher Fan", "username": "gopher"},
			},
		})
	})
	mux.HandleFunc("/posts", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"posts": []map[string]any{
				{"id": "p1", "description": "finished the Go generics chapter", "userId": "u1"},
				{"id": "p2", "description": "first watercolor attempt", "userId": "u2"},
			},
		})
	})
	return mux
}

func TestSearchMatchesAcrossCollections(t *testing.T) {
	client := newTestTransport(t, searchFixture(t))
	svc := NewSearchService(NewPlanService(client), NewPostService(client))

	result, err := svc.Search(context.Background(), "go")
	require.NoError(t, err)

	require.Len(t, result.Plans, 1)
	assert.Equal(t, "plan1", result.Plans[0].ID)

	require.Len(t, result.Posts, 1)
	assert.Equal(t, "p1", result.Posts[0].ID)

	// "go" hits the plan owner "Gopher Fan" by name.
	require.Len(t, result.Users, 1)
	assert.Equal(t, "u2", result.Users[0].ID)
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	client := newTestTransport(t, searchFixture(t))
	svc := NewSearchService(NewPlanService(client), NewPostService(client))

	result, err := svc.Search(context.Background(), "  WATERCOLOR ")
	require.NoError(t, err)
	require.Len(t, result.Plans, 1)
	assert.Equal(t, "plan2", result.Plans[0].ID)
	require.Len(t, result.Posts, 1)
	assert.Equal(t, "p2", result.Posts[0].ID)
}

func TestSearchEmptyQueryReturnsNothing(t *testing.T) {
	// No server at all: an empty query must not fetch anything.
	svc := NewSearchService(nil, nil)

	result, err := svc.Search(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, result.Plans)
	assert.Empty(t, result.Posts)
	assert.Empty(t, result.Users)
}

func TestSearchByUsername(t *testing.T) {
	client := newTestTransport(t, searchFixture(t))
	svc := NewSearchService(NewPlanService(client), NewPostService(client))

	result, err := svc.Search(context.Background(), "jane.doe")
	require.NoError(t, err)
	require.Len(t, result.Users, 1)
	assert.Equal(t, "u1", result.Users[0].ID)
}
