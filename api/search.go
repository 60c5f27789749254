package api

import (
	"context"
	"strings"

	"github.com/skillnet-dev/skillnet-go/domain"
)

// SearchService filters fetched collections by a free-text query, the way
// the web app's search page does. There is no server-side search endpoint.
type SearchService struct {
	plans *PlanService
	posts *PostService
}

// NewSearchService returns a SearchService over plans and posts.
func NewSearchService(plans *PlanService, posts *PostService) *SearchService {
	return &SearchService{plans: plans, posts: posts}
}

// SearchResult groups everything matching a query.
type SearchResult struct {
	Plans []domain.LearningPlan `json:"plans"`
	Posts []domain.Post         `json:"posts"`
	Users []domain.PlanOwner    `json:"users"`
}

// Search matches query case-insensitively against plan titles, subjects and
// descriptions, post descriptions, and plan owners' names.
func (s *SearchService) Search(ctx context.Context, query string) (*SearchResult, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	result := &SearchResult{}
	if query == "" {
		return result, nil
	}

	plans, err := s.plans.List(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	for _, plan := range plans {
		if containsFold(plan.Title, query) || containsFold(plan.Subject, query) || containsFold(plan.Description, query) {
			result.Plans = append(result.Plans, plan)
		}
		owner := plan.User
		if owner.ID != "" && !seen[owner.ID] &&
			(containsFold(owner.Name, query) || containsFold(owner.Username, query)) {
			seen[owner.ID] = true
			result.Users = append(result.Users, owner)
		}
	}

	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, post := range posts {
		if containsFold(post.Description, query) {
			result.Posts = append(result.Posts, post)
		}
	}

	return result, nil
}

func containsFold(haystack, loweredNeedle string) bool {
	return strings.Contains(strings.ToLower(haystack), loweredNeedle)
}
