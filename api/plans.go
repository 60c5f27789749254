package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/skillnet-dev/skillnet-go/domain"
	"github.com/skillnet-dev/skillnet-go/dto"
	"github.com/skillnet-dev/skillnet-go/transport"
)

// PlanService talks to the learning plan endpoints.
type PlanService struct {
	client *transport.Client
}

// NewPlanService returns a PlanService over client.
func NewPlanService(client *transport.Client) *PlanService {
	return &PlanService{client: client}
}

// List fetches every learning plan.
func (s *PlanService) List(ctx context.Context) ([]domain.LearningPlan, error) {
	var plans []domain.LearningPlan
	if err := s.client.Get(ctx, "/learning-plans", &plans); err != nil {
		return nil, err
	}
	return normalizePlans(plans), nil
}

// ForUser fetches the plans owned by userID.
func (s *PlanService) ForUser(ctx context.Context, userID string) ([]domain.LearningPlan, error) {
	var plans []domain.LearningPlan
	path := "/learning-plans/user?userId=" + url.QueryEscape(userID)
	if err := s.client.Get(ctx, path, &plans); err != nil {
		return nil, err
	}
	return normalizePlans(plans), nil
}

// Get fetches a single plan.
func (s *PlanService) Get(ctx context.Context, planID string) (*domain.LearningPlan, error) {
	var plan domain.LearningPlan
	if err := s.client.Get(ctx, "/learning-plans/"+url.PathEscape(planID), &plan); err != nil {
		return nil, err
	}
	plan.CompletionPercentage = plan.Completion()
	return &plan, nil
}

// Create publishes a new plan.
func (s *PlanService) Create(ctx context.Context, req dto.LearningPlanRequest) (*domain.LearningPlan, error) {
	var plan domain.LearningPlan
	if err := s.client.Post(ctx, "/learning-plans", req, &plan); err != nil {
		return nil, err
	}
	plan.CompletionPercentage = plan.Completion()
	return &plan, nil
}

// Update replaces a plan's content. Topic completion toggles go through here
// too; the completion percentage is recomputed from the checklist.
func (s *PlanService) Update(ctx context.Context, planID string, req dto.LearningPlanRequest) (*domain.LearningPlan, error) {
	var plan domain.LearningPlan
	if err := s.client.Put(ctx, "/learning-plans/"+url.PathEscape(planID), req, &plan); err != nil {
		return nil, err
	}
	plan.CompletionPercentage = plan.Completion()
	return &plan, nil
}

// Delete removes a plan.
func (s *PlanService) Delete(ctx context.Context, planID string) error {
	return s.client.Delete(ctx, "/learning-plans/"+url.PathEscape(planID), nil)
}

// Follow subscribes userID to a plan.
func (s *PlanService) Follow(ctx context.Context, planID, userID string) error {
	path := fmt.Sprintf("/learning-plans/%s/follow?userId=%s", url.PathEscape(planID), url.QueryEscape(userID))
	return s.client.Post(ctx, path, nil, nil)
}

// Unfollow unsubscribes userID from a plan.
func (s *PlanService) Unfollow(ctx context.Context, planID, userID string) error {
	path := fmt.Sprintf("/learning-plans/%s/unfollow?userId=%s", url.PathEscape(planID), url.QueryEscape(userID))
	return s.client.Post(ctx, path, nil, nil)
}

func normalizePlans(plans []domain.LearningPlan) []domain.LearningPlan {
	for i := range plans {
		plans[i].CompletionPercentage = plans[i].Completion()
	}
	return plans
}
