package dto

import "github.com/skillnet-dev/skillnet-go/domain"

// LearningPlanRequest creates or replaces a learning plan.
type LearningPlanRequest struct {
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Subject       string            `json:"subject"`
	Topics        []domain.Topic    `json:"topics"`
	Resources     []domain.Resource `json:"resources"`
	EstimatedDays int               `json:"estimatedDays"`
	UserID        string            `json:"userId,omitempty"`
}
