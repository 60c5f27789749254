package domain

import "time"

// ResourceType classifies a learning resource link.
type ResourceType string

const (
	ResourceLink     ResourceType = "link"
	ResourceDocument ResourceType = "document"
	ResourceVideo    ResourceType = "video"
)

// Topic is a single checklist entry inside a learning plan.
type Topic struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Resource is a study material attached to a learning plan.
type Resource struct {
	ID    string       `json:"id"`
	Title string       `json:"title"`
	URL   string       `json:"url"`
	Type  ResourceType `json:"type"`
}

// PlanOwner is the trimmed user summary embedded in a plan response.
type PlanOwner struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Username          string `json:"username"`
	ProfilePictureURL string `json:"profilePicture,omitempty"`
}

// LearningPlan is a structured topic checklist with resources that other
// users can follow.
type LearningPlan struct {
	ID                   string     `json:"id"`
	Title                string     `json:"title"`
	Description          string     `json:"description"`
	Subject              string     `json:"subject"`
	Topics               []Topic    `json:"topics"`
	Resources            []Resource `json:"resources"`
	CompletionPercentage int        `json:"completionPercentage"`
	EstimatedDays        int        `json:"estimatedDays"`
	Followers            int        `json:"followers"`
	CreatedAt            time.Time  `json:"createdAt"`
	UserID               string     `json:"userId"`
	Following            bool       `json:"following"`
	User                 PlanOwner  `json:"user"`
}

// Completion recomputes the completed-topic percentage from the checklist.
// An empty checklist counts as zero progress.
func (p *LearningPlan) Completion() int {
	if len(p.Topics) == 0 {
		return 0
	}
	done := 0
	for _, t := range p.Topics {
		if t.Completed {
			done++
		}
	}
	return done * 100 / len(p.Topics)
}
