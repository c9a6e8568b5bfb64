package dashboard

import (
	"time"

	"github.com/vishalk7890/Support-IQ/pkg/insight"
)

// CategoryCount is one entry in the top-issue-categories ranking. Trend is a
// placeholder zero until a historical store exists.
type CategoryCount struct {
	Category string  `json:"category"`
	Count    int     `json:"count"`
	Trend    float64 `json:"trend"`
}

// AgentTrend is one entry in the agent performance ranking; Trend is the
// agent's average score scaled to 0-100
type AgentTrend struct {
	AgentID   string  `json:"agentId"`
	AgentName string  `json:"agentName"`
	Trend     float64 `json:"trend"`
}

// Effectiveness holds the before/after coaching effectiveness scores
type Effectiveness struct {
	BeforeScore float64 `json:"beforeScore"`
	AfterScore  float64 `json:"afterScore"`
	Improvement float64 `json:"improvement"`
}

// Analytics is the dashboard-ready aggregate over all insights in view
type Analytics struct {
	TotalInsights           int               `json:"totalInsights"`
	HighPriorityInsights    int               `json:"highPriorityInsights"`
	CompletedActionPlans    int               `json:"completedActionPlans"`
	AverageImprovementScore float64           `json:"averageImprovementScore"`
	TopIssueCategories      []CategoryCount   `json:"topIssueCategories"`
	AgentPerformanceTrends  []AgentTrend      `json:"agentPerformanceTrends"`
	CoachingEffectiveness   Effectiveness     `json:"coachingEffectiveness"`
	Insights                []insight.Insight `json:"insights"`
	TotalTranscripts        int               `json:"totalTranscripts"`
	LastUpdated             time.Time         `json:"lastUpdated"`
	CacheExpiry             *time.Time        `json:"cacheExpiry,omitempty"`
}
