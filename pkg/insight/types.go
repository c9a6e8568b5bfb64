package insight

import (
	"time"
)

// Type classifies what kind of coaching observation an insight is
type Type string

const (
	TypeImprovement Type = "improvement"
	TypeTraining    Type = "training"
	TypePraise      Type = "praise"
	TypeObservation Type = "observation"
)

// Priority is the coaching urgency of an insight
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ImpactLevel is the expected coaching impact of acting on an insight
type ImpactLevel string

const (
	ImpactLow    ImpactLevel = "low"
	ImpactMedium ImpactLevel = "medium"
	ImpactHigh   ImpactLevel = "high"
)

// Status tracks whether an insight's coaching action is outstanding.
// Only the ingestion path sets it; dashboard-path insights leave it empty.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Insight is one derived coaching observation about a single transcript.
// Insights are immutable once created.
type Insight struct {
	ID           string `json:"id"`
	TranscriptID string `json:"transcriptId"`

	// Fields below through CallTime are populated by the ingestion path only
	TranscriptFileName string `json:"transcriptFileName,omitempty"`
	AgentName          string `json:"agentName,omitempty"`
	CallTime           string `json:"callTime,omitempty"`

	Type     Type   `json:"type"`
	Category string `json:"category"`
	Title    string `json:"title,omitempty"`
	Message  string `json:"message"`

	Priority         Priority               `json:"priority"`
	AIConfidence     float64                `json:"aiConfidence"`
	ImpactLevel      ImpactLevel            `json:"impactLevel"`
	SuggestedActions []string               `json:"suggestedActions"`
	Metrics          map[string]interface{} `json:"metrics,omitempty"`
	CreatedAt        time.Time              `json:"createdAt"`
	Status           Status                 `json:"status,omitempty"`
}

// IsHighPriority reports whether the insight needs escalated attention
func (i *Insight) IsHighPriority() bool {
	return i.Priority == PriorityHigh
}
