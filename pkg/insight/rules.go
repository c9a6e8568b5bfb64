package insight

import (
	"fmt"
	"time"

	"github.com/vishalk7890/Support-IQ/pkg/transcript"
)

// Generic-shape rule thresholds. These operate on the -1..1 segment
// sentiment scale; the analytics-bundle rules in bundle_rules.go use the raw
// upstream scale and have their own thresholds.
const (
	negativeSentimentThreshold = -0.3
	maxInterruptions           = 3
	talkRatioThreshold         = 0.7
	praiseCustomerSentiment    = 0.5
	praiseAgentSentiment       = 0.3
	praiseMaxInterruptions     = 1
)

// EvaluateGeneric runs the generic-shape rule set over one transcript and
// returns its insights. Rules are ordered and independent; each fires at
// most once. Evaluation is pure: no persistence, no side effects.
func EvaluateGeneric(record *transcript.Record, now time.Time) []Insight {
	var insights []Insight

	if !record.HasSegments() {
		return insights
	}

	agentSegments := record.SegmentsBySpeaker(transcript.SpeakerAgent)
	customerSegments := record.SegmentsBySpeaker(transcript.SpeakerCustomer)
	if len(agentSegments) == 0 || len(customerSegments) == 0 {
		return insights
	}

	sig := ExtractSignals(record.Segments)

	// Rule 1: negative customer sentiment
	if sig.CustomerSentimentAvg < negativeSentimentThreshold {
		insights = append(insights, Insight{
			ID:           fmt.Sprintf("insight_%s_empathy", record.Key),
			TranscriptID: record.Key,
			Type:         TypeImprovement,
			Category:     "empathy",
			Message: fmt.Sprintf(
				"Customer expressed negative sentiment (score: %.2f). Consider using more empathy statements and acknowledging customer emotions.",
				sig.CustomerSentimentAvg),
			Priority:     PriorityHigh,
			AIConfidence: 0.87,
			ImpactLevel:  ImpactHigh,
			SuggestedActions: []string{
				"Practice active listening techniques",
				"Use empathy phrases like \"I understand how frustrating this must be\"",
				"Acknowledge customer emotions before problem-solving",
			},
			CreatedAt: now,
		})
	}

	// Rule 2: high interruption count
	if sig.InterruptionCount > maxInterruptions {
		insights = append(insights, Insight{
			ID:           fmt.Sprintf("insight_%s_interruption", record.Key),
			TranscriptID: record.Key,
			Type:         TypeTraining,
			Category:     "interruption",
			Message: fmt.Sprintf(
				"High interruption count (%d). Allow customers to finish their thoughts before responding.",
				sig.InterruptionCount),
			Priority:     PriorityMedium,
			AIConfidence: 0.92,
			ImpactLevel:  ImpactMedium,
			SuggestedActions: []string{
				"Practice the 3-second pause technique",
				"Use verbal acknowledgments instead of interrupting",
				"Take notes while customer speaks",
			},
			CreatedAt: now,
		})
	}

	// Rule 3: agent talk dominance; skipped when total talk time is zero
	if sig.TalkRatioValid && sig.AgentTalkRatio > talkRatioThreshold {
		insights = append(insights, Insight{
			ID:           fmt.Sprintf("insight_%s_talktime", record.Key),
			TranscriptID: record.Key,
			Type:         TypeImprovement,
			Category:     "talk_time",
			Message: fmt.Sprintf(
				"Agent dominated conversation (%.1f%% talk time). Encourage more customer engagement.",
				sig.AgentTalkRatio*100),
			Priority:     PriorityMedium,
			AIConfidence: 0.85,
			ImpactLevel:  ImpactMedium,
			SuggestedActions: []string{
				"Ask more open-ended questions",
				"Use strategic silence to encourage input",
				"Practice active listening",
			},
			CreatedAt: now,
		})
	}

	// Rule 4: overall positive call
	if sig.CustomerSentimentAvg > praiseCustomerSentiment &&
		sig.AgentSentimentAvg > praiseAgentSentiment &&
		sig.InterruptionCount <= praiseMaxInterruptions {
		insights = append(insights, Insight{
			ID:           fmt.Sprintf("insight_%s_praise", record.Key),
			TranscriptID: record.Key,
			Type:         TypePraise,
			Category:     "resolution",
			Message:      "Excellent call handling! Great balance of empathy, professionalism, and customer satisfaction.",
			Priority:     PriorityLow,
			AIConfidence: 0.95,
			ImpactLevel:  ImpactLow,
			SuggestedActions: []string{
				"Continue current approach",
				"Share best practices with team",
				"Consider mentoring newer agents",
			},
			CreatedAt: now,
		})
	}

	return insights
}
