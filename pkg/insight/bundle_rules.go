package insight

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/vishalk7890/Support-IQ/pkg/transcript"
)

// Analytics-bundle rule thresholds. Upstream sentiment trend scores are on
// the raw call-analytics scale (roughly -5..5); there is no documented
// conversion to the -1..1 segment scale, so the two rule sets keep their own
// thresholds.
const (
	bundleNegativeSentiment = -2.0
	bundlePositiveSentiment = 3.0
	maxCategoryInsights     = 3
	maxIssueInsights        = 2
)

// EvaluateBundle runs the analytics-bundle rule set over one transcript,
// reading precomputed trend data instead of re-deriving it from segments.
// Rules whose upstream data is absent are skipped. idSuffix keeps ids unique
// across repeated processing of the same key.
func EvaluateBundle(record *transcript.Record, now time.Time, idSuffix string) []Insight {
	var insights []Insight

	if !record.HasSegments() || record.Analytics == nil {
		return insights
	}

	analytics := record.Analytics
	keyID := strings.ReplaceAll(record.Key, "/", "_")
	fileName := path.Base(record.Key)
	callTime := analytics.ConversationTime
	if callTime == "" {
		callTime = now.Format(time.RFC3339)
	}

	// Rule 1: negative customer sentiment (raw upstream scale)
	if analytics.CustomerSentiment != nil && *analytics.CustomerSentiment < bundleNegativeSentiment {
		insights = append(insights, Insight{
			ID:                 fmt.Sprintf("insight_%s_empathy_%s", keyID, idSuffix),
			TranscriptID:       record.Key,
			TranscriptFileName: fileName,
			AgentName:          analytics.AgentName,
			CallTime:           callTime,
			Type:               TypeImprovement,
			Category:           "empathy",
			Title:              "Low Customer Satisfaction Detected",
			Message: fmt.Sprintf(
				"Customer showed negative sentiment (score: %.2f). Review call for empathy opportunities.",
				*analytics.CustomerSentiment),
			Priority:     PriorityHigh,
			AIConfidence: 0.89,
			ImpactLevel:  ImpactHigh,
			SuggestedActions: []string{
				"Practice active listening and acknowledgment",
				"Use empathy phrases: \"I understand how frustrating this is\"",
				"Validate customer emotions before problem-solving",
				"Review call recording for tone and pacing",
			},
			Metrics: map[string]interface{}{
				"customerSentiment": *analytics.CustomerSentiment,
				"callDuration":      analytics.Duration,
			},
			CreatedAt: now,
			Status:    StatusPending,
		})
	}

	// Rule 2: excellent customer experience
	if analytics.CustomerSentiment != nil && *analytics.CustomerSentiment > bundlePositiveSentiment {
		insights = append(insights, Insight{
			ID:                 fmt.Sprintf("insight_%s_praise_%s", keyID, idSuffix),
			TranscriptID:       record.Key,
			TranscriptFileName: fileName,
			AgentName:          analytics.AgentName,
			CallTime:           callTime,
			Type:               TypePraise,
			Category:           "customer_satisfaction",
			Title:              "Outstanding Customer Satisfaction",
			Message: fmt.Sprintf(
				"Excellent customer sentiment (score: %.2f)! Great job maintaining positive rapport.",
				*analytics.CustomerSentiment),
			Priority:     PriorityLow,
			AIConfidence: 0.95,
			ImpactLevel:  ImpactLow,
			SuggestedActions: []string{
				"Share best practices with team",
				"Document techniques used in this call",
				"Consider for agent recognition program",
				"Use as training example",
			},
			Metrics: map[string]interface{}{
				"customerSentiment": *analytics.CustomerSentiment,
				"callDuration":      analytics.Duration,
			},
			CreatedAt: now,
			Status:    StatusCompleted,
		})
	}

	// Rule 3: talk time imbalance; requires both totals to be nonzero
	if analytics.AgentTalkTime > 0 && analytics.CustomerTalkTime > 0 {
		totalTalk := analytics.AgentTalkTime + analytics.CustomerTalkTime
		agentRatio := analytics.AgentTalkTime / totalTalk

		if agentRatio > talkRatioThreshold {
			insights = append(insights, Insight{
				ID:                 fmt.Sprintf("insight_%s_talktime_%s", keyID, idSuffix),
				TranscriptID:       record.Key,
				TranscriptFileName: fileName,
				AgentName:          analytics.AgentName,
				CallTime:           callTime,
				Type:               TypeImprovement,
				Category:           "active_listening",
				Title:              "High Agent Talk Time Ratio",
				Message: fmt.Sprintf(
					"Agent spoke %.1f%% of the time. Consider asking more open-ended questions.",
					agentRatio*100),
				Priority:     PriorityMedium,
				AIConfidence: 0.87,
				ImpactLevel:  ImpactMedium,
				SuggestedActions: []string{
					"Use open-ended questions to encourage customer input",
					"Practice strategic silence after questions",
					"Avoid over-explaining - check for understanding instead",
					"Balance information-giving with active listening",
				},
				Metrics: map[string]interface{}{
					"agentTalkTime":    analytics.AgentTalkTime,
					"customerTalkTime": analytics.CustomerTalkTime,
					"agentTalkRatio":   agentRatio,
				},
				CreatedAt: now,
				Status:    StatusPending,
			})
		}
	}

	// Rule 4: detected categories, capped at the first three
	for i, category := range analytics.Categories {
		if i >= maxCategoryInsights {
			break
		}

		insights = append(insights, Insight{
			ID:                 fmt.Sprintf("insight_%s_category_%s_%s", keyID, category.Name, idSuffix),
			TranscriptID:       record.Key,
			TranscriptFileName: fileName,
			AgentName:          analytics.AgentName,
			CallTime:           callTime,
			Type:               TypeObservation,
			Category:           "call_analytics",
			Title:              fmt.Sprintf("Category Detected: %s", category.Name),
			Message: fmt.Sprintf(
				"Call matched category %q (%d instances). Review for compliance/quality.",
				category.Name, category.Instances),
			Priority:     PriorityMedium,
			AIConfidence: 0.92,
			ImpactLevel:  ImpactMedium,
			SuggestedActions: []string{
				fmt.Sprintf("Review category rules for %s", category.Name),
				"Check if handling was appropriate",
				"Update knowledge base if needed",
				"Monitor trend across similar calls",
			},
			Metrics: map[string]interface{}{
				"categoryName": category.Name,
				"instances":    category.Instances,
			},
			CreatedAt: now,
			Status:    StatusPending,
		})
	}

	// Rule 5: detected issues, capped at the first two
	for i, issue := range analytics.Issues {
		if i >= maxIssueInsights {
			break
		}

		title := issue.Text
		if title == "" {
			title = "Unknown issue"
		}

		insights = append(insights, Insight{
			ID:                 fmt.Sprintf("insight_%s_issue_%s", keyID, idSuffix),
			TranscriptID:       record.Key,
			TranscriptFileName: fileName,
			AgentName:          analytics.AgentName,
			CallTime:           callTime,
			Type:               TypeTraining,
			Category:           "issue_resolution",
			Title:              fmt.Sprintf("Issue Detected: %s", title),
			Message:            "Transcribe detected a customer issue. Review resolution approach.",
			Priority:           PriorityHigh,
			AIConfidence:       0.91,
			ImpactLevel:        ImpactHigh,
			SuggestedActions: []string{
				"Review issue resolution process",
				"Check if escalation was needed",
				"Update troubleshooting guides",
				"Consider additional training on this issue type",
			},
			Metrics: map[string]interface{}{
				"issueText": issue.Text,
			},
			CreatedAt: now,
			Status:    StatusPending,
		})
	}

	return insights
}
