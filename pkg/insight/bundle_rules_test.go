package insight

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vishalk7890/Support-IQ/pkg/transcript"
)

func bundleRecord(analytics *transcript.Analytics) *transcript.Record {
	return &transcript.Record{
		Key:     "parsedFiles/call-42.json",
		AgentID: "agent-1",
		Shape:   transcript.ShapeAnalyticsBundle,
		Segments: []transcript.Segment{
			seg(transcript.SpeakerAgent, "spk_1", 0, 5, nil),
			seg(transcript.SpeakerCustomer, "spk_0", 6, 10, nil),
		},
		Analytics: analytics,
	}
}

func TestEvaluateBundleRequiresAnalytics(t *testing.T) {
	now := time.Now()

	record := bundleRecord(nil)
	assert.Empty(t, EvaluateBundle(record, now, "abcd1234"))

	noSegments := bundleRecord(&transcript.Analytics{AgentName: "Jane"})
	noSegments.Segments = nil
	assert.Empty(t, EvaluateBundle(noSegments, now, "abcd1234"))
}

func TestEvaluateBundleNegativeSentiment(t *testing.T) {
	now := time.Now()

	record := bundleRecord(&transcript.Analytics{
		AgentName:         "Jane Doe",
		Duration:          180,
		ConversationTime:  "2026-08-01T10:00:00Z",
		CustomerSentiment: sentiment(-2.5),
	})

	insights := EvaluateBundle(record, now, "abcd1234")
	empathy := findByCategory(insights, "empathy")
	assert.NotNil(t, empathy)
	assert.Equal(t, "insight_parsedFiles_call-42.json_empathy_abcd1234", empathy.ID)
	assert.Equal(t, "call-42.json", empathy.TranscriptFileName)
	assert.Equal(t, "Jane Doe", empathy.AgentName)
	assert.Equal(t, "2026-08-01T10:00:00Z", empathy.CallTime)
	assert.Equal(t, "Low Customer Satisfaction Detected", empathy.Title)
	assert.Equal(t, StatusPending, empathy.Status)
	assert.Equal(t, -2.5, empathy.Metrics["customerSentiment"])

	// Exactly -2.0 does not fire
	record.Analytics.CustomerSentiment = sentiment(-2.0)
	assert.Nil(t, findByCategory(EvaluateBundle(record, now, "abcd1234"), "empathy"))

	// Absent sentiment never fires either branch
	record.Analytics.CustomerSentiment = nil
	insights = EvaluateBundle(record, now, "abcd1234")
	assert.Nil(t, findByCategory(insights, "empathy"))
	assert.Nil(t, findByCategory(insights, "customer_satisfaction"))
}

func TestEvaluateBundlePraise(t *testing.T) {
	now := time.Now()

	record := bundleRecord(&transcript.Analytics{
		AgentName:         "Jane Doe",
		CustomerSentiment: sentiment(3.5),
	})

	insights := EvaluateBundle(record, now, "abcd1234")
	praise := findByCategory(insights, "customer_satisfaction")
	assert.NotNil(t, praise)
	assert.Equal(t, TypePraise, praise.Type)
	assert.Equal(t, StatusCompleted, praise.Status)
	assert.Equal(t, PriorityLow, praise.Priority)

	// Exactly 3.0 does not fire
	record.Analytics.CustomerSentiment = sentiment(3.0)
	assert.Nil(t, findByCategory(EvaluateBundle(record, now, "abcd1234"), "customer_satisfaction"))
}

func TestEvaluateBundleTalkTime(t *testing.T) {
	now := time.Now()

	record := bundleRecord(&transcript.Analytics{
		AgentName:        "Jane Doe",
		AgentTalkTime:    80,
		CustomerTalkTime: 20,
	})

	insights := EvaluateBundle(record, now, "abcd1234")
	talk := findByCategory(insights, "active_listening")
	assert.NotNil(t, talk)
	assert.Contains(t, talk.Message, "80.0%")
	assert.InDelta(t, 0.8, talk.Metrics["agentTalkRatio"].(float64), 1e-9)

	// Missing customer talk time disables the rule
	record.Analytics.CustomerTalkTime = 0
	assert.Nil(t, findByCategory(EvaluateBundle(record, now, "abcd1234"), "active_listening"))
}

func TestEvaluateBundleCategoryCap(t *testing.T) {
	now := time.Now()

	record := bundleRecord(&transcript.Analytics{
		AgentName: "Jane Doe",
		Categories: []transcript.DetectedCategory{
			{Name: "Cancellation", Instances: 2},
			{Name: "Escalation", Instances: 1},
			{Name: "Refund", Instances: 1},
			{Name: "Retention", Instances: 4},
		},
	})

	insights := EvaluateBundle(record, now, "abcd1234")

	var categories []Insight
	for _, ins := range insights {
		if ins.Category == "call_analytics" {
			categories = append(categories, ins)
		}
	}
	assert.Len(t, categories, 3)
	assert.Equal(t, "insight_parsedFiles_call-42.json_category_Cancellation_abcd1234", categories[0].ID)
	assert.Equal(t, "Category Detected: Cancellation", categories[0].Title)
	assert.Equal(t, TypeObservation, categories[0].Type)
}

func TestEvaluateBundleIssueCap(t *testing.T) {
	now := time.Now()

	record := bundleRecord(&transcript.Analytics{
		AgentName: "Jane Doe",
		Issues: []transcript.DetectedIssue{
			{Text: "billing dispute"},
			{Text: "late delivery"},
			{Text: "refund delay"},
		},
	})

	insights := EvaluateBundle(record, now, "abcd1234")

	var issues []Insight
	for _, ins := range insights {
		if ins.Category == "issue_resolution" {
			issues = append(issues, ins)
		}
	}
	assert.Len(t, issues, 2)
	assert.Equal(t, "Issue Detected: billing dispute", issues[0].Title)
	assert.Equal(t, TypeTraining, issues[0].Type)
	assert.Equal(t, PriorityHigh, issues[0].Priority)
}

func TestEvaluateBundleCallTimeFallback(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	record := bundleRecord(&transcript.Analytics{
		AgentName:         "Jane Doe",
		CustomerSentiment: sentiment(-2.5),
	})

	insights := EvaluateBundle(record, now, "abcd1234")
	empathy := findByCategory(insights, "empathy")
	assert.NotNil(t, empathy)
	assert.Equal(t, now.Format(time.RFC3339), empathy.CallTime)
}
