package insight

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vishalk7890/Support-IQ/pkg/transcript"
)

func genericRecord(segments ...transcript.Segment) *transcript.Record {
	return &transcript.Record{
		Key:      "parsedFiles/call.json",
		AgentID:  "agent-1",
		Shape:    transcript.ShapeGeneric,
		Segments: segments,
	}
}

func findByCategory(insights []Insight, category string) *Insight {
	for i := range insights {
		if insights[i].Category == category {
			return &insights[i]
		}
	}
	return nil
}

func TestEvaluateGenericEmptyRecord(t *testing.T) {
	now := time.Now()

	assert.Empty(t, EvaluateGeneric(genericRecord(), now))

	// Records missing either speaker class yield nothing
	agentOnly := genericRecord(
		seg(transcript.SpeakerAgent, "agent", 0, 10, sentiment(-0.9)),
	)
	assert.Empty(t, EvaluateGeneric(agentOnly, now))

	customerOnly := genericRecord(
		seg(transcript.SpeakerCustomer, "customer", 0, 10, sentiment(-0.9)),
	)
	assert.Empty(t, EvaluateGeneric(customerOnly, now))
}

func TestEvaluateGenericNegativeSentiment(t *testing.T) {
	now := time.Now()

	record := genericRecord(
		seg(transcript.SpeakerCustomer, "customer", 0, 5, sentiment(-0.5)),
		seg(transcript.SpeakerAgent, "agent", 6, 10, sentiment(0.1)),
	)

	insights := EvaluateGeneric(record, now)
	empathy := findByCategory(insights, "empathy")
	assert.NotNil(t, empathy)
	assert.Equal(t, "insight_parsedFiles/call.json_empathy", empathy.ID)
	assert.Equal(t, TypeImprovement, empathy.Type)
	assert.Equal(t, PriorityHigh, empathy.Priority)
	assert.Equal(t, 0.87, empathy.AIConfidence)
	assert.Contains(t, empathy.Message, "score: -0.50")
	assert.Equal(t, now, empathy.CreatedAt)
}

func TestEvaluateGenericSentimentBoundary(t *testing.T) {
	now := time.Now()

	// Exactly -0.3 does not fire; strictly below does
	record := genericRecord(
		seg(transcript.SpeakerCustomer, "customer", 0, 5, sentiment(-0.3)),
		seg(transcript.SpeakerAgent, "agent", 6, 10, sentiment(0.0)),
	)
	assert.Nil(t, findByCategory(EvaluateGeneric(record, now), "empathy"))

	record.Segments[0].Sentiment = sentiment(-0.31)
	assert.NotNil(t, findByCategory(EvaluateGeneric(record, now), "empathy"))
}

func TestEvaluateGenericInterruptions(t *testing.T) {
	now := time.Now()

	// Four alternating speaker changes with tight gaps exceed the threshold
	record := genericRecord(
		seg(transcript.SpeakerAgent, "agent", 0, 1, sentiment(0.0)),
		seg(transcript.SpeakerCustomer, "customer", 1.2, 2, sentiment(0.0)),
		seg(transcript.SpeakerAgent, "agent", 2.1, 3, sentiment(0.0)),
		seg(transcript.SpeakerCustomer, "customer", 3.3, 4, sentiment(0.0)),
		seg(transcript.SpeakerAgent, "agent", 4.1, 5, sentiment(0.0)),
	)

	insights := EvaluateGeneric(record, now)
	interruption := findByCategory(insights, "interruption")
	assert.NotNil(t, interruption)
	assert.Equal(t, TypeTraining, interruption.Type)
	assert.Equal(t, PriorityMedium, interruption.Priority)
	assert.Contains(t, interruption.Message, "(4)")
}

func TestEvaluateGenericTalkTimeDominance(t *testing.T) {
	now := time.Now()

	record := genericRecord(
		seg(transcript.SpeakerAgent, "agent", 0, 8, sentiment(0.0)),
		seg(transcript.SpeakerCustomer, "customer", 10, 12, sentiment(0.0)),
	)

	insights := EvaluateGeneric(record, now)
	talkTime := findByCategory(insights, "talk_time")
	assert.NotNil(t, talkTime)
	assert.Contains(t, talkTime.Message, "80.0%")

	// Zero-duration segments never fire the rule
	zeroRecord := genericRecord(
		seg(transcript.SpeakerAgent, "agent", 5, 5, sentiment(0.0)),
		seg(transcript.SpeakerCustomer, "customer", 5, 5, sentiment(0.0)),
	)
	assert.Nil(t, findByCategory(EvaluateGeneric(zeroRecord, now), "talk_time"))
}

func TestEvaluateGenericPraise(t *testing.T) {
	now := time.Now()

	record := genericRecord(
		seg(transcript.SpeakerCustomer, "customer", 0, 5, sentiment(0.8)),
		seg(transcript.SpeakerAgent, "agent", 7, 10, sentiment(0.6)),
	)

	insights := EvaluateGeneric(record, now)
	praise := findByCategory(insights, "resolution")
	assert.NotNil(t, praise)
	assert.Equal(t, TypePraise, praise.Type)
	assert.Equal(t, PriorityLow, praise.Priority)
	assert.Equal(t, 0.95, praise.AIConfidence)

	// One interruption too many suppresses praise
	noisy := genericRecord(
		seg(transcript.SpeakerCustomer, "customer", 0, 2, sentiment(0.8)),
		seg(transcript.SpeakerAgent, "agent", 2.1, 3, sentiment(0.6)),
		seg(transcript.SpeakerCustomer, "customer", 3.2, 4, sentiment(0.8)),
		seg(transcript.SpeakerAgent, "agent", 4.1, 5, sentiment(0.6)),
	)
	assert.Nil(t, findByCategory(EvaluateGeneric(noisy, now), "resolution"))
}

func TestEvaluateGenericMultipleRulesFire(t *testing.T) {
	now := time.Now()

	// Negative sentiment and talk dominance together
	record := genericRecord(
		seg(transcript.SpeakerAgent, "agent", 0, 8, sentiment(0.0)),
		seg(transcript.SpeakerCustomer, "customer", 10, 12, sentiment(-0.6)),
	)

	insights := EvaluateGeneric(record, now)
	assert.NotNil(t, findByCategory(insights, "empathy"))
	assert.NotNil(t, findByCategory(insights, "talk_time"))
	assert.Len(t, insights, 2)
}
