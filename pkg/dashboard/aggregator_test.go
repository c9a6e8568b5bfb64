package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vishalk7890/Support-IQ/pkg/insight"
)

func insightOfType(typ insight.Type, priority insight.Priority) insight.Insight {
	return insight.Insight{
		ID:       "insight_test",
		Type:     typ,
		Priority: priority,
	}
}

func TestEmptyDefaults(t *testing.T) {
	now := time.Now()

	analytics := Empty(now)
	assert.Equal(t, 0, analytics.TotalInsights)
	assert.Equal(t, 0, analytics.TotalTranscripts)
	assert.Equal(t, 3.0, analytics.CoachingEffectiveness.BeforeScore)
	assert.Equal(t, 3.0, analytics.CoachingEffectiveness.AfterScore)
	assert.Equal(t, 0.0, analytics.CoachingEffectiveness.Improvement)
	assert.NotNil(t, analytics.TopIssueCategories)
	assert.Empty(t, analytics.TopIssueCategories)
	assert.NotNil(t, analytics.AgentPerformanceTrends)
	assert.NotNil(t, analytics.Insights)
	assert.Equal(t, now, analytics.LastUpdated)
}

func TestAggregateCounts(t *testing.T) {
	now := time.Now()

	in := Input{
		Insights: []insight.Insight{
			insightOfType(insight.TypeImprovement, insight.PriorityHigh),
			insightOfType(insight.TypeTraining, insight.PriorityMedium),
			insightOfType(insight.TypePraise, insight.PriorityLow),
			insightOfType(insight.TypeImprovement, insight.PriorityHigh),
		},
		CategoryCounts: map[string]int{"empathy": 2, "resolution": 1},
		AgentScores:    map[string][]float64{"agent-1": {0.8}},
	}
	in.TotalTranscripts = 3

	analytics := Aggregate(in, now)
	assert.Equal(t, 4, analytics.TotalInsights)
	assert.Equal(t, 2, analytics.HighPriorityInsights)
	assert.Equal(t, 3, analytics.TotalTranscripts)

	// int(4 * 0.3) truncates to 1
	assert.Equal(t, 1, analytics.CompletedActionPlans)

	// (20 + 15 + 30 + 20) / 4 = 21.25, rounded to 21.3
	assert.Equal(t, 21.3, analytics.AverageImprovementScore)
}

func TestAggregateIsIdempotent(t *testing.T) {
	now := time.Now()

	in := Input{
		Insights: []insight.Insight{
			insightOfType(insight.TypePraise, insight.PriorityLow),
			insightOfType(insight.TypeImprovement, insight.PriorityHigh),
		},
		CategoryCounts:   map[string]int{"empathy": 1, "resolution": 1},
		AgentScores:      map[string][]float64{"agent-1": {0.5, 0.7}, "agent-2": {0.9}},
		TotalTranscripts: 2,
	}

	first := Aggregate(in, now)
	second := Aggregate(in, now)
	assert.Equal(t, first, second)
}

func TestTopCategoriesRankingAndCap(t *testing.T) {
	counts := map[string]int{
		"empathy":      5,
		"interruption": 3,
		"talk_time":    3,
		"resolution":   1,
		"compliance":   7,
		"escalation":   2,
	}

	ranked := topCategories(counts)
	assert.Len(t, ranked, 5)
	assert.Equal(t, "compliance", ranked[0].Category)
	assert.Equal(t, 7, ranked[0].Count)
	assert.Equal(t, "empathy", ranked[1].Category)

	// Equal counts break ties by name
	assert.Equal(t, "interruption", ranked[2].Category)
	assert.Equal(t, "talk_time", ranked[3].Category)

	assert.Equal(t, 0.0, ranked[0].Trend)
}

func TestAgentTrends(t *testing.T) {
	scores := map[string][]float64{
		"agent-aaaa-bbbb": {0.5, 0.7},
		"agent-2":         {0.9},
		"agent-empty":     {},
	}

	trends := agentTrends(scores)
	assert.Len(t, trends, 2)
	assert.Equal(t, "agent-2", trends[0].AgentID)
	assert.Equal(t, 90.0, trends[0].Trend)
	assert.Equal(t, "Agent agent-2", trends[0].AgentName)

	// Display name truncates long ids to 8 chars
	assert.Equal(t, "Agent agent-aa", trends[1].AgentName)
	assert.Equal(t, 60.0, trends[1].Trend)
}

func TestAgentTrendsCap(t *testing.T) {
	scores := map[string][]float64{
		"a": {0.1}, "b": {0.2}, "c": {0.3}, "d": {0.4},
		"e": {0.5}, "f": {0.6}, "g": {0.7}, "h": {0.8},
	}

	trends := agentTrends(scores)
	assert.Len(t, trends, 6)
	assert.Equal(t, "h", trends[0].AgentID)
	assert.Equal(t, "c", trends[5].AgentID)
}

func TestEffectiveness(t *testing.T) {
	// No insights uses fixed defaults
	eff := effectiveness(nil)
	assert.Equal(t, 3.0, eff.BeforeScore)
	assert.Equal(t, 3.5, eff.AfterScore)
	assert.Equal(t, 16.7, eff.Improvement)

	// Half praise: before = 2.5 + 0.5*1.5 = 3.25 -> 3.3 rounded,
	// after = 4.05 -> 4.1, improvement = 0.8/3.25*100 = 24.6
	eff = effectiveness([]insight.Insight{
		insightOfType(insight.TypePraise, insight.PriorityLow),
		insightOfType(insight.TypeImprovement, insight.PriorityHigh),
	})
	assert.Equal(t, 3.3, eff.BeforeScore)
	assert.Equal(t, 4.1, eff.AfterScore)
	assert.Equal(t, 24.6, eff.Improvement)

	// All praise caps after at 5.0
	eff = effectiveness([]insight.Insight{
		insightOfType(insight.TypePraise, insight.PriorityLow),
	})
	assert.Equal(t, 4.0, eff.BeforeScore)
	assert.Equal(t, 4.8, eff.AfterScore)
	assert.Equal(t, 20.0, eff.Improvement)
}

func TestCapInsights(t *testing.T) {
	big := make([]insight.Insight, 75)
	capped := capInsights(big)
	assert.Len(t, capped, 50)

	assert.NotNil(t, capInsights(nil))
	assert.Empty(t, capInsights(nil))
}
