package dashboard

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/vishalk7890/Support-IQ/pkg/insight"
)

const (
	// completedPlansRatio is a declared policy approximation: 30% of
	// insights are assumed to have a completed action plan. There is no
	// measured completion source.
	completedPlansRatio = 0.3

	// maxDashboardInsights caps the insight list returned with the aggregate
	maxDashboardInsights = 50

	maxTopCategories = 5
	maxAgentTrends   = 6
)

// improvementWeights maps insight types to their contribution to the
// average improvement score
var improvementWeights = map[insight.Type]float64{
	insight.TypePraise:      30,
	insight.TypeImprovement: 20,
	insight.TypeTraining:    15,
}

const defaultImprovementWeight = 15

// Input carries everything the aggregator needs for one evaluation window
type Input struct {
	// Insights across all transcripts, most-recent-first; the aggregator
	// does not re-sort
	Insights []insight.Insight

	// CategoryCounts maps insight category to its occurrence count
	CategoryCounts map[string]int

	// AgentScores maps agent id to its per-transcript score samples (0..1)
	AgentScores map[string][]float64

	// TotalTranscripts is the number of transcripts successfully read
	TotalTranscripts int
}

// Aggregate combines one evaluation window's insights into the dashboard
// summary. Pure function of its input and the supplied timestamp; running it
// twice on the same input yields identical output.
func Aggregate(in Input, now time.Time) *Analytics {
	return &Analytics{
		TotalInsights:           len(in.Insights),
		HighPriorityInsights:    countHighPriority(in.Insights),
		CompletedActionPlans:    int(float64(len(in.Insights)) * completedPlansRatio),
		AverageImprovementScore: improvementScore(in.Insights),
		TopIssueCategories:      topCategories(in.CategoryCounts),
		AgentPerformanceTrends:  agentTrends(in.AgentScores),
		CoachingEffectiveness:   effectiveness(in.Insights),
		Insights:                capInsights(in.Insights),
		TotalTranscripts:        in.TotalTranscripts,
		LastUpdated:             now,
	}
}

// Empty returns the aggregate for a store with no transcripts
func Empty(now time.Time) *Analytics {
	return &Analytics{
		TopIssueCategories:     []CategoryCount{},
		AgentPerformanceTrends: []AgentTrend{},
		CoachingEffectiveness: Effectiveness{
			BeforeScore: 3.0,
			AfterScore:  3.0,
			Improvement: 0,
		},
		Insights:    []insight.Insight{},
		LastUpdated: now,
	}
}

func countHighPriority(insights []insight.Insight) int {
	count := 0
	for _, ins := range insights {
		if ins.IsHighPriority() {
			count++
		}
	}
	return count
}

// improvementScore is the mean per-type improvement weight, rounded to one
// decimal; 0.0 with no insights
func improvementScore(insights []insight.Insight) float64 {
	if len(insights) == 0 {
		return 0.0
	}

	var total float64
	for _, ins := range insights {
		weight, ok := improvementWeights[ins.Type]
		if !ok {
			weight = defaultImprovementWeight
		}
		total += weight
	}

	return round1(total / float64(len(insights)))
}

// topCategories ranks categories by descending count, capped at five.
// Ties break on category name so the ranking is stable across runs.
func topCategories(counts map[string]int) []CategoryCount {
	ranked := make([]CategoryCount, 0, len(counts))
	for category, count := range counts {
		ranked = append(ranked, CategoryCount{Category: category, Count: count})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Category < ranked[j].Category
	})

	if len(ranked) > maxTopCategories {
		ranked = ranked[:maxTopCategories]
	}
	return ranked
}

// agentTrends averages each agent's score samples, scales to 0-100, and
// returns the top six descending. Display name truncates the id to 8 chars.
func agentTrends(scores map[string][]float64) []AgentTrend {
	trends := make([]AgentTrend, 0, len(scores))
	for agentID, samples := range scores {
		if len(samples) == 0 {
			continue
		}

		var sum float64
		for _, s := range samples {
			sum += s
		}
		avg := sum / float64(len(samples))

		trends = append(trends, AgentTrend{
			AgentID:   agentID,
			AgentName: fmt.Sprintf("Agent %s", truncate(agentID, 8)),
			Trend:     round1(avg * 100),
		})
	}

	sort.Slice(trends, func(i, j int) bool {
		if trends[i].Trend != trends[j].Trend {
			return trends[i].Trend > trends[j].Trend
		}
		return trends[i].AgentID < trends[j].AgentID
	})

	if len(trends) > maxAgentTrends {
		trends = trends[:maxAgentTrends]
	}
	return trends
}

// effectiveness derives before/after scores from the praise share of the
// insight set. Fixed defaults apply when there are no insights.
func effectiveness(insights []insight.Insight) Effectiveness {
	if len(insights) == 0 {
		return Effectiveness{
			BeforeScore: 3.0,
			AfterScore:  3.5,
			Improvement: 16.7,
		}
	}

	praiseCount := 0
	for _, ins := range insights {
		if ins.Type == insight.TypePraise {
			praiseCount++
		}
	}

	praiseRatio := float64(praiseCount) / float64(len(insights))
	before := 2.5 + praiseRatio*1.5
	after := math.Min(5.0, before+0.8)
	improvement := (after - before) / before * 100

	return Effectiveness{
		BeforeScore: round1(before),
		AfterScore:  round1(after),
		Improvement: round1(improvement),
	}
}

func capInsights(insights []insight.Insight) []insight.Insight {
	if insights == nil {
		return []insight.Insight{}
	}
	if len(insights) > maxDashboardInsights {
		return insights[:maxDashboardInsights]
	}
	return insights
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
