package transcript

import (
	"encoding/json"
	"strings"

	"github.com/vishalk7890/Support-IQ/pkg/errors"
)

// rawSegment accepts both segment field namings: the generic form
// (speaker/startTime/endTime) and the PCA form (SegmentSpeaker/
// SegmentStartTime/SegmentEndTime). Pointers distinguish absent fields
// from zero values.
type rawSegment struct {
	Speaker        string `json:"speaker"`
	SegmentSpeaker string `json:"SegmentSpeaker"`

	StartTime        *float64 `json:"startTime"`
	EndTime          *float64 `json:"endTime"`
	SegmentStartTime *float64 `json:"SegmentStartTime"`
	SegmentEndTime   *float64 `json:"SegmentEndTime"`

	SentimentIsPositive *int     `json:"SentimentIsPositive"`
	SentimentIsNegative *int     `json:"SentimentIsNegative"`
	SentimentScore      *float64 `json:"sentimentScore"`
	Sentiment           string   `json:"sentiment"`
}

type rawSentimentTrend struct {
	SentimentScore float64 `json:"SentimentScore"`
}

type rawSpeakerTime struct {
	TotalTimeSecs float64 `json:"TotalTimeSecs"`
}

type rawCategory struct {
	Name      string `json:"Name"`
	Instances int    `json:"Instances"`
}

type rawIssue struct {
	Text string `json:"Text"`
}

type rawAnalytics struct {
	Agent              string                       `json:"Agent"`
	Duration           float64                      `json:"Duration"`
	ConversationTime   string                       `json:"ConversationTime"`
	SentimentTrends    map[string]rawSentimentTrend `json:"SentimentTrends"`
	SpeakerTime        map[string]rawSpeakerTime    `json:"SpeakerTime"`
	CategoriesDetected []rawCategory                `json:"CategoriesDetected"`
	IssuesDetected     []rawIssue                   `json:"IssuesDetected"`
}

type rawTranscript struct {
	AgentID               string        `json:"agentId"`
	Segments              []rawSegment  `json:"segments"`
	SpeechSegments        []rawSegment  `json:"SpeechSegments"`
	ConversationAnalytics *rawAnalytics `json:"ConversationAnalytics"`
}

// Parse reads a raw transcript record and normalizes it into a tagged
// two-shape Record. Shape detection happens once here; downstream code never
// looks at raw field names again.
func Parse(key string, data []byte) (*Record, error) {
	var raw rawTranscript
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.NewInvalidTranscript(key, map[string]interface{}{
			"parse_error": err.Error(),
		})
	}

	record := &Record{
		Key:     key,
		AgentID: raw.AgentID,
		Shape:   ShapeGeneric,
	}
	if record.AgentID == "" {
		record.AgentID = "unknown"
	}

	rawSegments := raw.Segments
	if raw.ConversationAnalytics != nil {
		record.Shape = ShapeAnalyticsBundle
		record.Analytics = normalizeAnalytics(raw.ConversationAnalytics)
		rawSegments = raw.SpeechSegments
	} else if len(rawSegments) == 0 {
		// Generic records produced by PCA carry segments under SpeechSegments
		// even without the analytics object
		rawSegments = raw.SpeechSegments
	}

	record.Segments = make([]Segment, 0, len(rawSegments))
	for _, seg := range rawSegments {
		record.Segments = append(record.Segments, normalizeSegment(seg))
	}

	return record, nil
}

// CanonicalSpeaker maps a free-text speaker label to its speaker class.
// Matching is case-insensitive; unknown labels become SpeakerOther and are
// excluded from agent/customer specific calculations.
func CanonicalSpeaker(label string) Speaker {
	switch strings.ToLower(label) {
	case "agent", "spk_1":
		return SpeakerAgent
	case "customer", "spk_0":
		return SpeakerCustomer
	default:
		return SpeakerOther
	}
}

func normalizeSegment(raw rawSegment) Segment {
	label := raw.Speaker
	if label == "" {
		label = raw.SegmentSpeaker
	}

	seg := Segment{
		Speaker:    CanonicalSpeaker(label),
		RawSpeaker: label,
		StartTime:  firstOf(raw.StartTime, raw.SegmentStartTime),
		EndTime:    firstOf(raw.EndTime, raw.SegmentEndTime),
	}

	seg.Sentiment = resolveSentiment(raw)
	return seg
}

// resolveSentiment maps the three sentiment encodings to a single scalar:
// boolean pair (positive 0.7, negative -0.7, neither 0.0), numeric score
// (pass-through), or categorical label. Returns nil when the segment carries
// no sentiment field at all.
func resolveSentiment(raw rawSegment) *float64 {
	if raw.SentimentIsPositive != nil && raw.SentimentIsNegative != nil {
		switch {
		case *raw.SentimentIsPositive == 1:
			return scalar(0.7)
		case *raw.SentimentIsNegative == 1:
			return scalar(-0.7)
		default:
			return scalar(0.0)
		}
	}

	if raw.SentimentScore != nil {
		return scalar(*raw.SentimentScore)
	}

	if raw.Sentiment != "" {
		switch raw.Sentiment {
		case "positive":
			return scalar(0.7)
		case "negative":
			return scalar(-0.7)
		default:
			return scalar(0.0)
		}
	}

	return nil
}

func normalizeAnalytics(raw *rawAnalytics) *Analytics {
	analytics := &Analytics{
		AgentName:        raw.Agent,
		Duration:         raw.Duration,
		ConversationTime: raw.ConversationTime,
	}
	if analytics.AgentName == "" {
		analytics.AgentName = "Unknown"
	}

	for speaker, trend := range raw.SentimentTrends {
		switch CanonicalSpeakerContains(speaker) {
		case SpeakerAgent:
			analytics.AgentSentiment = scalar(trend.SentimentScore)
		case SpeakerCustomer:
			analytics.CustomerSentiment = scalar(trend.SentimentScore)
		}
	}

	for speaker, speakerTime := range raw.SpeakerTime {
		switch CanonicalSpeakerContains(speaker) {
		case SpeakerAgent:
			analytics.AgentTalkTime = speakerTime.TotalTimeSecs
		case SpeakerCustomer:
			analytics.CustomerTalkTime = speakerTime.TotalTimeSecs
		}
	}

	for _, cat := range raw.CategoriesDetected {
		name := cat.Name
		if name == "" {
			name = "Unknown"
		}
		analytics.Categories = append(analytics.Categories, DetectedCategory{
			Name:      name,
			Instances: cat.Instances,
		})
	}

	for _, issue := range raw.IssuesDetected {
		analytics.Issues = append(analytics.Issues, DetectedIssue{Text: issue.Text})
	}

	return analytics
}

// CanonicalSpeakerContains classifies analytics map keys, which embed the
// speaker label in a longer identifier (e.g. "spk_0 [Customer]")
func CanonicalSpeakerContains(label string) Speaker {
	lower := strings.ToLower(label)
	switch {
	case strings.Contains(lower, "spk_1"), strings.Contains(lower, "agent"):
		return SpeakerAgent
	case strings.Contains(lower, "spk_0"), strings.Contains(lower, "customer"):
		return SpeakerCustomer
	default:
		return SpeakerOther
	}
}

func firstOf(values ...*float64) float64 {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return 0
}

func scalar(v float64) *float64 {
	return &v
}
