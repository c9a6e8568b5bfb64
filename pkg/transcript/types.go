package transcript

// Shape identifies which upstream form a transcript record arrived in.
// The two shapes carry sentiment on different numeric scales, so downstream
// rule evaluation needs to know which one it is looking at.
type Shape string

const (
	// ShapeGeneric is a plain segment list under a "segments" field.
	ShapeGeneric Shape = "generic"

	// ShapeAnalyticsBundle is a PCA-style record with SpeechSegments plus a
	// ConversationAnalytics object holding precomputed per-speaker data.
	ShapeAnalyticsBundle Shape = "analytics_bundle"
)

// Speaker is the canonical speaker class of a segment
type Speaker string

const (
	SpeakerAgent    Speaker = "agent"
	SpeakerCustomer Speaker = "customer"
	SpeakerOther    Speaker = "other"
)

// Segment is one timed, speaker-attributed utterance. Sentiment is resolved
// to a single scalar at parse time; a nil Sentiment means the segment carried
// no sentiment signal at all and must be excluded from averages.
type Segment struct {
	Speaker    Speaker
	RawSpeaker string
	StartTime  float64
	EndTime    float64
	Sentiment  *float64
}

// Duration returns the talk time covered by the segment
func (s Segment) Duration() float64 {
	return s.EndTime - s.StartTime
}

// DetectedCategory is one category match from upstream call analytics
type DetectedCategory struct {
	Name      string
	Instances int
}

// DetectedIssue is one issue detected by upstream call analytics
type DetectedIssue struct {
	Text string
}

// Analytics holds the precomputed per-speaker aggregates carried by
// analytics-bundle records. Sentiment scores are on the raw upstream scale
// (roughly -5..5), not the -1..1 segment scale; nil means the trend for that
// speaker was absent upstream.
type Analytics struct {
	AgentName         string
	Duration          float64
	ConversationTime  string
	AgentSentiment    *float64
	CustomerSentiment *float64
	AgentTalkTime     float64
	CustomerTalkTime  float64
	Categories        []DetectedCategory
	Issues            []DetectedIssue
}

// Record is one normalized transcript
type Record struct {
	// Key is the storage key the record was read from
	Key string

	// AgentID identifies the handling agent ("unknown" when absent)
	AgentID string

	Shape    Shape
	Segments []Segment

	// Analytics is non-nil only for ShapeAnalyticsBundle
	Analytics *Analytics
}

// HasSegments reports whether the record carries any utterances; records
// without segments skip signal extraction and rule evaluation entirely
func (r *Record) HasSegments() bool {
	return r != nil && len(r.Segments) > 0
}

// SegmentsBySpeaker returns the record's segments for one speaker class,
// preserving chronological order
func (r *Record) SegmentsBySpeaker(speaker Speaker) []Segment {
	var out []Segment
	for _, seg := range r.Segments {
		if seg.Speaker == speaker {
			out = append(out, seg)
		}
	}
	return out
}
