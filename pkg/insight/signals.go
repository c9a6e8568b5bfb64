package insight

import (
	"github.com/vishalk7890/Support-IQ/pkg/transcript"
)

// interruptionGap is the maximum gap (in the transcript's own time unit)
// between a speaker change's segments for the change to count as an
// interruption. Negative gaps mean overlap and also count.
const interruptionGap = 1.0

// Signals are the derived, ephemeral per-transcript values the rule engine
// evaluates. Sentiment averages are on the -1..1 segment scale.
type Signals struct {
	CustomerSentimentAvg float64
	AgentSentimentAvg    float64
	InterruptionCount    int
	AgentTalkTime        float64
	CustomerTalkTime     float64

	// AgentTalkRatio is agent talk time over combined agent+customer talk
	// time; valid only when TalkRatioValid is set (denominator nonzero)
	AgentTalkRatio float64
	TalkRatioValid bool
}

// ExtractSignals computes all per-transcript signals from canonicalized
// segments in one pass over each speaker class
func ExtractSignals(segments []transcript.Segment) Signals {
	var sig Signals

	var agentSegments, customerSegments []transcript.Segment
	for _, seg := range segments {
		switch seg.Speaker {
		case transcript.SpeakerAgent:
			agentSegments = append(agentSegments, seg)
		case transcript.SpeakerCustomer:
			customerSegments = append(customerSegments, seg)
		}
	}

	sig.CustomerSentimentAvg = SentimentAverage(customerSegments)
	sig.AgentSentimentAvg = SentimentAverage(agentSegments)
	sig.InterruptionCount = CountInterruptions(segments)

	sig.AgentTalkTime = totalTalkTime(agentSegments)
	sig.CustomerTalkTime = totalTalkTime(customerSegments)

	total := sig.AgentTalkTime + sig.CustomerTalkTime
	if total > 0 {
		sig.AgentTalkRatio = sig.AgentTalkTime / total
		sig.TalkRatioValid = true
	}

	return sig
}

// SentimentAverage is the arithmetic mean of the sentiment scalars of the
// contributing segments. Segments without any sentiment signal are excluded
// rather than counted as zero; no contributing segments yields 0.0.
func SentimentAverage(segments []transcript.Segment) float64 {
	var sum float64
	var count int
	for _, seg := range segments {
		if seg.Sentiment == nil {
			continue
		}
		sum += *seg.Sentiment
		count++
	}

	if count == 0 {
		return 0.0
	}
	return sum / float64(count)
}

// CountInterruptions counts consecutive segment pairs where the speaker
// changes and the next segment starts less than one time unit after the
// previous one ends. Overlapping segments (negative gap) count too.
func CountInterruptions(segments []transcript.Segment) int {
	count := 0
	for i := 1; i < len(segments); i++ {
		prev := segments[i-1]
		curr := segments[i]

		if prev.RawSpeaker == curr.RawSpeaker {
			continue
		}

		gap := curr.StartTime - prev.EndTime
		if gap < interruptionGap {
			count++
		}
	}
	return count
}

// AgentScore converts a transcript's agent sentiment into a 0..1 performance
// sample: (sentiment + 1) / 2 clamped to [0, 1]. Transcripts with no agent
// segments default to the neutral 0.5.
func AgentScore(segments []transcript.Segment) float64 {
	var agentSegments []transcript.Segment
	for _, seg := range segments {
		if seg.Speaker == transcript.SpeakerAgent {
			agentSegments = append(agentSegments, seg)
		}
	}

	if len(agentSegments) == 0 {
		return 0.5
	}

	score := (SentimentAverage(agentSegments) + 1) / 2
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

func totalTalkTime(segments []transcript.Segment) float64 {
	var total float64
	for _, seg := range segments {
		total += seg.Duration()
	}
	return total
}
