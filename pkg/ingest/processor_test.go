package ingest

import (
	"context"
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishalk7890/Support-IQ/pkg/insight"
	"github.com/vishalk7890/Support-IQ/pkg/store"
)

// bundleJSON fires the empathy (high priority) and praise-free rules
const bundleJSON = `{
	"SpeechSegments": [
		{"SegmentSpeaker": "spk_1", "SegmentStartTime": 0, "SegmentEndTime": 4},
		{"SegmentSpeaker": "spk_0", "SegmentStartTime": 5, "SegmentEndTime": 9}
	],
	"ConversationAnalytics": {
		"Agent": "Jane Doe",
		"Duration": 200,
		"SentimentTrends": {
			"spk_0 [Customer]": {"SentimentScore": -3.1}
		}
	}
}`

type recordingNotifier struct {
	notified []insight.Insight
	err      error
}

func (n *recordingNotifier) NotifyHighPriority(ctx context.Context, insights []insight.Insight) error {
	n.notified = append(n.notified, insights...)
	return n.err
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestProcessStoresAndNotifies(t *testing.T) {
	transcripts := store.NewMemoryTranscriptStore()
	transcripts.Put("parsedFiles/call.json", []byte(bundleJSON))
	insights := store.NewMemoryInsightStore()
	notifier := &recordingNotifier{}

	p := NewProcessor(testLogger(), transcripts, insights, notifier, "parsedFiles/")

	processed := p.Process(context.Background(), []string{"parsedFiles/call.json"})
	assert.Equal(t, 1, processed)

	stored := insights.All()
	require.Len(t, stored, 1)
	assert.Equal(t, "parsedFiles/call.json", stored[0].TranscriptID)
	assert.Equal(t, "call.json", stored[0].TranscriptFileName)
	assert.Equal(t, "Jane Doe", stored[0].AgentName)
	assert.Equal(t, insight.PriorityHigh, stored[0].Priority)

	// The high-priority insight triggered one notification
	require.Len(t, notifier.notified, 1)
	assert.Equal(t, stored[0].ID, notifier.notified[0].ID)
}

func TestProcessFiltersNonTranscriptKeys(t *testing.T) {
	transcripts := store.NewMemoryTranscriptStore()
	transcripts.Put("parsedFiles/call.json", []byte(bundleJSON))
	insights := store.NewMemoryInsightStore()

	p := NewProcessor(testLogger(), transcripts, insights, nil, "parsedFiles/")

	keys := []string{
		"parsedFiles/notes.txt",
		"rawFiles/call.json",
		"parsedFiles/call.json",
	}

	// The count covers the whole batch even though two keys were filtered
	processed := p.Process(context.Background(), keys)
	assert.Equal(t, 3, processed)
	assert.Equal(t, 1, insights.Count())
}

func TestProcessSkipsUnreadableKeys(t *testing.T) {
	transcripts := store.NewMemoryTranscriptStore()
	transcripts.Put("parsedFiles/broken.json", []byte("{not json"))
	insights := store.NewMemoryInsightStore()

	p := NewProcessor(testLogger(), transcripts, insights, nil, "parsedFiles/")

	processed := p.Process(context.Background(), []string{
		"parsedFiles/broken.json",
		"parsedFiles/missing.json",
	})
	assert.Equal(t, 2, processed)
	assert.Equal(t, 0, insights.Count())
}

func TestProcessToleratesStoreFailures(t *testing.T) {
	transcripts := store.NewMemoryTranscriptStore()
	transcripts.Put("parsedFiles/call.json", []byte(bundleJSON))
	insights := store.NewMemoryInsightStore()
	insights.PutErr = fmt.Errorf("throughput exceeded")
	notifier := &recordingNotifier{}

	p := NewProcessor(testLogger(), transcripts, insights, notifier, "parsedFiles/")

	// Write failures do not abort the batch or suppress notifications
	processed := p.Process(context.Background(), []string{"parsedFiles/call.json"})
	assert.Equal(t, 1, processed)
	assert.Equal(t, 0, insights.Count())
	assert.Len(t, notifier.notified, 1)
}

func TestProcessToleratesNotifierFailure(t *testing.T) {
	transcripts := store.NewMemoryTranscriptStore()
	transcripts.Put("parsedFiles/call.json", []byte(bundleJSON))
	insights := store.NewMemoryInsightStore()
	notifier := &recordingNotifier{err: fmt.Errorf("connection refused")}

	p := NewProcessor(testLogger(), transcripts, insights, notifier, "parsedFiles/")

	processed := p.Process(context.Background(), []string{"parsedFiles/call.json"})
	assert.Equal(t, 1, processed)
	assert.Equal(t, 1, insights.Count())
}

func TestProcessUniqueIDsAcrossRuns(t *testing.T) {
	transcripts := store.NewMemoryTranscriptStore()
	transcripts.Put("parsedFiles/call.json", []byte(bundleJSON))
	insights := store.NewMemoryInsightStore()

	p := NewProcessor(testLogger(), transcripts, insights, nil, "parsedFiles/")

	p.Process(context.Background(), []string{"parsedFiles/call.json"})
	p.Process(context.Background(), []string{"parsedFiles/call.json"})

	// Each run appends a fresh suffix, so ids never collide
	assert.Equal(t, 2, insights.Count())
}
