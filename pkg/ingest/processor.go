package ingest

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vishalk7890/Support-IQ/pkg/insight"
	"github.com/vishalk7890/Support-IQ/pkg/messaging"
	"github.com/vishalk7890/Support-IQ/pkg/metrics"
	"github.com/vishalk7890/Support-IQ/pkg/store"
	"github.com/vishalk7890/Support-IQ/pkg/transcript"
)

// Processor handles newly-arrived transcript notifications: per key it
// normalizes the record, derives insights from the analytics bundle,
// persists them, and dispatches high-priority notifications. Every failure
// past enumeration is per-item and recoverable.
type Processor struct {
	logger      *logrus.Logger
	transcripts store.TranscriptStore
	insights    store.InsightStore
	notifier    messaging.Notifier
	prefix      string
	clock       func() time.Time
}

// NewProcessor creates an ingest processor. notifier may be nil, which
// disables high-priority dispatch.
func NewProcessor(logger *logrus.Logger, transcripts store.TranscriptStore, insights store.InsightStore, notifier messaging.Notifier, prefix string) *Processor {
	return &Processor{
		logger:      logger,
		transcripts: transcripts,
		insights:    insights,
		notifier:    notifier,
		prefix:      prefix,
		clock:       time.Now,
	}
}

// Process handles one batch of newly-arrived transcript keys and returns the
// number of notifications processed. The count covers every key in the
// batch, whether or not it yielded insights.
func (p *Processor) Process(ctx context.Context, keys []string) int {
	for _, key := range keys {
		logger := p.logger.WithField("transcript_key", key)
		logger.Info("Processing new transcript")

		if !strings.HasSuffix(key, ".json") || !strings.HasPrefix(key, p.prefix) {
			logger.Info("Skipping non-transcript file")
			metrics.RecordIngestNotification("skipped")
			continue
		}

		data, err := p.transcripts.GetTranscript(ctx, key)
		if err != nil {
			logger.WithError(err).Error("Error reading transcript from store")
			metrics.RecordIngestNotification("read_error")
			continue
		}

		record, err := transcript.Parse(key, data)
		if err != nil {
			logger.WithError(err).Error("Error parsing transcript")
			metrics.RecordIngestNotification("parse_error")
			continue
		}

		insights := insight.EvaluateBundle(record, p.clock(), idSuffix())
		if len(insights) == 0 {
			logger.Info("No insights generated")
			metrics.RecordIngestNotification("no_insights")
			continue
		}

		logger.WithField("count", len(insights)).Info("Generated insights")
		p.storeInsights(ctx, insights)

		if highPriority := filterHighPriority(insights); len(highPriority) > 0 {
			logger.WithField("count", len(highPriority)).Info("Found high-priority insights")
			p.notify(ctx, highPriority)
		}

		metrics.RecordIngestNotification("processed")
	}

	return len(keys)
}

// storeInsights writes each insight; write failures are logged and do not
// abort the remaining writes
func (p *Processor) storeInsights(ctx context.Context, insights []insight.Insight) {
	for i := range insights {
		if err := p.insights.PutInsight(ctx, &insights[i]); err != nil {
			p.logger.WithError(err).WithField("insight_id", insights[i].ID).Error("Error storing insight")
			metrics.RecordInsightWrite("error")
			continue
		}
		metrics.RecordInsightWrite("success")
		p.logger.WithField("insight_id", insights[i].ID).Debug("Stored insight")
	}
}

func (p *Processor) notify(ctx context.Context, insights []insight.Insight) {
	if p.notifier == nil {
		return
	}
	if err := p.notifier.NotifyHighPriority(ctx, insights); err != nil {
		p.logger.WithError(err).Warn("Failed to dispatch high-priority insight notifications")
	}
}

func filterHighPriority(insights []insight.Insight) []insight.Insight {
	var out []insight.Insight
	for _, ins := range insights {
		if ins.IsHighPriority() {
			out = append(out, ins)
		}
	}
	return out
}

// idSuffix returns a short unique fragment appended to ingest-path insight
// ids so reprocessing the same key never collides with earlier records
func idSuffix() string {
	return uuid.NewString()[:8]
}
