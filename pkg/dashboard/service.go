package dashboard

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vishalk7890/Support-IQ/pkg/errors"
	"github.com/vishalk7890/Support-IQ/pkg/insight"
	"github.com/vishalk7890/Support-IQ/pkg/metrics"
	"github.com/vishalk7890/Support-IQ/pkg/store"
	"github.com/vishalk7890/Support-IQ/pkg/transcript"
)

// Service is the dashboard read path: enumerate transcripts, derive insights
// per transcript, aggregate, and cache the result for the configured TTL
type Service struct {
	logger      *logrus.Logger
	transcripts store.TranscriptStore
	cache       *ResultCache
	prefix      string
	maxKeys     int32
	ttl         time.Duration
	clock       func() time.Time
}

// NewService creates the dashboard service. The cache is injected so its
// lifetime is owned by the caller (one per process in production, one per
// test case in tests).
func NewService(logger *logrus.Logger, transcripts store.TranscriptStore, cache *ResultCache, prefix string, maxKeys int32, ttl time.Duration) *Service {
	return &Service{
		logger:      logger,
		transcripts: transcripts,
		cache:       cache,
		prefix:      prefix,
		maxKeys:     maxKeys,
		ttl:         ttl,
		clock:       time.Now,
	}
}

// TTL returns the cache validity window
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Dashboard returns the aggregate analytics, serving from cache while the
// slot is valid. Only transcript enumeration failure is surfaced as an
// error; individual unreadable transcripts are skipped with a warning.
func (s *Service) Dashboard(ctx context.Context) (result *Analytics, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.WithField("panic", r).Error("Unexpected failure while computing analytics")
			result = nil
			err = errors.NewInternalError("failed to compute coaching analytics")
			metrics.RecordDashboardRequest("error")
		}
	}()

	if cached, ok := s.cache.Get(); ok {
		s.logger.Debug("Returning cached coaching analytics")
		metrics.RecordDashboardRequest("cache_hit")
		return cached, nil
	}

	s.logger.Info("Calculating fresh coaching analytics")
	metrics.RecordDashboardRequest("cache_miss")
	stopTimer := metrics.ObserveDashboardRefresh()
	defer stopTimer()

	keys, listErr := s.transcripts.ListTranscripts(ctx, s.prefix, s.maxKeys)
	if listErr != nil {
		s.logger.WithError(listErr).Error("Failed to list transcript objects")
		metrics.RecordDashboardRequest("error")
		return nil, errors.NewTranscriptListFailed(listErr.Error())
	}

	now := s.clock()
	if len(keys) == 0 {
		s.logger.Warn("No transcript files found")
		return Empty(now), nil
	}

	in := Input{
		CategoryCounts: make(map[string]int),
		AgentScores:    make(map[string][]float64),
	}

	for _, key := range keys {
		if !strings.HasSuffix(key, ".json") {
			continue
		}

		data, getErr := s.transcripts.GetTranscript(ctx, key)
		if getErr != nil {
			s.logger.WithError(getErr).WithField("transcript_key", key).Warn("Error reading transcript, skipping")
			metrics.RecordTranscriptSkipped("read_error")
			continue
		}

		record, parseErr := transcript.Parse(key, data)
		if parseErr != nil {
			s.logger.WithError(parseErr).WithField("transcript_key", key).Warn("Error parsing transcript, skipping")
			metrics.RecordTranscriptSkipped("parse_error")
			continue
		}

		in.TotalTranscripts++
		metrics.RecordTranscriptProcessed()

		insights := insight.EvaluateGeneric(record, now)
		for _, ins := range insights {
			in.CategoryCounts[ins.Category]++
			metrics.RecordInsightGenerated(string(ins.Type), string(ins.Priority))
		}
		in.Insights = append(in.Insights, insights...)

		score := insight.AgentScore(record.Segments)
		in.AgentScores[record.AgentID] = append(in.AgentScores[record.AgentID], score)
	}

	s.logger.WithFields(logrus.Fields{
		"transcripts": in.TotalTranscripts,
		"insights":    len(in.Insights),
	}).Info("Processed transcripts")

	analytics := Aggregate(in, now)
	expiry := now.Add(s.ttl)
	analytics.CacheExpiry = &expiry

	s.cache.Put(analytics, s.ttl)
	return analytics, nil
}
