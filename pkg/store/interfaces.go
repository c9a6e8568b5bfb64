package store

import (
	"context"

	"github.com/vishalk7890/Support-IQ/pkg/insight"
)

// TranscriptStore enumerates available transcript records and supplies their
// raw JSON. Enumeration order is store-defined.
type TranscriptStore interface {
	// ListTranscripts returns up to maxKeys storage keys under the prefix
	ListTranscripts(ctx context.Context, prefix string, maxKeys int32) ([]string, error)

	// GetTranscript returns the raw JSON record for one key
	GetTranscript(ctx context.Context, key string) ([]byte, error)
}

// InsightStore durably stores derived insight records keyed by id. No query
// capability is assumed; writes are create-or-update.
type InsightStore interface {
	PutInsight(ctx context.Context, record *insight.Insight) error
}
