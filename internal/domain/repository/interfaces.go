package repository

import (
	"context"
	"time"

	"github.com/Kiwitwitter/daily-finance/internal/domain/models"
)

// SnapshotStore persists one JSON document per snapshot name.
type SnapshotStore interface {
	// Read returns the raw document. A missing document yields
	// models.ErrSnapshotNotFound.
	Read(ctx context.Context, name models.SnapshotName) ([]byte, time.Time, error)
	Write(ctx context.Context, name models.SnapshotName, doc any) error
	// ModTime reports when the document was last written, if it exists.
	ModTime(ctx context.Context, name models.SnapshotName) (time.Time, bool)
}

// Fetcher produces one snapshot document from an external source.
type Fetcher interface {
	Source() models.SnapshotName
	Fetch(ctx context.Context) (doc any, records int, err error)
}

// Enricher turns the day's data into a digest.
type Enricher interface {
	Name() string
	Enrich(ctx context.Context, in models.EnrichmentInput) (*models.Digest, error)
}

// SnapshotPublisher mirrors written snapshots to a message bus.
type SnapshotPublisher interface {
	PublishSnapshot(ctx context.Context, name models.SnapshotName, date string, payload []byte) error
	Close() error
}

// OptionsArchive keeps a history of daily options overviews.
type OptionsArchive interface {
	Init(ctx context.Context) error // ensure tables
	StoreOverview(ctx context.Context, date string, ov models.MarketOverview, top []models.OptionsEntry) error
	Health(ctx context.Context) error // ping
	Close() error
}

type Metrics interface {
	RecordFetch(source string, ok bool, seconds float64)
	RecordEnrichment(outcome string)
	RecordDigestSource(source string)
	RecordBuild(kind string, seconds float64)
	RecordError(kind string)
}
