package repository

import (
	"context"

	"github.com/Kiwitwitter/daily-finance/internal/domain/models"
	"github.com/Kiwitwitter/daily-finance/internal/domain/repository"
)

// NoopPublisher is used when Kafka is disabled.
type NoopPublisher struct{}

var _ repository.SnapshotPublisher = NoopPublisher{}

func (NoopPublisher) PublishSnapshot(context.Context, models.SnapshotName, string, []byte) error {
	return nil
}

func (NoopPublisher) Close() error { return nil }

// NoopOptionsArchive is used when ClickHouse is disabled.
type NoopOptionsArchive struct{}

var _ repository.OptionsArchive = NoopOptionsArchive{}

func (NoopOptionsArchive) Init(context.Context) error { return nil }

func (NoopOptionsArchive) StoreOverview(context.Context, string, models.MarketOverview, []models.OptionsEntry) error {
	return nil
}

func (NoopOptionsArchive) Health(context.Context) error { return nil }

func (NoopOptionsArchive) Close() error { return nil }
