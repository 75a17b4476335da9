package repository

import (
	"context"

	"github.com/Kiwitwitter/daily-finance/internal/domain/models"
	"github.com/Kiwitwitter/daily-finance/internal/domain/repository"
	pkgkafka "github.com/Kiwitwitter/daily-finance/pkg/kafka"
)

// KafkaSnapshotPublisher mirrors each written snapshot as one message keyed
// by snapshot name.
type KafkaSnapshotPublisher struct {
	producer *pkgkafka.Producer
}

// NewKafkaSnapshotPublisher creates Kafka publisher.
func NewKafkaSnapshotPublisher(producer *pkgkafka.Producer) repository.SnapshotPublisher {
	return &KafkaSnapshotPublisher{producer: producer}
}

func (p *KafkaSnapshotPublisher) PublishSnapshot(ctx context.Context, name models.SnapshotName, date string, payload []byte) error {
	return p.producer.Publish(ctx, []byte(name), payload, map[string]string{
		"snapshot": string(name),
		"date":     date,
	})
}

func (p *KafkaSnapshotPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
