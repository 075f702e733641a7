package event

import (
	"context"

	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/shared"
)

// OutboxPublisher is the write side of the transactional outbox. It drains
// an aggregate's pending events into outbox entries saved in the caller's
// unit of work.
type OutboxPublisher struct {
	repo       shared.OutboxRepository
	serializer *EventSerializer
	maxRetries int
}

// NewOutboxPublisher creates a new outbox publisher
func NewOutboxPublisher(repo shared.OutboxRepository, serializer *EventSerializer) *OutboxPublisher {
	return &OutboxPublisher{
		repo:       repo,
		serializer: serializer,
	}
}

// WithMaxRetries sets the delivery attempts of new entries. n <= 0 keeps
// shared.DefaultMaxRetries.
func (p *OutboxPublisher) WithMaxRetries(n int) *OutboxPublisher {
	p.maxRetries = n
	return p
}

// Enqueue implements shared.DomainEventRepository. Events stay on the
// aggregate when saving fails.
func (p *OutboxPublisher) Enqueue(ctx context.Context, aggregate shared.AggregateRoot) error {
	events := aggregate.GetDomainEvents()
	if len(events) == 0 {
		return nil
	}

	entries := make([]*shared.OutboxEntry, 0, len(events))
	for _, event := range events {
		payload, err := p.serializer.Serialize(event)
		if err != nil {
			return err
		}
		entry := shared.NewOutboxEntry(event, payload)
		if p.maxRetries > 0 {
			entry.MaxRetries = p.maxRetries
		}
		entries = append(entries, entry)
	}

	if err := p.repo.Save(ctx, entries...); err != nil {
		return err
	}
	aggregate.ClearDomainEvents()
	return nil
}

var _ shared.DomainEventRepository = (*OutboxPublisher)(nil)
