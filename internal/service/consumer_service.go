package service

import (
	"context"
	"encoding/json"

	"note-service-be/internal/dto"
	"note-service-be/internal/pkg/logger"
	"note-service-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

// EventForwarder ships note events to an external bus (NATS JetStream in production).
type EventForwarder interface {
	Publish(ctx context.Context, event events.Event) error
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	forwarder  EventForwarder
	logger     logger.ILogger
}

// NewConsumerService audits every note event; forwarder may be nil.
func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	forwarder EventForwarder,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		forwarder:  forwarder,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

// processMessage always acks: events are best effort and never retried.
func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	var evt dto.NoteEventMessage
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		cs.logger.Error("NoteEvents", "Failed to unmarshal note event", map[string]interface{}{
			"error":      err,
			"message_id": msg.UUID,
		})
		return
	}

	cs.logger.Info("NoteEvents", "Note event", map[string]interface{}{
		"type":    evt.Type,
		"note_id": evt.NoteId,
		"at":      evt.At,
	})

	if cs.forwarder == nil {
		return
	}

	data := map[string]interface{}{"note_id": evt.NoteId}
	if evt.Title != "" {
		data["title"] = evt.Title
	}
	err := cs.forwarder.Publish(ctx, events.BaseEvent{
		Type:       evt.Type,
		Data:       data,
		OccurredAt: evt.At,
	})
	if err != nil {
		cs.logger.Warn("NoteEvents", "Failed to forward note event", map[string]interface{}{
			"error":   err.Error(),
			"type":    evt.Type,
			"note_id": evt.NoteId,
		})
	}
}
