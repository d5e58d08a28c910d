package service

import (
	"context"
	"encoding/json"
	"time"

	"pcru-chatbot-be/internal/dto"
	"pcru-chatbot-be/internal/pkg/logger"
	"pcru-chatbot-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

// EventChatTurnCompleted is the event type forwarded to the external bus.
const EventChatTurnCompleted = "CHAT_TURN_COMPLETED"

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// EventForwarder ships turn events out of the process.
type EventForwarder interface {
	Publish(ctx context.Context, event events.Event) error
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	audit      logger.ILogger
	forwarder  EventForwarder
	logger     logger.ILogger
}

// NewConsumerService drains chat turn events into the audit log and, when a
// forwarder is given, onto the external bus.
func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	audit logger.ILogger,
	forwarder EventForwarder,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		audit:      audit,
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

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var turn dto.ChatTurnEvent
	if err := json.Unmarshal(msg.Payload, &turn); err != nil {
		cs.logger.Error("CONSUMER", "Failed to unmarshal chat turn", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		// Malformed payloads never become valid; ack to stop redelivery.
		msg.Ack()
		return
	}

	cs.audit.Info("CHAT_TURN", turn.Outcome, map[string]interface{}{
		"event_id":         turn.EventId,
		"session_key":      turn.SessionKey,
		"query":            turn.Query,
		"token_count":      turn.TokenCount,
		"top_question_ids": turn.TopQuestionIds,
		"top_score":        turn.TopScore,
		"blocked_keywords": turn.BlockedKeywords,
		"blocked_domains":  turn.BlockedDomains,
		"duration_ms":      turn.DurationMs,
	})

	if cs.forwarder != nil {
		fwdCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := cs.forwarder.Publish(fwdCtx, events.BaseEvent{
			Type: EventChatTurnCompleted,
			Data: map[string]interface{}{
				"event_id":         turn.EventId,
				"session_key":      turn.SessionKey,
				"outcome":          turn.Outcome,
				"top_question_ids": turn.TopQuestionIds,
				"duration_ms":      turn.DurationMs,
			},
			OccurredAt: turn.OccurredAt,
		})
		cancel()
		if err != nil {
			// Forwarding is best effort; the audit line is already written.
			cs.logger.Warn("CONSUMER", "Failed to forward chat turn", map[string]interface{}{
				"event_id": turn.EventId,
				"error":    err.Error(),
			})
		}
	}

	msg.Ack()
}
