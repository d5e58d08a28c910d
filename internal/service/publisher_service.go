package service

import (
	"context"
	"encoding/json"

	"pcru-chatbot-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

type IPublisherService interface {
	PublishTurn(ctx context.Context, turn *dto.ChatTurnEvent) error
}

type publisherService struct {
	topicName string
	publisher message.Publisher
}

func NewPublisherService(topicName string, publisher message.Publisher) IPublisherService {
	return &publisherService{
		topicName: topicName,
		publisher: publisher,
	}
}

func (ps *publisherService) PublishTurn(ctx context.Context, turn *dto.ChatTurnEvent) error {
	payload, err := json.Marshal(turn)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	msg.Metadata.Set("outcome", turn.Outcome)

	return ps.publisher.Publish(ps.topicName, msg)
}
