package service

import (
	"context"
	"encoding/json"
	"log"

	"bilara-reader-be/internal/dto"
	"bilara-reader-be/internal/model"
	"bilara-reader-be/internal/pkg/serverutils"
	"bilara-reader-be/internal/websocket"
	"bilara-reader-be/pkg/events"
	pktNats "bilara-reader-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the in-process preference bus and fans each change
// out to the websocket hub and, when connected, the external event stream.
type consumerService struct {
	pubSub         *gochannel.GoChannel
	topicName      string
	hub            *websocket.Hub
	eventPublisher *pktNats.Publisher
	throttle       *serverutils.Throttle
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	hub *websocket.Hub,
	eventPublisher *pktNats.Publisher,
	throttle *serverutils.Throttle,
) IConsumerService {
	return &consumerService{
		pubSub:         pubSub,
		topicName:      topicName,
		hub:            hub,
		eventPublisher: eventPublisher,
		throttle:       throttle,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
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
	var payload dto.PreferenceChangedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal preference message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	// Rapid successive writes collapse to one push per interval. An explicit
	// restore always goes out: the client is waiting on it.
	if !payload.Restored && !cs.throttle.Allow(payload.SessionId.String()) {
		msg.Ack()
		return
	}

	cs.hub.Send(payload.SessionId, model.StateNotice{
		SessionId:  payload.SessionId.String(),
		Layout:     payload.State.Layout,
		Notes:      payload.State.Notes,
		Script:     payload.State.Script,
		References: payload.State.References,
		Highlight:  payload.State.Highlight,
		Restored:   payload.Restored,
	})

	if cs.eventPublisher != nil {
		event := events.NewPreferenceChanged(payload.SessionId.String(), events.PreferenceState{
			Layout:     payload.State.Layout,
			Notes:      payload.State.Notes,
			Script:     payload.State.Script,
			References: payload.State.References,
			Highlight:  payload.State.Highlight,
		})
		if err := cs.eventPublisher.Publish(ctx, event); err != nil {
			log.Printf("[WARN] Failed to publish preference event: %v", err)
		}
	}

	msg.Ack()
}
