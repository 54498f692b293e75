package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/layer-3/urllogin/ports"
)

const (
	LoginTopic  = "urllogin.login"
	LogoutTopic = "urllogin.logout"
)

// LoginEvent is emitted after a login code was redeemed
type LoginEvent struct {
	UserID    int64  `json:"user_id"`
	SessionID string `json:"session_id"`
}

// LogoutEvent represents a logout event
type LogoutEvent struct {
	UserID  int64  `json:"user_id"`
	TokenID string `json:"token_id"`
}

// WatermillPublisher implements the EventPublisher interface using Watermill
type WatermillPublisher struct {
	publisher message.Publisher
}

// NewWatermillPublisher creates a new Watermill publisher
func NewWatermillPublisher(publisher message.Publisher) ports.EventPublisher {
	return &WatermillPublisher{publisher: publisher}
}

// PublishLogin publishes a login event
func (p *WatermillPublisher) PublishLogin(ctx context.Context, userID int64, sessionID string) error {
	return p.publish(ctx, LoginTopic, LoginEvent{UserID: userID, SessionID: sessionID})
}

// PublishLogout publishes a logout event
func (p *WatermillPublisher) PublishLogout(ctx context.Context, userID int64, tokenID string) error {
	return p.publish(ctx, LogoutTopic, LogoutEvent{UserID: userID, TokenID: tokenID})
}

func (p *WatermillPublisher) publish(ctx context.Context, topic string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)

	if err := p.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}
