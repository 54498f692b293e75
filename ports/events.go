package ports

import "context"

// EventPublisher publishes events to notify other instances
type EventPublisher interface {
	PublishLogin(ctx context.Context, userID int64, sessionID string) error
	PublishLogout(ctx context.Context, userID int64, tokenID string) error
}
