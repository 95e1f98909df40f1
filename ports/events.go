package ports

import "context"

// EventPublisher notifies other components about session lifecycle events.
type EventPublisher interface {
	// PublishLogout announces that revoked sessions were invalidated for the
	// principal. Best effort; failures must not fail the logout itself.
	PublishLogout(ctx context.Context, principalID string, revoked int64) error
}
