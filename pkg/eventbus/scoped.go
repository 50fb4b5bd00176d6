package eventbus

import (
	"context"
	"fmt"
)

// PublishScoped publishes an event with a scope suffix so consumers can
// subscribe to a single player or to every player with a wildcard.
//
// Example:
//   - baseTopic: "ledger.entry.edited.v1"
//   - scope: "42"
//   - result: "ledger.entry.edited.v1.42"
func PublishScoped(ctx context.Context, bus EventBus, baseTopic, scope string, payload any) error {
	if scope == "" {
		return fmt.Errorf("scope cannot be empty for scoped publish")
	}
	return bus.Publish(ctx, FormatScopedTopic(baseTopic, scope), payload)
}

// FormatScopedTopic formats a topic with a scope suffix without publishing.
func FormatScopedTopic(baseTopic, scope string) string {
	return fmt.Sprintf("%s.%s", baseTopic, scope)
}
