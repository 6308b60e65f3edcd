package conversation

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// OutboundStore keeps, per conversation, a bounded trailing list of message
// ids the bot itself most recently sent. It is maintained but not consulted
// by the pipeline; it exists as an extension point.
type OutboundStore struct {
	client *redis.Client
	bound  int
}

// NewOutboundStore creates a store trimming each list to the given bound.
func NewOutboundStore(client *redis.Client, bound int) *OutboundStore {
	return &OutboundStore{client: client, bound: bound}
}

func outboundKey(conversationID string) string {
	return "outbound:" + conversationID
}

// Push records a sent message id, dropping the oldest beyond the bound.
func (s *OutboundStore) Push(ctx context.Context, conversationID, messageID string) error {
	key := outboundKey(conversationID)

	pipe := s.client.Pipeline()
	pipe.RPush(ctx, key, messageID)
	pipe.LTrim(ctx, key, int64(-s.bound), -1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("pipeline exec for %s: %w", key, err)
	}
	return nil
}

// Recent returns the trailing message ids, oldest first.
func (s *OutboundStore) Recent(ctx context.Context, conversationID string) ([]string, error) {
	key := outboundKey(conversationID)
	ids, err := s.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("lrange %s: %w", key, err)
	}
	return ids, nil
}
