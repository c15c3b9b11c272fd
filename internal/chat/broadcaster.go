package chat

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const Channel = "chat"

// Envelope carries a message between instances. Origin lets a hub skip
// what it published itself.
type Envelope struct {
	Origin  string  `json:"origin"`
	Message Message `json:"message"`
}

type Broadcaster interface {
	Publish(ctx context.Context, env Envelope) error
	// Subscribe blocks, calling handle for every envelope, until ctx is done.
	Subscribe(ctx context.Context, handle func(Envelope)) error
}

type RedisBroadcaster struct {
	client  *redis.Client
	channel string
}

func NewRedisBroadcaster(client *redis.Client) *RedisBroadcaster {
	return &RedisBroadcaster{client: client, channel: Channel}
}

func (b *RedisBroadcaster) Publish(ctx context.Context, env Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, b.channel, data).Err()
}

func (b *RedisBroadcaster) Subscribe(ctx context.Context, handle func(Envelope)) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", b.channel, err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var env Envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				continue
			}
			handle(env)
		}
	}
}
