package notify

import "context"

// Publisher delivers change notifications. Implementations must be safe for
// concurrent use.
type Publisher interface {
	Publish(ctx context.Context, change Change) error
}

// PublisherFunc adapts a function to Publisher
type PublisherFunc func(ctx context.Context, change Change) error

// Publish calls f
func (f PublisherFunc) Publish(ctx context.Context, change Change) error {
	return f(ctx, change)
}

// Compile-time verification
var (
	_ Publisher = (*RedisPublisher)(nil)
	_ Publisher = Fanout(nil)
	_ Publisher = PublisherFunc(nil)
)
