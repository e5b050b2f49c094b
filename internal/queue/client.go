package queue

import "context"

// Client publishes deck generation jobs to a queue backend.
type Client interface {
	Send(ctx context.Context, msg Message) error
}
