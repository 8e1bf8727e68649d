package ai

import "context"

// Client is a single-shot text completion client.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
