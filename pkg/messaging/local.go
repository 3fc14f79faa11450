package messaging

import (
	"context"
	"sync/atomic"

	"github.com/dtnitsch/chartbuddy/models"
)

// LocalChannel delivers requests to an in-process Handler.
type LocalChannel struct {
	handler     Handler
	invalidated atomic.Bool
}

// NewLocalChannel creates a channel bound to h.
func NewLocalChannel(h Handler) *LocalChannel {
	return &LocalChannel{handler: h}
}

// Invalidate makes every later Send fail with ErrChannelUnavailable.
func (c *LocalChannel) Invalidate() {
	c.invalidated.Store(true)
}

func (c *LocalChannel) Send(ctx context.Context, req models.Request) (models.Response, error) {
	if c.handler == nil || c.invalidated.Load() {
		return models.Response{}, ErrChannelUnavailable
	}
	if err := ctx.Err(); err != nil {
		return models.Response{}, err
	}
	return c.handler.Handle(ctx, req), nil
}
