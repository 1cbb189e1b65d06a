// Package chat is a minimal client for the team chat service. Its API has
// nothing to do with notification channels; internal/notify adapts it.
package chat

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// ErrEmptyChannel is returned when a post has no destination channel.
var ErrEmptyChannel = errors.New("chat channel id is required")

// API posts text into a named chat channel.
type API interface {
	PostToChannel(channelID, text string) error
}

// Client writes posts to an output stream.
type Client struct {
	mu  sync.Mutex
	out io.Writer
}

// NewClient returns a client writing to out.
func NewClient(out io.Writer) *Client {
	if out == nil {
		out = io.Discard
	}
	return &Client{out: out}
}

func (c *Client) PostToChannel(channelID, text string) error {
	channelID = strings.TrimSpace(channelID)
	if channelID == "" {
		return ErrEmptyChannel
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := fmt.Fprintf(c.out, "[CHAT] channel=%s text=%s\n", channelID, text); err != nil {
		return fmt.Errorf("post to %s: %w", channelID, err)
	}
	return nil
}
