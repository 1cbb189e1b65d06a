// Package notify fans a (recipient, message) pair out to every registered
// delivery channel.
package notify

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/spec-kit/support-desk/internal/chat"
)

// Channel delivers a message to a recipient over one medium.
type Channel interface {
	Name() string
	Send(ctx context.Context, recipient, message string) error
}

// Channel names as shown to operators.
const (
	EmailChannelName = "Email"
	SMSChannelName   = "SMS"
	PushChannelName  = "Push Notification"
	ChatChannelName  = "Chat (Adapter)"
)

// ConsoleChannel prints deliveries to a writer with a colored medium tag.
type ConsoleChannel struct {
	name string
	tag  *color.Color
	mu   sync.Mutex
	out  io.Writer
}

func newConsoleChannel(name string, tag *color.Color, out io.Writer) *ConsoleChannel {
	if out == nil {
		out = io.Discard
	}
	return &ConsoleChannel{name: name, tag: tag, out: out}
}

// NewEmailChannel returns the console e-mail channel.
func NewEmailChannel(out io.Writer) *ConsoleChannel {
	return newConsoleChannel(EmailChannelName, color.New(color.FgCyan, color.Bold), out)
}

// NewSMSChannel returns the console SMS channel.
func NewSMSChannel(out io.Writer) *ConsoleChannel {
	return newConsoleChannel(SMSChannelName, color.New(color.FgGreen, color.Bold), out)
}

// NewPushChannel returns the console push notification channel.
func NewPushChannel(out io.Writer) *ConsoleChannel {
	return newConsoleChannel(PushChannelName, color.New(color.FgMagenta, color.Bold), out)
}

func (c *ConsoleChannel) Name() string { return c.name }

func (c *ConsoleChannel) Send(_ context.Context, recipient, message string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := fmt.Fprintf(c.out, "%s Sending to %s:\n%s\n", c.tag.Sprintf("[%s]", c.name), recipient, message); err != nil {
		return fmt.Errorf("%s write: %w", c.name, err)
	}
	return nil
}

// ChatAdapter exposes a chat.API as a Channel. The recipient is used as the
// chat channel id unless a fixed channel was configured.
type ChatAdapter struct {
	api         chat.API
	fixedTarget string
}

// NewChatAdapter wraps api. An empty fixedChannel routes by recipient.
func NewChatAdapter(api chat.API, fixedChannel string) *ChatAdapter {
	return &ChatAdapter{api: api, fixedTarget: strings.TrimSpace(fixedChannel)}
}

func (a *ChatAdapter) Name() string { return ChatChannelName }

func (a *ChatAdapter) Send(_ context.Context, recipient, message string) error {
	target := recipient
	if a.fixedTarget != "" {
		target = a.fixedTarget
	}
	return a.api.PostToChannel(target, message)
}
