package notify

import (
	"fmt"
	"io"
	"strings"

	"github.com/spec-kit/support-desk/internal/chat"
)

// NewChannels builds channels from configured names (email, sms, push, chat)
// in the given order.
func NewChannels(names []string, out io.Writer, chatAPI chat.API, chatChannel string) ([]Channel, error) {
	channels := make([]Channel, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		switch name {
		case "email":
			channels = append(channels, NewEmailChannel(out))
		case "sms":
			channels = append(channels, NewSMSChannel(out))
		case "push":
			channels = append(channels, NewPushChannel(out))
		case "chat":
			if chatAPI == nil {
				chatAPI = chat.NewClient(out)
			}
			channels = append(channels, NewChatAdapter(chatAPI, chatChannel))
		default:
			return nil, fmt.Errorf("unknown notification channel %q", raw)
		}
	}
	return channels, nil
}
