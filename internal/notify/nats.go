package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// publisher is satisfied by *nats.Conn.
type publisher interface {
	Publish(subj string, data []byte) error
}

// NATSNotifier publishes each notification as JSON on <prefix>.<kind>.
type NATSNotifier struct {
	pub    publisher
	prefix string
}

func NewNATSNotifier(pub publisher, subjectPrefix string) *NATSNotifier {
	return &NATSNotifier{pub: pub, prefix: strings.TrimSuffix(subjectPrefix, ".")}
}

// Subject returns the subject a notification of kind k is published on.
func (n *NATSNotifier) Subject(k Kind) string {
	if n.prefix == "" {
		return string(k)
	}
	return n.prefix + "." + string(k)
}

func (n *NATSNotifier) Notify(ctx context.Context, note Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(note)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	if err := n.pub.Publish(n.Subject(note.Kind), data); err != nil {
		return fmt.Errorf("publish %s: %w", note.Kind, err)
	}
	return nil
}
