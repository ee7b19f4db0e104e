// Package notify delivers release events to project members. Delivery is
// fire-and-forget: services collect notifications while their transaction
// runs and hand them to a Dispatcher once it commits.
package notify

import (
	"context"
	"time"
)

// Kind names the event. It is also the last token of the publish subject.
type Kind string

const (
	KindReleaseCreated    Kind = "release.created"
	KindReleaseDeployed   Kind = "release.deployed"
	KindReleaseDenied     Kind = "release.denied"
	KindDecisionRequested Kind = "release.decision_requested"
)

// Notification is one event addressed to a set of users.
type Notification struct {
	Kind        Kind      `json:"kind"`
	ProjectID   string    `json:"projectId"`
	ReleaseID   string    `json:"releaseId"`
	Version     string    `json:"version"`
	ActorUserID string    `json:"actorUserId"`
	Recipients  []string  `json:"recipients"`
	OccurredAt  time.Time `json:"occurredAt"`
}

type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Outbox buffers notifications until the surrounding transaction commits.
type Outbox struct {
	pending []Notification
}

func (o *Outbox) Add(n Notification) {
	o.pending = append(o.pending, n)
}

// Drain returns the buffered notifications and empties the outbox.
func (o *Outbox) Drain() []Notification {
	out := o.pending
	o.pending = nil
	return out
}

func (o *Outbox) Len() int { return len(o.pending) }
