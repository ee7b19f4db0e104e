package testutil

import (
	"context"
	"sync"

	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/notify"
)

// RecordingNotifier keeps every notification it is asked to deliver.
type RecordingNotifier struct {
	mu   sync.Mutex
	sent []notify.Notification
	Err  error
}

func (r *RecordingNotifier) Notify(_ context.Context, n notify.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.sent = append(r.sent, n)
	return nil
}

func (r *RecordingNotifier) Sent() []notify.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Notification(nil), r.sent...)
}

// Kinds lists the kinds sent, in order.
func (r *RecordingNotifier) Kinds() []notify.Kind {
	var kinds []notify.Kind
	for _, n := range r.Sent() {
		kinds = append(kinds, n.Kind)
	}
	return kinds
}

func (r *RecordingNotifier) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = nil
}
