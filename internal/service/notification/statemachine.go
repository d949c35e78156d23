package notification

import (
	"fmt"

	"github.com/aliskhannn/banking-notifier/internal/model"
)

type event string

const (
	eventDelivered      event = "deliver"
	eventDeliveryFailed event = "fail delivery"
	eventResend         event = "resend"
	eventMarkRead       event = "mark read"
)

// transitions is the only place where status edges are defined.
// PENDING and SCHEDULED are initial states and are set at creation.
var transitions = map[model.Status]map[event]model.Status{
	model.StatusPending: {
		eventDelivered:      model.StatusSent,
		eventDeliveryFailed: model.StatusFailed,
		eventMarkRead:       model.StatusRead,
	},
	model.StatusScheduled: {
		eventDelivered:      model.StatusSent,
		eventDeliveryFailed: model.StatusFailed,
		eventMarkRead:       model.StatusRead,
	},
	model.StatusFailed: {
		eventResend:   model.StatusPending,
		eventMarkRead: model.StatusRead,
	},
	model.StatusSent: {
		eventMarkRead: model.StatusRead,
	},
	model.StatusRead: {
		eventMarkRead: model.StatusRead,
	},
}

// nextStatus returns the status reached from `from` on ev.
func nextStatus(from model.Status, ev event) (model.Status, error) {
	to, ok := transitions[from][ev]
	if !ok {
		return "", fmt.Errorf("%w: cannot %s a %s notification", ErrStateConflict, ev, from)
	}
	return to, nil
}

// canDeliver reports whether a gateway may be invoked for a record in status s.
func canDeliver(s model.Status) bool {
	_, ok := transitions[s][eventDelivered]
	return ok
}

// apply moves n along ev and keeps the failure fields consistent with the new status.
func apply(n *model.Notification, ev event) error {
	to, err := nextStatus(n.Status, ev)
	if err != nil {
		return err
	}

	n.Status = to
	if to != model.StatusFailed {
		n.FailureReason = nil
		n.FailedAt = nil
	}
	return nil
}
