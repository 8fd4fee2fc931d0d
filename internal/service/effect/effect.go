package effect

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/alanyang/mission-control/internal/domain/effect"
	portactivity "github.com/alanyang/mission-control/internal/port/activity"
	portnotification "github.com/alanyang/mission-control/internal/port/notification"
)

// Dispatcher performs the secondary writes services hand back with their results.
type Dispatcher struct {
	activities    portactivity.Repository
	notifications portnotification.Repository
}

func NewDispatcher(activities portactivity.Repository, notifications portnotification.Repository) *Dispatcher {
	return &Dispatcher{activities: activities, notifications: notifications}
}

// Apply writes every effect in order. A failed write does not stop the ones
// after it; all failures come back joined.
func (d *Dispatcher) Apply(ctx context.Context, pending []effect.Effect) error {
	var errs []error
	for _, e := range pending {
		switch e.Kind {
		case effect.KindActivity:
			if _, err := d.activities.Create(ctx, e.Activity); err != nil {
				errs = append(errs, fmt.Errorf("log %s activity: %w", e.Activity.Type, err))
			}
		case effect.KindNotification:
			if _, err := d.notifications.Create(ctx, e.Notification); err != nil {
				errs = append(errs, fmt.Errorf("notify agent %s: %w", e.Notification.MentionedAgentID, err))
			}
		default:
			errs = append(errs, fmt.Errorf("unknown effect kind %d", e.Kind))
		}
	}
	return errors.Join(errs...)
}

// Flush applies pending and logs any failure. The caller has already
// committed its primary write and reports success regardless.
func (d *Dispatcher) Flush(ctx context.Context, pending []effect.Effect) {
	if len(pending) == 0 {
		return
	}
	if err := d.Apply(ctx, pending); err != nil {
		slog.ErrorContext(ctx, "failed to apply side effects", "pending", len(pending), "error", err)
	}
}
