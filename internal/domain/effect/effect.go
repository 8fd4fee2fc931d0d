// Package effect describes secondary writes that follow a primary mutation.
// Services return them alongside their result; callers apply them after the
// primary write has committed, and a failed effect never undoes that write.
package effect

import (
	domainactivity "github.com/alanyang/mission-control/internal/domain/activity"
	domainnotification "github.com/alanyang/mission-control/internal/domain/notification"
)

type Kind int

const (
	KindActivity Kind = iota + 1
	KindNotification
)

func (k Kind) String() string {
	switch k {
	case KindActivity:
		return "activity"
	case KindNotification:
		return "notification"
	default:
		return "unknown"
	}
}

type Effect struct {
	Kind         Kind
	Activity     domainactivity.Activity
	Notification domainnotification.Notification
}

func LogActivity(a domainactivity.Activity) Effect {
	return Effect{Kind: KindActivity, Activity: a}
}

func Notify(n domainnotification.Notification) Effect {
	return Effect{Kind: KindNotification, Notification: n}
}

// Result pairs a primary value with the writes still owed for it.
type Result[T any] struct {
	Value   T
	Pending []Effect
}
