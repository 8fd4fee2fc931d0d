package chat

import (
	"math/rand/v2"
	"time"

	"github.com/alanyang/mission-control/internal/domain/apperr"
	"github.com/alanyang/mission-control/internal/domain/chat"
)

var ErrMessageRequired = apperr.New(apperr.Invalid, "Message required")

type Reply struct {
	Response  string `json:"response"`
	Timestamp int64  `json:"timestamp"`
}

// Service answers chat messages from the canned rule set. It keeps no state
// between calls.
type Service struct {
	pick func(n int) int
	now  func() time.Time
}

type Option func(*Service)

// WithPicker replaces the uniform random choice within a category.
func WithPicker(pick func(n int) int) Option {
	return func(s *Service) { s.pick = pick }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(opts ...Option) *Service {
	s := &Service{pick: rand.IntN, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Respond(message string) (Reply, error) {
	if message == "" {
		return Reply{}, ErrMessageRequired
	}
	rule := chat.Classify(message)
	return Reply{
		Response:  rule.Responses[s.pick(len(rule.Responses))],
		Timestamp: s.now().UnixMilli(),
	}, nil
}
