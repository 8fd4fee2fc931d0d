package activity

import (
	"context"
	"fmt"

	domainactivity "github.com/alanyang/mission-control/internal/domain/activity"
	portactivity "github.com/alanyang/mission-control/internal/port/activity"
)

// Service exposes the activity feed and accepts activities posted by clients.
type Service struct {
	repo portactivity.Repository
}

func NewService(repo portactivity.Repository) *Service {
	return &Service{repo: repo}
}

// Record appends a client-supplied activity. This is the primary write of
// the request, so failures are returned rather than deferred.
func (s *Service) Record(ctx context.Context, t domainactivity.Type, agentID, taskID, message string) (domainactivity.Activity, error) {
	created, err := s.repo.Create(ctx, domainactivity.New(t, agentID, taskID, message))
	if err != nil {
		return domainactivity.Activity{}, fmt.Errorf("record activity: %w", err)
	}
	return created, nil
}

// Feed returns the newest activities; a non-positive limit means the default.
func (s *Service) Feed(ctx context.Context, limit int) ([]domainactivity.Entry, error) {
	entries, err := s.repo.List(ctx, domainactivity.Limit(limit))
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return entries, nil
}
