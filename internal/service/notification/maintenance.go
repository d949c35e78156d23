package notification

import (
	"context"
	"fmt"

	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/banking-notifier/internal/model"
)

// DeleteExpired removes notifications created more than retentionDays ago.
func (s *Service) DeleteExpired(ctx context.Context, retentionDays int) (model.DeleteResult, error) {
	if retentionDays < 0 {
		return model.DeleteResult{}, fmt.Errorf("%w: retention days must not be negative", ErrValidation)
	}

	cutoff := s.opts.Now().UTC().AddDate(0, 0, -retentionDays)
	res := model.DeleteResult{Cutoff: cutoff}

	expired, err := s.repo.FindCreatedBefore(ctx, cutoff)
	if err != nil {
		return res, fmt.Errorf("find expired notifications: %w", err)
	}
	if len(expired) == 0 {
		return res, nil
	}

	count, err := s.repo.DeleteCreatedBefore(ctx, cutoff)
	if err != nil {
		return res, fmt.Errorf("delete expired notifications: %w", err)
	}

	ids := make([]string, 0, len(expired))
	for _, n := range expired {
		ids = append(ids, n.NotificationID)
	}
	s.evict(ctx, ids)

	res.Count = count
	res.Deleted = count > 0

	zlog.Logger.Info().Int64("count", count).Time("cutoff", cutoff).Msg("expired notifications deleted")

	return res, nil
}

// Due reports whether the dispatcher should still act on the notification.
// Records that left PENDING or SCHEDULED, or no longer exist, are skipped.
func (s *Service) Due(ctx context.Context, id string) (bool, error) {
	n, err := s.find(ctx, id)
	if err != nil {
		return false, err
	}

	return canDeliver(n.Status), nil
}

