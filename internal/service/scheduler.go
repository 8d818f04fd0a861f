package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type refreshSweepRepository interface {
	ListDueForRefresh(ctx context.Context, limit int) ([]int64, error)
	MarkNeedsRefresh(ctx context.Context, resolutionID int64) error
}

// RefreshSweeper periodically flags resolutions whose next roadmap refresh
// date has passed. The flag surfaces in the living-roadmap view; the actual
// refresh runs when the user opens it.
type RefreshSweeper struct {
	resolutions refreshSweepRepository
	spec        string
	logger      *zap.Logger
}

func NewRefreshSweeper(resolutions refreshSweepRepository, spec string, logger *zap.Logger) *RefreshSweeper {
	return &RefreshSweeper{
		resolutions: resolutions,
		spec:        spec,
		logger:      logger,
	}
}

// Start begins the sweep loop and blocks until ctx is cancelled.
func (s *RefreshSweeper) Start(ctx context.Context) {
	s.logger.Info("refresh sweeper started", zap.String("spec", s.spec))

	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc(s.spec, func() {
		if err := s.sweep(ctx); err != nil {
			s.logger.Error("refresh sweep failed", zap.Error(err))
		}
	})
	if err != nil {
		s.logger.Error("failed to add cron job", zap.Error(err))
		return
	}

	c.Start()

	<-ctx.Done()

	c.Stop()
	s.logger.Info("refresh sweeper stopped")
}

func (s *RefreshSweeper) sweep(ctx context.Context) error {
	const batchSize = 100

	flagged := 0
	for {
		due, err := s.resolutions.ListDueForRefresh(ctx, batchSize)
		if err != nil {
			return err
		}
		if len(due) == 0 {
			break
		}

		batchFlagged := 0
		for _, id := range due {
			if err := s.resolutions.MarkNeedsRefresh(ctx, id); err != nil {
				s.logger.Error("mark needs refresh", zap.Int64("resolution_id", id), zap.Error(err))
			} else {
				batchFlagged++
			}
		}
		flagged += batchFlagged

		if len(due) < batchSize || batchFlagged == 0 {
			break
		}
	}

	if flagged > 0 {
		s.logger.Info("roadmap refreshes flagged", zap.Int("count", flagged))
	}

	return nil
}
