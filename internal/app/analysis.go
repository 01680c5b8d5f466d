package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/okian/cvmatch/internal/adapters/mq/queue"
	"github.com/okian/cvmatch/internal/adapters/repository"
	"github.com/okian/cvmatch/internal/domain/model"
	"github.com/okian/cvmatch/pkg/logger"
)

// SubmitAnalysis stores a pending record and queues the résumé for the
// worker pool. A full queue yields ErrBackpressure and leaves no record.
func (s *Service) SubmitAnalysis(ctx context.Context, userID, filename string, data []byte) (model.AnalysisRecord, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return model.AnalysisRecord{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if _, err := checkFormat(filename); err != nil {
		return model.AnalysisRecord{}, err
	}

	s.mu.RLock()
	started, q := s.started, s.queue
	s.mu.RUnlock()
	if !started {
		return model.AnalysisRecord{}, ErrNotStarted
	}

	rec := model.AnalysisRecord{
		ID:         uuid.NewString(),
		UserID:     userID,
		CVFilename: filename,
		Status:     model.AnalysisPending,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.store.Save(ctx, rec); err != nil {
		return model.AnalysisRecord{}, fmt.Errorf("save analysis: %w", err)
	}

	job := queue.Job{
		AnalysisID:  rec.ID,
		UserID:      userID,
		Filename:    filename,
		Data:        data,
		SubmittedAt: rec.CreatedAt,
	}
	if err := q.Enqueue(ctx, job); err != nil {
		if derr := s.store.Delete(ctx, rec.ID); derr != nil {
			s.logger.Error(ctx, "failed to drop rejected analysis", logger.String("analysis_id", rec.ID), logger.Error(derr))
		}
		if errors.Is(err, queue.ErrQueueFull) {
			return model.AnalysisRecord{}, ErrBackpressure
		}
		if errors.Is(err, queue.ErrClosed) {
			return model.AnalysisRecord{}, ErrNotStarted
		}
		return model.AnalysisRecord{}, fmt.Errorf("enqueue analysis: %w", err)
	}

	s.logger.Debug(ctx, "analysis queued",
		logger.String("analysis_id", rec.ID),
		logger.String("user_id", userID),
		logger.String("filename", filename),
	)
	return rec, nil
}

// LatestAnalysis returns the user's newest analysis.
func (s *Service) LatestAnalysis(ctx context.Context, userID string) (model.AnalysisRecord, error) {
	rec, err := s.store.LatestByUser(ctx, strings.TrimSpace(userID))
	return rec, notFound(err)
}

// Analysis returns an analysis by ID.
func (s *Service) Analysis(ctx context.Context, id string) (model.AnalysisRecord, error) {
	rec, err := s.store.Get(ctx, strings.TrimSpace(id))
	return rec, notFound(err)
}

func notFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrAnalysisNotFound, err)
	}
	return err
}
