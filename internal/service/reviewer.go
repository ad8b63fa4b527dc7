package service

import (
	"context"
	"fmt"
	"time"

	"review-service/internal/apperrors"
	"review-service/internal/metrics"
	"review-service/internal/models"
	"review-service/internal/sentiment"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// ReviewStore is the persistence the reviewer depends on
type ReviewStore interface {
	Insert(ctx context.Context, text string, label sentiment.Label, createdAt string) (int64, error)
	List(ctx context.Context, filter string) ([]models.Review, error)
}

// Reviewer handles review business logic
type Reviewer struct {
	store  ReviewStore
	clock  clockwork.Clock
	logger *zap.Logger
}

// NewReviewer creates a new reviewer service
func NewReviewer(store ReviewStore, clock clockwork.Clock, logger *zap.Logger) *Reviewer {
	return &Reviewer{
		store:  store,
		clock:  clock,
		logger: logger,
	}
}

// CreateReview classifies text, stamps it with the current UTC time and stores it.
func (r *Reviewer) CreateReview(ctx context.Context, text string) (*models.Review, error) {
	if text == "" {
		return nil, apperrors.ValidationError("review text is required")
	}

	label := sentiment.Classify(text)
	createdAt := r.clock.Now().UTC().Format(time.RFC3339Nano)

	id, err := r.store.Insert(ctx, text, label, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save review: %w", err)
	}

	metrics.ReviewsCreatedTotal.WithLabelValues(label.String()).Inc()

	r.logger.Info("Review created",
		zap.Int64("id", id),
		zap.String("sentiment", label.String()))

	return &models.Review{
		ID:        id,
		Text:      text,
		Sentiment: label,
		CreatedAt: createdAt,
	}, nil
}

// ListReviews returns stored reviews, optionally only those with the given sentiment.
func (r *Reviewer) ListReviews(ctx context.Context, filter string) ([]models.Review, error) {
	reviews, err := r.store.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}
