package repository

import (
	"context"
	"fmt"

	"review-service/internal/apperrors"
	"review-service/internal/models"
	"review-service/internal/sentiment"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// ReviewRepository handles review storage
type ReviewRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewReviewRepository wraps an open database. The schema must already have
// been created with Migrate.
func NewReviewRepository(db *sqlx.DB, logger *zap.Logger) *ReviewRepository {
	return &ReviewRepository{
		db:     db,
		logger: logger,
	}
}

// Insert stores a review and returns its id. Labels other than the three
// known sentiments are refused before touching the database.
func (r *ReviewRepository) Insert(ctx context.Context, text string, label sentiment.Label, createdAt string) (int64, error) {
	if !label.Valid() {
		return 0, apperrors.InternalError("insert review", fmt.Errorf("unknown sentiment label %q", label))
	}

	query := r.db.Rebind(`
		INSERT INTO reviews (text, sentiment, created_at)
		VALUES (?, ?, ?)
		RETURNING id
	`)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, apperrors.StorageError("begin transaction", err)
	}
	defer tx.Rollback() // no-op once committed

	var id int64
	if err := tx.QueryRowxContext(ctx, query, text, string(label), createdAt).Scan(&id); err != nil {
		return 0, apperrors.StorageError("insert review", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, apperrors.StorageError("commit review", err)
	}

	r.logger.Debug("Review stored", zap.Int64("id", id), zap.String("sentiment", string(label)))
	return id, nil
}

// List returns reviews in insertion order. A non-empty filter keeps only
// reviews whose sentiment equals it exactly.
func (r *ReviewRepository) List(ctx context.Context, filter string) ([]models.Review, error) {
	query := `SELECT id, text, sentiment, created_at FROM reviews`
	var args []any

	if filter != "" {
		query += ` WHERE sentiment = ?`
		args = append(args, filter)
	}
	query += ` ORDER BY id`

	reviews := []models.Review{}
	if err := r.db.SelectContext(ctx, &reviews, r.db.Rebind(query), args...); err != nil {
		return nil, apperrors.StorageError("list reviews", err)
	}

	return reviews, nil
}

// Ping checks that the database is reachable
func (r *ReviewRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return apperrors.StorageError("ping database", err)
	}
	return nil
}

// Close closes the database connection
func (r *ReviewRepository) Close() error {
	return r.db.Close()
}
