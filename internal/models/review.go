package models

import "review-service/internal/sentiment"

// Review is a stored, immutable review
type Review struct {
	ID        int64           `json:"id" db:"id"`
	Text      string          `json:"text" db:"text"`
	Sentiment sentiment.Label `json:"sentiment" db:"sentiment"`
	CreatedAt string          `json:"created_at" db:"created_at"` // ISO-8601, UTC
}

// CreateReviewRequest is the body of POST /reviews
type CreateReviewRequest struct {
	Text string `json:"text" binding:"required"`
}

// ErrorResponse is returned for every failed request
type ErrorResponse struct {
	Message string `json:"message"`
}
