package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/handicapstudent/ppt-project/internal/domain"
	"github.com/handicapstudent/ppt-project/internal/events"
	"github.com/handicapstudent/ppt-project/internal/models"

	"github.com/rs/zerolog"
)

// ReviewService validates and persists cafeteria reviews.
type ReviewService struct {
	store  domain.ReviewStore
	bus    domain.EventPublisher
	clock  domain.Clock
	logger *zerolog.Logger
}

func NewReviewService(store domain.ReviewStore, bus domain.EventPublisher, clock domain.Clock, logger *zerolog.Logger) *ReviewService {
	return &ReviewService{
		store:  store,
		bus:    bus,
		clock:  clock,
		logger: logger,
	}
}

func validateReview(text string, rating int) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyReview
	}
	if rating < models.MinRating || rating > models.MaxRating {
		return ErrBadRating
	}
	return nil
}

// Submit stores a new review.
func (s *ReviewService) Submit(ctx context.Context, userID, text string, rating int) (*models.Review, error) {
	if err := validateReview(text, rating); err != nil {
		return nil, err
	}

	rv := &models.Review{UserID: userID, Text: text, Rating: rating}
	if err := s.store.CreateReview(ctx, rv, s.clock.Now()); err != nil {
		return nil, fmt.Errorf("submit review: %w", err)
	}

	if s.bus != nil {
		if err := s.bus.PublishJSON(events.EventReviewSubmitted, rv); err != nil {
			s.logger.Error().Err(err).Int64("review_id", rv.ID).Msg("publish event error")
		}
	}
	s.logger.Info().Str("user_id", userID).Int64("review_id", rv.ID).Msg("review submitted")
	return rv, nil
}

// Update edits an existing review, refreshing its timestamp.
func (s *ReviewService) Update(ctx context.Context, id int64, text string, rating int) error {
	if err := validateReview(text, rating); err != nil {
		return err
	}
	if err := s.store.UpdateReview(ctx, id, text, rating, s.clock.Now()); err != nil {
		return fmt.Errorf("update review: %w", err)
	}
	return nil
}

// Delete removes a review by id.
func (s *ReviewService) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteReview(ctx, id); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	return nil
}

// ListByUser returns the user's reviews.
func (s *ReviewService) ListByUser(ctx context.Context, userID string) ([]*models.Review, error) {
	return s.store.GetReviewsByUser(ctx, userID)
}
