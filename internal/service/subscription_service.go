package service

import (
	"context"

	"openschool/internal/model"
	"openschool/internal/repository"

	"github.com/rs/zerolog"
)

// SubscriptionService defines business logic methods for subscriptions.
type SubscriptionService interface {
	// Toggle flips the subscription state of (userID, courseID) and reports
	// whether a subscription now exists. Two consecutive calls with the same
	// inputs return to the original state.
	Toggle(ctx context.Context, userID, courseID int64) (added bool, err error)
}

type subscriptionService struct {
	repo       repository.SubscriptionRepository
	courseRepo repository.CourseRepository
	logger     zerolog.Logger
}

// NewSubscriptionService creates a new SubscriptionService with a scoped logger.
func NewSubscriptionService(repo repository.SubscriptionRepository, courseRepo repository.CourseRepository, logger zerolog.Logger) SubscriptionService {
	return &subscriptionService{
		repo:       repo,
		courseRepo: courseRepo,
		logger:     logger.With().Str("service", "SubscriptionService").Logger(),
	}
}

// Toggle deletes the subscription if present, creates it (active) otherwise.
// Concurrent duplicate calls are not locked; the unique (owner, course)
// constraint keeps the table consistent.
func (s *subscriptionService) Toggle(ctx context.Context, userID, courseID int64) (bool, error) {
	course, err := s.courseRepo.GetCourseByID(ctx, courseID)
	if err != nil {
		return false, err
	}
	if course == nil {
		return false, ErrNotFound
	}

	existing, err := s.repo.GetByOwnerAndCourse(ctx, userID, courseID)
	if err != nil {
		return false, err
	}
	if existing != nil {
		if err := s.repo.DeleteSubscription(ctx, existing.ID); err != nil {
			return false, err
		}
		return false, nil
	}

	sub := &model.Subscription{OwnerID: userID, CourseID: courseID, IsActive: true}
	if err := s.repo.CreateSubscription(ctx, sub); err != nil {
		return false, err
	}
	return true, nil
}
