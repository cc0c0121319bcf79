package service

import (
	"context"
	"fmt"

	"openschool/internal/model"
	"openschool/internal/permission"
	"openschool/internal/repository"

	"github.com/rs/zerolog"
)

// CourseService defines the interface for course operations. Every method
// resolves permissions for the acting principal before touching data.
type CourseService interface {
	Create(ctx context.Context, p permission.Principal, c *model.Course) (*model.Course, error)
	Get(ctx context.Context, p permission.Principal, id int64) (*model.CourseDetail, error)
	List(ctx context.Context, p permission.Principal, page, pageSize int) ([]model.CourseListItem, int, error)
	Update(ctx context.Context, p permission.Principal, id int64, upd model.CourseUpdate) (*model.Course, error)
	Delete(ctx context.Context, p permission.Principal, id int64) error
}

type courseService struct {
	repo       repository.CourseRepository
	lessonRepo repository.LessonRepository
	subRepo    repository.SubscriptionRepository
	notifier   *Notifier
	logger     zerolog.Logger
}

// NewCourseService creates a new CourseService with a scoped logger.
func NewCourseService(repo repository.CourseRepository, lessonRepo repository.LessonRepository, subRepo repository.SubscriptionRepository, notifier *Notifier, logger zerolog.Logger) CourseService {
	return &courseService{
		repo:       repo,
		lessonRepo: lessonRepo,
		subRepo:    subRepo,
		notifier:   notifier,
		logger:     logger.With().Str("service", "CourseService").Logger(),
	}
}

func forbidden(d permission.Decision) error {
	return fmt.Errorf("%w: %s", ErrForbidden, d.Reason)
}

// Create persists a course and stamps the acting user as its owner,
// overriding any owner carried by the request.
func (s *courseService) Create(ctx context.Context, p permission.Principal, c *model.Course) (*model.Course, error) {
	if d := permission.Resolve(permission.ActionCreate, p, permission.Resource{}); !d.Allowed {
		return nil, forbidden(d)
	}
	c.OwnerID = nil
	if err := s.repo.CreateCourse(ctx, c); err != nil {
		return nil, err
	}
	if err := s.repo.SetOwner(ctx, c.ID, p.ID); err != nil {
		return nil, err
	}
	c.OwnerID = &p.ID
	return c, nil
}

// Get returns the course with its lessons resolved.
func (s *courseService) Get(ctx context.Context, p permission.Principal, id int64) (*model.CourseDetail, error) {
	course, err := s.repo.GetCourseByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, ErrNotFound
	}
	if d := permission.Resolve(permission.ActionRetrieve, p, permission.Resource{OwnerID: course.OwnerID}); !d.Allowed {
		return nil, forbidden(d)
	}
	lessons, err := s.lessonRepo.ListLessonsByCourseID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.CourseDetail{Course: *course, Lessons: lessons}, nil
}

// List returns one page of courses, each annotated with its lessons and the
// requesting user's subscription state, plus the total course count.
func (s *courseService) List(ctx context.Context, p permission.Principal, page, pageSize int) ([]model.CourseListItem, int, error) {
	if d := permission.Resolve(permission.ActionList, p, permission.Resource{}); !d.Allowed {
		return nil, 0, forbidden(d)
	}
	total, err := s.repo.CountCourses(ctx)
	if err != nil {
		return nil, 0, err
	}
	courses, err := s.repo.ListCourses(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}

	items := make([]model.CourseListItem, 0, len(courses))
	for _, c := range courses {
		lessons, err := s.lessonRepo.ListLessonsByCourseID(ctx, c.ID)
		if err != nil {
			return nil, 0, err
		}
		subscribed, err := s.subRepo.ExistsByOwnerAndCourse(ctx, p.ID, c.ID)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, model.CourseListItem{Course: c, Lessons: lessons, IsSubscribed: subscribed})
	}
	return items, total, nil
}

// Update applies the changes and, when the pre-update timestamp is stale
// enough, schedules a subscriber notification.
func (s *courseService) Update(ctx context.Context, p permission.Principal, id int64, upd model.CourseUpdate) (*model.Course, error) {
	course, err := s.repo.GetCourseByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, ErrNotFound
	}
	if d := permission.Resolve(permission.ActionUpdate, p, permission.Resource{OwnerID: course.OwnerID}); !d.Allowed {
		return nil, forbidden(d)
	}

	if upd.Name != nil {
		course.Name = *upd.Name
	}
	if upd.Description != nil {
		course.Description = *upd.Description
	}
	if upd.PreviewURL != nil {
		course.PreviewURL = *upd.PreviewURL
	}

	// The notification gate works off the timestamp as it was before this
	// update lands.
	prevUpdatedAt := course.UpdatedAt
	if err := s.repo.UpdateCourse(ctx, course); err != nil {
		return nil, err
	}
	s.notifier.CourseUpdated(ctx, course.ID, prevUpdatedAt)
	return course, nil
}

// Delete removes the course; its lessons are cascaded by the schema.
func (s *courseService) Delete(ctx context.Context, p permission.Principal, id int64) error {
	course, err := s.repo.GetCourseByID(ctx, id)
	if err != nil {
		return err
	}
	if course == nil {
		return ErrNotFound
	}
	if d := permission.Resolve(permission.ActionDestroy, p, permission.Resource{OwnerID: course.OwnerID}); !d.Allowed {
		return forbidden(d)
	}
	return s.repo.DeleteCourse(ctx, id)
}
