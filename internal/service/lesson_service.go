package service

import (
	"context"
	"regexp"

	"openschool/internal/model"
	"openschool/internal/permission"
	"openschool/internal/repository"

	"github.com/rs/zerolog"
)

// Lesson videos must be hosted on YouTube.
var youtubeLinkRe = regexp.MustCompile(`^(https?://)?(www\.)?(youtube\.com|youtu\.be)/`)

func validateVideoLink(link string) error {
	if !youtubeLinkRe.MatchString(link) {
		return &ValidationError{Field: "video_link", Message: "only YouTube links are allowed"}
	}
	return nil
}

// LessonService defines the interface for lesson operations.
type LessonService interface {
	Create(ctx context.Context, p permission.Principal, l *model.Lesson) (*model.Lesson, error)
	Get(ctx context.Context, p permission.Principal, id int64) (*model.Lesson, error)
	List(ctx context.Context, p permission.Principal, page, pageSize int) ([]model.Lesson, int, error)
	Update(ctx context.Context, p permission.Principal, id int64, upd model.LessonUpdate) (*model.Lesson, error)
	Delete(ctx context.Context, p permission.Principal, id int64) error
}

type lessonService struct {
	repo       repository.LessonRepository
	courseRepo repository.CourseRepository
	notifier   *Notifier
	logger     zerolog.Logger
}

// NewLessonService creates a new LessonService with a scoped logger.
func NewLessonService(repo repository.LessonRepository, courseRepo repository.CourseRepository, notifier *Notifier, logger zerolog.Logger) LessonService {
	return &lessonService{
		repo:       repo,
		courseRepo: courseRepo,
		notifier:   notifier,
		logger:     logger.With().Str("service", "LessonService").Logger(),
	}
}

// Create validates the video link, checks the parent course exists and stamps
// the acting user as owner.
func (s *lessonService) Create(ctx context.Context, p permission.Principal, l *model.Lesson) (*model.Lesson, error) {
	if d := permission.Resolve(permission.ActionCreate, p, permission.Resource{}); !d.Allowed {
		return nil, forbidden(d)
	}
	if err := validateVideoLink(l.VideoLink); err != nil {
		return nil, err
	}
	course, err := s.courseRepo.GetCourseByID(ctx, l.CourseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, ErrNotFound
	}
	l.OwnerID = &p.ID
	if err := s.repo.CreateLesson(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// Get returns a single lesson, owner or moderator only.
func (s *lessonService) Get(ctx context.Context, p permission.Principal, id int64) (*model.Lesson, error) {
	lesson, err := s.repo.GetLessonByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lesson == nil {
		return nil, ErrNotFound
	}
	if d := permission.Resolve(permission.ActionRetrieve, p, permission.Resource{OwnerID: lesson.OwnerID}); !d.Allowed {
		return nil, forbidden(d)
	}
	return lesson, nil
}

// List returns one page of lessons plus the total count.
func (s *lessonService) List(ctx context.Context, p permission.Principal, page, pageSize int) ([]model.Lesson, int, error) {
	if d := permission.Resolve(permission.ActionList, p, permission.Resource{}); !d.Allowed {
		return nil, 0, forbidden(d)
	}
	total, err := s.repo.CountLessons(ctx)
	if err != nil {
		return nil, 0, err
	}
	lessons, err := s.repo.ListLessons(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	return lessons, total, nil
}

// Update applies the changes and runs the notification gate against the
// parent course's pre-update timestamp.
func (s *lessonService) Update(ctx context.Context, p permission.Principal, id int64, upd model.LessonUpdate) (*model.Lesson, error) {
	lesson, err := s.repo.GetLessonByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lesson == nil {
		return nil, ErrNotFound
	}
	if d := permission.Resolve(permission.ActionUpdate, p, permission.Resource{OwnerID: lesson.OwnerID}); !d.Allowed {
		return nil, forbidden(d)
	}

	if upd.Name != nil {
		lesson.Name = *upd.Name
	}
	if upd.Description != nil {
		lesson.Description = *upd.Description
	}
	if upd.PreviewURL != nil {
		lesson.PreviewURL = *upd.PreviewURL
	}
	if upd.VideoLink != nil {
		lesson.VideoLink = *upd.VideoLink
	}
	if err := validateVideoLink(lesson.VideoLink); err != nil {
		return nil, err
	}

	course, err := s.courseRepo.GetCourseByID(ctx, lesson.CourseID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateLesson(ctx, lesson); err != nil {
		return nil, err
	}
	if course != nil {
		s.notifier.CourseUpdated(ctx, course.ID, course.UpdatedAt)
	}
	return lesson, nil
}

// Delete removes a lesson, owner only.
func (s *lessonService) Delete(ctx context.Context, p permission.Principal, id int64) error {
	lesson, err := s.repo.GetLessonByID(ctx, id)
	if err != nil {
		return err
	}
	if lesson == nil {
		return ErrNotFound
	}
	if d := permission.Resolve(permission.ActionDestroy, p, permission.Resource{OwnerID: lesson.OwnerID}); !d.Allowed {
		return forbidden(d)
	}
	return s.repo.DeleteLesson(ctx, id)
}
