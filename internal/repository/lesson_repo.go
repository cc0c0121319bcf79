package repository

import (
	"context"
	"database/sql"

	"openschool/internal/model"
)

// LessonRepository defines the interface for interacting with lesson data.
type LessonRepository interface {
	CreateLesson(ctx context.Context, l *model.Lesson) error
	GetLessonByID(ctx context.Context, id int64) (*model.Lesson, error)
	ListLessons(ctx context.Context, limit, offset int) ([]model.Lesson, error)
	CountLessons(ctx context.Context) (int, error)
	ListLessonsByCourseID(ctx context.Context, courseID int64) ([]model.Lesson, error)
	UpdateLesson(ctx context.Context, l *model.Lesson) error
	DeleteLesson(ctx context.Context, id int64) error
}

type lessonRepo struct {
	db *sql.DB
}

// NewLessonRepo creates a new LessonRepository.
func NewLessonRepo(db *sql.DB) LessonRepository {
	return &lessonRepo{db: db}
}

const lessonColumns = `id, course_id, name, description, preview_url, video_link, owner_id, created_at, updated_at`

func scanLesson(row interface{ Scan(...any) error }, l *model.Lesson) error {
	return row.Scan(
		&l.ID,
		&l.CourseID,
		&l.Name,
		&l.Description,
		&l.PreviewURL,
		&l.VideoLink,
		&l.OwnerID,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
}

// CreateLesson inserts a new lesson and fills in the generated fields.
func (r *lessonRepo) CreateLesson(ctx context.Context, l *model.Lesson) error {
	query := `
		INSERT INTO lessons (course_id, name, description, preview_url, video_link, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		l.CourseID, l.Name, l.Description, l.PreviewURL, l.VideoLink, l.OwnerID,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
}

// GetLessonByID retrieves a lesson by its id; returns nil when absent.
func (r *lessonRepo) GetLessonByID(ctx context.Context, id int64) (*model.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons WHERE id = $1`
	var l model.Lesson
	err := scanLesson(r.db.QueryRowContext(ctx, query, id), &l)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

// ListLessons retrieves a page of lessons ordered by id.
func (r *lessonRepo) ListLessons(ctx context.Context, limit, offset int) ([]model.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons ORDER BY id ASC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectLessons(rows)
}

// CountLessons returns the total number of lessons.
func (r *lessonRepo) CountLessons(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM lessons`).Scan(&n)
	return n, err
}

// ListLessonsByCourseID retrieves all lessons of a course ordered by id.
func (r *lessonRepo) ListLessonsByCourseID(ctx context.Context, courseID int64) ([]model.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons WHERE course_id = $1 ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectLessons(rows)
}

func collectLessons(rows *sql.Rows) ([]model.Lesson, error) {
	lessons := []model.Lesson{}
	for rows.Next() {
		var l model.Lesson
		if err := scanLesson(rows, &l); err != nil {
			return nil, err
		}
		lessons = append(lessons, l)
	}
	return lessons, rows.Err()
}

// UpdateLesson updates an existing lesson and refreshes updated_at.
func (r *lessonRepo) UpdateLesson(ctx context.Context, l *model.Lesson) error {
	query := `
		UPDATE lessons
		SET name = $1, description = $2, preview_url = $3, video_link = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		l.Name, l.Description, l.PreviewURL, l.VideoLink, l.ID,
	).Scan(&l.UpdatedAt)
}

// DeleteLesson removes a lesson.
func (r *lessonRepo) DeleteLesson(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM lessons WHERE id = $1`, id)
	return err
}
