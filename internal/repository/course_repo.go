package repository

import (
	"context"
	"database/sql"

	"openschool/internal/model"
)

// CourseRepository defines the interface for interacting with course data.
type CourseRepository interface {
	CreateCourse(ctx context.Context, c *model.Course) error
	GetCourseByID(ctx context.Context, id int64) (*model.Course, error)
	ListCourses(ctx context.Context, limit, offset int) ([]model.Course, error)
	CountCourses(ctx context.Context) (int, error)
	UpdateCourse(ctx context.Context, c *model.Course) error
	// SetOwner stamps the owner after creation, overriding whatever the
	// request carried.
	SetOwner(ctx context.Context, courseID, ownerID int64) error
	DeleteCourse(ctx context.Context, id int64) error
}

type courseRepo struct {
	db *sql.DB
}

// NewCourseRepo creates a new CourseRepository.
func NewCourseRepo(db *sql.DB) CourseRepository {
	return &courseRepo{db: db}
}

// CreateCourse inserts a new course and fills in the generated fields.
func (r *courseRepo) CreateCourse(ctx context.Context, c *model.Course) error {
	query := `
		INSERT INTO courses (name, description, preview_url, owner_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query, c.Name, c.Description, c.PreviewURL, c.OwnerID).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

// GetCourseByID retrieves a course by its id; returns nil when absent.
func (r *courseRepo) GetCourseByID(ctx context.Context, id int64) (*model.Course, error) {
	query := `
		SELECT id, name, description, preview_url, owner_id, created_at, updated_at
		FROM courses
		WHERE id = $1
	`
	var c model.Course
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID,
		&c.Name,
		&c.Description,
		&c.PreviewURL,
		&c.OwnerID,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// ListCourses retrieves a page of courses ordered by id.
func (r *courseRepo) ListCourses(ctx context.Context, limit, offset int) ([]model.Course, error) {
	query := `
		SELECT id, name, description, preview_url, owner_id, created_at, updated_at
		FROM courses
		ORDER BY id ASC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courses := []model.Course{}
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.PreviewURL, &c.OwnerID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// CountCourses returns the total number of courses.
func (r *courseRepo) CountCourses(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM courses`).Scan(&n)
	return n, err
}

// UpdateCourse updates an existing course and refreshes updated_at.
func (r *courseRepo) UpdateCourse(ctx context.Context, c *model.Course) error {
	query := `
		UPDATE courses
		SET name = $1, description = $2, preview_url = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at
	`
	return r.db.QueryRowContext(ctx, query, c.Name, c.Description, c.PreviewURL, c.ID).
		Scan(&c.UpdatedAt)
}

// SetOwner stamps the course owner without touching updated_at.
func (r *courseRepo) SetOwner(ctx context.Context, courseID, ownerID int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE courses SET owner_id = $1 WHERE id = $2`, ownerID, courseID)
	return err
}

// DeleteCourse removes a course; its lessons go with it via the schema.
func (r *courseRepo) DeleteCourse(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	return err
}
