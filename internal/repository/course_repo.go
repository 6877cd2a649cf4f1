package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"coursehub/internal/model"

	"github.com/rs/zerolog"
)

// numCandidates bounds the nearest-neighbour scan before results are
// truncated to the caller's limit.
const numCandidates = 100

// CourseRepository defines the interface for interacting with course data
type CourseRepository interface {
	// CreateCourseWithOwner inserts the course and the creator's ownership
	// reference in a single transaction.
	CreateCourseWithOwner(ctx context.Context, c *model.Course) error
	// GetCourseByID retrieves a course by its ID; returns nil, nil when absent
	GetCourseByID(ctx context.Context, courseID string) (*model.Course, error)
	GetCoursesByType(ctx context.Context, courseType model.CourseType) ([]model.Course, error)
	// UpdateCourse applies the full field set, embedding included
	UpdateCourse(ctx context.Context, c *model.Course) error
	DeleteCourse(ctx context.Context, courseID string) error
	// SearchByEmbedding returns up to limit of the nearest candidates with
	// cosine similarity scores, best first. No score threshold is applied.
	SearchByEmbedding(ctx context.Context, embedding []float32, limit int) ([]model.ScoredCourse, error)
	UpdateEmbedding(ctx context.Context, courseID string, embedding []float32) error
	// ListCoursesMissingEmbedding returns IDs of courses with no stored embedding
	ListCoursesMissingEmbedding(ctx context.Context, limit int) ([]string, error)
	// RepairOwnerReferences inserts any missing (creator, course) ownership
	// rows and reports how many were added.
	RepairOwnerReferences(ctx context.Context) (int64, error)
}

type courseRepo struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewCourseRepo creates a new CourseRepository
func NewCourseRepo(db *sql.DB, logger zerolog.Logger) CourseRepository {
	return &courseRepo{db: db, logger: logger.With().Str("repository", "CourseRepo").Logger()}
}

// vectorLiteral renders an embedding in pgvector's input format.
func vectorLiteral(embedding []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range embedding {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(v), 'f', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}

func (r *courseRepo) CreateCourseWithOwner(ctx context.Context, c *model.Course) error {
	videoURLs, err := json.Marshal(c.VideoURLs)
	if err != nil {
		return fmt.Errorf("marshaling video urls: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO courses (title, description, type, price, image, url, notes_pdf, video_urls, created_by, embedding)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9, $10::vector)
		RETURNING id, created_at, updated_at
	`
	err = tx.QueryRowContext(ctx, query,
		c.Title, c.Description, c.Type, c.Price, c.Image, c.URL, c.NotesPDF,
		videoURLs, c.CreatedBy, vectorLiteral(c.Embedding),
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return err
	}

	// Idempotent ownership append keeps the created-course invariant even on retry.
	ownerQuery := `
		INSERT INTO user_courses (user_id, course_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`
	if _, err := tx.ExecContext(ctx, ownerQuery, c.CreatedBy, c.ID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *courseRepo) GetCourseByID(ctx context.Context, courseID string) (*model.Course, error) {
	query := `
		SELECT id, title, description, type, price, image, url, notes_pdf, video_urls, created_by, created_at, updated_at
		FROM courses
		WHERE id = $1
	`
	c, err := scanCourse(r.db.QueryRowContext(ctx, query, courseID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func (r *courseRepo) GetCoursesByType(ctx context.Context, courseType model.CourseType) ([]model.Course, error) {
	query := `
		SELECT id, title, description, type, price, image, url, notes_pdf, video_urls, created_by, created_at, updated_at
		FROM courses
		WHERE type = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, courseType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, *c)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	// If no courses found, return an empty slice, not nil
	if len(courses) == 0 {
		return []model.Course{}, nil
	}
	return courses, nil
}

func (r *courseRepo) UpdateCourse(ctx context.Context, c *model.Course) error {
	videoURLs, err := json.Marshal(c.VideoURLs)
	if err != nil {
		return fmt.Errorf("marshaling video urls: %w", err)
	}
	query := `
		UPDATE courses
		SET title = $1, description = $2, type = $3, price = $4, image = $5, url = $6,
		    notes_pdf = NULLIF($7, ''), video_urls = $8, embedding = $9::vector, updated_at = NOW()
		WHERE id = $10
		RETURNING created_by, created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		c.Title, c.Description, c.Type, c.Price, c.Image, c.URL, c.NotesPDF,
		videoURLs, vectorLiteral(c.Embedding), c.ID,
	).Scan(&c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
}

func (r *courseRepo) DeleteCourse(ctx context.Context, courseID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, courseID)
	return err
}

func (r *courseRepo) SearchByEmbedding(ctx context.Context, embedding []float32, limit int) ([]model.ScoredCourse, error) {
	query := `
		SELECT id, title, description, type, price, image, url, notes_pdf, video_urls, created_by, created_at, updated_at,
		       1 - (embedding <=> $1::vector) AS score
		FROM (
			SELECT * FROM courses
			WHERE embedding IS NOT NULL
			ORDER BY embedding <=> $1::vector
			LIMIT $2
		) candidates
		ORDER BY score DESC
		LIMIT $3
	`
	rows, err := r.db.QueryContext(ctx, query, vectorLiteral(embedding), numCandidates, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []model.ScoredCourse
	for rows.Next() {
		var sc model.ScoredCourse
		var notesPDF sql.NullString
		var videoURLs []byte
		if err := rows.Scan(
			&sc.ID, &sc.Title, &sc.Description, &sc.Type, &sc.Price, &sc.Image, &sc.URL,
			&notesPDF, &videoURLs, &sc.CreatedBy, &sc.CreatedAt, &sc.UpdatedAt, &sc.Score,
		); err != nil {
			return nil, err
		}
		sc.NotesPDF = notesPDF.String
		if len(videoURLs) > 0 {
			if err := json.Unmarshal(videoURLs, &sc.VideoURLs); err != nil {
				return nil, fmt.Errorf("unmarshaling video urls: %w", err)
			}
		}
		results = append(results, sc)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	if len(results) == 0 {
		return []model.ScoredCourse{}, nil
	}
	return results, nil
}

func (r *courseRepo) UpdateEmbedding(ctx context.Context, courseID string, embedding []float32) error {
	query := `UPDATE courses SET embedding = $1::vector, updated_at = NOW() WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, vectorLiteral(embedding), courseID)
	return err
}

func (r *courseRepo) ListCoursesMissingEmbedding(ctx context.Context, limit int) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM courses WHERE embedding IS NULL ORDER BY created_at ASC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *courseRepo) RepairOwnerReferences(ctx context.Context) (int64, error) {
	query := `
		INSERT INTO user_courses (user_id, course_id)
		SELECT created_by, id FROM courses
		ON CONFLICT DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCourse(row rowScanner) (*model.Course, error) {
	var c model.Course
	var notesPDF sql.NullString
	var videoURLs []byte
	err := row.Scan(
		&c.ID, &c.Title, &c.Description, &c.Type, &c.Price, &c.Image, &c.URL,
		&notesPDF, &videoURLs, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.NotesPDF = notesPDF.String
	if len(videoURLs) > 0 {
		if err := json.Unmarshal(videoURLs, &c.VideoURLs); err != nil {
			return nil, fmt.Errorf("unmarshaling video urls: %w", err)
		}
	}
	return &c, nil
}
