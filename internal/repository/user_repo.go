package repository

import (
	"context"
	"database/sql"
	"errors"

	"coursehub/internal/model"
)

type UserRepository interface {
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	// HasCourse reports whether the course is in the user's owned set
	HasCourse(ctx context.Context, userID, courseID string) (bool, error)
	// AddCourse appends a course to the user's owned set; repeat adds are no-ops
	AddCourse(ctx context.Context, userID, courseID string) error
	// GetPurchasedCourses joins the owned set against courses, keeping PAID
	// entries only and projecting the catalog listing fields.
	GetPurchasedCourses(ctx context.Context, userID string) ([]model.PurchasedCourse, error)
}

type userRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	query := `SELECT user_id, name, email, created_at, updated_at FROM user_profiles WHERE user_id=$1`
	row := r.db.QueryRowContext(ctx, query, id)
	if err := row.Scan(&u.UserID, &u.Name, &u.Email, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) HasCourse(ctx context.Context, userID, courseID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM user_courses WHERE user_id = $1 AND course_id = $2)`
	if err := r.db.QueryRowContext(ctx, query, userID, courseID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *userRepo) AddCourse(ctx context.Context, userID, courseID string) error {
	query := `INSERT INTO user_courses (user_id, course_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	_, err := r.db.ExecContext(ctx, query, userID, courseID)
	return err
}

func (r *userRepo) GetPurchasedCourses(ctx context.Context, userID string) ([]model.PurchasedCourse, error) {
	query := `
		SELECT c.id, c.title, c.description, c.type, c.price, c.image, c.url
		FROM user_courses uc
		JOIN courses c ON c.id = uc.course_id
		WHERE uc.user_id = $1 AND c.type = $2
		ORDER BY c.title ASC
	`
	rows, err := r.db.QueryContext(ctx, query, userID, model.CourseTypePaid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []model.PurchasedCourse
	for rows.Next() {
		var pc model.PurchasedCourse
		if err := rows.Scan(&pc.ID, &pc.Title, &pc.Description, &pc.Type, &pc.Price, &pc.Image, &pc.URL); err != nil {
			return nil, err
		}
		courses = append(courses, pc)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	// If no courses found, return an empty slice, not nil
	if len(courses) == 0 {
		return []model.PurchasedCourse{}, nil
	}
	return courses, nil
}
