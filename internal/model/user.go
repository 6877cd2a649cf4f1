package model

import "time"

// User represents a user profile. The set of owned courses lives in the
// user_courses join table rather than on the profile row.
type User struct {
	UserID    string    `db:"user_id" json:"user_id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// PurchasedCourse is the projection returned when listing a user's paid
// courses: id, title, description, type, price, image and url only.
type PurchasedCourse struct {
	ID          string     `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	Type        CourseType `db:"type" json:"type"`
	Price       float64    `db:"price" json:"price"`
	Image       string     `db:"image" json:"image"`
	URL         string     `db:"url" json:"url"`
}
