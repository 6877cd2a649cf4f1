package model

import "time"

// CourseType distinguishes paid courses from free bootcamps.
type CourseType string

const (
	CourseTypeFree CourseType = "FREE"
	CourseTypePaid CourseType = "PAID"
)

// Course represents a catalog entry. Embedding is derived from
// title+description and regenerated on every create and update.
type Course struct {
	ID          string     `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	Type        CourseType `db:"type" json:"type"`
	Price       float64    `db:"price" json:"price"`
	Image       string     `db:"image" json:"image"`
	URL         string     `db:"url" json:"url"`
	NotesPDF    string     `db:"notes_pdf" json:"notesPdf,omitempty"`
	VideoURLs   []string   `db:"video_urls" json:"videoUrls"`
	CreatedBy   string     `db:"created_by" json:"createdBy"`
	Embedding   []float32  `db:"embedding" json:"-"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
}

// ScoredCourse is a course annotated with a vector similarity score and,
// in detailed search mode, a per-course explanation.
type ScoredCourse struct {
	Course
	Score       float64 `json:"score"`
	Explanation string  `json:"explanation,omitempty"`
}
