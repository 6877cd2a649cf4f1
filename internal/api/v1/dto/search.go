package dto

import (
	"coursehub/internal/model"
)

// ScoredCourseDTO is a search hit: a course plus its similarity score and,
// in detailed mode, a per-course explanation.
type ScoredCourseDTO struct {
	CourseResponseDTO
	Score       float64 `json:"score"`
	Explanation string  `json:"explanation,omitempty"`
}

// SearchResponseDTO is the search endpoint's envelope.
type SearchResponseDTO struct {
	Success bool              `json:"success"`
	Query   string            `json:"query"`
	Count   int               `json:"count"`
	Summary string            `json:"summary,omitempty"`
	Message string            `json:"message,omitempty"`
	Data    []ScoredCourseDTO `json:"data"`
}

// FromScoredCourses maps search hits, keeping an empty slice over nil.
func FromScoredCourses(courses []model.ScoredCourse) []ScoredCourseDTO {
	out := make([]ScoredCourseDTO, 0, len(courses))
	for _, c := range courses {
		out = append(out, ScoredCourseDTO{
			CourseResponseDTO: FromCourse(c.Course),
			Score:             c.Score,
			Explanation:       c.Explanation,
		})
	}
	return out
}
