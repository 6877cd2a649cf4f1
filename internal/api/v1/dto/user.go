package dto

import (
	"coursehub/internal/model"
)

// PurchasedCourseDTO is the fixed projection returned when listing a user's
// purchased courses.
type PurchasedCourseDTO struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Type        string  `json:"type"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	URL         string  `json:"url"`
}

// FromPurchasedCourses maps the projection list, keeping an empty slice over nil.
func FromPurchasedCourses(courses []model.PurchasedCourse) []PurchasedCourseDTO {
	out := make([]PurchasedCourseDTO, 0, len(courses))
	for _, c := range courses {
		out = append(out, PurchasedCourseDTO{
			ID:          c.ID,
			Title:       c.Title,
			Description: c.Description,
			Type:        string(c.Type),
			Price:       c.Price,
			Image:       c.Image,
			URL:         c.URL,
		})
	}
	return out
}
