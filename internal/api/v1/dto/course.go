package dto

import (
	"time"

	"coursehub/internal/model"
)

// CoursePayloadDTO is the full field set submitted on create and update.
type CoursePayloadDTO struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Type        string   `json:"type" validate:"required,oneof=FREE PAID"`
	Price       float64  `json:"price" validate:"gte=0"`
	Image       string   `json:"image" validate:"required,url"`
	URL         string   `json:"url" validate:"required,url"`
	NotesPDF    string   `json:"notesPdf,omitempty"`
	VideoURLs   []string `json:"videoUrls" validate:"dive,url"`
}

// ToModel builds a Course from the submitted payload.
func (p CoursePayloadDTO) ToModel() *model.Course {
	return &model.Course{
		Title:       p.Title,
		Description: p.Description,
		Type:        model.CourseType(p.Type),
		Price:       p.Price,
		Image:       p.Image,
		URL:         p.URL,
		NotesPDF:    p.NotesPDF,
		VideoURLs:   p.VideoURLs,
	}
}

// CourseResponseDTO is returned in API responses for courses
type CourseResponseDTO struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	Price       float64   `json:"price"`
	Image       string    `json:"image"`
	URL         string    `json:"url"`
	NotesPDF    string    `json:"notesPdf,omitempty"`
	VideoURLs   []string  `json:"videoUrls"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// FromCourse maps a domain course to its response shape.
func FromCourse(c model.Course) CourseResponseDTO {
	return CourseResponseDTO{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Type:        string(c.Type),
		Price:       c.Price,
		Image:       c.Image,
		URL:         c.URL,
		NotesPDF:    c.NotesPDF,
		VideoURLs:   c.VideoURLs,
		CreatedBy:   c.CreatedBy,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// FromCourses maps a course list, keeping an empty slice over nil.
func FromCourses(courses []model.Course) []CourseResponseDTO {
	out := make([]CourseResponseDTO, 0, len(courses))
	for _, c := range courses {
		out = append(out, FromCourse(c))
	}
	return out
}

// AssetUploadRequestDTO asks for a presigned course asset upload URL.
type AssetUploadRequestDTO struct {
	Filename string `json:"filename" validate:"required"`
}

// AssetUploadResponseDTO carries the presigned PUT URL and the storage path
// to submit back as notesPdf.
type AssetUploadResponseDTO struct {
	UploadURL   string `json:"uploadUrl"`
	StoragePath string `json:"storagePath"`
}
