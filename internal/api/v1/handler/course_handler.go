package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"coursehub/internal/api/v1/dto"
	"coursehub/internal/middleware"
	"coursehub/internal/model"
	"coursehub/internal/service"

	"github.com/go-playground/validator/v10"
)

// CourseHandler handles course-related endpoints
type CourseHandler struct {
	courseService service.CourseService
	searchService service.SearchService
	validate      *validator.Validate
}

// NewCourseHandler creates a new CourseHandler
func NewCourseHandler(courseService service.CourseService, searchService service.SearchService, validate *validator.Validate) *CourseHandler {
	return &CourseHandler{courseService: courseService, searchService: searchService, validate: validate}
}

// RegisterRoutes mounts course routes. Listing, bootcamps and search are
// public; everything else requires auth.
func (h *CourseHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	createCourse := authMw(http.HandlerFunc(h.createCourse))
	mux.Handle("/courses", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.listCourses(w, r)
		case http.MethodPost:
			createCourse.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	}))
	mux.HandleFunc("/bootcamps", h.listBootcamps)
	mux.HandleFunc("/courses/search", h.searchCourses)
	mux.Handle("/courses/", authMw(http.HandlerFunc(h.handleCourse)))
}

// createCourse godoc
// @Summary Create a new course
// @Description Validates the payload, generates the course embedding and persists the course with its creator reference.
// @Tags courses
// @Accept json
// @Produce json
// @Param course body dto.CoursePayloadDTO true "Course creation request"
// @Success 201 {object} dto.CourseResponseDTO
// @Failure 422 {string} string "Validation failed"
// @Failure 500 {string} string "Failed to create course"
// @Router /courses [post]
func (h *CourseHandler) createCourse(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		respondError(w, http.StatusUnauthorized, "Unauthorized: user ID not found in context")
		return
	}
	var req dto.CoursePayloadDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON payload: "+err.Error())
		return
	}
	// Validation runs before the embedding call so bad input never costs a
	// provider round trip.
	if err := h.validate.Struct(&req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "Validation failed: "+err.Error())
		return
	}

	course := req.ToModel()
	course.CreatedBy = userID

	created, err := h.courseService.CreateCourse(r.Context(), course)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create course")
		return
	}
	respondData(w, http.StatusCreated, dto.FromCourse(*created))
}

// listCourses godoc
// @Summary List paid courses
// @Tags courses
// @Produce json
// @Success 200 {array} dto.CourseResponseDTO
// @Router /courses [get]
func (h *CourseHandler) listCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.courseService.ListCourses(r.Context(), model.CourseTypePaid)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to retrieve courses")
		return
	}
	respondData(w, http.StatusOK, dto.FromCourses(courses))
}

// listBootcamps godoc
// @Summary List free bootcamps
// @Tags courses
// @Produce json
// @Success 200 {array} dto.CourseResponseDTO
// @Router /bootcamps [get]
func (h *CourseHandler) listBootcamps(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	bootcamps, err := h.courseService.ListCourses(r.Context(), model.CourseTypeFree)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to retrieve bootcamps")
		return
	}
	respondData(w, http.StatusOK, dto.FromCourses(bootcamps))
}

func (h *CourseHandler) handleCourse(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/courses/")
	parts := strings.SplitN(rest, "/", 2)
	courseID := parts[0]
	action := ""
	if len(parts) == 2 {
		action = parts[1]
	}
	if courseID == "" {
		http.NotFound(w, r)
		return
	}

	switch {
	case action == "" && r.Method == http.MethodPut:
		h.updateCourse(w, r, courseID)
	case action == "" && r.Method == http.MethodDelete:
		h.deleteCourse(w, r, courseID)
	case action == "view" && r.Method == http.MethodGet:
		h.viewCourse(w, r, courseID)
	case action == "purchase" && r.Method == http.MethodPost:
		h.purchaseCourse(w, r, courseID)
	case action == "assets" && r.Method == http.MethodPost:
		h.createAssetUploadURL(w, r, courseID)
	default:
		http.NotFound(w, r)
	}
}

// updateCourse godoc
// @Summary Update a course
// @Description Applies the full field set and regenerates the course embedding.
// @Tags courses
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param course body dto.CoursePayloadDTO true "Course update request"
// @Success 200 {object} dto.CourseResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 404 {string} string "Course not found"
// @Failure 500 {string} string "Failed to update course"
// @Router /courses/{courseId} [put]
func (h *CourseHandler) updateCourse(w http.ResponseWriter, r *http.Request, courseID string) {
	var req dto.CoursePayloadDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON payload: "+err.Error())
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	course := req.ToModel()
	course.ID = courseID

	updated, err := h.courseService.UpdateCourse(r.Context(), course)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			respondError(w, http.StatusNotFound, "Course not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to update course")
		return
	}
	respondData(w, http.StatusOK, dto.FromCourse(*updated))
}

// deleteCourse godoc
// @Summary Delete a course
// @Tags courses
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {string} string "Course deleted successfully"
// @Failure 404 {string} string "Course not found"
// @Failure 500 {string} string "Failed to delete course"
// @Router /courses/{courseId} [delete]
func (h *CourseHandler) deleteCourse(w http.ResponseWriter, r *http.Request, courseID string) {
	if err := h.courseService.DeleteCourse(r.Context(), courseID); err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			respondError(w, http.StatusNotFound, "Course not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to delete course")
		return
	}
	respondMessage(w, http.StatusOK, "Course deleted successfully")
}

// viewCourse godoc
// @Summary View a purchased course
// @Description Returns the full course for playback; the caller must own the course.
// @Tags courses
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} dto.CourseResponseDTO
// @Failure 401 {string} string "Course not purchased"
// @Failure 404 {string} string "Course not found"
// @Router /courses/{courseId}/view [get]
func (h *CourseHandler) viewCourse(w http.ResponseWriter, r *http.Request, courseID string) {
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		respondError(w, http.StatusUnauthorized, "Unauthorized: user ID not found in context")
		return
	}

	course, err := h.courseService.ViewCourse(r.Context(), courseID, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotPurchased):
			respondError(w, http.StatusUnauthorized, "You have not purchased this course, please buy to watch")
		case errors.Is(err, service.ErrCourseNotFound):
			respondError(w, http.StatusNotFound, "Course not found")
		default:
			respondError(w, http.StatusInternalServerError, "Failed to retrieve course")
		}
		return
	}
	respondData(w, http.StatusOK, dto.FromCourse(*course))
}

// purchaseCourse godoc
// @Summary Purchase a course
// @Description Adds the course to the caller's owned set; repeat purchases are no-ops.
// @Tags courses
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {string} string "Course purchased successfully"
// @Failure 404 {string} string "Course not found"
// @Router /courses/{courseId}/purchase [post]
func (h *CourseHandler) purchaseCourse(w http.ResponseWriter, r *http.Request, courseID string) {
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		respondError(w, http.StatusUnauthorized, "Unauthorized: user ID not found in context")
		return
	}

	if err := h.courseService.PurchaseCourse(r.Context(), courseID, userID); err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			respondError(w, http.StatusNotFound, "Course not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to purchase course")
		return
	}
	respondMessage(w, http.StatusOK, "Course purchased successfully")
}

// createAssetUploadURL godoc
// @Summary Request a course asset upload URL
// @Description Returns a presigned PUT URL for direct-to-storage upload. Creator only.
// @Tags courses
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param asset body dto.AssetUploadRequestDTO true "Asset upload request"
// @Success 200 {object} dto.AssetUploadResponseDTO
// @Failure 403 {string} string "Not the course creator"
// @Failure 404 {string} string "Course not found"
// @Router /courses/{courseId}/assets [post]
func (h *CourseHandler) createAssetUploadURL(w http.ResponseWriter, r *http.Request, courseID string) {
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		respondError(w, http.StatusUnauthorized, "Unauthorized: user ID not found in context")
		return
	}

	var req dto.AssetUploadRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON payload: "+err.Error())
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	uploadURL, storagePath, err := h.courseService.CreateAssetUploadURL(r.Context(), courseID, userID, req.Filename)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound):
			respondError(w, http.StatusNotFound, "Course not found")
		case errors.Is(err, service.ErrNotCourseCreator):
			respondError(w, http.StatusForbidden, "Only the course creator can upload assets")
		default:
			respondError(w, http.StatusInternalServerError, "Failed to create upload URL")
		}
		return
	}
	respondData(w, http.StatusOK, dto.AssetUploadResponseDTO{UploadURL: uploadURL, StoragePath: storagePath})
}

// searchCourses godoc
// @Summary Semantic course search
// @Description Embeds the query, runs a vector similarity search and optionally explains the results.
// @Tags courses
// @Produce json
// @Param query query string true "Free-text search query"
// @Param limit query int false "Maximum results (default 3)"
// @Param explain query bool false "Generate explanations (default true)"
// @Param mode query string false "summary or detailed (default summary)"
// @Success 200 {object} dto.SearchResponseDTO
// @Failure 400 {string} string "Missing or invalid parameters"
// @Failure 500 {string} string "Failed to search courses"
// @Router /courses/search [get]
func (h *CourseHandler) searchCourses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	params := r.URL.Query()

	query := params.Get("query")
	if query == "" {
		respondError(w, http.StatusBadRequest, "Query parameter is required")
		return
	}

	limit := 3
	if v := params.Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			respondError(w, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		limit = parsed
	}

	explain := true
	if v := params.Get("explain"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid explain parameter")
			return
		}
		explain = parsed
	}

	mode := service.SearchModeSummary
	switch params.Get("mode") {
	case "", "summary":
	case "detailed":
		mode = service.SearchModeDetailed
	default:
		respondError(w, http.StatusBadRequest, "Invalid mode parameter: must be summary or detailed")
		return
	}

	result, err := h.searchService.Search(r.Context(), query, limit, explain, mode)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to search courses")
		return
	}

	resp := dto.SearchResponseDTO{
		Success: true,
		Query:   query,
		Count:   len(result.Courses),
		Summary: result.Summary,
		Data:    dto.FromScoredCourses(result.Courses),
	}
	if resp.Count == 0 {
		resp.Message = "No courses found matching your query. Try different keywords."
	}
	writeJSON(w, http.StatusOK, resp)
}
