package handler

import (
	"net/http"

	"coursehub/internal/api/v1/dto"
	"coursehub/internal/middleware"
	"coursehub/internal/service"
)

// UserHandler handles user-related endpoints
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterRoutes mounts user routes; all of them require auth.
func (h *UserHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/users/me/courses", authMw(http.HandlerFunc(h.listPurchasedCourses)))
}

// listPurchasedCourses godoc
// @Summary List the caller's purchased courses
// @Description Returns the paid courses owned by the authenticated user. The identity comes from the access token, never from the request.
// @Tags users
// @Produce json
// @Success 200 {array} dto.PurchasedCourseDTO
// @Failure 401 {string} string "Unauthorized"
// @Failure 500 {string} string "Failed to retrieve purchased courses"
// @Router /users/me/courses [get]
func (h *UserHandler) listPurchasedCourses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		respondError(w, http.StatusUnauthorized, "Unauthorized: user ID not found in context")
		return
	}

	courses, err := h.userService.GetPurchasedCourses(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to retrieve purchased courses")
		return
	}
	respondData(w, http.StatusOK, dto.FromPurchasedCourses(courses))
}
