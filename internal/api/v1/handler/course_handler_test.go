package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"coursehub/internal/middleware"
	"coursehub/internal/model"
	"coursehub/internal/service"

	"github.com/go-playground/validator/v10"
)

// testAuth stands in for the JWT middleware and injects a fixed user ID.
func testAuth(userID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), middleware.UserContextKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type fakeCourseService struct {
	created       *model.Course
	listedType    model.CourseType
	listResult    []model.Course
	viewErr       error
	viewResult    *model.Course
	deleteErr     error
	updateErr     error
	purchaseErr   error
	assetErr      error
	purchasedArgs []string
}

func (s *fakeCourseService) CreateCourse(ctx context.Context, c *model.Course) (*model.Course, error) {
	s.created = c
	c.ID = "new-id"
	return c, nil
}

func (s *fakeCourseService) ListCourses(ctx context.Context, courseType model.CourseType) ([]model.Course, error) {
	s.listedType = courseType
	return s.listResult, nil
}

func (s *fakeCourseService) UpdateCourse(ctx context.Context, c *model.Course) (*model.Course, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	return c, nil
}

func (s *fakeCourseService) DeleteCourse(ctx context.Context, courseID string) error {
	return s.deleteErr
}

func (s *fakeCourseService) ViewCourse(ctx context.Context, courseID, userID string) (*model.Course, error) {
	if s.viewErr != nil {
		return nil, s.viewErr
	}
	return s.viewResult, nil
}

func (s *fakeCourseService) PurchaseCourse(ctx context.Context, courseID, userID string) error {
	s.purchasedArgs = []string{courseID, userID}
	return s.purchaseErr
}

func (s *fakeCourseService) CreateAssetUploadURL(ctx context.Context, courseID, userID, filename string) (string, string, error) {
	if s.assetErr != nil {
		return "", "", s.assetErr
	}
	return "https://storage.example.com/upload", "assets/" + courseID + "/" + filename, nil
}

type fakeSearchService struct {
	query   string
	limit   int
	explain bool
	mode    service.SearchMode
	result  *service.SearchResult
	err     error
	calls   int
}

func (s *fakeSearchService) Search(ctx context.Context, query string, limit int, explain bool, mode service.SearchMode) (*service.SearchResult, error) {
	s.calls++
	s.query, s.limit, s.explain, s.mode = query, limit, explain, mode
	if s.err != nil {
		return nil, s.err
	}
	if s.result == nil {
		return &service.SearchResult{Courses: []model.ScoredCourse{}}, nil
	}
	return s.result, nil
}

func newTestMux(courseSvc service.CourseService, searchSvc service.SearchService) *http.ServeMux {
	h := NewCourseHandler(courseSvc, searchSvc, validator.New(validator.WithRequiredStructEnabled()))
	mux := http.NewServeMux()
	h.RegisterRoutes(mux, testAuth("user-1"))
	return mux
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	return body
}

const validCourseJSON = `{
	"title": "Go Basics",
	"description": "An introduction to Go",
	"type": "FREE",
	"price": 0,
	"image": "https://cdn.example.com/go.png",
	"url": "https://courses.example.com/go-basics",
	"videoUrls": ["https://videos.example.com/1"]
}`

func TestCreateCourseValidationFailure(t *testing.T) {
	svc := &fakeCourseService{}
	mux := newTestMux(svc, &fakeSearchService{})

	req := httptest.NewRequest(http.MethodPost, "/courses", strings.NewReader(`{"title":"only a title"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	if svc.created != nil {
		t.Fatal("service must not be called on validation failure")
	}
	body := decodeEnvelope(t, rec)
	if body["success"] != false {
		t.Fatal("expected success=false in error envelope")
	}
}

func TestCreateCourseInvalidType(t *testing.T) {
	svc := &fakeCourseService{}
	mux := newTestMux(svc, &fakeSearchService{})

	payload := strings.Replace(validCourseJSON, `"FREE"`, `"PREMIUM"`, 1)
	req := httptest.NewRequest(http.MethodPost, "/courses", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for invalid type, got %d", rec.Code)
	}
}

func TestCreateCourse(t *testing.T) {
	svc := &fakeCourseService{}
	mux := newTestMux(svc, &fakeSearchService{})

	req := httptest.NewRequest(http.MethodPost, "/courses", strings.NewReader(validCourseJSON))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.created == nil {
		t.Fatal("expected the course service to be called")
	}
	if svc.created.CreatedBy != "user-1" {
		t.Fatalf("creator must come from the auth context, got %q", svc.created.CreatedBy)
	}
	body := decodeEnvelope(t, rec)
	if body["success"] != true {
		t.Fatal("expected success=true")
	}
}

func TestListCoursesReturnsPaid(t *testing.T) {
	svc := &fakeCourseService{listResult: []model.Course{{ID: "c1", Type: model.CourseTypePaid}}}
	mux := newTestMux(svc, &fakeSearchService{})

	req := httptest.NewRequest(http.MethodGet, "/courses", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.listedType != model.CourseTypePaid {
		t.Fatalf("expected PAID listing, got %s", svc.listedType)
	}
}

func TestListBootcampsReturnsFree(t *testing.T) {
	svc := &fakeCourseService{listResult: []model.Course{}}
	mux := newTestMux(svc, &fakeSearchService{})

	req := httptest.NewRequest(http.MethodGet, "/bootcamps", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.listedType != model.CourseTypeFree {
		t.Fatalf("expected FREE listing, got %s", svc.listedType)
	}
	body := decodeEnvelope(t, rec)
	if data, ok := body["data"].([]any); !ok || len(data) != 0 {
		t.Fatalf("expected empty data array, got %v", body["data"])
	}
}

func TestUpdateCourseValidationFailure(t *testing.T) {
	svc := &fakeCourseService{}
	mux := newTestMux(svc, &fakeSearchService{})

	req := httptest.NewRequest(http.MethodPut, "/courses/c1", strings.NewReader(`{"title":""}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUpdateCourseNotFound(t *testing.T) {
	svc := &fakeCourseService{updateErr: service.ErrCourseNotFound}
	mux := newTestMux(svc, &fakeSearchService{})

	req := httptest.NewRequest(http.MethodPut, "/courses/missing", strings.NewReader(validCourseJSON))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestDeleteCourseNotFound(t *testing.T) {
	svc := &fakeCourseService{deleteErr: service.ErrCourseNotFound}
	mux := newTestMux(svc, &fakeSearchService{})

	req := httptest.NewRequest(http.MethodDelete, "/courses/missing", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestViewCourseNotPurchased(t *testing.T) {
	svc := &fakeCourseService{viewErr: service.ErrCourseNotPurchased}
	mux := newTestMux(svc, &fakeSearchService{})

	req := httptest.NewRequest(http.MethodGet, "/courses/c1/view", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestViewCourse(t *testing.T) {
	svc := &fakeCourseService{viewResult: &model.Course{ID: "c1", Title: "Go Basics"}}
	mux := newTestMux(svc, &fakeSearchService{})

	req := httptest.NewRequest(http.MethodGet, "/courses/c1/view", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestPurchaseCourse(t *testing.T) {
	svc := &fakeCourseService{}
	mux := newTestMux(svc, &fakeSearchService{})

	req := httptest.NewRequest(http.MethodPost, "/courses/c1/purchase", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(svc.purchasedArgs) != 2 || svc.purchasedArgs[0] != "c1" || svc.purchasedArgs[1] != "user-1" {
		t.Fatalf("unexpected purchase args %v", svc.purchasedArgs)
	}
}

func TestAssetUploadForbidden(t *testing.T) {
	svc := &fakeCourseService{assetErr: service.ErrNotCourseCreator}
	mux := newTestMux(svc, &fakeSearchService{})

	req := httptest.NewRequest(http.MethodPost, "/courses/c1/assets", strings.NewReader(`{"filename":"notes.pdf"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestSearchMissingQuery(t *testing.T) {
	search := &fakeSearchService{}
	mux := newTestMux(&fakeCourseService{}, search)

	req := httptest.NewRequest(http.MethodGet, "/courses/search", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if search.calls != 0 {
		t.Fatal("search service must not be called without a query")
	}
}

func TestSearchInvalidLimit(t *testing.T) {
	mux := newTestMux(&fakeCourseService{}, &fakeSearchService{})

	for _, limit := range []string{"abc", "0", "-1"} {
		req := httptest.NewRequest(http.MethodGet, "/courses/search?query=go&limit="+limit, nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("limit=%s: expected 400, got %d", limit, rec.Code)
		}
	}
}

func TestSearchInvalidMode(t *testing.T) {
	mux := newTestMux(&fakeCourseService{}, &fakeSearchService{})

	req := httptest.NewRequest(http.MethodGet, "/courses/search?query=go&mode=verbose", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSearchDefaults(t *testing.T) {
	search := &fakeSearchService{}
	mux := newTestMux(&fakeCourseService{}, search)

	req := httptest.NewRequest(http.MethodGet, "/courses/search?query=golang", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if search.limit != 3 || !search.explain || search.mode != service.SearchModeSummary {
		t.Fatalf("unexpected defaults: limit=%d explain=%v mode=%s", search.limit, search.explain, search.mode)
	}
}

func TestSearchNoResultsMessage(t *testing.T) {
	search := &fakeSearchService{}
	mux := newTestMux(&fakeCourseService{}, search)

	req := httptest.NewRequest(http.MethodGet, "/courses/search?query=underwater+basket+weaving", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("empty result must still be 200, got %d", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	if body["count"] != float64(0) {
		t.Fatalf("expected count 0, got %v", body["count"])
	}
	if msg, _ := body["message"].(string); msg == "" {
		t.Fatal("expected a guidance message for empty results")
	}
}

func TestSearchSummaryResponse(t *testing.T) {
	search := &fakeSearchService{result: &service.SearchResult{
		Courses: []model.ScoredCourse{{Course: model.Course{ID: "c1", Title: "Go Basics"}, Score: 0.91}},
		Summary: "Go Basics fits best.",
	}}
	mux := newTestMux(&fakeCourseService{}, search)

	req := httptest.NewRequest(http.MethodGet, "/courses/search?query=golang&mode=summary", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	body := decodeEnvelope(t, rec)
	if body["summary"] != "Go Basics fits best." {
		t.Fatalf("expected summary in response, got %v", body["summary"])
	}
	if body["count"] != float64(1) {
		t.Fatalf("expected count 1, got %v", body["count"])
	}
	if body["query"] != "golang" {
		t.Fatalf("expected query echoed back, got %v", body["query"])
	}
}

func TestSearchExplainFalsePassedThrough(t *testing.T) {
	search := &fakeSearchService{}
	mux := newTestMux(&fakeCourseService{}, search)

	req := httptest.NewRequest(http.MethodGet, "/courses/search?query=golang&explain=false", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if search.explain {
		t.Fatal("expected explain=false passed to the service")
	}
	body := decodeEnvelope(t, rec)
	if _, ok := body["summary"]; ok {
		t.Fatal("summary must be omitted when explanations are disabled")
	}
}

func TestSearchErrorIsOpaque(t *testing.T) {
	search := &fakeSearchService{err: context.DeadlineExceeded}
	mux := newTestMux(&fakeCourseService{}, search)

	req := httptest.NewRequest(http.MethodGet, "/courses/search?query=golang", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "deadline") {
		t.Fatal("internal error detail must not leak to the client")
	}
}
