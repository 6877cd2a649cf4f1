package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"coursehub/internal/model"
)

type fakeUserService struct {
	userID    string
	purchased []model.PurchasedCourse
}

func (s *fakeUserService) Get(ctx context.Context, userID string) (*model.User, error) {
	return nil, nil
}

func (s *fakeUserService) GetPurchasedCourses(ctx context.Context, userID string) ([]model.PurchasedCourse, error) {
	s.userID = userID
	return s.purchased, nil
}

func TestListPurchasedCoursesUsesAuthIdentity(t *testing.T) {
	svc := &fakeUserService{purchased: []model.PurchasedCourse{{ID: "c1", Title: "Go Basics"}}}
	h := NewUserHandler(svc)
	mux := http.NewServeMux()
	h.RegisterRoutes(mux, testAuth("user-42"))

	req := httptest.NewRequest(http.MethodGet, "/users/me/courses", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.userID != "user-42" {
		t.Fatalf("identity must come from the token, got %q", svc.userID)
	}
	body := decodeEnvelope(t, rec)
	if data, ok := body["data"].([]any); !ok || len(data) != 1 {
		t.Fatalf("expected one purchased course, got %v", body["data"])
	}
}

func TestListPurchasedCoursesEmpty(t *testing.T) {
	svc := &fakeUserService{purchased: []model.PurchasedCourse{}}
	h := NewUserHandler(svc)
	mux := http.NewServeMux()
	h.RegisterRoutes(mux, testAuth("user-42"))

	req := httptest.NewRequest(http.MethodGet, "/users/me/courses", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	if data, ok := body["data"].([]any); !ok || len(data) != 0 {
		t.Fatalf("expected empty data array, got %v", body["data"])
	}
}
