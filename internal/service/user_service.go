package service

import (
	"context"
	"errors"
	"fmt"

	"coursehub/internal/model"
	"coursehub/internal/repository"
)

var ErrUserNotFound = errors.New("user not found")

type UserService interface {
	Get(ctx context.Context, id string) (*model.User, error)
	// GetPurchasedCourses lists the user's owned PAID courses with the
	// catalog listing projection.
	GetPurchasedCourses(ctx context.Context, userID string) ([]model.PurchasedCourse, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) Get(ctx context.Context, id string) (*model.User, error) {
	u, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *userService) GetPurchasedCourses(ctx context.Context, userID string) ([]model.PurchasedCourse, error) {
	courses, err := s.userRepo.GetPurchasedCourses(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing purchased courses: %w", err)
	}
	return courses, nil
}
