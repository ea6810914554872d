package service

import (
	"context"

	"github.com/spec-kit/timesheet-service/internal/domain"
	"github.com/spec-kit/timesheet-service/internal/repository"
)

// DirectoryService serves the department directory, cached per listing.
type DirectoryService struct {
	departments repository.DepartmentRepository
	cache       *Cache
}

// NewDirectoryService constructs the service.
func NewDirectoryService(departments repository.DepartmentRepository, cache *Cache) *DirectoryService {
	return &DirectoryService{departments: departments, cache: cache}
}

// ListDepartments returns all active departments.
func (s *DirectoryService) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	const cacheKey = "directory:departments"
	var cached []domain.Department
	if s.cache.Get(ctx, cacheKey, &cached) {
		return cached, nil
	}

	departments, err := s.departments.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, cacheKey, departments)
	return departments, nil
}

// MyDepartments returns the departments the caller holds any role in.
func (s *DirectoryService) MyDepartments(ctx context.Context, userID string) ([]domain.Department, error) {
	cacheKey := "directory:departments:" + userID
	var cached []domain.Department
	if s.cache.Get(ctx, cacheKey, &cached) {
		return cached, nil
	}

	departments, err := s.departments.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, cacheKey, departments)
	return departments, nil
}
