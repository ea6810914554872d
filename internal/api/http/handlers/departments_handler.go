package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/timesheet-service/internal/api/dto"
	"github.com/spec-kit/timesheet-service/internal/auth"
	"github.com/spec-kit/timesheet-service/internal/domain"
	"github.com/spec-kit/timesheet-service/internal/service"
	apperrors "github.com/spec-kit/timesheet-service/pkg/util"
)

// DepartmentsHandler serves the department directory.
type DepartmentsHandler struct {
	directory *service.DirectoryService
}

// NewDepartmentsHandler constructs handler.
func NewDepartmentsHandler(directory *service.DirectoryService) *DepartmentsHandler {
	return &DepartmentsHandler{directory: directory}
}

// List GET /departments.
func (h *DepartmentsHandler) List(c *fiber.Ctx) error {
	departments, err := h.directory.ListDepartments(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": departmentResponses(departments)})
}

// Mine GET /departments/mine.
func (h *DepartmentsHandler) Mine(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	departments, err := h.directory.MyDepartments(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": departmentResponses(departments)})
}

func departmentResponses(departments []domain.Department) []dto.DepartmentResponse {
	items := make([]dto.DepartmentResponse, 0, len(departments))
	for _, dept := range departments {
		items = append(items, dto.DepartmentResponse{ID: dept.ID, Name: dept.Name})
	}
	return items
}
