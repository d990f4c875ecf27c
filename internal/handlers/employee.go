package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/sankofa/internal/middleware"
	"github.com/example/sankofa/internal/models"
	"github.com/example/sankofa/internal/store"
	"github.com/example/sankofa/internal/utils"
)

// EmployeeHandler manages employee CRUD endpoints. All routes sit behind
// the bearer-token middleware.
type EmployeeHandler struct {
	employees store.EmployeeStore
}

// NewEmployeeHandler constructs an EmployeeHandler.
func NewEmployeeHandler(employees store.EmployeeStore) *EmployeeHandler {
	return &EmployeeHandler{employees: employees}
}

type employeeRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Position string `json:"position"`
}

// Create creates an employee attributed to the authenticated user.
func (h *EmployeeHandler) Create(c *fiber.Ctx) error {
	currentUserID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req employeeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name == "" || req.Email == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name and email are required")
	}
	if !utils.IsValidEmail(req.Email) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid email format")
	}

	employee := models.Employee{
		Name:      req.Name,
		Email:     req.Email,
		Position:  req.Position,
		CreatedBy: currentUserID,
	}
	if err := h.employees.Create(c.UserContext(), &employee); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": employee})
}

// List returns employees with pagination.
func (h *EmployeeHandler) List(c *fiber.Ctx) error {
	p := utils.ParsePagination(c)
	employees, total, err := h.employees.List(c.UserContext(), p.Offset, p.Limit)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": employees,
		"meta": fiber.Map{"page": p.Page, "limit": p.Limit, "total": total},
	})
}

// Get returns one employee by id.
func (h *EmployeeHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid employee id")
	}

	employee, err := h.employees.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": employee})
}

// Update applies partial updates to an employee.
func (h *EmployeeHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid employee id")
	}

	var req employeeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	employee, err := h.employees.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}

	if req.Name != "" {
		employee.Name = req.Name
	}
	if req.Email != "" {
		if !utils.IsValidEmail(req.Email) {
			return fiber.NewError(fiber.StatusBadRequest, "invalid email format")
		}
		employee.Email = req.Email
	}
	if req.Position != "" {
		employee.Position = req.Position
	}

	if err := h.employees.Update(c.UserContext(), employee); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": employee})
}

// Delete removes an employee.
func (h *EmployeeHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid employee id")
	}

	if err := h.employees.Delete(c.UserContext(), id); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": fiber.Map{"message": "delete successful"}})
}
