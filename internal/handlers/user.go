package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/sankofa/internal/models"
	"github.com/example/sankofa/internal/store"
	"github.com/example/sankofa/internal/utils"
)

// UserHandler manages user CRUD endpoints.
type UserHandler struct {
	users store.UserStore
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(users store.UserStore) *UserHandler {
	return &UserHandler{users: users}
}

type createUserRequest struct {
	Name         string `json:"name"`
	EmailAddress string `json:"email_address"`
	PhoneNumber  string `json:"phone_number"`
	ImagePath    string `json:"image_path"`
}

// Create creates a user with at least one valid contact channel.
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var req createUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.EmailAddress == "" && req.PhoneNumber == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email or phone is required")
	}

	user := models.User{Name: req.Name, ImagePath: req.ImagePath}
	if req.EmailAddress != "" {
		if !utils.IsValidEmail(req.EmailAddress) {
			return fiber.NewError(fiber.StatusBadRequest, "invalid email format")
		}
		user.EmailAddress = &req.EmailAddress
	}
	if req.PhoneNumber != "" {
		if !utils.IsValidPhone(req.PhoneNumber) {
			return fiber.NewError(fiber.StatusBadRequest, "invalid phone number format")
		}
		user.PhoneNumber = &req.PhoneNumber
	}
	if user.Name == "" {
		user.Name = user.Contact()
	}

	if err := h.users.Create(c.UserContext(), &user); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": user})
}

// List returns users with pagination.
func (h *UserHandler) List(c *fiber.Ctx) error {
	p := utils.ParsePagination(c)
	users, total, err := h.users.List(c.UserContext(), p.Offset, p.Limit)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": users,
		"meta": fiber.Map{"page": p.Page, "limit": p.Limit, "total": total},
	})
}

// Get returns one user by id.
func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid user id")
	}

	user, err := h.users.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": user})
}

// Delete removes a user.
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid user id")
	}

	if err := h.users.Delete(c.UserContext(), id); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": fiber.Map{"message": "delete successful"}})
}
