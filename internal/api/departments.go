package api

import (
	"churchdirectory/internal/store"

	"github.com/gofiber/fiber/v2"
)

type departmentPayload struct {
	Name string `json:"name"`
}

func (h *Handler) ListDepartments(c *fiber.Ctx) error {
	departments := h.cache.Departments()
	return c.JSON(fiber.Map{
		"departments": departments,
		"count":       len(departments),
	})
}

func (h *Handler) CreateDepartment(c *fiber.Ctx) error {
	var payload departmentPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid department payload",
		})
	}

	dept, outcome := h.cache.AddDepartment(payload.Name)
	switch outcome {
	case store.DeptEmptyName:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Department name is required",
		})
	case store.DeptDuplicate:
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":      "Department already exists",
			"department": dept,
		})
	default:
		return c.Status(fiber.StatusCreated).JSON(dept)
	}
}

func (h *Handler) UpdateDepartment(c *fiber.Ctx) error {
	var payload departmentPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid department payload",
		})
	}

	h.cache.UpdateDepartment(c.Params("id"), payload.Name)
	return c.JSON(fiber.Map{
		"message": "Department updated",
	})
}

func (h *Handler) DeleteDepartment(c *fiber.Ctx) error {
	h.cache.DeleteDepartment(c.Params("id"))
	return c.SendStatus(fiber.StatusNoContent)
}
