package api

import (
	"strings"
	"time"

	"churchdirectory/internal/export"
	"churchdirectory/internal/model"

	"github.com/gofiber/fiber/v2"
)

type memberPayload struct {
	PersonalDetails model.PersonalDetails `json:"personalDetails" validate:"required"`
	ChurchDetails   model.ChurchDetails   `json:"churchDetails" validate:"required"`
}

// ListMembers returns the cached collection, optionally narrowed by a
// case-insensitive name search and a member type filter.
func (h *Handler) ListMembers(c *fiber.Ctx) error {
	members := h.cache.Members()

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		needle := strings.ToLower(search)
		filtered := members[:0]
		for _, m := range members {
			if strings.Contains(strings.ToLower(m.FullName()), needle) {
				filtered = append(filtered, m)
			}
		}
		members = filtered
	}

	if memberType := c.Query("type"); memberType != "" {
		filtered := members[:0]
		for _, m := range members {
			if m.ChurchDetails.MemberType == memberType {
				filtered = append(filtered, m)
			}
		}
		members = filtered
	}

	return c.JSON(fiber.Map{
		"members": members,
		"count":   len(members),
	})
}

func (h *Handler) GetMember(c *fiber.Ctx) error {
	member, ok := h.cache.MemberByID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Member not found",
		})
	}
	return c.JSON(member)
}

func (h *Handler) CreateMember(c *fiber.Ctx) error {
	var payload memberPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid member payload",
		})
	}
	if err := h.validate.Validate(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	member := h.cache.AddMember(model.Member{
		PersonalDetails: payload.PersonalDetails,
		ChurchDetails:   payload.ChurchDetails,
	})
	return c.Status(fiber.StatusCreated).JSON(member)
}

func (h *Handler) UpdateMember(c *fiber.Ctx) error {
	var payload memberPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid member payload",
		})
	}
	if err := h.validate.Validate(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	member, ok := h.cache.UpdateMember(model.Member{
		ID:              c.Params("id"),
		PersonalDetails: payload.PersonalDetails,
		ChurchDetails:   payload.ChurchDetails,
	})
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Member not found",
		})
	}
	return c.JSON(member)
}

func (h *Handler) DeleteMember(c *fiber.Ctx) error {
	h.cache.DeleteMember(c.Params("id"))
	return c.SendStatus(fiber.StatusNoContent)
}

// ExportMembers streams the whole collection as a dated CSV download.
func (h *Handler) ExportMembers(c *fiber.Ctx) error {
	csv := export.MembersCSV(h.cache.Members())
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+export.Filename(time.Now())+`"`)
	return c.SendString(csv)
}
