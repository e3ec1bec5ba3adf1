package handler

import (
	"github.com/gofiber/fiber/v2"

	"gradia/internal/service"
)

type categoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// ListCategories
//
// @Summary  List categories
// @Tags     categories
// @Produce  json
// @Success  200 {array} model.Category
// @Router   /finance/categories/ [get]
func ListCategories(svc service.CategoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c)
		if err != nil {
			return err
		}
		items, err := svc.List(c.UserContext(), userID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(items)
	}
}

// CreateCategory
//
// @Summary  Create a category
// @Tags     categories
// @Accept   json
// @Produce  json
// @Param    body body categoryRequest true "category"
// @Success  201 {object} model.Category
// @Failure  400 {object} errorPayload
// @Failure  409 {object} errorPayload
// @Router   /finance/categories/ [post]
func CreateCategory(svc service.CategoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c)
		if err != nil {
			return err
		}
		var req categoryRequest
		if err := c.BodyParser(&req); err != nil {
			return invalidBody(c)
		}
		cat, err := svc.Create(c.UserContext(), userID, service.CategoryInput{
			Name:        deref(req.Name),
			Description: deref(req.Description),
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(cat)
	}
}

// GetCategory
//
// @Summary  Get a category
// @Tags     categories
// @Produce  json
// @Param    id path string true "category ID"
// @Success  200 {object} model.Category
// @Router   /finance/categories/{id}/ [get]
func GetCategory(svc service.CategoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c)
		if err != nil {
			return err
		}
		id, ok := pathID(c, "id")
		if !ok {
			return notFound(c)
		}
		cat, err := svc.Get(c.UserContext(), userID, id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(cat)
	}
}

// UpdateCategory applies a partial update. Renaming regenerates the code.
//
// @Summary  Update a category
// @Tags     categories
// @Accept   json
// @Produce  json
// @Param    id   path string          true "category ID"
// @Param    body body categoryRequest true "fields to change"
// @Success  200 {object} model.Category
// @Router   /finance/categories/{id}/ [patch]
func UpdateCategory(svc service.CategoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c)
		if err != nil {
			return err
		}
		id, ok := pathID(c, "id")
		if !ok {
			return notFound(c)
		}
		var req categoryRequest
		if err := c.BodyParser(&req); err != nil {
			return invalidBody(c)
		}

		cat, err := svc.Update(c.UserContext(), userID, id, service.CategoryUpdate{
			Name:        req.Name,
			Description: req.Description,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(cat)
	}
}

// DeleteCategory moves the category's records to DEFAULT, then removes it.
//
// @Summary  Delete a category
// @Tags     categories
// @Param    id path string true "category ID"
// @Success  204
// @Router   /finance/categories/{id}/ [delete]
func DeleteCategory(svc service.CategoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c)
		if err != nil {
			return err
		}
		id, ok := pathID(c, "id")
		if !ok {
			return notFound(c)
		}
		if err := svc.Delete(c.UserContext(), userID, id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
