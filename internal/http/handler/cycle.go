package handler

import (
	"github.com/gofiber/fiber/v2"

	"gradia/internal/service"
)

type cycleRequest struct {
	Name string `json:"name"`
}

// ListCycles
//
// @Summary  List cycles
// @Tags     cycles
// @Produce  json
// @Param    period query string false "period ID"
// @Success  200 {array} service.CycleView
// @Router   /finance/cycles/ [get]
func ListCycles(svc service.CycleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c)
		if err != nil {
			return err
		}
		periodID, ok := queryID(c, "period")
		if !ok {
			return invalidFilter(c, "period")
		}
		views, err := svc.List(c.UserContext(), userID, periodID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(views)
	}
}

// GetCycle
//
// @Summary  Get a cycle
// @Tags     cycles
// @Produce  json
// @Param    id path string true "cycle ID"
// @Success  200 {object} service.CycleView
// @Router   /finance/cycles/{id}/ [get]
func GetCycle(svc service.CycleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c)
		if err != nil {
			return err
		}
		id, ok := pathID(c, "id")
		if !ok {
			return notFound(c)
		}
		view, err := svc.Get(c.UserContext(), userID, id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(view)
	}
}

// RenameCycle sets the display name; an empty name restores the month name.
//
// @Summary  Rename a cycle
// @Tags     cycles
// @Accept   json
// @Produce  json
// @Param    id   path string       true "cycle ID"
// @Param    body body cycleRequest true "new name"
// @Success  200 {object} service.CycleView
// @Router   /finance/cycles/{id}/ [patch]
func RenameCycle(svc service.CycleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c)
		if err != nil {
			return err
		}
		id, ok := pathID(c, "id")
		if !ok {
			return notFound(c)
		}
		var req cycleRequest
		if err := c.BodyParser(&req); err != nil {
			return invalidBody(c)
		}
		view, err := svc.Rename(c.UserContext(), userID, id, req.Name)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(view)
	}
}
