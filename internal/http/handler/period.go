package handler

import (
	"github.com/gofiber/fiber/v2"

	"gradia/internal/repository"
	"gradia/internal/service"
)

type periodRequest struct {
	Title      *string `json:"title"`
	IsArchived *bool   `json:"is_archived"`
}

// ListPeriods lists the user's periods. Filters: is_archived, repeated
// category (periods with records in any of them) and repeated period.
//
// @Summary  List periods
// @Tags     periods
// @Produce  json
// @Param    is_archived query bool     false "archived flag"
// @Param    category    query []string false "category IDs" collectionFormat(multi)
// @Param    period      query []string false "period IDs"   collectionFormat(multi)
// @Success  200 {array} service.PeriodView
// @Router   /finance/periods/ [get]
func ListPeriods(svc service.PeriodService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c)
		if err != nil {
			return err
		}

		var f repository.PeriodFilter
		var ok bool
		if f.IsArchived, ok = queryBool(c, "is_archived"); !ok {
			return invalidFilter(c, "is_archived")
		}
		if f.CategoryIDs, ok = queryIDs(c, "category"); !ok {
			return invalidFilter(c, "category")
		}
		if f.PeriodIDs, ok = queryIDs(c, "period"); !ok {
			return invalidFilter(c, "period")
		}

		views, err := svc.List(c.UserContext(), userID, f)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(views)
	}
}

// CreatePeriod creates the period of a year with its twelve cycles.
//
// @Summary  Create a period
// @Tags     periods
// @Accept   json
// @Produce  json
// @Param    body body periodRequest true "period"
// @Success  201 {object} service.PeriodView
// @Failure  400 {object} errorPayload
// @Router   /finance/periods/ [post]
func CreatePeriod(svc service.PeriodService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c)
		if err != nil {
			return err
		}
		var req periodRequest
		if err := c.BodyParser(&req); err != nil {
			return invalidBody(c)
		}
		view, err := svc.Create(c.UserContext(), userID, deref(req.Title))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(view)
	}
}

// StartPeriod returns the current year's period, creating it when missing.
//
// @Summary  Start the current-year period
// @Tags     periods
// @Produce  json
// @Success  200 {object} service.PeriodView
// @Success  201 {object} service.PeriodView
// @Router   /finance/periods/start/ [post]
func StartPeriod(svc service.PeriodService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c)
		if err != nil {
			return err
		}
		view, created, err := svc.StartCurrent(c.UserContext(), userID)
		if err != nil {
			return writeServiceError(c, err)
		}
		status := fiber.StatusOK
		if created {
			status = fiber.StatusCreated
		}
		return c.Status(status).JSON(view)
	}
}

// GetPeriod returns one period with its cycles.
//
// @Summary  Get a period
// @Tags     periods
// @Produce  json
// @Param    id path string true "period ID"
// @Success  200 {object} service.PeriodView
// @Failure  404 {object} errorPayload
// @Router   /finance/periods/{id}/ [get]
func GetPeriod(svc service.PeriodService) fiber.Handler {
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

// UpdatePeriod applies a partial update; PUT and PATCH behave alike.
//
// @Summary  Update a period
// @Tags     periods
// @Accept   json
// @Produce  json
// @Param    id   path string        true "period ID"
// @Param    body body periodRequest true "fields to change"
// @Success  200 {object} service.PeriodView
// @Router   /finance/periods/{id}/ [patch]
func UpdatePeriod(svc service.PeriodService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c)
		if err != nil {
			return err
		}
		id, ok := pathID(c, "id")
		if !ok {
			return notFound(c)
		}
		var req periodRequest
		if err := c.BodyParser(&req); err != nil {
			return invalidBody(c)
		}

		view, err := svc.Update(c.UserContext(), userID, id, service.PeriodUpdate{
			Title:      req.Title,
			IsArchived: req.IsArchived,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(view)
	}
}

// DeletePeriod removes a period with its cycles and records.
//
// @Summary  Delete a period
// @Tags     periods
// @Param    id path string true "period ID"
// @Success  204
// @Router   /finance/periods/{id}/ [delete]
func DeletePeriod(svc service.PeriodService) fiber.Handler {
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

// GetPeriodSummary returns the six headline totals of a period.
//
// @Summary  Headline totals of a period
// @Tags     periods
// @Produce  json
// @Param    id path string true "period ID"
// @Success  200 {object} service.PeriodSummary
// @Router   /finance/periods/{id}/summary/ [get]
func GetPeriodSummary(svc service.PeriodService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c)
		if err != nil {
			return err
		}
		id, ok := pathID(c, "id")
		if !ok {
			return notFound(c)
		}
		sum, err := svc.Summary(c.UserContext(), userID, id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(sum)
	}
}

// ListPeriodSummaries returns the materialized per-cycle category totals.
//
// @Summary  Materialized summaries of a period
// @Tags     periods
// @Produce  json
// @Param    id path string true "period ID"
// @Success  200 {array} model.FinancialSummary
// @Router   /finance/periods/{id}/summaries/ [get]
func ListPeriodSummaries(svc service.SummaryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c)
		if err != nil {
			return err
		}
		id, ok := pathID(c, "id")
		if !ok {
			return notFound(c)
		}
		rows, err := svc.ListForPeriod(c.UserContext(), userID, id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(rows)
	}
}
