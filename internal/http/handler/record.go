package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"gradia/internal/repository"
	"gradia/internal/service"
)

// recordRequest accepts amounts as JSON numbers or strings.
type recordRequest struct {
	Category      *string          `json:"category"`
	Cycle         *string          `json:"cycle"`
	Period        *string          `json:"period"`
	TypeChoice    *string          `json:"type_choice"`
	CurrentAmount *decimal.Decimal `json:"current_amount" swaggertype:"string"`
	PlannedAmount *decimal.Decimal `json:"planned_amount" swaggertype:"string"`
}

type copyRequest struct {
	CurrentCycleID  string `json:"current_cycle_id"`
	PreviousCycleID string `json:"previous_cycle_id"`
}

// ListRecords
//
// @Summary  List financial records
// @Tags     records
// @Produce  json
// @Param    cycle    query string false "cycle ID"
// @Param    period   query string false "period ID"
// @Param    category query string false "category ID"
// @Success  200 {array} service.RecordView
// @Router   /finance/financial_records/ [get]
func ListRecords(svc service.RecordService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c)
		if err != nil {
			return err
		}

		var f repository.RecordFilter
		var ok bool
		if f.CycleID, ok = queryID(c, "cycle"); !ok {
			return invalidFilter(c, "cycle")
		}
		if f.PeriodID, ok = queryID(c, "period"); !ok {
			return invalidFilter(c, "period")
		}
		if f.CategoryID, ok = queryID(c, "category"); !ok {
			return invalidFilter(c, "category")
		}

		views, err := svc.List(c.UserContext(), userID, f)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(views)
	}
}

// CreateRecord
//
// @Summary  Create a financial record
// @Tags     records
// @Accept   json
// @Produce  json
// @Param    body body recordRequest true "record"
// @Success  201 {object} service.RecordView
// @Failure  400 {object} errorPayload
// @Failure  403 {object} errorPayload
// @Router   /finance/financial_records/ [post]
func CreateRecord(svc service.RecordService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c)
		if err != nil {
			return err
		}
		var req recordRequest
		if err := c.BodyParser(&req); err != nil {
			return invalidBody(c)
		}
		if name, bad := malformedID("category", deref(req.Category), "cycle", deref(req.Cycle), "period", deref(req.Period)); bad {
			return invalidID(c, name)
		}

		view, err := svc.Create(c.UserContext(), userID, service.RecordInput{
			CategoryID:    deref(req.Category),
			CycleID:       deref(req.Cycle),
			PeriodID:      deref(req.Period),
			Type:          deref(req.TypeChoice),
			CurrentAmount: req.CurrentAmount,
			PlannedAmount: req.PlannedAmount,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(view)
	}
}

// GetRecord
//
// @Summary  Get a financial record
// @Tags     records
// @Produce  json
// @Param    id path string true "record ID"
// @Success  200 {object} service.RecordView
// @Router   /finance/financial_records/{id}/ [get]
func GetRecord(svc service.RecordService) fiber.Handler {
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

// UpdateRecord applies a partial update; PUT and PATCH behave alike.
//
// @Summary  Update a financial record
// @Tags     records
// @Accept   json
// @Produce  json
// @Param    id   path string        true "record ID"
// @Param    body body recordRequest true "fields to change"
// @Success  200 {object} service.RecordView
// @Router   /finance/financial_records/{id}/ [patch]
func UpdateRecord(svc service.RecordService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c)
		if err != nil {
			return err
		}
		id, ok := pathID(c, "id")
		if !ok {
			return notFound(c)
		}
		var req recordRequest
		if err := c.BodyParser(&req); err != nil {
			return invalidBody(c)
		}
		if name, bad := malformedID("category", deref(req.Category), "cycle", deref(req.Cycle), "period", deref(req.Period)); bad {
			return invalidID(c, name)
		}

		view, err := svc.Update(c.UserContext(), userID, id, service.RecordUpdate{
			CategoryID:    req.Category,
			CycleID:       req.Cycle,
			PeriodID:      req.Period,
			Type:          req.TypeChoice,
			CurrentAmount: req.CurrentAmount,
			PlannedAmount: req.PlannedAmount,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(view)
	}
}

// DeleteRecord removes a record together with its stored attachments.
//
// @Summary  Delete a financial record
// @Tags     records
// @Param    id path string true "record ID"
// @Success  204
// @Router   /finance/financial_records/{id}/ [delete]
func DeleteRecord(svc service.RecordService) fiber.Handler {
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

// CopyPreviousMonth copies every record of the previous cycle, amounts included.
//
// @Summary  Copy the previous month's records
// @Tags     records
// @Accept   json
// @Produce  json
// @Param    body body copyRequest true "cycles"
// @Success  200 {object} map[string]any
// @Router   /finance/financial_records/copy-previous-month/ [post]
func CopyPreviousMonth(svc service.RecordService) fiber.Handler {
	return copyRecords(svc, service.CopyPreviousMonth, func(c *fiber.Ctx, views []service.RecordView) error {
		return c.JSON(fiber.Map{"detail": "Records copied successfully.", "records": views})
	})
}

// CopyRecords copies the planned amounts of the previous cycle within a period.
//
// @Summary  Copy planned records between cycles
// @Tags     records
// @Accept   json
// @Produce  json
// @Param    body body copyRequest true "cycles"
// @Success  201 {array}  service.RecordView
// @Failure  404 {object} errorPayload
// @Router   /finance/app/copy/ [post]
func CopyRecords(svc service.RecordService) fiber.Handler {
	return copyRecords(svc, service.CopyPlanned, func(c *fiber.Ctx, views []service.RecordView) error {
		return c.Status(fiber.StatusCreated).JSON(views)
	})
}

func copyRecords(svc service.RecordService, opts service.CopyOptions, respond func(*fiber.Ctx, []service.RecordView) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c)
		if err != nil {
			return err
		}
		var req copyRequest
		if err := c.BodyParser(&req); err != nil {
			return invalidBody(c)
		}
		if name, bad := malformedID("current_cycle_id", req.CurrentCycleID, "previous_cycle_id", req.PreviousCycleID); bad {
			return invalidID(c, name)
		}

		views, err := svc.Copy(c.UserContext(), userID, service.CopyRequest{
			CurrentCycleID:  req.CurrentCycleID,
			PreviousCycleID: req.PreviousCycleID,
		}, opts)
		if err != nil {
			return writeServiceError(c, err)
		}
		return respond(c, views)
	}
}
