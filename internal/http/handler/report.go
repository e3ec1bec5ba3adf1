package handler

import (
	"github.com/gofiber/fiber/v2"

	"gradia/internal/service"
)

// GetReport
//
// @Summary  Report data for charts
// @Tags     reports
// @Produce  json
// @Success  200 {object} service.Report
// @Router   /finance/report-data/ [get]
func GetReport(svc service.ReportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c)
		if err != nil {
			return err
		}
		report, err := svc.Report(c.UserContext(), userID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(report)
	}
}
