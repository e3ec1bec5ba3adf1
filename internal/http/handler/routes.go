package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gradia/internal/auth"
	"gradia/internal/http/middleware"
	"gradia/internal/service"
)

// Deps are the collaborators the HTTP routes need.
type Deps struct {
	DB          pinger
	Verifier    auth.Verifier
	Users       service.UserService
	Periods     service.PeriodService
	Cycles      service.CycleService
	Categories  service.CategoryService
	Records     service.RecordService
	Attachments service.AttachmentService
	Reports     service.ReportService
	Summaries   service.SummaryService
	Metrics     prometheus.Gatherer
	Logger      *slog.Logger
	// PublicHost is the host advertised by the API docs.
	PublicHost  string
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Trailing slashes are optional since Fiber routing is not strict.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/health", HealthCheck(d.DB))
	app.Get("/healthz", LivenessProbe())
	if d.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Metrics, promhttp.HandlerOpts{})))
	}
	app.Get("/swagger/*", SwaggerUI(d.PublicHost))

	fin := app.Group("/finance")
	// Matched ahead of the auth middleware below.
	fin.Post("/verify-token", VerifyToken(d.Verifier))

	api := fin.Group("", middleware.Auth(d.Verifier, d.Users, d.Logger))

	api.Get("/periods", ListPeriods(d.Periods))
	api.Post("/periods", CreatePeriod(d.Periods))
	api.Post("/periods/start", StartPeriod(d.Periods))
	api.Get("/periods/:id", GetPeriod(d.Periods))
	api.Put("/periods/:id", UpdatePeriod(d.Periods))
	api.Patch("/periods/:id", UpdatePeriod(d.Periods))
	api.Delete("/periods/:id", DeletePeriod(d.Periods))
	api.Get("/periods/:id/summary", GetPeriodSummary(d.Periods))
	api.Get("/periods/:id/summaries", ListPeriodSummaries(d.Summaries))

	api.Get("/cycles", ListCycles(d.Cycles))
	api.Get("/cycles/:id", GetCycle(d.Cycles))
	api.Put("/cycles/:id", RenameCycle(d.Cycles))
	api.Patch("/cycles/:id", RenameCycle(d.Cycles))

	api.Get("/categories", ListCategories(d.Categories))
	api.Post("/categories", CreateCategory(d.Categories))
	api.Get("/categories/:id", GetCategory(d.Categories))
	api.Put("/categories/:id", UpdateCategory(d.Categories))
	api.Patch("/categories/:id", UpdateCategory(d.Categories))
	api.Delete("/categories/:id", DeleteCategory(d.Categories))

	api.Get("/financial_records", ListRecords(d.Records))
	api.Post("/financial_records", CreateRecord(d.Records))
	// Registered before /:id so the literal segment wins.
	api.Post("/financial_records/copy-previous-month", CopyPreviousMonth(d.Records))
	api.Get("/financial_records/:id", GetRecord(d.Records))
	api.Put("/financial_records/:id", UpdateRecord(d.Records))
	api.Patch("/financial_records/:id", UpdateRecord(d.Records))
	api.Delete("/financial_records/:id", DeleteRecord(d.Records))

	api.Get("/financial_records/:id/attachments", ListAttachments(d.Attachments))
	api.Post("/financial_records/:id/attachments", UploadAttachment(d.Attachments))
	api.Delete("/financial_records/:id/attachments/:attachmentId", DeleteAttachment(d.Attachments))

	api.Get("/report-data", GetReport(d.Reports))
	api.Post("/app/copy", CopyRecords(d.Records))
}
