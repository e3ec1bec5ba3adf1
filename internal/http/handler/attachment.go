package handler

import (
	"github.com/gofiber/fiber/v2"

	"gradia/internal/service"
)

// UploadAttachment stores a multipart file (field "file") for a record.
//
// @Summary  Upload an attachment
// @Tags     attachments
// @Accept   multipart/form-data
// @Produce  json
// @Param    id   path     string true "record ID"
// @Param    file formData file   true "file"
// @Success  201 {object} service.AttachmentView
// @Failure  400 {object} errorPayload
// @Failure  413 {object} errorPayload
// @Router   /finance/financial_records/{id}/attachments/ [post]
func UploadAttachment(svc service.AttachmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c)
		if err != nil {
			return err
		}
		recordID, ok := pathID(c, "id")
		if !ok {
			return notFound(c)
		}

		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		view, err := svc.Upload(c.UserContext(), userID, recordID, service.UploadInput{
			Reader:      f,
			Filename:    fh.Filename,
			ContentType: ct,
			Size:        fh.Size,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(view)
	}
}

// ListAttachments returns the record's files with pre-signed download URLs.
//
// @Summary  List attachments
// @Tags     attachments
// @Produce  json
// @Param    id path string true "record ID"
// @Success  200 {array} service.AttachmentView
// @Router   /finance/financial_records/{id}/attachments/ [get]
func ListAttachments(svc service.AttachmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c)
		if err != nil {
			return err
		}
		recordID, ok := pathID(c, "id")
		if !ok {
			return notFound(c)
		}
		views, err := svc.List(c.UserContext(), userID, recordID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(views)
	}
}

// DeleteAttachment
//
// @Summary  Delete an attachment
// @Tags     attachments
// @Param    id           path string true "record ID"
// @Param    attachmentId path string true "attachment ID"
// @Success  204
// @Router   /finance/financial_records/{id}/attachments/{attachmentId}/ [delete]
func DeleteAttachment(svc service.AttachmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c)
		if err != nil {
			return err
		}
		recordID, ok := pathID(c, "id")
		if !ok {
			return notFound(c)
		}
		id, ok := pathID(c, "attachmentId")
		if !ok {
			return notFound(c)
		}
		if err := svc.Delete(c.UserContext(), userID, recordID, id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
