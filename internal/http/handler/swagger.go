package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	"gradia/docs"
)

// SwaggerUI serves the generated API docs advertising host. The docs are
// configured once here so requests only read them. With no schemes listed the
// UI reuses the scheme it was loaded over.
func SwaggerUI(host string) fiber.Handler {
	docs.SwaggerInfo.Host = host
	docs.SwaggerInfo.Schemes = nil
	return swagger.HandlerDefault
}
