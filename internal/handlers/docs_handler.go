package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// DocsPath is where the Swagger UI and the OpenAPI document are served.
const DocsPath = "/api-docs"

// RegisterDocsRoutes serves the Swagger UI at /api-docs/ and the generated
// document at /api-docs/doc.json. The document must be registered with swag
// by importing the docs package.
func RegisterDocsRoutes(router fiber.Router) {
	swaggerHandler := adaptor.HTTPHandler(httpSwagger.Handler(
		httpSwagger.URL(DocsPath + "/doc.json"),
	))

	router.Get(DocsPath, func(c *fiber.Ctx) error {
		return c.Redirect(DocsPath+"/index.html", fiber.StatusMovedPermanently)
	})
	router.Get(DocsPath+"/*", swaggerHandler)
}
