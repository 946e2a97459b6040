package routes

import (
	"github.com/fitplan/fitplan_backend/handlers"
	"github.com/gofiber/fiber/v2"
)

func MediaRoutes(app *fiber.App, protected fiber.Handler) {
	api := app.Group("/api/v1")

	media := api.Group("/media", protected)
	media.Post("", handlers.UploadMedia)
	media.Get("/upload-signature", handlers.GenerateUploadSignature)
	media.Get("/:mediaId", handlers.GetMediaInfo)
	media.Get("/:mediaId/data", handlers.GetMediaData)
}
