// handlers/upload_routes.go
package handlers

import (
	"log"

	"kuberfashion-backend/config"
	"kuberfashion-backend/middleware"
	"kuberfashion-backend/utils"

	"github.com/gofiber/fiber/v2"
)

func SetupUploadRoutes(app *fiber.App, cfg *config.Config) {
	admin := app.Group("/api/admin/uploads", middleware.RequireAuth(cfg.JWTSecret), middleware.RequireAdmin())

	admin.Post("/", func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No file provided"})
		}
		if err := utils.ValidateImageUpload(fileHeader); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		folder := c.FormValue("folder", "products")
		key := utils.ObjectKey(folder, fileHeader.Filename)

		url, err := utils.UploadToR2(c.Context(), fileHeader, key)
		if err != nil {
			log.Printf("❌ R2 upload failed for %s: %v", key, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Upload failed"})
		}
		log.Printf("📤 Uploaded %s", key)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"url": url, "key": key})
	})

	admin.Delete("/", func(c *fiber.Ctx) error {
		var req struct {
			URL string `json:"url" validate:"required,url"`
		}
		if !parseAndValidate(c, &req) {
			return nil
		}
		if err := utils.DeleteFromR2(c.Context(), req.URL); err != nil {
			log.Printf("❌ R2 delete failed for %s: %v", req.URL, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Delete failed"})
		}
		return c.JSON(fiber.Map{"message": "File deleted"})
	})
}
