package controllers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/ChorusHQ/Chorus/internal/pkg/metrics/counter"
)

// HandleFlushCounters forces the Redis member counters into the database
// ahead of the periodic flush. Useful before maintenance windows.
func HandleFlushCounters(c *fiber.Ctx) error {
	if err := counter.FlushAll(); err != nil {
		log.Printf("manual counter flush failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "flush_failed"})
	}
	return c.JSON(fiber.Map{"ok": true})
}
