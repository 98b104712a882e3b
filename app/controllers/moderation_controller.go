package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ChorusHQ/Chorus/internal/pkg/database"
	"github.com/ChorusHQ/Chorus/internal/pkg/moderation"
)

func moderationService() *moderation.Service {
	return moderation.NewServiceFromDB(database.GetDB())
}

type moderationActionRequest struct {
	Outcome string `json:"outcome"`
	Note    string `json:"note"`
}

// HandleAcknowledgeEscalation marks an escalated case as being reviewed.
func HandleAcknowledgeEscalation(c *fiber.Ctx) error {
	actorID, actorRole := actorFromContext(c)

	caseID, err := parseUintParam(c, "caseId")
	if err != nil {
		return respondError(c, err)
	}

	var req moderationActionRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid JSON body"})
	}

	moderationCase, err := moderationService().AcknowledgeEscalation(c.Context(), c.Params("community"), actorID, caseID, req.Note, actorRole)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(moderationCase)
}

// HandleResolveIncident closes a moderation case with an outcome.
func HandleResolveIncident(c *fiber.Ctx) error {
	actorID, actorRole := actorFromContext(c)

	caseID, err := parseUintParam(c, "caseId")
	if err != nil {
		return respondError(c, err)
	}

	var req moderationActionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid JSON body"})
	}

	moderationCase, err := moderationService().ResolveIncident(c.Context(), c.Params("community"), actorID, caseID, req.Outcome, req.Note, actorRole)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(moderationCase)
}
