package controllers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/ChorusHQ/Chorus/app/models"
	"github.com/ChorusHQ/Chorus/app/repository"
	"github.com/ChorusHQ/Chorus/internal/pkg/database"
	"github.com/ChorusHQ/Chorus/internal/pkg/membership"
	"github.com/ChorusHQ/Chorus/internal/pkg/metrics/counter"
)

func memberService() *membership.Service {
	return membership.NewServiceFromDB(database.GetDB())
}

// HandleListMembers returns the community member list with filters, search
// and pagination taken from query parameters.
func HandleListMembers(c *fiber.Ctx) error {
	actorID, actorRole := actorFromContext(c)

	joinedAfter, err := parseTimeQuery(c, "joined_after")
	if err != nil {
		return respondError(c, err)
	}
	joinedBefore, err := parseTimeQuery(c, "joined_before")
	if err != nil {
		return respondError(c, err)
	}

	opts := membership.ListMembersInput{
		Status:       parseListValues(c.Query("status")),
		Role:         parseListValues(c.Query("role")),
		JoinedAfter:  joinedAfter,
		JoinedBefore: joinedBefore,
		Search:       c.Query("search"),
		Limit:        c.QueryInt("limit", 0),
		Offset:       c.QueryInt("offset", 0),
		OrderBy:      c.Query("order_by"),
		Order:        c.Query("order"),
	}

	list, err := memberService().ListMembers(c.Context(), c.Params("community"), actorID, opts, actorRole)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// HandleCreateMember invites a user into the community.
func HandleCreateMember(c *fiber.Ctx) error {
	actorID, actorRole := actorFromContext(c)

	var in membership.CreateMemberInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid JSON body"})
	}

	member, err := memberService().CreateMember(c.Context(), c.Params("community"), actorID, in, actorRole)
	if err != nil {
		return respondError(c, err)
	}

	if err := counter.AddMemberJoin(member.Membership.CommunityID); err != nil {
		log.Printf("failed to record member join counter for community %d: %v", member.Membership.CommunityID, err)
	}

	return c.Status(fiber.StatusCreated).JSON(member)
}

// HandleUpdateMember applies partial updates to a membership.
func HandleUpdateMember(c *fiber.Ctx) error {
	actorID, actorRole := actorFromContext(c)

	targetID, err := parseUintParam(c, "userId")
	if err != nil {
		return respondError(c, err)
	}

	var in membership.UpdateMemberInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid JSON body"})
	}

	member, err := memberService().UpdateMember(c.Context(), c.Params("community"), actorID, targetID, in, actorRole)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(member)
}

// HandleRemoveMember transitions a member out of the community.
func HandleRemoveMember(c *fiber.Ctx) error {
	actorID, actorRole := actorFromContext(c)

	targetID, err := parseUintParam(c, "userId")
	if err != nil {
		return respondError(c, err)
	}

	member, err := memberService().RemoveMember(c.Context(), c.Params("community"), actorID, targetID, actorRole)
	if err != nil {
		return respondError(c, err)
	}

	if err := counter.AddMemberExit(member.Membership.CommunityID); err != nil {
		log.Printf("failed to record member exit counter for community %d: %v", member.Membership.CommunityID, err)
	}

	return c.JSON(member)
}

// HandleListMemberEvents returns the audit trail for one membership.
func HandleListMemberEvents(c *fiber.Ctx) error {
	actorID, actorRole := actorFromContext(c)

	targetID, err := parseUintParam(c, "userId")
	if err != nil {
		return respondError(c, err)
	}

	repos := repository.NewRepositories(database.GetDB())
	community, err := repos.Community.Resolve(c.Params("community"))
	if err != nil {
		return respondError(c, err)
	}

	// Reuse the membership authorization by fetching the list head; a direct
	// event read must not leak data to non-managers.
	if _, err := memberService().ListMembers(c.Context(), c.Params("community"), actorID, membership.ListMembersInput{Limit: 1}, actorRole); err != nil {
		return respondError(c, err)
	}

	entityID := models.MembershipEntityID(community.ID, targetID)
	events, err := repos.Event.ListByEntity(models.EntityTypeCommunityMembership, entityID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"events": events})
}
