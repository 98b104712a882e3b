package moderation

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChorusHQ/Chorus/app/models"
	"github.com/ChorusHQ/Chorus/app/repository"
	"github.com/ChorusHQ/Chorus/internal/pkg/apperror"
	"github.com/ChorusHQ/Chorus/internal/pkg/testutil"
)

type caseFixture struct {
	repos     *repository.Repositories
	svc       *Service
	community *models.Community
	moderator *models.User
	member    *models.User
	modCase   *models.ModerationCase
}

func setupCaseFixture(t *testing.T) *caseFixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	repos := repository.NewRepositories(db)
	owner := testutil.SeedUser(t, db, "owner@example.com", models.ROLE_USER)
	moderator := testutil.SeedUser(t, db, "mod@example.com", models.ROLE_USER)
	member := testutil.SeedUser(t, db, "member@example.com", models.ROLE_USER)
	community := testutil.SeedCommunity(t, db, "makers", owner.ID)

	testutil.SeedMembership(t, db, community.ID, owner.ID, models.MemberRoleOwner, models.MemberStatusActive)
	testutil.SeedMembership(t, db, community.ID, moderator.ID, models.MemberRoleModerator, models.MemberStatusActive)
	testutil.SeedMembership(t, db, community.ID, member.ID, models.MemberRoleMember, models.MemberStatusActive)

	modCase := &models.ModerationCase{
		CommunityID: community.ID,
		Subject:     "spam in general channel",
		Status:      models.ModerationStatusPending,
	}
	require.NoError(t, repos.Moderation.Create(modCase))

	return &caseFixture{
		repos:     repos,
		svc:       NewService(repos),
		community: community,
		moderator: moderator,
		member:    member,
		modCase:   modCase,
	}
}

func (f *caseFixture) caseEvents(t *testing.T) []models.DomainEvent {
	t.Helper()
	events, err := f.repos.Event.ListByEntity(
		models.EntityTypeModerationCase,
		strconv.FormatUint(uint64(f.modCase.ID), 10),
	)
	require.NoError(t, err)
	return events
}

func TestAcknowledgeEscalation(t *testing.T) {
	f := setupCaseFixture(t)

	c, err := f.svc.AcknowledgeEscalation(context.Background(), "makers", f.moderator.ID, f.modCase.ID, "looking into it", models.ROLE_USER)
	require.NoError(t, err)

	assert.Equal(t, models.ModerationStatusInReview, c.Status)
	require.NotNil(t, c.EscalatedAt)
	require.Len(t, c.Metadata.Operations.Acknowledgements, 1)
	assert.Equal(t, f.moderator.ID, c.Metadata.Operations.Acknowledgements[0].ActorID)
	assert.Equal(t, "looking into it", c.Metadata.Operations.Acknowledgements[0].Note)

	events := f.caseEvents(t)
	require.Len(t, events, 1)
	assert.Equal(t, models.EventEscalationAcknowledged, events[0].EventType)
}

func TestAcknowledgeLeavesNonPendingStatusAlone(t *testing.T) {
	f := setupCaseFixture(t)
	ctx := context.Background()

	_, err := f.svc.ResolveIncident(ctx, "makers", f.moderator.ID, f.modCase.ID, "warned", "", models.ROLE_USER)
	require.NoError(t, err)

	c, err := f.svc.AcknowledgeEscalation(ctx, "makers", f.moderator.ID, f.modCase.ID, "late ack", models.ROLE_USER)
	require.NoError(t, err)

	// Resolution is terminal for the status; the acknowledgement is still recorded.
	assert.Equal(t, models.ModerationStatusResolved, c.Status)
	assert.Len(t, c.Metadata.Operations.Acknowledgements, 1)
}

func TestAcknowledgeSetsEscalatedAtOnce(t *testing.T) {
	f := setupCaseFixture(t)
	ctx := context.Background()

	c1, err := f.svc.AcknowledgeEscalation(ctx, "makers", f.moderator.ID, f.modCase.ID, "", models.ROLE_USER)
	require.NoError(t, err)
	first := *c1.EscalatedAt

	c2, err := f.svc.AcknowledgeEscalation(ctx, "makers", f.moderator.ID, f.modCase.ID, "second look", models.ROLE_USER)
	require.NoError(t, err)
	assert.Equal(t, first.Unix(), c2.EscalatedAt.Unix())
	assert.Len(t, c2.Metadata.Operations.Acknowledgements, 2)
}

func TestResolveIncident(t *testing.T) {
	f := setupCaseFixture(t)

	c, err := f.svc.ResolveIncident(context.Background(), "makers", f.moderator.ID, f.modCase.ID, "banned", "repeat offense", models.ROLE_USER)
	require.NoError(t, err)

	assert.Equal(t, models.ModerationStatusResolved, c.Status)
	require.NotNil(t, c.ResolvedAt)
	require.NotNil(t, c.ResolvedBy)
	assert.Equal(t, f.moderator.ID, *c.ResolvedBy)
	require.NotNil(t, c.Metadata.Operations.Resolution)
	assert.Equal(t, "banned", c.Metadata.Operations.Resolution.Outcome)
	assert.Equal(t, "repeat offense", c.Metadata.Operations.Resolution.Note)

	events := f.caseEvents(t)
	require.Len(t, events, 1)
	assert.Equal(t, models.EventIncidentResolved, events[0].EventType)
	require.NotNil(t, events[0].PerformedBy)
	assert.Equal(t, f.moderator.ID, *events[0].PerformedBy)
}

func TestModerationAuthorization(t *testing.T) {
	f := setupCaseFixture(t)
	ctx := context.Background()

	t.Run("plain member is forbidden", func(t *testing.T) {
		_, err := f.svc.AcknowledgeEscalation(ctx, "makers", f.member.ID, f.modCase.ID, "", models.ROLE_USER)
		assert.True(t, apperror.IsForbidden(err))
	})

	t.Run("platform admin bypasses membership", func(t *testing.T) {
		outsider := uint(9999)
		_, err := f.svc.AcknowledgeEscalation(ctx, "makers", outsider, f.modCase.ID, "", models.ROLE_ADMIN)
		assert.NoError(t, err)
	})

	t.Run("case from another community is not found", func(t *testing.T) {
		_, err := f.svc.ResolveIncident(ctx, "makers", f.moderator.ID, 424242, "x", "", models.ROLE_USER)
		assert.True(t, apperror.IsNotFound(err))
	})
}
