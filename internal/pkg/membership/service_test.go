package membership

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChorusHQ/Chorus/app/models"
	"github.com/ChorusHQ/Chorus/app/repository"
	"github.com/ChorusHQ/Chorus/internal/pkg/apperror"
	"github.com/ChorusHQ/Chorus/internal/pkg/testutil"
)

type fixture struct {
	repos     *repository.Repositories
	svc       *Service
	community *models.Community
	owner     *models.User
	admin     *models.User
	member    *models.User
	outsider  *models.User
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	repos := repository.NewRepositories(db)

	owner := testutil.SeedUser(t, db, "owner@example.com", models.ROLE_USER)
	admin := testutil.SeedUser(t, db, "admin@example.com", models.ROLE_USER)
	member := testutil.SeedUser(t, db, "member@example.com", models.ROLE_USER)
	outsider := testutil.SeedUser(t, db, "outsider@example.com", models.ROLE_USER)
	community := testutil.SeedCommunity(t, db, "gophers", owner.ID)

	testutil.SeedMembership(t, db, community.ID, owner.ID, models.MemberRoleOwner, models.MemberStatusActive)
	testutil.SeedMembership(t, db, community.ID, admin.ID, models.MemberRoleAdmin, models.MemberStatusActive)
	testutil.SeedMembership(t, db, community.ID, member.ID, models.MemberRoleMember, models.MemberStatusActive)

	return &fixture{
		repos:     repos,
		svc:       NewService(repos),
		community: community,
		owner:     owner,
		admin:     admin,
		member:    member,
		outsider:  outsider,
	}
}

func (f *fixture) eventsFor(t *testing.T, userID uint) []models.DomainEvent {
	t.Helper()
	events, err := f.repos.Event.ListByEntity(
		models.EntityTypeCommunityMembership,
		models.MembershipEntityID(f.community.ID, userID),
	)
	require.NoError(t, err)
	return events
}

func TestAuthorization(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	t.Run("plain member is forbidden", func(t *testing.T) {
		_, err := f.svc.ListMembers(ctx, "gophers", f.member.ID, ListMembersInput{}, models.ROLE_USER)
		assert.True(t, apperror.IsForbidden(err))
	})

	t.Run("non-member reads as not found", func(t *testing.T) {
		_, err := f.svc.ListMembers(ctx, "gophers", f.outsider.ID, ListMembersInput{}, models.ROLE_USER)
		assert.True(t, apperror.IsNotFound(err))
	})

	t.Run("community admin is allowed", func(t *testing.T) {
		list, err := f.svc.ListMembers(ctx, "gophers", f.admin.ID, ListMembersInput{}, models.ROLE_USER)
		require.NoError(t, err)
		assert.Equal(t, int64(3), list.Total)
	})

	t.Run("platform admin bypasses membership", func(t *testing.T) {
		list, err := f.svc.ListMembers(ctx, "gophers", f.outsider.ID, ListMembersInput{}, models.ROLE_ADMIN)
		require.NoError(t, err)
		assert.Equal(t, int64(3), list.Total)
	})

	t.Run("unknown community", func(t *testing.T) {
		_, err := f.svc.ListMembers(ctx, "nope", f.owner.ID, ListMembersInput{}, models.ROLE_USER)
		assert.True(t, apperror.IsNotFound(err))
	})
}

func TestCreateMemberByEmail(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	title := "Designer"
	m, err := f.svc.CreateMember(ctx, "gophers", f.owner.ID, CreateMemberInput{
		Email: "outsider@example.com",
		Role:  "moderator",
		Title: &title,
		Tags:  []any{"design", "ux"},
	}, models.ROLE_USER)
	require.NoError(t, err)

	assert.Equal(t, f.outsider.ID, m.Membership.UserID)
	assert.Equal(t, models.MemberRoleModerator, m.Membership.Role)
	assert.Equal(t, models.MemberStatusActive, m.Membership.Status)
	assert.Equal(t, "Designer", m.Membership.Metadata.Title)
	assert.Equal(t, []string{"design", "ux"}, m.Membership.Metadata.Tags)
	assert.Equal(t, "outsider@example.com", m.User.Email)
	assert.NotEmpty(t, m.User.AvatarURL)

	events := f.eventsFor(t, f.outsider.ID)
	require.Len(t, events, 1)
	assert.Equal(t, models.EventMemberInvited, events[0].EventType)
	require.NotNil(t, events[0].PerformedBy)
	assert.Equal(t, f.owner.ID, *events[0].PerformedBy)
}

func TestCreateMemberUnknownTarget(t *testing.T) {
	f := setupFixture(t)

	_, err := f.svc.CreateMember(context.Background(), "gophers", f.owner.ID, CreateMemberInput{
		Email: "ghost@example.com",
	}, models.ROLE_USER)
	assert.True(t, apperror.IsNotFound(err))

	_, err = f.svc.CreateMember(context.Background(), "gophers", f.owner.ID, CreateMemberInput{}, models.ROLE_USER)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestCreateMemberRepeatedInviteRefreshes(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateMember(ctx, "gophers", f.owner.ID, CreateMemberInput{
		UserID: f.outsider.ID,
	}, models.ROLE_USER)
	require.NoError(t, err)

	m, err := f.svc.CreateMember(ctx, "gophers", f.owner.ID, CreateMemberInput{
		UserID: f.outsider.ID,
		Role:   "admin",
		Status: "pending",
	}, models.ROLE_USER)
	require.NoError(t, err)
	assert.Equal(t, models.MemberRoleAdmin, m.Membership.Role)
	assert.Equal(t, models.MemberStatusPending, m.Membership.Status)
	assert.NotNil(t, m.Membership.LeftAt)

	// Both invites leave an audit record.
	assert.Len(t, f.eventsFor(t, f.outsider.ID), 2)
}

func TestCreateMemberInvalidRole(t *testing.T) {
	f := setupFixture(t)

	_, err := f.svc.CreateMember(context.Background(), "gophers", f.owner.ID, CreateMemberInput{
		UserID: f.outsider.ID,
		Role:   "emperor",
	}, models.ROLE_USER)
	require.Error(t, err)
	assert.Equal(t, apperror.KindInvalidOperation, apperror.KindOf(err))
	assert.Empty(t, f.eventsFor(t, f.outsider.ID))
}

func TestUpdateMemberMergesMetadata(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	title := "Organizer"
	_, err := f.svc.UpdateMember(ctx, "gophers", f.owner.ID, f.member.ID, UpdateMemberInput{
		Title: &title,
	}, models.ROLE_USER)
	require.NoError(t, err)

	location := "Lisbon"
	role := "moderator"
	m, err := f.svc.UpdateMember(ctx, "gophers", f.owner.ID, f.member.ID, UpdateMemberInput{
		Location: &location,
		Role:     &role,
	}, models.ROLE_USER)
	require.NoError(t, err)

	// The earlier title survives the second partial update.
	assert.Equal(t, "Organizer", m.Membership.Metadata.Title)
	assert.Equal(t, "Lisbon", m.Membership.Metadata.Location)
	assert.Equal(t, models.MemberRoleModerator, m.Membership.Role)

	events := f.eventsFor(t, f.member.ID)
	require.Len(t, events, 2)
	assert.Equal(t, models.EventMemberUpdated, events[1].EventType)
}

func TestUpdateMemberUnknownTarget(t *testing.T) {
	f := setupFixture(t)

	_, err := f.svc.UpdateMember(context.Background(), "gophers", f.owner.ID, 9999, UpdateMemberInput{}, models.ROLE_USER)
	assert.True(t, apperror.IsNotFound(err))
}

func TestRemoveMember(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	m, err := f.svc.RemoveMember(ctx, "gophers", f.owner.ID, f.member.ID, models.ROLE_USER)
	require.NoError(t, err)
	assert.Equal(t, models.MemberStatusPending, m.Membership.Status)
	assert.NotNil(t, m.Membership.LeftAt)

	events := f.eventsFor(t, f.member.ID)
	require.Len(t, events, 1)
	assert.Equal(t, models.EventMemberRemoved, events[0].EventType)
}

func TestRemoveOwnerIsRejected(t *testing.T) {
	f := setupFixture(t)

	_, err := f.svc.RemoveMember(context.Background(), "gophers", f.admin.ID, f.owner.ID, models.ROLE_USER)
	require.Error(t, err)
	assert.Equal(t, apperror.KindInvalidOperation, apperror.KindOf(err))

	// The owner row is untouched.
	stored, err := f.repos.Membership.Get(f.community.ID, f.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MemberStatusActive, stored.Status)
	assert.Empty(t, f.eventsFor(t, f.owner.ID))
}

func TestNormalizeTags(t *testing.T) {
	assert.Nil(t, NormalizeTags(nil))
	assert.Nil(t, NormalizeTags(""))
	assert.Equal(t, []string{"a", "b"}, NormalizeTags("a, b"))
	assert.Equal(t, []string{"a", "b"}, NormalizeTags([]string{" a", "", "b "}))
	assert.Equal(t, []string{"x"}, NormalizeTags([]any{"x", 42}))
	assert.Nil(t, NormalizeTags(42))

	many := make([]string, 30)
	for i := range many {
		many[i] = "t"
	}
	assert.Len(t, NormalizeTags(many), maxTags)
}
