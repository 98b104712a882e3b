package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMemberRole(t *testing.T) {
	tests := []struct {
		in      string
		want    MemberRole
		wantErr bool
	}{
		{in: "owner", want: MemberRoleOwner},
		{in: " Admin ", want: MemberRoleAdmin},
		{in: "MODERATOR", want: MemberRoleModerator},
		{in: "member", want: MemberRoleMember},
		{in: "", want: MemberRoleMember},
		{in: "emperor", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseMemberRole(tt.in)
		if tt.wantErr {
			require.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseMemberStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    MemberStatus
		wantErr bool
	}{
		{in: "active", want: MemberStatusActive},
		{in: " Pending ", want: MemberStatusPending},
		{in: "BANNED", want: MemberStatusBanned},
		{in: "", want: MemberStatusActive},
		{in: "zombie", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseMemberStatus(tt.in)
		if tt.wantErr {
			require.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestRolePermissions(t *testing.T) {
	assert.True(t, MemberRoleOwner.CanManageMembers())
	assert.True(t, MemberRoleAdmin.CanManageMembers())
	assert.False(t, MemberRoleModerator.CanManageMembers())
	assert.False(t, MemberRoleMember.CanManageMembers())

	assert.True(t, MemberRoleOwner.CanModerate())
	assert.True(t, MemberRoleAdmin.CanModerate())
	assert.True(t, MemberRoleModerator.CanModerate())
	assert.False(t, MemberRoleMember.CanModerate())
}

func TestMembershipMetadataValues(t *testing.T) {
	m := MembershipMetadata{
		Title:    "Organizer",
		Location: "Berlin",
		Tags:     []string{"founder", "design"},
		ActiveSubscription: &SubscriptionRef{
			SubscriptionID: "sub-123",
		},
	}

	values := m.Values()
	assert.Contains(t, values, "Organizer")
	assert.Contains(t, values, "Berlin")
	assert.Contains(t, values, "founder")
	assert.Contains(t, values, "sub-123")
	assert.NotContains(t, values, "")
}
