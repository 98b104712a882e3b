package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserIssueAPIKey(t *testing.T) {
	u := &User{ID: 1, Email: "dev@example.com"}

	key, err := u.IssueAPIKey()
	require.NoError(t, err)
	require.NotEmpty(t, key)

	assert.NotEmpty(t, u.APIKeyHash)
	assert.NotEmpty(t, u.APIKeyPrefix)
	assert.NotNil(t, u.APIKeyCreatedAt)
	assert.Nil(t, u.APIKeyLastUsedAt)
	assert.True(t, u.HasActiveAPIKey())
	assert.Equal(t, HashAPIKey(key), u.APIKeyHash)
}

func TestUserDisplayName(t *testing.T) {
	tests := []struct {
		first string
		last  string
		email string
		want  string
	}{
		{first: "Ada", last: "Lovelace", email: "ada@example.com", want: "Ada Lovelace"},
		{first: "Ada", last: "", email: "ada@example.com", want: "Ada"},
		{first: "", last: "", email: "ada@example.com", want: "ada@example.com"},
		{first: "  ", last: "  ", email: "ada@example.com", want: "ada@example.com"},
	}

	for _, tt := range tests {
		u := &User{FirstName: tt.first, LastName: tt.last, Email: tt.email}
		assert.Equal(t, tt.want, u.DisplayName())
	}
}

func TestUserPasswordRoundTrip(t *testing.T) {
	u := &User{}
	require.NoError(t, u.SetPassword("hunter22"))
	assert.True(t, u.CheckPassword("hunter22"))
	assert.False(t, u.CheckPassword("hunter23"))
}
