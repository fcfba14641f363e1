package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/config"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/db/models"
)

func TestUpsertOIDCUser(t *testing.T) {
	db := setupTestDB(t)
	admins := []string{" Owner@Example.com "}

	claims := oidcClaims{Sub: "sub-1", Email: "staff@example.com", GivenName: "Sam", FamilyName: "Staff"}

	user, err := upsertOIDCUser(db, claims, admins)
	require.NoError(t, err)
	assert.Equal(t, models.RoleOperator, user.Role)
	assert.Equal(t, "staff@example.com", user.Username)
	assert.Equal(t, models.AuthSourceOIDC, user.AuthSource)

	// second login refreshes the profile of the same row
	claims.FamilyName = "Renamed"
	again, err := upsertOIDCUser(db, claims, admins)
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)
	assert.Equal(t, "Renamed", again.LastName)

	owner, err := upsertOIDCUser(db, oidcClaims{Sub: "sub-2", Email: "owner@example.com"}, admins)
	require.NoError(t, err)
	assert.True(t, owner.IsAdmin())

	// removing the email from the list does not demote
	owner, err = upsertOIDCUser(db, oidcClaims{Sub: "sub-2", Email: "owner@example.com"}, nil)
	require.NoError(t, err)
	assert.True(t, owner.IsAdmin())

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Update("active", false).Error)
	_, err = upsertOIDCUser(db, claims, admins)
	require.ErrorIs(t, err, ErrUserAccountDisabled)
}

func TestIsAdminEmail(t *testing.T) {
	assert.True(t, isAdminEmail([]string{"a@example.com"}, "A@Example.com"))
	assert.False(t, isAdminEmail([]string{"a@example.com"}, "b@example.com"))
	assert.False(t, isAdminEmail([]string{""}, ""))
}

func TestNewOIDCProvider_Disabled(t *testing.T) {
	_, err := NewOIDCProvider(context.Background(), config.OIDCAuth{}, nil)
	require.ErrorIs(t, err, ErrOIDCDisabled)
}

func TestGenerateStateToken(t *testing.T) {
	a, err := GenerateStateToken()
	require.NoError(t, err)

	b, err := GenerateStateToken()
	require.NoError(t, err)

	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

func TestNewLDAPProvider(t *testing.T) {
	_, err := NewLDAPProvider(config.LDAPAuth{}, nil)
	require.ErrorIs(t, err, ErrLDAPDisabled)

	_, err = NewLDAPProvider(config.LDAPAuth{Enabled: true, UserFilter: "(uid=fixed)"}, nil)
	require.ErrorIs(t, err, ErrLDAPUserFilter)

	p, err := NewLDAPProvider(config.LDAPAuth{Enabled: true, Host: "ldap.example.com", Port: 636, UseSSL: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, "ldaps://ldap.example.com:636", p.URL())
	assert.Equal(t, "mail", p.cfg.EmailAttr)
	assert.Equal(t, defaultLDAPTimeout, p.cfg.Timeout)
	assert.Equal(t, `(uid=a\2a\28b\29)`, p.userFilter("a*(b)"))
}

func TestLDAPProvider_EmptyPassword(t *testing.T) {
	p, err := NewLDAPProvider(config.LDAPAuth{Enabled: true, Host: "127.0.0.1", Port: 1}, nil)
	require.NoError(t, err)

	_, err = p.Authenticate(context.Background(), "alice", "")
	require.ErrorIs(t, err, ErrInvalidPassword)
}
