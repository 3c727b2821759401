package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/railsuser2014/WebVella-ERP/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWT_RoundTrip(t *testing.T) {
	s := NewJWTService("secret", time.Hour)
	user := uuid.New()

	tok, err := s.GenerateToken(user, []uuid.UUID{AdministratorRoleID})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", tok.TokenType)

	claims, err := s.ValidateToken(tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user, claims.UserID)
	assert.True(t, claims.IsAdministrator())
}

func TestJWT_Rejects(t *testing.T) {
	s := NewJWTService("secret", time.Hour)
	tok, err := s.GenerateToken(uuid.New(), nil)
	require.NoError(t, err)

	_, err = NewJWTService("other", time.Hour).ValidateToken(tok.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = s.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = s.ValidateToken(tok.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPermissionsFor(t *testing.T) {
	entity := &models.Entity{RecordPermissions: &models.RecordPermissions{
		CanRead:   []uuid.UUID{RegularRoleID, GuestRoleID},
		CanCreate: []uuid.UUID{RegularRoleID},
		CanUpdate: []uuid.UUID{AdministratorRoleID},
		CanDelete: []uuid.UUID{AdministratorRoleID},
	}}

	assert.Equal(t, UserPermission{CanRead: true}, PermissionsFor(entity, []uuid.UUID{GuestRoleID}))
	assert.Equal(t, UserPermission{CanRead: true, CanCreate: true}, PermissionsFor(entity, []uuid.UUID{RegularRoleID}))
	assert.Equal(t, UserPermission{CanUpdate: true, CanDelete: true}, PermissionsFor(entity, []uuid.UUID{AdministratorRoleID}))
	assert.Equal(t, UserPermission{}, PermissionsFor(&models.Entity{}, []uuid.UUID{AdministratorRoleID}))
	assert.False(t, Can(entity.RecordPermissions, nil, ActionRead))
}
