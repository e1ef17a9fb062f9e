package middleware

import (
	"testing"
	"time"

	"github.com/gazer/client-registry/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rememberMeFixture() (*RememberMe, *models.User, time.Time) {
	issuedAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	rm := NewRememberMe("test-secret", 24*time.Hour)
	rm.now = func() time.Time { return issuedAt }
	user := &models.User{ID: 3, Email: "test@test.com", Password: "$2a$10$digest"}
	return rm, user, issuedAt
}

func TestRememberMe_IssueAndVerify(t *testing.T) {
	rm, user, issuedAt := rememberMeFixture()

	token, expires, err := rm.Issue(user)
	require.NoError(t, err)
	assert.Equal(t, issuedAt.Add(24*time.Hour), expires)

	subject, err := rm.Subject(token)
	require.NoError(t, err)
	assert.Equal(t, user.Email, subject)

	assert.NoError(t, rm.Verify(token, user))
}

func TestRememberMe_ExpiresAfterValidity(t *testing.T) {
	rm, user, issuedAt := rememberMeFixture()

	token, _, err := rm.Issue(user)
	require.NoError(t, err)

	rm.now = func() time.Time { return issuedAt.Add(25 * time.Hour) }
	assert.ErrorIs(t, rm.Verify(token, user), ErrInvalidRememberMe)
}

func TestRememberMe_RevokedByPasswordChange(t *testing.T) {
	rm, user, _ := rememberMeFixture()

	token, _, err := rm.Issue(user)
	require.NoError(t, err)

	changed := *user
	changed.Password = "$2a$10$other"
	assert.ErrorIs(t, rm.Verify(token, &changed), ErrInvalidRememberMe)
}

func TestRememberMe_RejectsForeignSecretAndSubject(t *testing.T) {
	rm, user, issuedAt := rememberMeFixture()

	token, _, err := rm.Issue(user)
	require.NoError(t, err)

	other := NewRememberMe("another-secret", 24*time.Hour)
	other.now = func() time.Time { return issuedAt }
	assert.ErrorIs(t, other.Verify(token, user), ErrInvalidRememberMe)

	impostor := *user
	impostor.Email = "other@test.com"
	assert.ErrorIs(t, rm.Verify(token, &impostor), ErrInvalidRememberMe)
}

func TestRememberMe_SubjectOfGarbage(t *testing.T) {
	rm, _, _ := rememberMeFixture()

	_, err := rm.Subject("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidRememberMe)
}
