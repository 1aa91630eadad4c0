package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/iteach-web/pkg/errors"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	svc := NewSessionTokenService(SessionTokenConfig{Secret: "secret", TTL: time.Hour})

	token, issued, err := svc.Issue("fr")
	require.NoError(t, err)
	require.NotEmpty(t, issued.SessionID)

	claims, err := svc.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, issued.SessionID, claims.SessionID)
	assert.Equal(t, "fr", claims.Locale)
	assert.Equal(t, issued.SessionID, claims.Subject)
}

func TestSessionTokenRejectsForeignSecret(t *testing.T) {
	token, _, err := NewSessionTokenService(SessionTokenConfig{Secret: "other"}).Issue("en")
	require.NoError(t, err)

	_, err = NewSessionTokenService(SessionTokenConfig{Secret: "secret"}).Parse(token)

	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestSessionTokenExpires(t *testing.T) {
	svc := NewSessionTokenService(SessionTokenConfig{Secret: "secret", TTL: time.Minute})
	issuedAt := time.Now()
	svc.now = func() time.Time { return issuedAt }
	token, _, err := svc.Issue("en")
	require.NoError(t, err)

	svc.now = func() time.Time { return issuedAt.Add(2 * time.Minute) }
	_, err = svc.Parse(token)

	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestSessionTokenRefreshKeepsSession(t *testing.T) {
	svc := NewSessionTokenService(SessionTokenConfig{Secret: "secret"})
	_, issued, err := svc.Issue("en")
	require.NoError(t, err)

	token, refreshed, err := svc.Refresh(issued)
	require.NoError(t, err)
	assert.Equal(t, issued.SessionID, refreshed.SessionID)

	claims, err := svc.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, issued.SessionID, claims.SessionID)
	assert.Equal(t, 12*time.Hour, svc.TTL())
}
