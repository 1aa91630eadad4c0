package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/noah-isme/iteach-web/internal/models"
	appErrors "github.com/noah-isme/iteach-web/pkg/errors"
)

const sessionIssuer = "iteach-web"

// SessionTokenConfig configures the signed session cookie.
type SessionTokenConfig struct {
	Secret string
	TTL    time.Duration
}

// SessionTokenService issues and verifies the anonymous session cookie.
type SessionTokenService struct {
	config SessionTokenConfig
	now    func() time.Time
}

// NewSessionTokenService constructs a SessionTokenService.
func NewSessionTokenService(config SessionTokenConfig) *SessionTokenService {
	if config.TTL <= 0 {
		config.TTL = 12 * time.Hour
	}
	return &SessionTokenService{config: config, now: time.Now}
}

// Issue starts a new session. The returned claims carry a fresh session id.
func (s *SessionTokenService) Issue(locale string) (string, *models.SessionClaims, error) {
	return s.Refresh(&models.SessionClaims{SessionID: uuid.NewString(), Locale: locale})
}

// Refresh re-signs an existing session with a new expiry.
func (s *SessionTokenService) Refresh(current *models.SessionClaims) (string, *models.SessionClaims, error) {
	issuedAt := s.now().UTC()
	claims := &models.SessionClaims{
		SessionID: current.SessionID,
		Locale:    current.Locale,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sessionIssuer,
			Subject:   current.SessionID,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.TTL)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// Parse validates a session cookie and returns its claims.
func (s *SessionTokenService) Parse(tokenString string) (*models.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	}, jwt.WithIssuer(sessionIssuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid session")
	}

	claims, ok := token.Claims.(*models.SessionClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid session claims")
	}
	return claims, nil
}

// TTL is the session lifetime, also used as the cookie max age.
func (s *SessionTokenService) TTL() time.Duration {
	return s.config.TTL
}
