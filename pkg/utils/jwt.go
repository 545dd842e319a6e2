package utils

import (
	"errors"
	"fmt"
	"time"

	appErrors "artmarket/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenPurposeSession       = "session"
	TokenPurposePasswordReset = "password_reset"

	DefaultSessionTTL = 7 * 24 * time.Hour
)

type Claims struct {
	UserID  uuid.UUID `json:"user_id"`
	Purpose string    `json:"purpose"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and parses HS256 bearer tokens with a server-held secret.
// Tokens are stateless: nothing is stored server side.
type TokenIssuer struct {
	secret     []byte
	sessionTTL time.Duration
	now        func() time.Time
}

func NewTokenIssuer(secret string, sessionTTL time.Duration) *TokenIssuer {
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	return &TokenIssuer{
		secret:     []byte(secret),
		sessionTTL: sessionTTL,
		now:        time.Now,
	}
}

// WithClock returns a copy of the issuer that reads time from now.
func (i *TokenIssuer) WithClock(now func() time.Time) *TokenIssuer {
	clone := *i
	clone.now = now
	return &clone
}

// IssueSession mints the bearer token returned by login and registration.
func (i *TokenIssuer) IssueSession(userID uuid.UUID) (string, time.Time, error) {
	return i.issue(userID, TokenPurposeSession, i.sessionTTL)
}

// IssueResetTicket mints the opaque ticket that ties the steps of one password reset together.
func (i *TokenIssuer) IssueResetTicket(userID uuid.UUID, ttl time.Duration) (string, error) {
	token, _, err := i.issue(userID, TokenPurposePasswordReset, ttl)
	return token, err
}

func (i *TokenIssuer) issue(userID uuid.UUID, purpose string, ttl time.Duration) (string, time.Time, error) {
	// NumericDate keeps whole seconds; the advertised expiry must match exp.
	now := i.now().Truncate(time.Second)
	expiresAt := now.Add(ttl)

	claims := Claims{
		UserID:  userID,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, expiresAt, nil
}

// Parse verifies signature, expiry and purpose. Expired tokens yield ErrTokenExpired,
// every other failure ErrTokenInvalid.
func (i *TokenIssuer) Parse(tokenString, purpose string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return i.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, appErrors.ErrTokenExpired
		}
		return nil, appErrors.ErrTokenInvalid
	}

	if !token.Valid || claims.Purpose != purpose || claims.UserID == uuid.Nil {
		return nil, appErrors.ErrTokenInvalid
	}

	return claims, nil
}
