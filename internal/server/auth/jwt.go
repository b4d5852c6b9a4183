package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/bookmarker/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the access token payload: the standard claims with the user id
// in Subject, plus the user's email.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// TokenManager issues and verifies HS256 access tokens.
type TokenManager struct {
	secret   []byte
	validity time.Duration

	// NowFunc is the clock used for iat/exp and for expiry checks.
	NowFunc func() time.Time
}

func NewTokenManager(secret []byte, validity time.Duration) *TokenManager {
	return &TokenManager{
		secret:   secret,
		validity: validity,
		NowFunc:  time.Now,
	}
}

// Validity returns the configured access token lifetime.
func (m *TokenManager) Validity() time.Duration {
	return m.validity
}

// Issue signs a token for the given user, valid from now for the configured duration.
func (m *TokenManager) Issue(userID int64, email string) (string, error) {
	now := m.NowFunc()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.validity)),
		},
		Email: email,
	})

	tokenString, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return tokenString, nil
}

// Parse verifies the signature and expiry of tokenString and returns the
// identity it carries. Expired tokens yield common.ErrTokenExpired, every
// other failure common.ErrInvalidToken.
func (m *TokenManager) Parse(tokenString string) (Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.NowFunc),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, common.ErrTokenExpired
		}
		return Identity{}, common.ErrInvalidToken
	}

	if !token.Valid {
		return Identity{}, common.ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return Identity{}, common.ErrInvalidToken
	}

	return Identity{UserID: userID, Email: claims.Email}, nil
}
