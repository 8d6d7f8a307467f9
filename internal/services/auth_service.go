package services

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	wb_errors "whitebeat/pkg/errors"
)

// AccessClaims are the JWT claims carried on access tokens.
type AccessClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type AuthService struct {
	secret    []byte
	accessTTL time.Duration
}

func NewAuthService(secret string, accessTTL time.Duration) *AuthService {
	if accessTTL == 0 {
		accessTTL = 24 * time.Hour
	}
	return &AuthService{secret: []byte(secret), accessTTL: accessTTL}
}

// IssueAccessToken mints a signed token for the user.
func (s *AuthService) IssueAccessToken(userID uuid.UUID, username string) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		UserID:   userID.String(),
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ParseAccessToken validates the signature and expiry and returns the
// authenticated user id.
func (s *AuthService) ParseAccessToken(tokenString string) (uuid.UUID, *AccessClaims, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, wb_errors.ErrUnauthorized
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, nil, wb_errors.ErrUnauthorized
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, nil, wb_errors.ErrUnauthorized
	}
	return userID, claims, nil
}
