package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// StatementTokenService issues and validates the bearer tokens that scope
// API access to one uploaded statement. There are no user accounts: the
// token returned by the upload endpoint is the only capability needed to
// read or delete that statement.
type StatementTokenService struct {
	secret []byte
	expiry time.Duration
}

func NewStatementTokenService(secret string, expiry time.Duration) *StatementTokenService {
	return &StatementTokenService{secret: []byte(secret), expiry: expiry}
}

// IssueToken signs a token whose subject is the statement ID.
func (s *StatementTokenService) IssueToken(statementID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   statementID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign statement token: %w", err)
	}
	return signed, nil
}

// ValidateToken checks the signature and expiry and returns the statement
// ID the token grants access to.
func (s *StatementTokenService) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("parse statement token: %w", err)
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid statement token")
	}
	if claims.Subject == "" {
		return "", errors.New("statement token has no subject")
	}
	return claims.Subject, nil
}
