// Package auth validates access tokens issued by an external identity
// provider. Token issuance, sessions, and credential management live
// outside this service.
package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned when a token fails validation for any reason.
var ErrInvalidToken = errors.New("invalid or expired token")

// AccessTokenClaims represents the claims in an access token. Email carries
// the identity provider's address for the subject; it is used to provision a
// local user row on first contact.
type AccessTokenClaims struct {
	jwt.RegisteredClaims
	FamilyID string `json:"family_id,omitempty"`
	Email    string `json:"email,omitempty"`
}

// TokenVerifier validates HS256 access tokens against a shared secret.
type TokenVerifier struct {
	secret []byte
	issuer string
}

// NewTokenVerifier creates a token verifier. If issuer is non-empty,
// tokens must carry a matching iss claim.
func NewTokenVerifier(secret []byte, issuer string) *TokenVerifier {
	return &TokenVerifier{secret: secret, issuer: issuer}
}

// Verify validates an access token and returns the claims.
func (v *TokenVerifier) Verify(tokenString string) (*AccessTokenClaims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256"})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &AccessTokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*AccessTokenClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// UserID parses the token subject as a user ID.
func (c *AccessTokenClaims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}
