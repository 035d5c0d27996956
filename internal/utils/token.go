package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenOutcome tags the result of verifying an auth token. The HTTP
// surface collapses every non-OK outcome into the same 401, but
// keeping them distinct lets the auth layer log why a token was
// rejected and lets the credential check fall through to the
// username/password path on expiry exactly as it does for any other
// invalid token.
type TokenOutcome int

const (
	TokenOK        TokenOutcome = iota // token valid, user id extracted
	TokenMalformed                     // not parseable as a JWT at all
	TokenExpired                       // signature fine, exp in the past
	TokenInvalid                       // bad signature or claims
)

func (o TokenOutcome) String() string {
	switch o {
	case TokenOK:
		return "ok"
	case TokenMalformed:
		return "malformed"
	case TokenExpired:
		return "expired"
	default:
		return "invalid"
	}
}

// NewAuthToken builds and signs an HS256 JWT bound to a user id. The
// ttl is expressed in seconds because the login endpoint advertises
// the same number as the token duration. Claims: subject (sub),
// expiration (exp), issued at (iat).
func NewAuthToken(secret string, userID uint64, ttlSecs int) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": now.Add(time.Duration(ttlSecs) * time.Second).Unix(),
		"iat": now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// VerifyAuthToken parses and validates an auth token, returning the
// bound user id and a tagged outcome. The user id is only meaningful
// when the outcome is TokenOK.
func VerifyAuthToken(secret, raw string) (uint64, TokenOutcome) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	switch {
	case err == nil && tok.Valid:
		// fall through to claim extraction below
	case errors.Is(err, jwt.ErrTokenExpired):
		return 0, TokenExpired
	case errors.Is(err, jwt.ErrTokenMalformed):
		return 0, TokenMalformed
	default:
		return 0, TokenInvalid
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, TokenInvalid
	}
	// Numeric JSON values decode as float64.
	sub, ok := claims["sub"].(float64)
	if !ok || sub <= 0 {
		return 0, TokenInvalid
	}
	return uint64(sub), TokenOK
}
