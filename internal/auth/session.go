package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session describes the stored token's claims. The console never verifies
// the signature; verification is the backend's job. The claims are read only
// to report who is signed in and to fail fast on an expired session.
type Session struct {
	Subject   string
	Email     string
	Role      string
	ExpiresAt time.Time
}

// Expired reports whether the session has passed its expiry.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// SessionInfo decodes a JWT without verifying it. Malformed tokens return an
// error so callers can clear the store and send the user back to login.
func SessionInfo(token string) (Session, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return Session{}, err
	}

	session := Session{}
	if sub, err := claims.GetSubject(); err == nil {
		session.Subject = sub
	}
	if email, ok := claims["email"].(string); ok {
		session.Email = email
	}
	if role, ok := claims["role"].(string); ok {
		session.Role = role
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		session.ExpiresAt = exp.Time
	}
	return session, nil
}
