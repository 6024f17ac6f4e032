package models

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token is a parsed API token. The reference server issues HS256 tokens whose
// subject is the numeric user id; the sync client only looks at the expiry.
type Token struct {
	*jwt.Token `json:"-"`

	SignedString string `json:"-"`
	UserID       int64  `json:"-"`
}

// ParseSubject converts the "sub" claim into a user id.
func (t Token) ParseSubject() (int64, error) {
	if t.Token == nil {
		return 0, fmt.Errorf("token is not parsed")
	}
	sub, err := t.Claims.GetSubject()
	if err != nil {
		return 0, fmt.Errorf("error extracting subject from token: %w", err)
	}

	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("error converting token subject to user id: %w", err)
	}

	return userID, nil
}

// ExpiresAt returns the "exp" claim, or the zero time when the token carries
// no expiry.
func (t Token) ExpiresAt() time.Time {
	if t.Token == nil {
		return time.Time{}
	}
	exp, err := t.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

func (t Token) String() string {
	return t.SignedString
}
