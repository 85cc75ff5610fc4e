// Package token issues and verifies the bearer tokens that carry a
// caller's identity and role.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"palletbay/internal/domain"
)

var ErrInvalid = errors.New("token: invalid or expired")

type Claims struct {
	jwt.RegisteredClaims
	ClientID int64  `json:"client_id"`
	Role     string `json:"role"`
}

type Issuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret, issuer string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}
}

// Issue signs an HS256 token for id.
func (i *Issuer) Issue(id domain.Identity) (string, time.Time, error) {
	if len(i.secret) == 0 {
		return "", time.Time{}, errors.New("token: empty secret")
	}
	now := i.now()
	exp := now.Add(i.ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    i.issuer,
			Subject:   fmt.Sprint(id.ClientID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		ClientID: id.ClientID,
		Role:     id.Role,
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	return s, exp, err
}

// Parse verifies signature, issuer and expiry and returns the identity.
func (i *Issuer) Parse(raw string) (domain.Identity, error) {
	tok, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithIssuer(i.issuer), jwt.WithTimeFunc(i.now), jwt.WithExpirationRequired())
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	c, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid || c.ClientID == 0 {
		return domain.Identity{}, ErrInvalid
	}
	if c.Role != domain.RoleAdmin && c.Role != domain.RoleClient {
		return domain.Identity{}, ErrInvalid
	}
	return domain.Identity{ClientID: c.ClientID, Role: c.Role}, nil
}
