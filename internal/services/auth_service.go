package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"palletbay/internal/domain"
	"palletbay/internal/repos"
	"palletbay/internal/token"
)

// ErrBadCreds is deliberately vague: it does not say whether the email or
// the password was wrong.
var ErrBadCreds = fmt.Errorf("invalid email or password: %w", domain.ErrAuthorization)

type AuthService struct {
	Users  *repos.ClientRepo
	Tokens *token.Issuer
}

type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Role      string    `json:"role"`
	Name      string    `json:"name"`
	ClientID  int64     `json:"client_id"`
}

func NewAuthService(users *repos.ClientRepo, tokens *token.Issuer) *AuthService {
	return &AuthService{Users: users, Tokens: tokens}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.Users.ByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrBadCreds
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	tok, exp, err := s.Tokens.Issue(domain.Identity{ClientID: u.ID, Role: u.Role})
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &LoginResult{Token: tok, ExpiresAt: exp, Role: u.Role, Name: u.Name, ClientID: u.ID}, nil
}

// Identify verifies a bearer token and returns the caller's identity.
func (s *AuthService) Identify(raw string) (domain.Identity, error) {
	id, err := s.Tokens.Parse(raw)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", domain.ErrAuthorization, err)
	}
	return id, nil
}

// EnsureAdmin creates the bootstrap admin account unless one exists. It is
// safe to call on every start.
func (s *AuthService) EnsureAdmin(ctx context.Context, name, email, password string) (created bool, err error) {
	if _, err := s.Users.Admin(ctx); err == nil {
		return false, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return false, err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return false, err
	}
	if _, err := s.Users.Create(ctx, domain.Client{Name: name, Email: email, Hash: hash, Role: domain.RoleAdmin}); err != nil {
		return false, err
	}
	return true, nil
}

func HashPassword(raw string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}
