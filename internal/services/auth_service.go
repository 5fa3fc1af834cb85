package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"visaflow/internal/models"
	"visaflow/internal/repositories"
)

type AuthService interface {
	HashPassword(plain string) (string, error)
	CheckPassword(hash, plain string) error
}

type authService struct {
	cost int
}

// NewAuthService hashes with bcrypt at cost (bcrypt.DefaultCost when 0).
func NewAuthService(cost int) AuthService {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &authService{cost: cost}
}

func (s *authService) HashPassword(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

func (s *authService) CheckPassword(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}

// AuthProvider resolves credentials to a team member. The core only ever
// sees the member's role.
type AuthProvider interface {
	Authenticate(ctx context.Context, email, password string) (*models.TeamMember, error)
}

type credentialAuthenticator struct {
	team      repositories.TeamRepository
	passwords AuthService
}

func NewAuthProvider(team repositories.TeamRepository, passwords AuthService) AuthProvider {
	return &credentialAuthenticator{team: team, passwords: passwords}
}

func (a *credentialAuthenticator) Authenticate(ctx context.Context, email, password string) (*models.TeamMember, error) {
	email = strings.TrimSpace(email)
	member, err := a.team.GetByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		log.Printf("[auth][login] unknown email=%q", email)
		return nil, ErrAuthentication
	}
	if err != nil {
		return nil, err
	}
	if member.PasswordHash == "" {
		log.Printf("[auth][login] empty password_hash for member=%d", member.ID)
		return nil, ErrAuthentication
	}
	if err := a.passwords.CheckPassword(member.PasswordHash, password); err != nil {
		log.Printf("[auth][login] password mismatch for member=%d", member.ID)
		return nil, ErrAuthentication
	}
	return member, nil
}
