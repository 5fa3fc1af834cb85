package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"strings"

	"visaflow/internal/authz"
	"visaflow/internal/models"
	"visaflow/internal/repositories"
)

const minPasswordLength = 6

type CreateAgentInput struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type AgentService struct {
	Repo repositories.AgentRepository
}

func NewAgentService(repo repositories.AgentRepository) *AgentService {
	return &AgentService{Repo: repo}
}

func (s *AgentService) Create(ctx context.Context, in CreateAgentInput) (*models.Agent, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("name", "is required")
	}
	agent := &models.Agent{Name: name, Phone: strings.TrimSpace(in.Phone)}
	if err := s.Repo.Create(ctx, agent); err != nil {
		return nil, err
	}
	log.Printf("[agent][create] id=%d", agent.ID)
	return agent, nil
}

func (s *AgentService) List(ctx context.Context) ([]*models.Agent, error) {
	return s.Repo.List(ctx)
}

type CreateMemberInput struct {
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Role     authz.Role `json:"role"`
	Password string     `json:"password"`
}

type TeamService struct {
	Repo      repositories.TeamRepository
	Passwords AuthService
	Email     EmailService
}

// NewTeamService builds the service; email may be nil to skip welcome mails.
func NewTeamService(repo repositories.TeamRepository, passwords AuthService, email EmailService) *TeamService {
	return &TeamService{Repo: repo, Passwords: passwords, Email: email}
}

func (s *TeamService) Create(ctx context.Context, in CreateMemberInput) (*models.TeamMember, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	switch {
	case name == "":
		return nil, invalid("name", "is required")
	case email == "":
		return nil, invalid("email", "is required")
	case !validEmail(email):
		return nil, invalid("email", "is not a valid address")
	case !in.Role.Valid():
		return nil, invalid("role", fmt.Sprintf("must be %s or %s", authz.RoleAdministrator, authz.RoleSales))
	case len(in.Password) < minPasswordLength:
		return nil, invalid("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}

	hash, err := s.Passwords.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	member := &models.TeamMember{Name: name, Email: email, Role: in.Role, PasswordHash: hash}
	if err := s.Repo.Create(ctx, member); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return nil, fmt.Errorf("email %q already registered: %w", email, ErrConflict)
		}
		return nil, err
	}
	log.Printf("[team][create] id=%d role=%s", member.ID, member.Role)

	if s.Email != nil {
		if err := s.Email.SendWelcomeEmail(member.Email, member.Name, string(member.Role)); err != nil {
			log.Printf("[team][create] warning: welcome mail for member=%d: %v", member.ID, err)
		}
	}
	return member, nil
}

func (s *TeamService) GetByID(ctx context.Context, id int) (*models.TeamMember, error) {
	m, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "team member", id)
	}
	return m, nil
}

func (s *TeamService) List(ctx context.Context) ([]*models.TeamMember, error) {
	return s.Repo.List(ctx)
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}
