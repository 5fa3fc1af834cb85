package services

import (
	"context"
	"fmt"

	"visaflow/internal/models"
	"visaflow/internal/repositories"
)

const (
	DefaultAgentName  = "Direct Client"
	DefaultMemberName = "Unassigned"
)

// Directory is a read-only snapshot of agents and team members.
type Directory struct {
	agents     []models.Agent
	team       []models.TeamMember
	agentByID  map[int]models.Agent
	memberByID map[int]models.TeamMember
}

func NewDirectory(agents []models.Agent, team []models.TeamMember) *Directory {
	d := &Directory{
		agents:     agents,
		team:       team,
		agentByID:  make(map[int]models.Agent, len(agents)),
		memberByID: make(map[int]models.TeamMember, len(team)),
	}
	for _, a := range agents {
		d.agentByID[a.ID] = a
	}
	for _, m := range team {
		d.memberByID[m.ID] = m
	}
	return d
}

func (d *Directory) Agents() []models.Agent    { return d.agents }
func (d *Directory) Team() []models.TeamMember { return d.team }

func (d *Directory) Agent(id *int) (models.Agent, bool) {
	if id == nil {
		return models.Agent{}, false
	}
	a, ok := d.agentByID[*id]
	return a, ok
}

func (d *Directory) Member(id *int) (models.TeamMember, bool) {
	if id == nil {
		return models.TeamMember{}, false
	}
	m, ok := d.memberByID[*id]
	return m, ok
}

// AgentName resolves id or falls back to DefaultAgentName.
func (d *Directory) AgentName(id *int) string {
	if a, ok := d.Agent(id); ok {
		return a.Name
	}
	return DefaultAgentName
}

// MemberName resolves id or falls back to DefaultMemberName.
func (d *Directory) MemberName(id *int) string {
	if m, ok := d.Member(id); ok {
		return m.Name
	}
	return DefaultMemberName
}

type DirectoryService struct {
	Agents repositories.AgentRepository
	Team   repositories.TeamRepository
}

func NewDirectoryService(agents repositories.AgentRepository, team repositories.TeamRepository) *DirectoryService {
	return &DirectoryService{Agents: agents, Team: team}
}

// Snapshot loads the current agents and team into a Directory.
func (s *DirectoryService) Snapshot(ctx context.Context) (*Directory, error) {
	agents, err := s.Agents.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("directory agents: %w", err)
	}
	team, err := s.Team.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("directory team: %w", err)
	}
	return NewDirectory(derefAll(agents), derefAll(team)), nil
}

func derefAll[T any](in []*T) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		out = append(out, *v)
	}
	return out
}
