package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visaflow/internal/authz"
	"visaflow/internal/models"
	"visaflow/internal/repositories"
)

func TestDirectoryDefaults(t *testing.T) {
	dir := NewDirectory(
		[]models.Agent{{ID: 1, Name: "Alom 101"}},
		[]models.TeamMember{{ID: 2, Name: "Sales Executive 1", Role: authz.RoleSales}},
	)

	assert.Equal(t, "Alom 101", dir.AgentName(intp(1)))
	assert.Equal(t, DefaultAgentName, dir.AgentName(nil))
	assert.Equal(t, DefaultAgentName, dir.AgentName(intp(9)))

	assert.Equal(t, "Sales Executive 1", dir.MemberName(intp(2)))
	assert.Equal(t, DefaultMemberName, dir.MemberName(nil))
	assert.Equal(t, DefaultMemberName, dir.MemberName(intp(9)))

	m, ok := dir.Member(intp(2))
	require.True(t, ok)
	assert.Equal(t, authz.RoleSales, m.Role)
}

func TestDirectorySnapshot(t *testing.T) {
	store := repositories.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Agents.Create(ctx, &models.Agent{Name: "RJ Travels"}))
	require.NoError(t, store.Team.Create(ctx, &models.TeamMember{Name: "Admin User", Email: "admin@visaflow.com", Role: authz.RoleAdministrator}))

	dir, err := NewDirectoryService(store.Agents, store.Team).Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, dir.Agents(), 1)
	assert.Len(t, dir.Team(), 1)
	assert.Equal(t, "RJ Travels", dir.AgentName(intp(1)))
	assert.Equal(t, "Admin User", dir.MemberName(intp(1)))
}
