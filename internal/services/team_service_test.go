package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"visaflow/internal/authz"
	"visaflow/internal/repositories"
)

type fakeMailer struct {
	sent []string
	err  error
}

func (f *fakeMailer) SendWelcomeEmail(email, _, _ string) error {
	f.sent = append(f.sent, email)
	return f.err
}

func TestTeamCreateHashesAndMails(t *testing.T) {
	mailer := &fakeMailer{}
	passwords := NewAuthService(bcrypt.MinCost)
	svc := NewTeamService(repositories.NewMemoryTeamRepository(), passwords, mailer)
	ctx := context.Background()

	m, err := svc.Create(ctx, CreateMemberInput{Name: "Nadia", Email: "nadia@visaflow.test", Role: authz.RoleSales, Password: "secret1"})
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", m.PasswordHash)
	assert.NoError(t, passwords.CheckPassword(m.PasswordHash, "secret1"))
	assert.Equal(t, []string{"nadia@visaflow.test"}, mailer.sent)

	_, err = svc.Create(ctx, CreateMemberInput{Name: "Other", Email: "NADIA@visaflow.test", Role: authz.RoleSales, Password: "secret2"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestTeamCreateMailFailureIsNotFatal(t *testing.T) {
	svc := NewTeamService(repositories.NewMemoryTeamRepository(), NewAuthService(bcrypt.MinCost), &fakeMailer{err: errors.New("smtp down")})
	_, err := svc.Create(context.Background(), CreateMemberInput{Name: "N", Email: "n@visaflow.test", Role: authz.RoleAdministrator, Password: "secret1"})
	assert.NoError(t, err)
}

func TestTeamCreateValidation(t *testing.T) {
	tests := []struct {
		name  string
		in    CreateMemberInput
		field string
	}{
		{"name", CreateMemberInput{Email: "a@b.c", Role: authz.RoleSales, Password: "secret1"}, "name"},
		{"email missing", CreateMemberInput{Name: "A", Role: authz.RoleSales, Password: "secret1"}, "email"},
		{"email malformed", CreateMemberInput{Name: "A", Email: "not-an-email", Role: authz.RoleSales, Password: "secret1"}, "email"},
		{"role", CreateMemberInput{Name: "A", Email: "a@b.c", Role: "Manager", Password: "secret1"}, "role"},
		{"password", CreateMemberInput{Name: "A", Email: "a@b.c", Role: authz.RoleSales, Password: "123"}, "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewTeamService(repositories.NewMemoryTeamRepository(), NewAuthService(bcrypt.MinCost), nil)
			_, err := svc.Create(context.Background(), tt.in)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestAgentCreate(t *testing.T) {
	svc := NewAgentService(repositories.NewMemoryAgentRepository())
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateAgentInput{Name: " "})
	assert.ErrorIs(t, err, ErrValidation)

	a, err := svc.Create(ctx, CreateAgentInput{Name: "Rafiq Travels", Phone: "+880 1711"})
	require.NoError(t, err)
	assert.Equal(t, 1, a.ID)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	passwords := NewAuthService(bcrypt.MinCost)
	team := repositories.NewMemoryTeamRepository()
	svc := NewTeamService(team, passwords, nil)
	_, err := svc.Create(ctx, CreateMemberInput{Name: "Admin", Email: "admin@visaflow.test", Role: authz.RoleAdministrator, Password: "admin123"})
	require.NoError(t, err)

	auth := NewAuthProvider(team, passwords)

	m, err := auth.Authenticate(ctx, " Admin@VisaFlow.test ", "admin123")
	require.NoError(t, err)
	assert.Equal(t, authz.RoleAdministrator, m.Role)

	_, err = auth.Authenticate(ctx, "admin@visaflow.test", "wrong")
	assert.ErrorIs(t, err, ErrAuthentication)

	_, err = auth.Authenticate(ctx, "nobody@visaflow.test", "admin123")
	assert.ErrorIs(t, err, ErrAuthentication)
}
