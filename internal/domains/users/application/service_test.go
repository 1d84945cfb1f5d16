package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cafepos/cafe-api-server/internal/domains/users/adapters/memory"
	"github.com/cafepos/cafe-api-server/internal/domains/users/application"
	"github.com/cafepos/cafe-api-server/internal/domains/users/domain"
	"github.com/cafepos/cafe-api-server/internal/domains/users/ports"
)

func newService(t *testing.T) *application.Service {
	t.Helper()
	return application.NewService(memory.NewRepository(), memory.NewSessionStore())
}

func TestRegisterValidatesFields(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	cases := []struct {
		name     string
		username string
		password string
		fullName string
		role     string
		wantErr  error
	}{
		{"short username", "ab", "secret", "Ada Lovelace", "cashier", domain.ErrShortUsername},
		{"weak password", "ada", "abc", "Ada Lovelace", "cashier", domain.ErrWeakPassword},
		{"short full name", "ada", "secret", "A", "cashier", domain.ErrShortFullName},
		{"bad role", "ada", "secret", "Ada Lovelace", "manager", domain.ErrInvalidRole},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.username, tc.password, tc.fullName, tc.role)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.ErrorIs(t, err, application.ErrInvalidInput)
		})
	}

	user, err := svc.Register(ctx, "ada", "secret", "Ada Lovelace", "Admin")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, user.Role)
	assert.NotEqual(t, "secret", user.PasswordHash)
	assert.True(t, user.CheckPassword("secret"))
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "ada", "secret", "Ada Lovelace", "cashier")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "ada", "other", "Another Ada", "cashier")
	assert.ErrorIs(t, err, ports.ErrUsernameTaken)
}

func TestLoginIssuesTokenAndAuthenticates(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "ada", "secret", "Ada Lovelace", "cashier")
	require.NoError(t, err)

	token, err := svc.Login(ctx, "ada", "secret")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	user, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "ada", user.Username)

	// Second login issues a distinct token; both stay valid.
	second, err := svc.Login(ctx, "ada", "secret")
	require.NoError(t, err)
	assert.NotEqual(t, token, second)
	_, err = svc.Authenticate(ctx, token)
	assert.NoError(t, err)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "ada", "secret", "Ada Lovelace", "cashier")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "ada", "wrong")
	assert.ErrorIs(t, err, application.ErrAuthentication)

	// Unknown users fail the same way as wrong passwords.
	_, err = svc.Login(ctx, "ghost", "secret")
	assert.ErrorIs(t, err, application.ErrAuthentication)

	_, err = svc.Login(ctx, "", "")
	assert.ErrorIs(t, err, application.ErrAuthentication)
}

func TestLogoutInvalidatesSessions(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "ada", "secret", "Ada Lovelace", "cashier")
	require.NoError(t, err)

	token, err := svc.Login(ctx, "ada", "secret")
	require.NoError(t, err)

	svc.Logout(ctx, "ada")

	_, err = svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, application.ErrAuthentication)
}

func TestChangePasswordRehashes(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "ada", "secret", "Ada Lovelace", "cashier")
	require.NoError(t, err)

	require.NoError(t, svc.ChangePassword(ctx, "ada", "newpass"))

	_, err = svc.Login(ctx, "ada", "secret")
	assert.ErrorIs(t, err, application.ErrAuthentication)

	_, err = svc.Login(ctx, "ada", "newpass")
	assert.NoError(t, err)

	err = svc.ChangePassword(ctx, "ada", "abc")
	assert.ErrorIs(t, err, application.ErrInvalidInput)
}

func TestDeleteRemovesAccountAndSessions(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "ada", "secret", "Ada Lovelace", "cashier")
	require.NoError(t, err)
	token, err := svc.Login(ctx, "ada", "secret")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "ada"))

	_, err = svc.GetByUsername(ctx, "ada")
	assert.ErrorIs(t, err, ports.ErrNotFound)
	_, err = svc.Authenticate(ctx, token)
	assert.Error(t, err)
}
