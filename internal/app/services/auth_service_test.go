package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hgonen/assignhub/internal/app/models"
	"github.com/hgonen/assignhub/internal/app/models/dto"
	"github.com/hgonen/assignhub/internal/app/repositories"
	"github.com/hgonen/assignhub/internal/pkg/apperrors"
	"github.com/hgonen/assignhub/internal/pkg/auth"
)

type memUsers struct {
	users  map[int64]*models.User
	nextID int64
}

func newMemUsers() *memUsers {
	return &memUsers{users: map[int64]*models.User{}, nextID: 1}
}

func (m *memUsers) Create(_ context.Context, user *models.User) error {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, user.Email) {
			return repositories.ErrEmailAlreadyExists
		}
	}
	user.ID = m.nextID
	m.nextID++
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (m *memUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

type memTokens struct {
	tokens map[string]*models.RefreshToken
}

func newMemTokens() *memTokens {
	return &memTokens{tokens: map[string]*models.RefreshToken{}}
}

func (m *memTokens) Store(_ context.Context, token *models.RefreshToken) error {
	cp := *token
	m.tokens[token.Token] = &cp
	return nil
}

func (m *memTokens) GetByToken(_ context.Context, token string) (*models.RefreshToken, error) {
	t, ok := m.tokens[token]
	if !ok {
		return nil, repositories.ErrTokenNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *memTokens) Delete(_ context.Context, token string) error {
	delete(m.tokens, token)
	return nil
}

func newTestAuthService(users *memUsers, tokens *memTokens) *AuthService {
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "assignhub.test",
	})
	return NewAuthService(users, tokens, jwtService, zerolog.Nop())
}

func TestRegisterAndLogin(t *testing.T) {
	users := newMemUsers()
	tokens := newMemTokens()
	svc := newTestAuthService(users, tokens)

	user, err := svc.Register(context.Background(), dto.RegisterRequest{
		Email:     "staff@assignhub.app",
		Password:  "hunter2hunter2",
		FirstName: "Pat",
		LastName:  "Staff",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleStaff, user.RoleType)
	assert.True(t, user.IsActive)
	// Stored password is hashed
	assert.NotEqual(t, "hunter2hunter2", users.users[user.ID].Password)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "staff@assignhub.app",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Contains(t, tokens.tokens, resp.RefreshToken)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestAuthService(newMemUsers(), newMemTokens())

	req := dto.RegisterRequest{Email: "staff@assignhub.app", Password: "hunter2hunter2", FirstName: "Pat", LastName: "Staff"}
	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestAuthService(newMemUsers(), newMemTokens())

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Email: "staff@assignhub.app", Password: "hunter2hunter2", FirstName: "Pat", LastName: "Staff",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "staff@assignhub.app", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "nobody@assignhub.app", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLoginDisabledAccount(t *testing.T) {
	users := newMemUsers()
	svc := newTestAuthService(users, newMemTokens())

	user, err := svc.Register(context.Background(), dto.RegisterRequest{
		Email: "staff@assignhub.app", Password: "hunter2hunter2", FirstName: "Pat", LastName: "Staff",
	})
	require.NoError(t, err)
	users.users[user.ID].IsActive = false

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "staff@assignhub.app", Password: "hunter2hunter2"})
	assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)
}

func TestRefreshTokenRotation(t *testing.T) {
	users := newMemUsers()
	tokens := newMemTokens()
	svc := newTestAuthService(users, tokens)

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Email: "staff@assignhub.app", Password: "hunter2hunter2", FirstName: "Pat", LastName: "Staff",
	})
	require.NoError(t, err)

	first, err := svc.Login(context.Background(), dto.LoginRequest{Email: "staff@assignhub.app", Password: "hunter2hunter2"})
	require.NoError(t, err)

	second, err := svc.RefreshToken(context.Background(), first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// The consumed token cannot be used again
	_, err = svc.RefreshToken(context.Background(), first.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestRefreshExpiredToken(t *testing.T) {
	users := newMemUsers()
	tokens := newMemTokens()
	svc := newTestAuthService(users, tokens)

	user, err := svc.Register(context.Background(), dto.RegisterRequest{
		Email: "staff@assignhub.app", Password: "hunter2hunter2", FirstName: "Pat", LastName: "Staff",
	})
	require.NoError(t, err)

	require.NoError(t, tokens.Store(context.Background(), &models.RefreshToken{
		UserID:    user.ID,
		Token:     "stale-token",
		ExpiresAt: time.Now().Add(-time.Minute),
		CreatedAt: time.Now().Add(-25 * time.Hour),
	}))

	_, err = svc.RefreshToken(context.Background(), "stale-token")
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
	assert.NotContains(t, tokens.tokens, "stale-token")
}
