package service_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"meeting-service/internal/auth"
	"meeting-service/internal/model"
	"meeting-service/internal/service"
)

type fakeUserRepo struct {
	byUsername map[string]*model.User
	byEmail    map[string]*model.User
	byID       map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byUsername: map[string]*model.User{},
		byEmail:    map[string]*model.User{},
		byID:       map[uuid.UUID]*model.User{},
	}
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) (uuid.UUID, error) {
	if r.byUsername[user.Username] != nil {
		return uuid.Nil, uniqueViolation("users_username_key")
	}
	if r.byEmail[user.Email] != nil {
		return uuid.Nil, uniqueViolation("users_email_key")
	}
	u := *user
	u.ID = uuid.New()
	r.byUsername[u.Username] = &u
	r.byEmail[u.Email] = &u
	r.byID[u.ID] = &u
	return u.ID, nil
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	u := r.byUsername[username]
	if u == nil {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u := r.byID[id]
	if u == nil {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

func newAuthService(repo *fakeUserRepo) service.AuthService {
	return service.NewAuthService(repo, auth.NewTokenManager("test-secret", time.Hour))
}

func TestAuthService_Register_HashesPasswordAndNormalizesEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo)

	user, err := svc.Register(context.Background(), "alice", "  Alice@Example.COM ", "password123")
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", user.Email)
	require.NotEqual(t, "password123", user.PasswordHash)
	require.False(t, user.IsAdmin)
}

func TestAuthService_Register_Duplicates(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo)

	_, err := svc.Register(context.Background(), "alice", "alice@example.com", "password123")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "alice", "other@example.com", "password123")
	require.ErrorIs(t, err, service.ErrDuplicateUsername)

	_, err = svc.Register(context.Background(), "alice2", "alice@example.com", "password123")
	require.ErrorIs(t, err, service.ErrDuplicateEmail)

	require.Len(t, repo.byID, 1)
}

func TestAuthService_Login(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo)

	_, err := svc.Register(context.Background(), "alice", "alice@example.com", "password123")
	require.NoError(t, err)

	token, user, err := svc.Login(context.Background(), "alice", "password123")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, "alice", user.Username)
}

func TestAuthService_Login_SameErrorForBothFailureModes(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo)

	_, err := svc.Register(context.Background(), "alice", "alice@example.com", "password123")
	require.NoError(t, err)

	_, _, wrongPassword := svc.Login(context.Background(), "alice", "nope")
	_, _, unknownUser := svc.Login(context.Background(), "nobody", "password123")

	require.ErrorIs(t, wrongPassword, service.ErrInvalidCredentials)
	require.ErrorIs(t, unknownUser, service.ErrInvalidCredentials)
	require.Equal(t, wrongPassword, unknownUser)
}
