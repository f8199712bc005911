package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rizqidamar/timely/internal/application"
	"github.com/rizqidamar/timely/internal/domain/domainerr"
	"github.com/rizqidamar/timely/internal/domain/entity"
	"github.com/rizqidamar/timely/internal/infrastructure/security"
)

// fakeRepo is an in-memory UserRepository with call counters.
type fakeRepo struct {
	byEmail     map[string]*entity.User
	createCalls int

	// createErr, when set, is returned by Create regardless of state.
	// Simulates losing the storage-level uniqueness race.
	createErr error

	// getByEmailErr/getByIDErr, when set, simulate storage outages on the
	// read paths.
	getByEmailErr error
	getByIDErr    error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byEmail: map[string]*entity.User{}}
}

func (f *fakeRepo) Create(_ context.Context, u *entity.User) (*entity.User, error) {
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.byEmail[u.Email]; ok {
		return nil, domainerr.New(domainerr.DuplicateEntity, "user with email "+u.Email+" already exists")
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	f.byEmail[u.Email] = u
	return u, nil
}

func (f *fakeRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	if f.getByEmailErr != nil {
		return nil, f.getByEmailErr
	}
	return f.byEmail[email], nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	if f.getByIDErr != nil {
		return nil, f.getByIDErr
	}
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domainerr.New(domainerr.NotFound, "user with id "+id+" not found")
}

func (f *fakeRepo) SetVerified(_ context.Context, id string) error {
	for _, u := range f.byEmail {
		if u.ID == id {
			u.IsVerified = true
			return nil
		}
	}
	return domainerr.New(domainerr.NotFound, "user with id "+id+" not found")
}

// spyAuth counts hashing calls around a real implementation.
type spyAuth struct {
	application.AuthSecurity
	hashCalls int
}

func (s *spyAuth) HashPassword(password string) (string, error) {
	s.hashCalls++
	return s.AuthSecurity.HashPassword(password)
}

func newService(repo *fakeRepo) (*application.Service, *spyAuth) {
	auth := &spyAuth{AuthSecurity: security.New("test-secret", bcrypt.MinCost)}
	svc := application.NewService(repo, auth, nil, nil, nil, nil, application.Options{
		AccessTokenMinutes:  15,
		RefreshTokenMinutes: 60,
	})
	return svc, auth
}

func TestRegister(t *testing.T) {
	repo := newFakeRepo()
	svc, auth := newService(repo)

	u, err := svc.Register(context.Background(), application.RegisterInput{
		Email:    "a@b.com",
		Phone:    "123",
		Password: "secret123",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "a@b.com", u.Email)
	assert.Equal(t, "123", u.Phone)
	assert.Empty(t, u.FirstName)
	assert.Empty(t, u.LastName)
	assert.False(t, u.CreatedAt.IsZero(), "timestamps come from the persistence boundary")
	assert.NotEqual(t, "secret123", u.PasswordHash)
	assert.True(t, auth.VerifyPassword("secret123", u.PasswordHash))
	assert.Equal(t, 1, repo.createCalls)
}

func TestRegisterDuplicateShortCircuits(t *testing.T) {
	repo := newFakeRepo()
	svc, auth := newService(repo)

	_, err := svc.Register(context.Background(), application.RegisterInput{
		Email: "a@b.com", Phone: "123", Password: "secret123",
	})
	require.NoError(t, err)

	hashCallsBefore := auth.hashCalls
	createCallsBefore := repo.createCalls

	_, err = svc.Register(context.Background(), application.RegisterInput{
		Email: "a@b.com", Phone: "456", Password: "other-password",
	})
	require.Error(t, err)
	assert.True(t, domainerr.Is(err, domainerr.DuplicateEntity))

	// The pre-check aborts before any hashing or persistence work.
	assert.Equal(t, hashCallsBefore, auth.hashCalls)
	assert.Equal(t, createCallsBefore, repo.createCalls)
}

func TestRegisterStorageRaceSurfacesDuplicate(t *testing.T) {
	// Both writers pass the advisory pre-check; the loser gets the storage
	// constraint violation, which must surface as the same DuplicateEntity.
	repo := newFakeRepo()
	repo.createErr = domainerr.New(domainerr.DuplicateEntity, "user with email a@b.com already exists")
	svc, _ := newService(repo)

	_, err := svc.Register(context.Background(), application.RegisterInput{
		Email: "a@b.com", Phone: "123", Password: "secret123",
	})
	require.Error(t, err)
	assert.True(t, domainerr.Is(err, domainerr.DuplicateEntity))
}

func TestLogin(t *testing.T) {
	repo := newFakeRepo()
	svc, auth := newService(repo)

	_, err := svc.Register(context.Background(), application.RegisterInput{
		Email: "a@b.com", Phone: "123", Password: "secret123",
	})
	require.NoError(t, err)

	u, pair, err := svc.Login(context.Background(), "a@b.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", u.Email)
	assert.True(t, auth.VerifyToken(pair.AccessToken, application.TokenAccess))
	assert.True(t, auth.VerifyToken(pair.RefreshToken, application.TokenRefresh))
	assert.True(t, pair.AccessTokenExpiry.Before(pair.RefreshTokenExpiry))
}

func TestLoginUniformDenial(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newService(repo)

	_, err := svc.Register(context.Background(), application.RegisterInput{
		Email: "a@b.com", Phone: "123", Password: "secret123",
	})
	require.NoError(t, err)

	_, _, errWrongPwd := svc.Login(context.Background(), "a@b.com", "wrong")
	_, _, errNoUser := svc.Login(context.Background(), "nobody@b.com", "secret123")

	assert.True(t, domainerr.Is(errWrongPwd, domainerr.InvalidCredentials))
	assert.True(t, domainerr.Is(errNoUser, domainerr.InvalidCredentials))
	// Same message either way; callers cannot distinguish the reason.
	assert.Equal(t, errWrongPwd.Error(), errNoUser.Error())
}

func TestLoginStorageOutagePropagates(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newService(repo)

	errDB := errors.New("connection refused")
	repo.getByEmailErr = errDB

	// A storage outage is not a credential rejection.
	_, _, err := svc.Login(context.Background(), "a@b.com", "secret123")
	require.Error(t, err)
	assert.ErrorIs(t, err, errDB)
	assert.False(t, domainerr.Is(err, domainerr.InvalidCredentials))
}

func TestRefresh(t *testing.T) {
	repo := newFakeRepo()
	svc, auth := newService(repo)

	_, err := svc.Register(context.Background(), application.RegisterInput{
		Email: "a@b.com", Phone: "123", Password: "secret123",
	})
	require.NoError(t, err)
	_, pair, err := svc.Login(context.Background(), "a@b.com", "secret123")
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.True(t, auth.VerifyToken(refreshed.AccessToken, application.TokenAccess))
	assert.Equal(t, pair.RefreshToken, refreshed.RefreshToken, "no rotation")

	// An access token cannot be used where a refresh token is expected.
	_, err = svc.Refresh(context.Background(), pair.AccessToken)
	assert.True(t, domainerr.Is(err, domainerr.InvalidCredentials))

	_, err = svc.Refresh(context.Background(), "garbage")
	assert.True(t, domainerr.Is(err, domainerr.InvalidCredentials))
}

func TestRefreshStorageOutagePropagates(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newService(repo)

	_, err := svc.Register(context.Background(), application.RegisterInput{
		Email: "a@b.com", Phone: "123", Password: "secret123",
	})
	require.NoError(t, err)
	_, pair, err := svc.Login(context.Background(), "a@b.com", "secret123")
	require.NoError(t, err)

	errDB := errors.New("connection refused")
	repo.getByIDErr = errDB

	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	require.Error(t, err)
	assert.ErrorIs(t, err, errDB)
	assert.False(t, domainerr.Is(err, domainerr.InvalidCredentials))
}

func TestRefreshSubjectGone(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newService(repo)

	_, err := svc.Register(context.Background(), application.RegisterInput{
		Email: "a@b.com", Phone: "123", Password: "secret123",
	})
	require.NoError(t, err)
	_, pair, err := svc.Login(context.Background(), "a@b.com", "secret123")
	require.NoError(t, err)

	// Subject deleted after the token was issued.
	delete(repo.byEmail, "a@b.com")

	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	assert.True(t, domainerr.Is(err, domainerr.InvalidCredentials))
}

func TestConfirmEmailWithoutStore(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newService(repo)

	err := svc.ConfirmEmail(context.Background(), "some-token")
	assert.True(t, domainerr.Is(err, domainerr.ValidationError))
}
