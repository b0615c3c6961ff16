package services

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/folio/internal/errors"
	"github.com/vytor/folio/internal/models"
	"github.com/vytor/folio/internal/repository/sqlite"
	"github.com/vytor/folio/internal/testutil"
	"github.com/vytor/folio/internal/testutil/mocks"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthService(users *mocks.MockUserRepository, sessions *mocks.MockSessionRepository) *authService {
	svc := NewAuthService(users, sessions, time.Hour).(*authService)
	svc.bcryptCost = bcrypt.MinCost
	svc.now = fixedClock
	return svc
}

func TestAuthService_RegisterValidation(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(new(mocks.MockUserRepository), new(mocks.MockSessionRepository))

	_, err := svc.Register(ctx, "  ", "longenough")
	assert.Equal(t, errors.ErrCodeValidation, errors.As(err).Code)

	_, err = svc.Register(ctx, "ana", "short")
	assert.Equal(t, errors.ErrCodeValidation, errors.As(err).Code)
}

func TestAuthService_RegisterConflict(t *testing.T) {
	ctx := context.Background()
	users := new(mocks.MockUserRepository)
	users.On("GetByUsername", ctx, "ana").Return(&models.User{ID: "u1", Username: "ana"}, nil)

	_, err := newTestAuthService(users, new(mocks.MockSessionRepository)).Register(ctx, "ana", "password123")
	assert.Equal(t, errors.ErrCodeConflict, errors.As(err).Code)
	users.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestAuthService_AuthenticateRejectsExpiredSession(t *testing.T) {
	ctx := context.Background()
	sessions := new(mocks.MockSessionRepository)
	sessions.On("Get", ctx, "tok").Return(&models.Session{Token: "tok", UserID: "u1", ExpiresAt: fixedNow}, nil)
	sessions.On("Delete", ctx, "tok").Return(nil)

	_, err := newTestAuthService(new(mocks.MockUserRepository), sessions).Authenticate(ctx, "tok")
	assert.Equal(t, errors.ErrCodeUnauthorized, errors.As(err).Code)
	sessions.AssertExpectations(t)
}

func TestAuthService_AuthenticateUnknownToken(t *testing.T) {
	ctx := context.Background()
	sessions := new(mocks.MockSessionRepository)
	sessions.On("Get", ctx, "nope").Return(nil, nil)
	svc := newTestAuthService(new(mocks.MockUserRepository), sessions)

	_, err := svc.Authenticate(ctx, "nope")
	assert.Equal(t, errors.ErrCodeUnauthorized, errors.As(err).Code)

	_, err = svc.Authenticate(ctx, "")
	assert.Equal(t, errors.ErrCodeUnauthorized, errors.As(err).Code)
}

func TestAuthService_CleanupExpiredSessions(t *testing.T) {
	ctx := context.Background()
	sessions := new(mocks.MockSessionRepository)
	sessions.On("DeleteExpired", ctx, fixedNow).Return(int64(3), nil).Once()
	sessions.On("DeleteExpired", ctx, fixedNow).Return(int64(0), stderrors.New("locked")).Once()
	svc := newTestAuthService(new(mocks.MockUserRepository), sessions)

	n, err := svc.CleanupExpiredSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	_, err = svc.CleanupExpiredSessions(ctx)
	assert.Equal(t, errors.ErrCodeInternal, errors.As(err).Code)
}

func TestAuthService_RoundTrip(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	defer testutil.MustClose(t, db)

	svc := NewAuthService(sqlite.NewUserRepository(db), sqlite.NewSessionRepository(db), time.Hour).(*authService)
	svc.bcryptCost = bcrypt.MinCost

	user, err := svc.Register(ctx, "Marta", "correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", user.PasswordHash)

	_, err = svc.Register(ctx, "marta", "another one")
	assert.Equal(t, errors.ErrCodeConflict, errors.As(err).Code, "usernames are case-insensitive")

	_, err = svc.Login(ctx, "Marta", "wrong password")
	assert.Equal(t, errors.ErrCodeUnauthorized, errors.As(err).Code)

	session, err := svc.Login(ctx, "Marta", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, session.UserID)

	me, err := svc.Authenticate(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, "Marta", me.Username)

	require.NoError(t, svc.Logout(ctx, session.Token))
	_, err = svc.Authenticate(ctx, session.Token)
	assert.Equal(t, errors.ErrCodeUnauthorized, errors.As(err).Code)
}
