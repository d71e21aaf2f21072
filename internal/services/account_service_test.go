package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/taskdeck/taskdeck/internal/auth"
	"github.com/taskdeck/taskdeck/internal/database/testutil"
	"github.com/taskdeck/taskdeck/internal/models"
	apperrors "github.com/taskdeck/taskdeck/pkg/errors"
)

func newAccountFixture(t *testing.T) (*gorm.DB, *AccountService, *captureSink, *auth.JWTService) {
	t.Helper()

	db := testutil.MustOpenTestDB(t)

	jwt, err := auth.NewJWTService(auth.JWTConfig{Secret: "test-secret", Issuer: "taskdeck"})
	require.NoError(t, err)

	sink := &captureSink{}
	codes, err := NewActivationCodeService(db, WithCodeSink(sink))
	require.NoError(t, err)

	svc, err := NewAccountService(db, jwt, codes)
	require.NoError(t, err)

	return db, svc, sink, jwt
}

func TestRegisterCreatesDisabledUserWithCode(t *testing.T) {
	db, svc, sink, _ := newAccountFixture(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Username: "alice", Password: "pw1"})
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	require.Equal(t, "alice", user.Username)
	require.False(t, user.IsActive)
	require.NotEqual(t, "pw1", user.Password)

	require.Len(t, sink.delivered, 1)
	require.Equal(t, user.ID, sink.delivered[0].userID)

	var code models.ActivationCode
	require.NoError(t, db.First(&code, "user_id = ?", user.ID).Error)
	require.Equal(t, sink.delivered[0].code, code.Code)
}

func TestRegisterValidatesInput(t *testing.T) {
	_, svc, _, _ := newAccountFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "", Password: "pw"})
	require.Error(t, err)

	_, err = svc.Register(ctx, RegisterInput{Username: "bob", Password: "   "})
	require.Error(t, err)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	_, svc, _, _ := newAccountFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "alice", Password: "pw1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Username: "alice", Password: "completely-different"})
	require.ErrorIs(t, err, apperrors.ErrUsernameTaken)
}

func TestActivateHappyPath(t *testing.T) {
	db, svc, sink, _ := newAccountFixture(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Username: "alice", Password: "pw1"})
	require.NoError(t, err)

	activated, err := svc.Activate(ctx, user.ID, sink.delivered[0].code)
	require.NoError(t, err)
	require.True(t, activated.IsActive)

	// Code is consumed on success.
	var count int64
	require.NoError(t, db.Model(&models.ActivationCode{}).Where("user_id = ?", user.ID).Count(&count).Error)
	require.Zero(t, count)
}

func TestActivateFailuresAreIndistinguishable(t *testing.T) {
	_, svc, sink, _ := newAccountFixture(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Username: "alice", Password: "pw1"})
	require.NoError(t, err)

	// Wrong code.
	_, err = svc.Activate(ctx, user.ID, sink.delivered[0].code+1)
	require.ErrorIs(t, err, apperrors.ErrActivationFailed)

	// Unknown pending identity yields the same kind.
	_, err = svc.Activate(ctx, user.ID+100, sink.delivered[0].code)
	require.ErrorIs(t, err, apperrors.ErrActivationFailed)

	// Absent identity too.
	_, err = svc.Activate(ctx, 0, sink.delivered[0].code)
	require.ErrorIs(t, err, apperrors.ErrActivationFailed)

	// Failed attempts did not consume the code.
	_, err = svc.Activate(ctx, user.ID, sink.delivered[0].code)
	require.NoError(t, err)
}

func TestLoginBeforeActivation(t *testing.T) {
	_, svc, _, _ := newAccountFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "alice", Password: "pw1"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "alice", "pw1")
	require.ErrorIs(t, err, apperrors.ErrAccountNotActive)
}

func TestLoginCollapsesCredentialFailures(t *testing.T) {
	_, svc, sink, _ := newAccountFixture(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Username: "alice", Password: "pw1"})
	require.NoError(t, err)
	_, err = svc.Activate(ctx, user.ID, sink.delivered[0].code)
	require.NoError(t, err)

	_, err = svc.Login(ctx, "alice", "wrong")
	require.ErrorIs(t, err, apperrors.ErrAuthFailed)

	_, err = svc.Login(ctx, "nobody", "pw1")
	require.ErrorIs(t, err, apperrors.ErrAuthFailed)
}

func TestLoginIssuesResolvableToken(t *testing.T) {
	_, svc, sink, jwt := newAccountFixture(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Username: "alice", Password: "pw1"})
	require.NoError(t, err)
	_, err = svc.Activate(ctx, user.ID, sink.delivered[0].code)
	require.NoError(t, err)

	token, err := svc.Login(ctx, "alice", "pw1")
	require.NoError(t, err)

	claims, err := jwt.ValidateAccessToken(token)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)
	require.WithinDuration(t, claims.IssuedAt.Time.Add(5*time.Minute), claims.ExpiresAt.Time, time.Second)
}

func TestGetByID(t *testing.T) {
	_, svc, _, _ := newAccountFixture(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Username: "alice", Password: "pw1"})
	require.NoError(t, err)

	loaded, err := svc.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, user.Username, loaded.Username)

	_, err = svc.GetByID(ctx, user.ID+99)
	require.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
