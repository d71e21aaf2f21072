package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/taskdeck/taskdeck/internal/database/testutil"
	"github.com/taskdeck/taskdeck/internal/models"
)

type capturedCode struct {
	userID uint
	code   int
}

type captureSink struct {
	delivered []capturedCode
}

func (s *captureSink) Deliver(_ context.Context, userID uint, code int) {
	s.delivered = append(s.delivered, capturedCode{userID: userID, code: code})
}

func seedUser(t *testing.T, db *gorm.DB, username string) uint {
	t.Helper()

	user := &models.User{Username: username, Password: "x"}
	require.NoError(t, db.Create(user).Error)
	return user.ID
}

func newCodeFixture(t *testing.T) (*gorm.DB, *ActivationCodeService, *captureSink, uint) {
	t.Helper()

	db := testutil.MustOpenTestDB(t)
	sink := &captureSink{}
	svc, err := NewActivationCodeService(db, WithCodeSink(sink))
	require.NoError(t, err)
	return db, svc, sink, seedUser(t, db, "pending")
}

func TestIssueGeneratesFourDigitCode(t *testing.T) {
	_, svc, sink, userID := newCodeFixture(t)
	ctx := context.Background()

	record, err := svc.Issue(ctx, userID)
	require.NoError(t, err)
	require.GreaterOrEqual(t, record.Code, 1000)
	require.LessOrEqual(t, record.Code, 9999)

	require.Len(t, sink.delivered, 1)
	require.Equal(t, userID, sink.delivered[0].userID)
	require.Equal(t, record.Code, sink.delivered[0].code)
}

func TestIssueReplacesOutstandingCode(t *testing.T) {
	db, svc, _, userID := newCodeFixture(t)
	ctx := context.Background()

	_, err := svc.Issue(ctx, userID)
	require.NoError(t, err)
	second, err := svc.Issue(ctx, userID)
	require.NoError(t, err)

	var records []models.ActivationCode
	require.NoError(t, db.Where("user_id = ?", userID).Find(&records).Error)
	require.Len(t, records, 1)
	require.Equal(t, second.Code, records[0].Code)
}

func TestConsumeDeletesCodeOnSuccess(t *testing.T) {
	db, svc, _, userID := newCodeFixture(t)
	ctx := context.Background()

	record, err := svc.Issue(ctx, userID)
	require.NoError(t, err)

	require.NoError(t, svc.Consume(ctx, userID, record.Code))

	var count int64
	require.NoError(t, db.Model(&models.ActivationCode{}).Where("user_id = ?", userID).Count(&count).Error)
	require.Zero(t, count)

	// A consumed code cannot be replayed.
	require.ErrorIs(t, svc.Consume(ctx, userID, record.Code), ErrCodeMismatch)
}

func TestConsumeKeepsCodeOnFailure(t *testing.T) {
	_, svc, _, userID := newCodeFixture(t)
	ctx := context.Background()

	record, err := svc.Issue(ctx, userID)
	require.NoError(t, err)

	wrong := record.Code + 1
	require.ErrorIs(t, svc.Consume(ctx, userID, wrong), ErrCodeMismatch)

	// Failed attempts are retryable.
	require.NoError(t, svc.Consume(ctx, userID, record.Code))
}

func TestConsumeUnknownUser(t *testing.T) {
	_, svc, _, _ := newCodeFixture(t)
	require.ErrorIs(t, svc.Consume(context.Background(), 99, 1234), ErrCodeMismatch)
}

func TestConfigurableCodeDigits(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	svc, err := NewActivationCodeService(db, WithCodeDigits(6), WithCodeSink(&captureSink{}))
	require.NoError(t, err)

	record, err := svc.Issue(context.Background(), seedUser(t, db, "pending"))
	require.NoError(t, err)
	require.GreaterOrEqual(t, record.Code, 100000)
	require.LessOrEqual(t, record.Code, 999999)
}
