package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/taskdeck/taskdeck/internal/models"
	"github.com/taskdeck/taskdeck/pkg/logger"
)

const defaultCodeDigits = 4

// ErrCodeMismatch reports that no matching code exists for the user. Callers
// collapse this into a generic activation failure so the response does not
// reveal whether the pending identity or the code was wrong.
var ErrCodeMismatch = errors.New("activation code: no matching code")

// CodeSink receives issued codes so an operator can observe them out of band.
// The default sink writes a structured log entry, the moral equivalent of the
// console print used during manual activation.
type CodeSink interface {
	Deliver(ctx context.Context, userID uint, code int)
}

type logSink struct{}

func (logSink) Deliver(_ context.Context, userID uint, code int) {
	logger.WithModule("activation").Info("activation code issued",
		zap.Uint("user_id", userID),
		zap.Int("code", code),
	)
}

// CodeOption customises the ActivationCodeService.
type CodeOption func(*ActivationCodeService)

// WithCodeDigits adjusts the magnitude of generated codes.
func WithCodeDigits(digits int) CodeOption {
	return func(s *ActivationCodeService) {
		if digits > 0 {
			s.digits = digits
		}
	}
}

// WithCodeSink replaces the default log-based delivery hook.
func WithCodeSink(sink CodeSink) CodeOption {
	return func(s *ActivationCodeService) {
		if sink != nil {
			s.sink = sink
		}
	}
}

// ActivationCodeService issues and verifies the single-use numeric codes tied
// to pending account activations.
type ActivationCodeService struct {
	db     *gorm.DB
	digits int
	sink   CodeSink
}

// NewActivationCodeService constructs the service once a database handle is supplied.
func NewActivationCodeService(db *gorm.DB, opts ...CodeOption) (*ActivationCodeService, error) {
	if db == nil {
		return nil, errors.New("activation code service: db is required")
	}

	service := &ActivationCodeService{
		db:     db,
		digits: defaultCodeDigits,
		sink:   logSink{},
	}

	for _, opt := range opts {
		opt(service)
	}

	return service, nil
}

// Issue generates a fresh random code for the user, replacing any outstanding
// one, and hands it to the configured sink. The delete+create pair runs in one
// transaction so a reissue can never leave two live codes behind.
func (s *ActivationCodeService) Issue(ctx context.Context, userID uint) (*models.ActivationCode, error) {
	ctx = ensureContext(ctx)

	record, err := s.issue(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	s.sink.Deliver(ctx, userID, record.Code)

	return record, nil
}

// issue stores a fresh code using the supplied handle so callers can run it
// inside a larger transaction. Delivery is left to the caller.
func (s *ActivationCodeService) issue(ctx context.Context, db *gorm.DB, userID uint) (*models.ActivationCode, error) {
	if userID == 0 {
		return nil, errors.New("activation code service: user id is required")
	}

	code, err := s.randomCode()
	if err != nil {
		return nil, fmt.Errorf("activation code service: generate code: %w", err)
	}

	record := models.ActivationCode{
		UserID: userID,
		Code:   code,
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.ActivationCode{}).Error; err != nil {
			return err
		}
		return tx.Create(&record).Error
	})
	if err != nil {
		return nil, fmt.Errorf("activation code service: store code: %w", err)
	}

	return &record, nil
}

func (s *ActivationCodeService) deliver(ctx context.Context, userID uint, code int) {
	s.sink.Deliver(ctx, userID, code)
}

// Consume verifies the submitted code for the user and deletes it on success.
// A failed attempt leaves the stored code untouched so the caller can retry.
func (s *ActivationCodeService) Consume(ctx context.Context, userID uint, code int) error {
	ctx = ensureContext(ctx)

	var record models.ActivationCode
	err := s.db.WithContext(ctx).First(&record, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCodeMismatch
	}
	if err != nil {
		return fmt.Errorf("activation code service: load code: %w", err)
	}

	if record.Code != code {
		return ErrCodeMismatch
	}

	if err := s.db.WithContext(ctx).Delete(&record).Error; err != nil {
		return fmt.Errorf("activation code service: consume code: %w", err)
	}

	return nil
}

// randomCode draws a uniformly random integer with the configured digit count,
// e.g. 1000..9999 for four digits.
func (s *ActivationCodeService) randomCode() (int, error) {
	min := 1
	for i := 1; i < s.digits; i++ {
		min *= 10
	}
	span := min*10 - min

	n, err := rand.Int(rand.Reader, big.NewInt(int64(span)))
	if err != nil {
		return 0, err
	}
	return min + int(n.Int64()), nil
}
