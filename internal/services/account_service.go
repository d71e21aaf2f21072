package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/taskdeck/taskdeck/internal/auth"
	"github.com/taskdeck/taskdeck/internal/models"
	"github.com/taskdeck/taskdeck/pkg/crypto"
	apperrors "github.com/taskdeck/taskdeck/pkg/errors"
)

// AccountService orchestrates the register → activate → login lifecycle
// against the user store. State machine per user:
// Unregistered → PendingActivation → Active.
type AccountService struct {
	db    *gorm.DB
	jwt   *auth.JWTService
	codes *ActivationCodeService
}

// NewAccountService constructs an AccountService instance.
func NewAccountService(db *gorm.DB, jwt *auth.JWTService, codes *ActivationCodeService) (*AccountService, error) {
	if db == nil {
		return nil, errors.New("account service: db is required")
	}
	if jwt == nil {
		return nil, errors.New("account service: jwt service is required")
	}
	if codes == nil {
		return nil, errors.New("account service: activation code service is required")
	}
	return &AccountService{db: db, jwt: jwt, codes: codes}, nil
}

// RegisterInput describes the fields accepted when registering an account.
type RegisterInput struct {
	Username string
	Password string
}

// Register provisions a disabled account with a hashed password and issues a
// one-time activation code for it, both in one transaction so a stored user
// always has a code to activate with. Username uniqueness is backed by the
// store level unique index, so concurrent registrations cannot both succeed.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	ctx = ensureContext(ctx)

	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, apperrors.NewValidation("username is required")
	}
	if strings.TrimSpace(input.Password) == "" {
		return nil, apperrors.NewValidation("password is required")
	}

	hashed, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("account service: hash password: %w", err)
	}

	user := &models.User{
		Username: username,
		Password: hashed,
		IsActive: false,
	}

	var issued *models.ActivationCode
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		record, err := s.codes.issue(ctx, tx, user.ID)
		if err != nil {
			return err
		}
		issued = record
		return nil
	})
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.ErrUsernameTaken
		}
		return nil, apperrors.Wrap(err, "could not create user")
	}

	// Delivery happens after commit so an aborted registration leaks nothing.
	s.codes.deliver(ctx, user.ID, issued.Code)

	return user, nil
}

// Activate flips the account to active when the submitted code matches the one
// issued at registration. A missing pending identity and a wrong code produce
// the same failure kind, and a failed attempt never consumes the code.
func (s *AccountService) Activate(ctx context.Context, userID uint, code int) (*models.User, error) {
	ctx = ensureContext(ctx)

	if userID == 0 {
		return nil, apperrors.ErrActivationFailed
	}

	if err := s.codes.Consume(ctx, userID, code); err != nil {
		if errors.Is(err, ErrCodeMismatch) {
			return nil, apperrors.ErrActivationFailed
		}
		return nil, apperrors.Wrap(err, "could not verify activation code")
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrActivationFailed
		}
		return nil, apperrors.Wrap(err, "could not load user")
	}

	if err := s.db.WithContext(ctx).Model(&user).Update("is_active", true).Error; err != nil {
		return nil, apperrors.Wrap(err, "could not activate user")
	}

	user.IsActive = true
	return &user, nil
}

// Login exchanges valid credentials for a freshly issued access token. Unknown
// usernames and wrong passwords collapse into one failure kind; an inactive
// account with correct credentials is reported distinctly.
func (s *AccountService) Login(ctx context.Context, username, password string) (string, error) {
	ctx = ensureContext(ctx)

	username = strings.TrimSpace(username)

	var user models.User
	err := s.db.WithContext(ctx).First(&user, "username = ?", username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", apperrors.ErrAuthFailed
	}
	if err != nil {
		return "", apperrors.Wrap(err, "could not load user")
	}

	ok, err := crypto.VerifyPassword(user.Password, password)
	if err != nil {
		return "", apperrors.Wrap(err, "stored credentials are unusable")
	}
	if !ok {
		return "", apperrors.ErrAuthFailed
	}

	if !user.IsActive {
		return "", apperrors.ErrAccountNotActive
	}

	token, err := s.jwt.GenerateAccessToken(user.ID)
	if err != nil {
		return "", fmt.Errorf("account service: issue token: %w", err)
	}

	return token, nil
}

// GetByID loads a user by identifier. The auth middleware calls this on every
// authenticated request so a deleted user cannot keep using a live token.
func (s *AccountService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	ctx = ensureContext(ctx)

	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "could not load user")
	}
	return &user, nil
}
